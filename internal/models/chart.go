package models

// Point is one day of a time series.
type Point struct {
	Date  ChartDate `json:"date"`
	Value float64   `json:"value"`
}

// Series is a named trace of the time chart.
type Series struct {
	Name  string  `json:"name"`
	Color string  `json:"color,omitempty"`
	Data  []Point `json:"data"`
}

// CategorySeries holds one value per category name, in the same order.
type CategorySeries struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Values []float64 `json:"values"`
}

// CharacterChartData is the input of the per-character bar chart.
type CharacterChartData struct {
	Names  []string         `json:"names"`
	Series []CategorySeries `json:"series"`
}
