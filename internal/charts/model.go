package charts

import (
	"minedash/internal/models"
	"sort"
	"time"
)

// TimeChartModel is the time chart laid out on a category axis of dates.
type TimeChartModel struct {
	Labels []string
	Series []LineSeries
}

// LineSeries has one value per label. Nil marks a day without data.
type LineSeries struct {
	Name   string
	Color  string
	Values []*float64
}

// CategoryChartModel is the per-character bar chart.
type CategoryChartModel struct {
	Categories []string
	Series     []BarSeries
}

type BarSeries struct {
	Name   string
	Color  string
	Values []float64
}

// BuildTimeChart puts the distinct dates of all series in ascending order
// and aligns every series on them.
func BuildTimeChart(series []models.Series) TimeChartModel {
	index := make(map[time.Time]int)
	var dates []time.Time
	for _, s := range series {
		for _, p := range s.Data {
			if _, ok := index[p.Date.Time]; !ok {
				index[p.Date.Time] = 0
				dates = append(dates, p.Date.Time)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	model := TimeChartModel{
		Labels: make([]string, len(dates)),
		Series: make([]LineSeries, 0, len(series)),
	}
	for i, d := range dates {
		index[d] = i
		model.Labels[i] = models.NewChartDate(d).Label()
	}

	for _, s := range series {
		values := make([]*float64, len(dates))
		for _, p := range s.Data {
			v := p.Value
			values[index[p.Date.Time]] = &v
		}
		model.Series = append(model.Series, LineSeries{Name: s.Name, Color: colorOf(s.Name, s.Color), Values: values})
	}
	return model
}

func BuildCategoryChart(names []string, series []models.CategorySeries) CategoryChartModel {
	model := CategoryChartModel{
		Categories: append([]string{}, names...),
		Series:     make([]BarSeries, 0, len(series)),
	}
	for _, s := range series {
		model.Series = append(model.Series, BarSeries{
			Name:   s.Name,
			Color:  colorOf(s.Name, s.Color),
			Values: append([]float64{}, s.Values...),
		})
	}
	return model
}

func colorOf(name, color string) string {
	if color != "" {
		return color
	}
	return models.OreColor(name)
}
