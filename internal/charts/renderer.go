package charts

import (
	"fmt"
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	TimeChartID      = "container"
	CharacterChartID = "container2"

	chartWidth  = "100%"
	chartHeight = "420px"
)

// NewTimeChart draws total mining per ore and day. Days missing in a series
// stay gaps.
func NewTimeChart(model TimeChartModel) *echarts.Line {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Total Mining",
			ChartID:   TimeChartID,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		echarts.WithTitleOpts(opts.Title{
			Title: "Total Mining",
		}),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "30",
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Name:         "Date",
			NameLocation: "center",
			NameGap:      30,
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name:         "Quantity mined",
			NameLocation: "center",
			NameGap:      60,
			Min:          0,
		}),
		echarts.WithGridOpts(opts.Grid{
			Left:   "80",
			Top:    "80",
			Bottom: "60",
		}),
	)

	line.SetXAxis(model.Labels)
	for _, s := range model.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			if v == nil {
				data[i] = opts.LineData{Value: nil}
				continue
			}
			data[i] = opts.LineData{Value: *v}
		}
		line.AddSeries(s.Name, data,
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			echarts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		)
	}
	return line
}

// NewCharacterChart draws horizontal bars of m3 per ore for every character.
func NewCharacterChart(model CategoryChartModel) *echarts.Bar {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Ore Volumes Mined By Character",
			ChartID:   CharacterChartID,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		echarts.WithTitleOpts(opts.Title{
			Title: "Ore Volumes Mined By Character",
		}),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{a}<br/>{b}: {c} m3",
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "horizontal",
			Top:    "top",
			Right:  "10",
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Type:         "value",
			Name:         "Volume (m3)",
			NameLocation: "center",
			NameGap:      30,
			Min:          0,
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Type: "category",
		}),
		echarts.WithGridOpts(opts.Grid{
			Left:   "140",
			Top:    "80",
			Bottom: "60",
		}),
	)

	bar.SetXAxis(model.Categories)
	for _, s := range model.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Name: model.Categories[i], Value: v}
		}
		bar.AddSeries(s.Name, data,
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			echarts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "right",
			}),
		)
	}
	bar.XYReversal()
	return bar
}

// RenderTimeChart validates the input and writes the time chart as an HTML page.
func RenderTimeChart(w io.Writer, in *Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := NewTimeChart(BuildTimeChart(in.TimeSeries)).Render(w); err != nil {
		return fmt.Errorf("render time chart: %w", err)
	}
	return nil
}

// RenderCharacterChart validates the input and writes the category chart as an HTML page.
func RenderCharacterChart(w io.Writer, in *Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := NewCharacterChart(BuildCategoryChart(in.CharacterNames, in.CharacterSeries)).Render(w); err != nil {
		return fmt.Errorf("render character chart: %w", err)
	}
	return nil
}

// RenderPage writes both charts on one page.
func RenderPage(w io.Writer, in *Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	page := components.NewPage()
	page.PageTitle = "Mining Dashboard"
	page.AddCharts(
		NewTimeChart(BuildTimeChart(in.TimeSeries)),
		NewCharacterChart(BuildCategoryChart(in.CharacterNames, in.CharacterSeries)),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
