package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

const (
	chartWidth     = "100%"
	chartHeight    = "600px"
	lineWidth      = 2
	defaultTitle   = "Persistence landscape"
	axisTypeValue  = "value"
	tooltipTrigger = "axis"
)

// writeHTML renders every level as a line series over a numeric x-axis.
func writeHTML(w io.Writer, levels []landscape.Level, title string) error {
	if title == "" {
		title = defaultTitle
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d levels", len(levels))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: tooltipTrigger}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "8%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x", Type: axisTypeValue}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value", Type: axisTypeValue}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)

	for i, level := range levels {
		data := make([]opts.LineData, len(level))
		for j, p := range level {
			data[j] = opts.LineData{Value: []float32{p.X, p.Y}}
		}

		line.AddSeries(fmt.Sprintf("level %d", i), data,
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
