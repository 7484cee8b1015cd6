package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteConvergence renders the per-iteration best cost as an HTML line chart.
func WriteConvergence(w io.Writer, history []float64) error {
	if len(history) == 0 {
		return fmt.Errorf("empty convergence history")
	}

	x := make([]string, len(history))
	data := make([]opts.LineData, len(history))
	for i, c := range history {
		x[i] = strconv.Itoa(i + 1)
		if math.IsInf(c, 0) || math.IsNaN(c) {
			data[i] = opts.LineData{Value: "-"}
			continue
		}
		data[i] = opts.LineData{Value: c}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "PSO Convergence", Width: "900px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: "PSO Convergence", Subtitle: fmt.Sprintf("iterations=%d best=%.4f", len(history), history[len(history)-1])}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Iteration", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Best Cost", NameLocation: "middle", NameGap: 50}),
	)
	line.SetXAxis(x).AddSeries("best cost", data)

	return line.Render(w)
}
