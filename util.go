package timefit

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/kmaguire4/go-timefit/timedataset"
	"github.com/kmaguire4/go-timefit/timeindex"
)

// LineStates generates an echart line chart of the fitted latent process
// across every step of the index table. stepRes must hold one prediction
// per table index and obsMean one per-step observed mean, NaN where a step
// has no observations so extra steps show only the process estimate.
func LineStates(table *timeindex.Table, stepRes *Results, obsMean []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Latent Temporal Process",
			},
		),
	)

	x := make([]string, 0, table.Len())
	estData := make([]opts.LineData, 0, table.Len())
	upperData := make([]opts.LineData, 0, table.Len())
	lowerData := make([]opts.LineData, 0, table.Len())
	obsData := make([]opts.LineData, 0, table.Len())

	for i := 0; i < table.Len(); i++ {
		x = append(x, table.At(i).Value.String())
		estData = append(estData, opts.LineData{Value: stepRes.Estimate[i]})
		upperData = append(upperData, opts.LineData{Value: stepRes.Upper[i]})
		lowerData = append(lowerData, opts.LineData{Value: stepRes.Lower[i]})
		if math.IsNaN(obsMean[i]) {
			obsData = append(obsData, opts.LineData{Value: nil})
			continue
		}
		obsData = append(obsData, opts.LineData{Value: obsMean[i]})
	}

	line.SetXAxis(x).
		AddSeries("Observed Mean", obsData).
		AddSeries("State", estData).
		AddSeries("Upper", upperData).
		AddSeries("Lower", lowerData)
	return line
}

// LineResiduals generates an echart line chart of the training residuals.
// Rows removed by the outlier pass hold NaN and render as gaps.
func LineResiduals(trainingData *timedataset.Dataset, residual []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Fit Residual",
			},
		),
	)

	x := make([]string, 0, len(trainingData.T))
	resData := make([]opts.LineData, 0, len(residual))
	for i := 0; i < len(residual); i++ {
		x = append(x, trainingData.T[i].String())
		if math.IsNaN(residual[i]) {
			resData = append(resData, opts.LineData{Value: nil})
			continue
		}
		resData = append(resData, opts.LineData{Value: residual[i]})
	}

	line.SetXAxis(x).AddSeries("Residual", resData)
	return line
}
