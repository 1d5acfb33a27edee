package timefit

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kmaguire4/go-timefit/timevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStates(t *testing.T) {
	f := fitSmallModel(t)

	stepRes, err := f.Predict(f.TimeIndex().Values())
	require.NoError(t, err)

	line := LineStates(f.TimeIndex(), stepRes, f.observedMeans())
	require.NotNil(t, line)
	assert.Len(t, line.MultiSeries, 4)
}

func TestLineResiduals(t *testing.T) {
	f := fitSmallModel(t)

	line := LineResiduals(f.TrainingData(), f.Residuals())
	require.NotNil(t, line)
	assert.Len(t, line.MultiSeries, 1)
}

func TestPlotFit(t *testing.T) {
	f := fitSmallModel(t)

	path := filepath.Join(t.TempDir(), "fit.html")
	require.NoError(t, f.PlotFit(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotFitNotFitted(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.PlotFit(filepath.Join(t.TempDir(), "fit.html")), ErrNotFitted)
}

func TestObservedMeans(t *testing.T) {
	tvals := []timevalue.Value{
		timevalue.Num(1), timevalue.Num(1), timevalue.Num(3),
	}
	y := []float64{1, 3, 5}

	opt := NewDefaultOptions()
	opt.ExtraTimes = []timevalue.Value{timevalue.Num(2)}
	f, err := New(opt)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tvals, y))

	means := f.observedMeans()
	require.Len(t, means, 3)
	assert.Equal(t, 2.0, means[0])
	assert.True(t, math.IsNaN(means[1]), "extra step mean should be NaN")
	assert.Equal(t, 5.0, means[2])
}
