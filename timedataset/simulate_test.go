package timedataset

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/kmaguire4/go-timefit/timevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDays(t *testing.T) {
	days := CalendarDays(3)
	assert.Equal(t, []timevalue.Value{timevalue.Num(0), timevalue.Num(1), timevalue.Num(2)}, days)
}

func TestBusinessDays(t *testing.T) {
	// Monday 2024-01-08 through Sunday 2024-01-14
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	days := BusinessDays(start, 7, nil)

	// weekend offsets 5 and 6 dropped
	expected := []timevalue.Value{
		timevalue.Num(0), timevalue.Num(1), timevalue.Num(2), timevalue.Num(3), timevalue.Num(4),
	}
	assert.Equal(t, expected, days)
}

func TestBusinessDaysSkipsHolidays(t *testing.T) {
	// window containing 2024-07-04, a Thursday
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	days := BusinessDays(start, 5, nil)

	for _, d := range days {
		assert.NotEqual(t, 3.0, d.Float(), "July 4th should not be a workday")
	}
	assert.Len(t, days, 4)
}

func TestSimulateAR1(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	u := SimulateAR1(500, 0.8, 1.0, r)
	require.Len(t, u, 500)

	// stationary draws stay bounded well within 10 marginal SDs
	for _, v := range u {
		assert.Less(t, v, 17.0)
		assert.Greater(t, v, -17.0)
	}
}

func TestSimulateRandomWalk(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	u := SimulateRandomWalk(100, 1.0, r)
	require.Len(t, u, 100)
	assert.Equal(t, 0.0, u[0])
}

func TestObserve(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 0))
	path := []float64{10, 20, 30}
	at := []timevalue.Value{timevalue.Num(0), timevalue.Num(2)}

	y := Observe(path, at, 0.0, r)
	assert.Equal(t, []float64{10, 30}, y)
}
