package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/kmaguire4/go-timefit/timevalue"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// CalendarDays returns every day offset in 0..n-1 as a numeric time value,
// the full temporal domain for a daily process.
func CalendarDays(n int) []timevalue.Value {
	out := make([]timevalue.Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, timevalue.Num(float64(i)))
	}
	return out
}

// BusinessDays returns the day offsets within n calendar days of start that
// fall on a workday of the given business calendar. Weekends and holidays
// are left out, producing the gapped sampling this module models. A nil
// calendar defaults to US holidays.
func BusinessDays(start time.Time, n int, c *cal.BusinessCalendar) []timevalue.Value {
	if c == nil {
		c = cal.NewBusinessCalendar()
		c.AddHoliday(us.Holidays...)
	}
	out := make([]timevalue.Value, 0, n)
	for i := 0; i < n; i++ {
		if c.IsWorkday(start.AddDate(0, 0, i)) {
			out = append(out, timevalue.Num(float64(i)))
		}
	}
	return out
}

// SimulateAR1 draws a stationary AR(1) path of length n with coefficient
// rho and innovation standard deviation procSD.
func SimulateAR1(n int, rho, procSD float64, r *rand.Rand) []float64 {
	u := make([]float64, n)
	if n == 0 {
		return u
	}
	u[0] = r.NormFloat64() * procSD / math.Sqrt(1.0-rho*rho)
	for i := 1; i < n; i++ {
		u[i] = rho*u[i-1] + r.NormFloat64()*procSD
	}
	return u
}

// SimulateRandomWalk draws a random walk path of length n with step
// standard deviation procSD.
func SimulateRandomWalk(n int, procSD float64, r *rand.Rand) []float64 {
	u := make([]float64, n)
	for i := 1; i < n; i++ {
		u[i] = u[i-1] + r.NormFloat64()*procSD
	}
	return u
}

// Observe samples the path at the given numeric day offsets and adds
// observation noise with standard deviation obsSD. The offsets index into
// the path, so they must come from the same domain the path was simulated
// over.
func Observe(path []float64, at []timevalue.Value, obsSD float64, r *rand.Rand) []float64 {
	y := make([]float64, 0, len(at))
	for _, v := range at {
		y = append(y, path[int(v.Float())]+r.NormFloat64()*obsSD)
	}
	return y
}
