package trend

import (
	"strings"
	"time"
)

// ObservedPoint is one measured value in a series. Value is nil when
// the measurement was recorded without a result. A point may also
// carry its own predicted value and bounds, for series that mix the
// historical fit with the forward projection.
type ObservedPoint struct {
	Date      string   `json:"date"`
	Value     *float64 `json:"value"`
	Predicted *float64 `json:"predicted,omitempty"`
	Lower     *float64 `json:"lower,omitempty"`
	Upper     *float64 `json:"upper,omitempty"`
}

// TrajectoryPoint is one projected value with its confidence band.
type TrajectoryPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

// Point is the merged chart row. Observed is nil on projected rows and
// Predicted is nil on measured rows; null, not zero, is the absence
// marker so charts can break the line instead of plotting 0.
type Point struct {
	Date      string   `json:"date"`
	Observed  *float64 `json:"observed"`
	Predicted *float64 `json:"predicted"`
	Lower     *float64 `json:"lower,omitempty"`
	Upper     *float64 `json:"upper,omitempty"`
}

// MergeSeries appends the projected trajectory after the observed
// series. Inputs are assumed already ordered; no re-sorting happens
// here, so a trajectory dated before the last observation stays where
// the caller put it. Every input point yields exactly one output row.
func MergeSeries(observed []ObservedPoint, trajectory []TrajectoryPoint) []Point {
	points := make([]Point, 0, len(observed)+len(trajectory))
	for _, o := range observed {
		points = append(points, Point{
			Date:      o.Date,
			Observed:  o.Value,
			Predicted: o.Predicted,
			Lower:     o.Lower,
			Upper:     o.Upper,
		})
	}
	for _, t := range trajectory {
		points = append(points, Point{
			Date:      t.Date,
			Predicted: t.Value,
			Lower:     t.Lower,
			Upper:     t.Upper,
		})
	}
	return points
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const hoursPerYear = 24 * 365.25

// Velocity returns the change per year between the first and last
// valued points, or nil when fewer than two usable points exist.
func Velocity(observed []ObservedPoint) *float64 {
	type sample struct {
		t time.Time
		v float64
	}
	samples := make([]sample, 0, len(observed))
	for _, o := range observed {
		if o.Value == nil {
			continue
		}
		if t, ok := parseDate(o.Date); ok {
			samples = append(samples, sample{t: t, v: *o.Value})
		}
	}
	if len(samples) < 2 {
		return nil
	}
	first, last := samples[0], samples[len(samples)-1]
	years := last.t.Sub(first.t).Hours() / hoursPerYear
	if years <= 0 {
		return nil
	}
	v := (last.v - first.v) / years
	return &v
}
