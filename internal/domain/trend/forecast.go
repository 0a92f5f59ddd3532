package trend

import (
	"errors"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("not enough data points")
	ErrZeroTimeSpan     = errors.New("observations span no time")
)

const (
	minForecastPoints = 2
	minAnomalyPoints  = 4
	slopeTolerance    = 0.01
	zScore95          = 1.96
	defaultStep       = 30 * 24 * time.Hour
)

// ForecastResult is a linear projection of a lab series.
type ForecastResult struct {
	Trend      string            `json:"trend"`
	Slope      float64           `json:"slope"`
	Intercept  float64           `json:"intercept"`
	RSquared   float64           `json:"r_squared"`
	Trajectory []TrajectoryPoint `json:"trajectory"`
}

// Forecast fits a least-squares line through the valued observations
// and projects horizon future points at the series' mean spacing.
// Projected values never go below zero and the confidence band widens
// with distance from the observed window.
func Forecast(observed []ObservedPoint, horizon int) (*ForecastResult, error) {
	var ts []time.Time
	var ys []float64
	for _, o := range observed {
		if o.Value == nil {
			continue
		}
		if t, ok := parseDate(o.Date); ok {
			ts = append(ts, t)
			ys = append(ys, *o.Value)
		}
	}
	if len(ts) < minForecastPoints {
		return nil, ErrInsufficientData
	}
	span := ts[len(ts)-1].Sub(ts[0])
	if span <= 0 {
		return nil, ErrZeroTimeSpan
	}

	xs := make([]float64, len(ts))
	for i, t := range ts {
		xs[i] = t.Sub(ts[0]).Hours() / hoursPerYear
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	residuals := make([]float64, len(xs))
	for i := range xs {
		residuals[i] = ys[i] - (alpha + beta*xs[i])
	}
	se, err := stats.StandardDeviation(stats.Float64Data(residuals))
	if err != nil {
		se = 0
	}

	xBar := stat.Mean(xs, nil)
	var sxx float64
	for _, x := range xs {
		sxx += (x - xBar) * (x - xBar)
	}

	step := span / time.Duration(len(ts)-1)
	if step <= 0 {
		step = defaultStep
	}

	n := float64(len(xs))
	last := ts[len(ts)-1]
	trajectory := make([]TrajectoryPoint, 0, horizon)
	for k := 1; k <= horizon; k++ {
		at := last.Add(time.Duration(k) * step)
		x := at.Sub(ts[0]).Hours() / hoursPerYear
		pred := alpha + beta*x
		if pred < 0 {
			pred = 0
		}

		width := zScore95 * se
		if se > 0 && sxx > 0 {
			width = zScore95 * se * math.Sqrt(1+1/n+(x-xBar)*(x-xBar)/sxx)
		}
		lower := pred - width
		if lower < 0 {
			lower = 0
		}
		upper := pred + width

		v := pred
		trajectory = append(trajectory, TrajectoryPoint{
			Date:  at.Format("2006-01-02"),
			Value: &v,
			Lower: &lower,
			Upper: &upper,
		})
	}

	return &ForecastResult{
		Trend:      direction(beta),
		Slope:      beta,
		Intercept:  alpha,
		RSquared:   r2,
		Trajectory: trajectory,
	}, nil
}

func direction(slope float64) string {
	switch {
	case slope > slopeTolerance:
		return "rising"
	case slope < -slopeTolerance:
		return "falling"
	default:
		return "stable"
	}
}

// Anomaly flags one value outside the IQR fences.
type Anomaly struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
	Kind  string  `json:"kind"`
}

// AnomalyReport carries the fences alongside the flagged values so
// callers can draw them.
type AnomalyReport struct {
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Anomalies  []Anomaly `json:"anomalies"`
}

// DetectAnomalies applies the 1.5 IQR rule. It needs at least four
// values to compute meaningful quartiles.
func DetectAnomalies(values []float64) (*AnomalyReport, error) {
	if len(values) < minAnomalyPoints {
		return nil, ErrInsufficientData
	}
	data := stats.Float64Data(values)
	q1, err := stats.Percentile(data, 25)
	if err != nil {
		return nil, err
	}
	q3, err := stats.Percentile(data, 75)
	if err != nil {
		return nil, err
	}
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	report := &AnomalyReport{LowerFence: lower, UpperFence: upper, Anomalies: []Anomaly{}}
	for i, v := range values {
		switch {
		case v > upper:
			report.Anomalies = append(report.Anomalies, Anomaly{Index: i, Value: v, Kind: "high"})
		case v < lower:
			report.Anomalies = append(report.Anomalies, Anomaly{Index: i, Value: v, Kind: "low"})
		}
	}
	return report, nil
}
