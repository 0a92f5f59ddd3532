package statistics

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const significanceLevel = 0.05

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrLengthMismatch   = errors.New("input lengths differ")
)

// GroupSummary describes one sample group in a comparison test.
type GroupSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	N      int     `json:"n"`
}

type TTestResult struct {
	TestType       string       `json:"test_type"`
	TStatistic     float64      `json:"t_statistic"`
	PValue         float64      `json:"p_value"`
	Significant    bool         `json:"significant"`
	Group1         GroupSummary `json:"group1"`
	Group2         GroupSummary `json:"group2"`
	Interpretation string       `json:"interpretation"`
}

// TTest runs a pooled-variance independent samples t-test between two
// groups.
func TTest(group1, group2 []float64) (*TTestResult, error) {
	if len(group1) < 2 || len(group2) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples per group", ErrInsufficientData)
	}

	s1 := summarize(group1)
	s2 := summarize(group2)
	n1, n2 := float64(s1.N), float64(s2.N)

	pooled := ((n1-1)*s1.StdDev*s1.StdDev + (n2-1)*s2.StdDev*s2.StdDev) / (n1 + n2 - 2)
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return nil, fmt.Errorf("%w: zero variance in both groups", ErrInsufficientData)
	}

	t := (s1.Mean - s2.Mean) / se
	p := tTestPValue(t, int(n1+n2-2))

	return &TTestResult{
		TestType:       "independent_samples_t_test",
		TStatistic:     t,
		PValue:         p,
		Significant:    p < significanceLevel,
		Group1:         s1,
		Group2:         s2,
		Interpretation: interpretPValue(p),
	}, nil
}

type ANOVAResult struct {
	TestType       string         `json:"test_type"`
	FStatistic     float64        `json:"f_statistic"`
	PValue         float64        `json:"p_value"`
	Significant    bool           `json:"significant"`
	Groups         []GroupSummary `json:"groups"`
	Interpretation string         `json:"interpretation"`
}

// OneWayANOVA compares the means of two or more groups.
func OneWayANOVA(groups [][]float64) (*ANOVAResult, error) {
	if len(groups) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 groups", ErrInsufficientData)
	}

	summaries := make([]GroupSummary, 0, len(groups))
	total := 0
	grandSum := 0.0
	for _, g := range groups {
		if len(g) < 2 {
			return nil, fmt.Errorf("%w: need at least 2 samples per group", ErrInsufficientData)
		}
		s := summarize(g)
		summaries = append(summaries, s)
		total += s.N
		grandSum += s.Mean * float64(s.N)
	}
	grandMean := grandSum / float64(total)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, s := range summaries {
		d := s.Mean - grandMean
		ssBetween += float64(s.N) * d * d
		ssWithin += float64(s.N-1) * s.StdDev * s.StdDev
	}

	df1 := len(groups) - 1
	df2 := total - len(groups)
	if ssWithin == 0 {
		return nil, fmt.Errorf("%w: zero variance within groups", ErrInsufficientData)
	}

	f := (ssBetween / float64(df1)) / (ssWithin / float64(df2))
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	p := 1 - fDist.CDF(f)

	return &ANOVAResult{
		TestType:       "one_way_anova",
		FStatistic:     f,
		PValue:         p,
		Significant:    p < significanceLevel,
		Groups:         summaries,
		Interpretation: interpretPValue(p),
	}, nil
}

type ChiSquareResult struct {
	TestType         string      `json:"test_type"`
	ChiSquare        float64     `json:"chi2_statistic"`
	PValue           float64     `json:"p_value"`
	DegreesOfFreedom int         `json:"degrees_of_freedom"`
	Significant      bool        `json:"significant"`
	Expected         [][]float64 `json:"expected"`
	Interpretation   string      `json:"interpretation"`
}

// ChiSquareIndependence tests association in a contingency table.
// Expected frequencies are derived from the marginal totals.
func ChiSquareIndependence(observed [][]float64) (*ChiSquareResult, error) {
	rows := len(observed)
	if rows < 2 || len(observed[0]) < 2 {
		return nil, fmt.Errorf("%w: contingency table must be at least 2x2", ErrInsufficientData)
	}
	cols := len(observed[0])

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	grand := 0.0
	for i, row := range observed {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: ragged contingency table", ErrLengthMismatch)
		}
		for j, v := range row {
			rowTotals[i] += v
			colTotals[j] += v
			grand += v
		}
	}
	if grand == 0 {
		return nil, fmt.Errorf("%w: empty contingency table", ErrInsufficientData)
	}

	chi2 := 0.0
	expected := make([][]float64, rows)
	for i := range observed {
		expected[i] = make([]float64, cols)
		for j := range observed[i] {
			e := rowTotals[i] * colTotals[j] / grand
			if e == 0 {
				return nil, fmt.Errorf("%w: expected frequency of zero", ErrInsufficientData)
			}
			expected[i][j] = e
			d := observed[i][j] - e
			chi2 += d * d / e
		}
	}

	df := (rows - 1) * (cols - 1)
	chiDist := distuv.ChiSquared{K: float64(df)}
	p := 1 - chiDist.CDF(chi2)

	return &ChiSquareResult{
		TestType:         "chi_square_test",
		ChiSquare:        chi2,
		PValue:           p,
		DegreesOfFreedom: df,
		Significant:      p < significanceLevel,
		Expected:         expected,
		Interpretation:   interpretPValue(p),
	}, nil
}

type CorrelationResult struct {
	TestType       string  `json:"test_type"`
	Coefficient    float64 `json:"correlation_coefficient"`
	PValue         float64 `json:"p_value"`
	Significant    bool    `json:"significant"`
	Interpretation string  `json:"interpretation"`
}

// PearsonCorrelation computes the Pearson coefficient between two
// equally sized series.
func PearsonCorrelation(x, y []float64) (*CorrelationResult, error) {
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}
	if len(x) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 paired samples", ErrInsufficientData)
	}

	r, err := stats.Pearson(x, y)
	if err != nil {
		return nil, err
	}
	p := correlationPValue(r, len(x))

	return &CorrelationResult{
		TestType:       "pearson_correlation",
		Coefficient:    r,
		PValue:         p,
		Significant:    p < significanceLevel,
		Interpretation: interpretCorrelation(r, p),
	}, nil
}

type RegressionResult struct {
	TestType       string  `json:"test_type"`
	Slope          float64 `json:"slope"`
	Intercept      float64 `json:"intercept"`
	RValue         float64 `json:"r_value"`
	RSquared       float64 `json:"r_squared"`
	PValue         float64 `json:"p_value"`
	StdError       float64 `json:"std_error"`
	Significant    bool    `json:"significant"`
	Equation       string  `json:"equation"`
	Interpretation string  `json:"interpretation"`
}

// LinearRegression fits y = slope*x + intercept over raw paired samples.
func LinearRegression(x, y []float64) (*RegressionResult, error) {
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}
	if len(x) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 paired samples", ErrInsufficientData)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	rsq := stat.RSquared(x, y, nil, intercept, slope)

	meanX := stat.Mean(x, nil)
	ssRes := 0.0
	sxx := 0.0
	for i := range x {
		resid := y[i] - (intercept + slope*x[i])
		ssRes += resid * resid
		dx := x[i] - meanX
		sxx += dx * dx
	}
	if sxx == 0 {
		return nil, fmt.Errorf("%w: x values are constant", ErrInsufficientData)
	}

	df := len(x) - 2
	se := math.Sqrt(ssRes / float64(df) / sxx)

	r := math.Sqrt(rsq)
	if slope < 0 {
		r = -r
	}
	p := correlationPValue(r, len(x))

	return &RegressionResult{
		TestType:       "linear_regression",
		Slope:          slope,
		Intercept:      intercept,
		RValue:         r,
		RSquared:       rsq,
		PValue:         p,
		StdError:       se,
		Significant:    p < significanceLevel,
		Equation:       fmt.Sprintf("y = %.4fx + %.4f", slope, intercept),
		Interpretation: interpretCorrelation(r, p),
	}, nil
}

type Descriptive struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Describe summarizes one sample.
func Describe(data []float64) (*Descriptive, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples", ErrInsufficientData)
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviationSample(data)
	variance, _ := stats.SampleVariance(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	q1, _ := stats.Percentile(data, 25)
	q3, _ := stats.Percentile(data, 75)

	return &Descriptive{
		Count:    len(data),
		Mean:     mean,
		Median:   median,
		StdDev:   stdDev,
		Variance: variance,
		Min:      min,
		Max:      max,
		Q1:       q1,
		Q3:       q3,
		IQR:      q3 - q1,
		Skewness: skewness(data, mean),
		Kurtosis: kurtosis(data, mean),
	}, nil
}

func summarize(data []float64) GroupSummary {
	mean, _ := stats.Mean(data)
	sd, _ := stats.StandardDeviationSample(data)
	return GroupSummary{Mean: mean, StdDev: sd, N: len(data)}
}

func tTestPValue(t float64, df int) float64 {
	if df <= 0 {
		return 1
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return 2 * (1 - tDist.CDF(math.Abs(t)))
}

func correlationPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	denom := 1 - r*r
	if denom <= 0 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/denom)
	return tTestPValue(t, n-2)
}

// skewness is the population third standardized moment.
func skewness(data []float64, mean float64) float64 {
	m2, m3 := 0.0, 0.0
	for _, v := range data {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	n := float64(len(data))
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// kurtosis is the excess population kurtosis, 0 for a normal sample.
func kurtosis(data []float64, mean float64) float64 {
	m2, m4 := 0.0, 0.0
	for _, v := range data {
		d := v - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	n := float64(len(data))
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}

func interpretPValue(p float64) string {
	switch {
	case p < 0.001:
		return "Highly significant (p < 0.001)"
	case p < 0.01:
		return "Very significant (p < 0.01)"
	case p < 0.05:
		return "Significant (p < 0.05)"
	default:
		return "Not significant (p >= 0.05)"
	}
}

func interpretCorrelation(r, p float64) string {
	abs := math.Abs(r)
	var strength string
	switch {
	case abs < 0.1:
		strength = "Negligible"
	case abs < 0.3:
		strength = "Weak"
	case abs < 0.5:
		strength = "Moderate"
	case abs < 0.7:
		strength = "Strong"
	default:
		strength = "Very strong"
	}

	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	significance := "not significant"
	if p < significanceLevel {
		significance = "significant"
	}
	return fmt.Sprintf("%s %s correlation (%s)", strength, direction, significance)
}
