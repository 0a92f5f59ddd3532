package statistics

import (
	"errors"
	"math"
	"testing"
)

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}

func TestTTestKnownValues(t *testing.T) {
	result, err := TTest([]float64{1, 2, 3, 4, 5}, []float64{2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("t-test: %v", err)
	}

	approx(t, "t statistic", result.TStatistic, -1.0, 1e-9)
	approx(t, "group1 mean", result.Group1.Mean, 3.0, 1e-9)
	approx(t, "group2 mean", result.Group2.Mean, 4.0, 1e-9)
	if result.Group1.N != 5 || result.Group2.N != 5 {
		t.Errorf("group sizes: %d, %d", result.Group1.N, result.Group2.N)
	}
	if result.Significant {
		t.Errorf("overlapping groups should not be significant, p=%v", result.PValue)
	}
	if result.PValue < 0.3 || result.PValue > 0.4 {
		t.Errorf("p-value out of expected range: %v", result.PValue)
	}
}

func TestTTestIdenticalGroups(t *testing.T) {
	result, err := TTest([]float64{1, 2, 3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("t-test: %v", err)
	}
	approx(t, "t statistic", result.TStatistic, 0, 1e-9)
	approx(t, "p-value", result.PValue, 1.0, 1e-9)
}

func TestTTestInsufficientData(t *testing.T) {
	if _, err := TTest([]float64{1}, []float64{2, 3}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestOneWayANOVASeparatedGroups(t *testing.T) {
	result, err := OneWayANOVA([][]float64{
		{1, 2, 3},
		{2, 3, 4},
		{9, 10, 11},
	})
	if err != nil {
		t.Fatalf("anova: %v", err)
	}

	approx(t, "F statistic", result.FStatistic, 57.0, 1e-9)
	if !result.Significant {
		t.Errorf("clearly separated groups should be significant, p=%v", result.PValue)
	}
	if len(result.Groups) != 3 {
		t.Fatalf("expected 3 group summaries, got %d", len(result.Groups))
	}
	approx(t, "third group mean", result.Groups[2].Mean, 10.0, 1e-9)
}

func TestOneWayANOVANeedsTwoGroups(t *testing.T) {
	if _, err := OneWayANOVA([][]float64{{1, 2, 3}}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestChiSquareIndependence(t *testing.T) {
	result, err := ChiSquareIndependence([][]float64{
		{10, 20},
		{20, 10},
	})
	if err != nil {
		t.Fatalf("chi-square: %v", err)
	}

	approx(t, "chi2 statistic", result.ChiSquare, 100.0/15.0, 1e-9)
	if result.DegreesOfFreedom != 1 {
		t.Errorf("df: got %d, want 1", result.DegreesOfFreedom)
	}
	approx(t, "expected cell", result.Expected[0][0], 15.0, 1e-9)
	if !result.Significant {
		t.Errorf("skewed table should be significant, p=%v", result.PValue)
	}
}

func TestChiSquareRejectsRaggedTable(t *testing.T) {
	_, err := ChiSquareIndependence([][]float64{{1, 2}, {3}})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	result, err := PearsonCorrelation(
		[]float64{1, 2, 3, 4, 5},
		[]float64{2, 4, 6, 8, 10},
	)
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}

	approx(t, "coefficient", result.Coefficient, 1.0, 1e-9)
	approx(t, "p-value", result.PValue, 0, 1e-9)
	if !result.Significant {
		t.Error("perfect correlation should be significant")
	}
	if result.Interpretation != "Very strong positive correlation (significant)" {
		t.Errorf("interpretation: got %q", result.Interpretation)
	}
}

func TestPearsonLengthMismatch(t *testing.T) {
	if _, err := PearsonCorrelation([]float64{1, 2}, []float64{1, 2, 3}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestLinearRegressionExactFit(t *testing.T) {
	result, err := LinearRegression(
		[]float64{1, 2, 3},
		[]float64{2, 4, 6},
	)
	if err != nil {
		t.Fatalf("regression: %v", err)
	}

	approx(t, "slope", result.Slope, 2.0, 1e-9)
	approx(t, "intercept", result.Intercept, 0, 1e-9)
	approx(t, "r squared", result.RSquared, 1.0, 1e-9)
	approx(t, "std error", result.StdError, 0, 1e-9)
	if result.Equation != "y = 2.0000x + 0.0000" {
		t.Errorf("equation: got %q", result.Equation)
	}
}

func TestLinearRegressionConstantX(t *testing.T) {
	_, err := LinearRegression([]float64{2, 2, 2}, []float64{1, 2, 3})
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestDescribeKnownValues(t *testing.T) {
	d, err := Describe([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	if d.Count != 5 {
		t.Errorf("count: got %d", d.Count)
	}
	approx(t, "mean", d.Mean, 3.0, 1e-9)
	approx(t, "median", d.Median, 3.0, 1e-9)
	approx(t, "std", d.StdDev, math.Sqrt(2.5), 1e-9)
	approx(t, "min", d.Min, 1.0, 1e-9)
	approx(t, "max", d.Max, 5.0, 1e-9)
	approx(t, "iqr", d.IQR, d.Q3-d.Q1, 1e-9)
	approx(t, "skewness", d.Skewness, 0, 1e-9)
	approx(t, "kurtosis", d.Kurtosis, -1.3, 1e-9)
}

func TestDescribeInsufficientData(t *testing.T) {
	if _, err := Describe([]float64{1}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
