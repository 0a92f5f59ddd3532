package analytics

import (
	"context"
	"testing"
)

func TestQualityReport(t *testing.T) {
	repo := &mockRepo{
		patients: 10,
		missing: map[string]int{
			"psa_level":     2,
			"gleason_score": 5,
		},
		duplicates:  []DuplicateMRN{{MRN: "MRN-1", Count: 2}},
		consistency: ConsistencyCounts{NegativePSA: 1},
		psaLevels:   []float64{4, 5, 6, 7, 100},
		inputs: []RiskInput{
			input(f64(5), nil, nil),
			input(f64(100), nil, nil),
			input(nil, nil, nil),
		},
	}
	svc := newTestService(repo)

	report, err := svc.Quality(context.Background())
	if err != nil {
		t.Fatalf("quality: %v", err)
	}

	if report.TotalPatients != 10 {
		t.Errorf("total patients: got %d", report.TotalPatients)
	}
	if got := report.Completeness["psa_level"]; got != 80 {
		t.Errorf("psa completeness: got %v, want 80", got)
	}
	if got := report.Completeness["gleason_score"]; got != 50 {
		t.Errorf("gleason completeness: got %v, want 50", got)
	}

	// mean completeness 65, minus 5 for the duplicate and 3 for the
	// consistency issue
	if report.OverallScore != 57 {
		t.Errorf("overall score: got %v, want 57", report.OverallScore)
	}

	if len(report.Duplicates) != 1 || report.Duplicates[0].MRN != "MRN-1" {
		t.Errorf("duplicates: got %+v", report.Duplicates)
	}
	if len(report.ConsistencyIssues) != 1 || report.ConsistencyIssues[0].Type != "invalid_psa" {
		t.Errorf("consistency issues: got %+v", report.ConsistencyIssues)
	}

	if len(report.Outliers) != 1 {
		t.Fatalf("expected 1 PSA outlier, got %d", len(report.Outliers))
	}
	if report.Outliers[0].PSALevel != 100 || report.Outliers[0].Reason != "above Q3+1.5*IQR" {
		t.Errorf("outlier: got %+v", report.Outliers[0])
	}
}

func TestQualityReportNoPSAValues(t *testing.T) {
	repo := &mockRepo{
		patients: 2,
		missing:  map[string]int{"psa_level": 2},
	}
	svc := newTestService(repo)

	report, err := svc.Quality(context.Background())
	if err != nil {
		t.Fatalf("quality: %v", err)
	}
	if len(report.Outliers) != 0 {
		t.Errorf("expected no outliers without PSA values, got %d", len(report.Outliers))
	}
	if got := report.Completeness["psa_level"]; got != 0 {
		t.Errorf("psa completeness: got %v, want 0", got)
	}
}

func TestQualityReportCached(t *testing.T) {
	repo := &mockRepo{patients: 3, missing: map[string]int{"age": 0}}
	svc := newTestService(repo)

	if _, err := svc.Quality(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.Quality(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("expected cached second call, repo hit %d times", repo.calls)
	}
}
