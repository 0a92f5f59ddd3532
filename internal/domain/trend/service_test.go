package trend

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinsight/clinsight/internal/domain/clinical"
)

type mockSeriesProvider struct {
	labs []clinical.LabResult
	err  error
}

func (m *mockSeriesProvider) LabSeries(_ context.Context, _ uuid.UUID, _ string) ([]clinical.LabResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.labs, nil
}

func lab(dateStr string, value *float64) clinical.LabResult {
	d, _ := time.Parse("2006-01-02", dateStr)
	unit := "ng/mL"
	return clinical.LabResult{TestType: "psa", TestDate: d, TestValue: value, TestUnit: &unit}
}

func TestReportObservedOnly(t *testing.T) {
	svc := NewService(&mockSeriesProvider{labs: []clinical.LabResult{
		lab("2024-01-01", f64(4.0)),
		lab("2024-02-01", f64(4.5)),
	}})

	report, err := svc.Report(context.Background(), uuid.New(), "psa", 0)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !report.HasData || len(report.Points) != 2 {
		t.Fatalf("expected 2 observed points, got %+v", report)
	}
	if report.Forecast != nil {
		t.Error("expected no forecast when horizon is 0")
	}
	if report.Velocity == nil {
		t.Error("expected velocity for two valued points")
	}
	if report.Unit != "ng/mL" {
		t.Errorf("expected unit from series, got %q", report.Unit)
	}
}

func TestReportWithForecastAppendsTrajectory(t *testing.T) {
	svc := NewService(&mockSeriesProvider{labs: []clinical.LabResult{
		lab("2023-01-01", f64(4.0)),
		lab("2023-04-01", f64(4.6)),
		lab("2023-07-01", f64(5.2)),
	}})

	report, err := svc.Report(context.Background(), uuid.New(), "psa", 3)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Forecast == nil {
		t.Fatal("expected forecast")
	}
	if len(report.Points) != 6 {
		t.Fatalf("expected 3 observed + 3 projected points, got %d", len(report.Points))
	}
	for i := 0; i < 3; i++ {
		if report.Points[i].Observed == nil {
			t.Errorf("point %d: expected observed value", i)
		}
	}
	for i := 3; i < 6; i++ {
		if report.Points[i].Observed != nil || report.Points[i].Predicted == nil {
			t.Errorf("point %d: expected projected row, got %+v", i, report.Points[i])
		}
	}
}

func TestReportShortSeriesSkipsForecast(t *testing.T) {
	svc := NewService(&mockSeriesProvider{labs: []clinical.LabResult{
		lab("2024-01-01", f64(4.0)),
	}})

	report, err := svc.Report(context.Background(), uuid.New(), "psa", 3)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Forecast != nil {
		t.Error("expected forecast skipped for single point")
	}
	if len(report.Points) != 1 {
		t.Errorf("expected observed point kept, got %d", len(report.Points))
	}
}

func TestReportEmptySeries(t *testing.T) {
	svc := NewService(&mockSeriesProvider{})

	report, err := svc.Report(context.Background(), uuid.New(), "psa", 0)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.HasData {
		t.Error("expected HasData false")
	}
	if len(report.Points) != 0 {
		t.Errorf("expected no points, got %d", len(report.Points))
	}
}
