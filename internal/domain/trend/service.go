package trend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinsight/clinsight/internal/domain/clinical"
)

var ErrMissingTestType = errors.New("test_type is required")

// Report is the full trend payload for one patient and test type.
type Report struct {
	PatientID uuid.UUID       `json:"patient_id"`
	TestType  string          `json:"test_type"`
	Unit      string          `json:"unit,omitempty"`
	Points    []Point         `json:"points"`
	HasData   bool            `json:"has_data"`
	Velocity  *float64        `json:"velocity,omitempty"`
	Forecast  *ForecastResult `json:"forecast,omitempty"`
}

// SeriesProvider supplies one test type's results in ascending date
// order. *clinical.Service satisfies it.
type SeriesProvider interface {
	LabSeries(ctx context.Context, patientID uuid.UUID, testType string) ([]clinical.LabResult, error)
}

type Service struct {
	labs SeriesProvider
}

func NewService(labs SeriesProvider) *Service {
	return &Service{labs: labs}
}

// Report assembles the observed series for one test type, computes
// velocity, and when horizon > 0 appends a forecast trajectory. A
// series too short to forecast still returns its observed points.
func (s *Service) Report(ctx context.Context, patientID uuid.UUID, testType string, horizon int) (*Report, error) {
	testType = strings.TrimSpace(testType)
	if testType == "" {
		return nil, ErrMissingTestType
	}

	labs, err := s.labs.LabSeries(ctx, patientID, testType)
	if err != nil {
		return nil, err
	}

	observed := make([]ObservedPoint, 0, len(labs))
	unit := ""
	for _, l := range labs {
		observed = append(observed, ObservedPoint{
			Date:  l.TestDate.Format(time.RFC3339),
			Value: l.TestValue,
		})
		if unit == "" && l.TestUnit != nil {
			unit = *l.TestUnit
		}
	}

	report := &Report{
		PatientID: patientID,
		TestType:  testType,
		Unit:      unit,
		Velocity:  Velocity(observed),
	}

	var trajectory []TrajectoryPoint
	if horizon > 0 {
		forecast, err := Forecast(observed, horizon)
		if err != nil && !errors.Is(err, ErrInsufficientData) && !errors.Is(err, ErrZeroTimeSpan) {
			return nil, err
		}
		if forecast != nil {
			report.Forecast = forecast
			trajectory = forecast.Trajectory
		}
	}

	report.Points = MergeSeries(observed, trajectory)
	report.HasData = len(report.Points) > 0
	return report, nil
}
