package clinical

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service validates and persists the three clinical record types.
type Service struct {
	procedures ProcedureRepository
	labs       LabResultRepository
	followUps  FollowUpRepository
}

func NewService(procedures ProcedureRepository, labs LabResultRepository, followUps FollowUpRepository) *Service {
	return &Service{procedures: procedures, labs: labs, followUps: followUps}
}

func (s *Service) CreateProcedure(ctx context.Context, p *Procedure) error {
	if err := validateProcedure(p); err != nil {
		return err
	}
	return s.procedures.Create(ctx, p)
}

func (s *Service) GetProcedure(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return s.procedures.GetByID(ctx, id)
}

func (s *Service) UpdateProcedure(ctx context.Context, p *Procedure) error {
	if err := validateProcedure(p); err != nil {
		return err
	}
	return s.procedures.Update(ctx, p)
}

func (s *Service) DeleteProcedure(ctx context.Context, id uuid.UUID) error {
	return s.procedures.Delete(ctx, id)
}

func (s *Service) ProceduresForPatient(ctx context.Context, patientID uuid.UUID) ([]Procedure, error) {
	return s.procedures.ListByPatient(ctx, patientID)
}

func (s *Service) CreateLabResult(ctx context.Context, l *LabResult) error {
	if err := validateLabResult(l); err != nil {
		return err
	}
	return s.labs.Create(ctx, l)
}

func (s *Service) GetLabResult(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return s.labs.GetByID(ctx, id)
}

func (s *Service) UpdateLabResult(ctx context.Context, l *LabResult) error {
	if err := validateLabResult(l); err != nil {
		return err
	}
	return s.labs.Update(ctx, l)
}

func (s *Service) DeleteLabResult(ctx context.Context, id uuid.UUID) error {
	return s.labs.Delete(ctx, id)
}

func (s *Service) LabResultsForPatient(ctx context.Context, patientID uuid.UUID) ([]LabResult, error) {
	return s.labs.ListByPatient(ctx, patientID)
}

// LabSeries returns one test type's results in ascending date order.
func (s *Service) LabSeries(ctx context.Context, patientID uuid.UUID, testType string) ([]LabResult, error) {
	testType = strings.TrimSpace(testType)
	if testType == "" {
		return nil, fmt.Errorf("test_type is required")
	}
	return s.labs.SeriesByType(ctx, patientID, testType)
}

func (s *Service) CreateFollowUp(ctx context.Context, f *FollowUp) error {
	if err := validateFollowUp(f); err != nil {
		return err
	}
	return s.followUps.Create(ctx, f)
}

func (s *Service) GetFollowUp(ctx context.Context, id uuid.UUID) (*FollowUp, error) {
	return s.followUps.GetByID(ctx, id)
}

func (s *Service) UpdateFollowUp(ctx context.Context, f *FollowUp) error {
	if err := validateFollowUp(f); err != nil {
		return err
	}
	return s.followUps.Update(ctx, f)
}

func (s *Service) DeleteFollowUp(ctx context.Context, id uuid.UUID) error {
	return s.followUps.Delete(ctx, id)
}

func (s *Service) FollowUpsForPatient(ctx context.Context, patientID uuid.UUID) ([]FollowUp, error) {
	return s.followUps.ListByPatient(ctx, patientID)
}

func validateProcedure(p *Procedure) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.ProcedureDate.IsZero() {
		return fmt.Errorf("procedure_date is required")
	}
	if !ProcedureTypes[p.ProcedureType] {
		return fmt.Errorf("unknown procedure_type: %q", p.ProcedureType)
	}
	if p.CoresTaken != nil && p.CoresPositive != nil && *p.CoresPositive > *p.CoresTaken {
		return fmt.Errorf("cores_positive exceeds cores_taken")
	}
	if p.GleasonPrimary != nil && (*p.GleasonPrimary < 1 || *p.GleasonPrimary > 5) {
		return fmt.Errorf("gleason_primary out of range: %d", *p.GleasonPrimary)
	}
	if p.GleasonSecondary != nil && (*p.GleasonSecondary < 1 || *p.GleasonSecondary > 5) {
		return fmt.Errorf("gleason_secondary out of range: %d", *p.GleasonSecondary)
	}
	return nil
}

func validateLabResult(l *LabResult) error {
	if l.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(l.TestType) == "" {
		return fmt.Errorf("test_type is required")
	}
	if l.TestDate.IsZero() {
		return fmt.Errorf("test_date is required")
	}
	return nil
}

func validateFollowUp(f *FollowUp) error {
	if f.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if f.FollowUpDate.IsZero() {
		return fmt.Errorf("follow_up_date is required")
	}
	if f.Status != nil && !FollowUpStatuses[*f.Status] {
		return fmt.Errorf("unknown status: %q", *f.Status)
	}
	if f.PSAAtFollowUp != nil && *f.PSAAtFollowUp < 0 {
		return fmt.Errorf("psa_at_follow_up must be non-negative")
	}
	return nil
}
