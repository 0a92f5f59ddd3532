package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service owns registry validation and tag management.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	p.MRN = strings.TrimSpace(p.MRN)
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.TagsForPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.repo.GetByMRN(ctx, strings.TrimSpace(mrn))
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Search runs a cohort filter. An empty filter falls back to a plain list.
func (s *Service) Search(ctx context.Context, f Filter, limit, offset int) ([]Patient, int, error) {
	if f.IsZero() {
		return s.repo.List(ctx, limit, offset)
	}
	if err := validateFilter(f); err != nil {
		return nil, 0, err
	}
	return s.repo.Search(ctx, f, limit, offset)
}

func (s *Service) CreateTag(ctx context.Context, t *Tag) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("tag name is required")
	}
	return s.repo.CreateTag(ctx, t)
}

func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *Service) AssignTag(ctx context.Context, patientID, tagID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return err
	}
	return s.repo.AssignTag(ctx, patientID, tagID)
}

func (s *Service) UnassignTag(ctx context.Context, patientID, tagID uuid.UUID) error {
	return s.repo.UnassignTag(ctx, patientID, tagID)
}

func validate(p *Patient) error {
	if strings.TrimSpace(p.MRN) == "" {
		return fmt.Errorf("mrn is required")
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 130) {
		return fmt.Errorf("age out of range: %d", *p.Age)
	}
	if p.GleasonScore != nil && (*p.GleasonScore < 2 || *p.GleasonScore > 10) {
		return fmt.Errorf("gleason score out of range: %d", *p.GleasonScore)
	}
	if p.PSALevel != nil && *p.PSALevel < 0 {
		return fmt.Errorf("psa level must be non-negative")
	}
	return nil
}

func validateFilter(f Filter) error {
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return fmt.Errorf("age_min exceeds age_max")
	}
	if f.GleasonMin != nil && f.GleasonMax != nil && *f.GleasonMin > *f.GleasonMax {
		return fmt.Errorf("gleason_score_min exceeds gleason_score_max")
	}
	if f.PSAMin != nil && f.PSAMax != nil && *f.PSAMin > *f.PSAMax {
		return fmt.Errorf("psa_level_min exceeds psa_level_max")
	}
	return nil
}
