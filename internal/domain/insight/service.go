package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in *Insight) error {
	if err := validate(in); err != nil {
		return err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Insight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, in *Insight) error {
	if err := validate(in); err != nil {
		return err
	}
	return s.repo.Update(ctx, in)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, category string, limit, offset int) ([]Insight, int, error) {
	if category != "" && !Categories[category] {
		return nil, 0, fmt.Errorf("unknown category: %q", category)
	}
	return s.repo.List(ctx, category, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Insight, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Pin(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetPinned(ctx, id, true)
}

func (s *Service) Unpin(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetPinned(ctx, id, false)
}

func validate(in *Insight) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return fmt.Errorf("body is required")
	}
	if !Categories[in.Category] {
		return fmt.Errorf("unknown category: %q", in.Category)
	}
	return nil
}
