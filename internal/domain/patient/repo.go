package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("patient not found")
	ErrDuplicateMRN = errors.New("mrn already registered")
	ErrTagNotFound  = errors.New("tag not found")
)

// Repository is the persistence boundary for the patient registry.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]Patient, int, error)
	Search(ctx context.Context, f Filter, limit, offset int) ([]Patient, int, error)

	CreateTag(ctx context.Context, t *Tag) error
	ListTags(ctx context.Context) ([]Tag, error)
	AssignTag(ctx context.Context, patientID, tagID uuid.UUID) error
	UnassignTag(ctx context.Context, patientID, tagID uuid.UUID) error
	TagsForPatient(ctx context.Context, patientID uuid.UUID) ([]Tag, error)
}
