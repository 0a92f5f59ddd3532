package insight

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("insight not found")

type Repository interface {
	Create(ctx context.Context, in *Insight) error
	GetByID(ctx context.Context, id uuid.UUID) (*Insight, error)
	Update(ctx context.Context, in *Insight) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns pinned insights first, newest first within each group.
	List(ctx context.Context, category string, limit, offset int) ([]Insight, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Insight, error)
	SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error
}
