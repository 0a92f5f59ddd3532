package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const insightCols = `id, patient_id, author, title, body, category, pinned, created_at, updated_at`

func scanInsight(row pgx.Row) (*Insight, error) {
	var in Insight
	err := row.Scan(&in.ID, &in.PatientID, &in.Author, &in.Title, &in.Body,
		&in.Category, &in.Pinned, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *pgRepository) Create(ctx context.Context, in *Insight) error {
	query := `
		INSERT INTO insight (patient_id, author, title, body, category, pinned)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, in.PatientID, in.Author, in.Title,
		in.Body, in.Category, in.Pinned).
		Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Insight, error) {
	query := `SELECT ` + insightCols + ` FROM insight WHERE id = $1`
	in, err := scanInsight(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get insight: %w", err)
	}
	return in, nil
}

func (r *pgRepository) Update(ctx context.Context, in *Insight) error {
	query := `
		UPDATE insight SET
			title = $2, body = $3, category = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, in.ID, in.Title, in.Body, in.Category).
		Scan(&in.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update insight: %w", err)
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM insight WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepository) List(ctx context.Context, category string, limit, offset int) ([]Insight, int, error) {
	where := ""
	args := []interface{}{}
	if category != "" {
		where = "WHERE category = $1"
		args = append(args, category)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM insight `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count insights: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM insight %s ORDER BY pinned DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		insightCols, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	out, err := collectInsights(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *pgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Insight, error) {
	query := `SELECT ` + insightCols + ` FROM insight WHERE patient_id = $1 ORDER BY pinned DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient insights: %w", err)
	}
	defer rows.Close()
	return collectInsights(rows)
}

func (r *pgRepository) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE insight SET pinned = $2, updated_at = now() WHERE id = $1`, id, pinned)
	if err != nil {
		return fmt.Errorf("pin insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectInsights(rows pgx.Rows) ([]Insight, error) {
	out := make([]Insight, 0)
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}
