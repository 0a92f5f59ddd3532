package clinical

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgProcedureRepo struct {
	pool *pgxpool.Pool
}

func NewPGProcedureRepository(pool *pgxpool.Pool) ProcedureRepository {
	return &pgProcedureRepo{pool: pool}
}

const procedureCols = `id, patient_id, procedure_type, procedure_date, provider,
	facility, notes, cores_taken, cores_positive, gleason_primary,
	gleason_secondary, margin_status, complications, created_at, updated_at`

func scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.PatientID, &p.ProcedureType, &p.ProcedureDate,
		&p.Provider, &p.Facility, &p.Notes, &p.CoresTaken, &p.CoresPositive,
		&p.GleasonPrimary, &p.GleasonSecondary, &p.MarginStatus,
		&p.Complications, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgProcedureRepo) Create(ctx context.Context, p *Procedure) error {
	query := `
		INSERT INTO procedure (patient_id, procedure_type, procedure_date,
			provider, facility, notes, cores_taken, cores_positive,
			gleason_primary, gleason_secondary, margin_status, complications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.PatientID, p.ProcedureType,
		p.ProcedureDate, p.Provider, p.Facility, p.Notes, p.CoresTaken,
		p.CoresPositive, p.GleasonPrimary, p.GleasonSecondary,
		p.MarginStatus, p.Complications).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert procedure: %w", err)
	}
	return nil
}

func (r *pgProcedureRepo) GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	query := `SELECT ` + procedureCols + ` FROM procedure WHERE id = $1`
	p, err := scanProcedure(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get procedure: %w", err)
	}
	return p, nil
}

func (r *pgProcedureRepo) Update(ctx context.Context, p *Procedure) error {
	query := `
		UPDATE procedure SET
			procedure_type = $2, procedure_date = $3, provider = $4,
			facility = $5, notes = $6, cores_taken = $7, cores_positive = $8,
			gleason_primary = $9, gleason_secondary = $10, margin_status = $11,
			complications = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, p.ID, p.ProcedureType, p.ProcedureDate,
		p.Provider, p.Facility, p.Notes, p.CoresTaken, p.CoresPositive,
		p.GleasonPrimary, p.GleasonSecondary, p.MarginStatus,
		p.Complications).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update procedure: %w", err)
	}
	return nil
}

func (r *pgProcedureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM procedure WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete procedure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgProcedureRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Procedure, error) {
	query := `SELECT ` + procedureCols + ` FROM procedure WHERE patient_id = $1 ORDER BY procedure_date DESC`
	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list procedures: %w", err)
	}
	defer rows.Close()

	out := make([]Procedure, 0)
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, fmt.Errorf("scan procedure: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type pgLabResultRepo struct {
	pool *pgxpool.Pool
}

func NewPGLabResultRepository(pool *pgxpool.Pool) LabResultRepository {
	return &pgLabResultRepo{pool: pool}
}

const labResultCols = `id, patient_id, test_type, test_date, test_value,
	test_unit, reference_range, ordering_md, notes, created_at, updated_at`

func scanLabResult(row pgx.Row) (*LabResult, error) {
	var l LabResult
	err := row.Scan(&l.ID, &l.PatientID, &l.TestType, &l.TestDate,
		&l.TestValue, &l.TestUnit, &l.ReferenceRange, &l.OrderingMD,
		&l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *pgLabResultRepo) Create(ctx context.Context, l *LabResult) error {
	query := `
		INSERT INTO lab_result (patient_id, test_type, test_date, test_value,
			test_unit, reference_range, ordering_md, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, l.PatientID, l.TestType, l.TestDate,
		l.TestValue, l.TestUnit, l.ReferenceRange, l.OrderingMD, l.Notes).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lab result: %w", err)
	}
	return nil
}

func (r *pgLabResultRepo) GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	query := `SELECT ` + labResultCols + ` FROM lab_result WHERE id = $1`
	l, err := scanLabResult(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lab result: %w", err)
	}
	return l, nil
}

func (r *pgLabResultRepo) Update(ctx context.Context, l *LabResult) error {
	query := `
		UPDATE lab_result SET
			test_type = $2, test_date = $3, test_value = $4, test_unit = $5,
			reference_range = $6, ordering_md = $7, notes = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, l.ID, l.TestType, l.TestDate,
		l.TestValue, l.TestUnit, l.ReferenceRange, l.OrderingMD, l.Notes).
		Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update lab result: %w", err)
	}
	return nil
}

func (r *pgLabResultRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lab_result WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lab result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgLabResultRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]LabResult, error) {
	query := `SELECT ` + labResultCols + ` FROM lab_result WHERE patient_id = $1 ORDER BY test_date DESC`
	return r.collect(ctx, query, patientID)
}

func (r *pgLabResultRepo) SeriesByType(ctx context.Context, patientID uuid.UUID, testType string) ([]LabResult, error) {
	query := `SELECT ` + labResultCols + ` FROM lab_result WHERE patient_id = $1 AND test_type = $2 ORDER BY test_date ASC`
	return r.collect(ctx, query, patientID, testType)
}

func (r *pgLabResultRepo) collect(ctx context.Context, query string, args ...interface{}) ([]LabResult, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lab results: %w", err)
	}
	defer rows.Close()

	out := make([]LabResult, 0)
	for rows.Next() {
		l, err := scanLabResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lab result: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

type pgFollowUpRepo struct {
	pool *pgxpool.Pool
}

func NewPGFollowUpRepository(pool *pgxpool.Pool) FollowUpRepository {
	return &pgFollowUpRepo{pool: pool}
}

const followUpCols = `id, patient_id, follow_up_date, status, psa_at_follow_up,
	symptoms, next_visit_date, notes, created_at, updated_at`

func scanFollowUp(row pgx.Row) (*FollowUp, error) {
	var f FollowUp
	err := row.Scan(&f.ID, &f.PatientID, &f.FollowUpDate, &f.Status,
		&f.PSAAtFollowUp, &f.Symptoms, &f.NextVisitDate, &f.Notes,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *pgFollowUpRepo) Create(ctx context.Context, f *FollowUp) error {
	query := `
		INSERT INTO follow_up (patient_id, follow_up_date, status,
			psa_at_follow_up, symptoms, next_visit_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, f.PatientID, f.FollowUpDate, f.Status,
		f.PSAAtFollowUp, f.Symptoms, f.NextVisitDate, f.Notes).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert follow-up: %w", err)
	}
	return nil
}

func (r *pgFollowUpRepo) GetByID(ctx context.Context, id uuid.UUID) (*FollowUp, error) {
	query := `SELECT ` + followUpCols + ` FROM follow_up WHERE id = $1`
	f, err := scanFollowUp(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get follow-up: %w", err)
	}
	return f, nil
}

func (r *pgFollowUpRepo) Update(ctx context.Context, f *FollowUp) error {
	query := `
		UPDATE follow_up SET
			follow_up_date = $2, status = $3, psa_at_follow_up = $4,
			symptoms = $5, next_visit_date = $6, notes = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, f.ID, f.FollowUpDate, f.Status,
		f.PSAAtFollowUp, f.Symptoms, f.NextVisitDate, f.Notes).
		Scan(&f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update follow-up: %w", err)
	}
	return nil
}

func (r *pgFollowUpRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM follow_up WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete follow-up: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgFollowUpRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]FollowUp, error) {
	query := `SELECT ` + followUpCols + ` FROM follow_up WHERE patient_id = $1 ORDER BY follow_up_date DESC`
	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	defer rows.Close()

	out := make([]FollowUp, 0)
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}
