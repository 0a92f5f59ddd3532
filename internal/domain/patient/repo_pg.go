package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository returns a Repository backed by Postgres.
func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const patientCols = `id, mrn, first_name, last_name, date_of_birth, age, gender,
	diagnosis, gleason_score, psa_level, clinical_stage, race, ethnicity,
	insurance, phone, email, address, custom_fields, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.Age, &p.Gender, &p.Diagnosis, &p.GleasonScore, &p.PSALevel,
		&p.ClinicalStage, &p.Race, &p.Ethnicity, &p.Insurance, &p.Phone,
		&p.Email, &p.Address, &p.CustomFields, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgRepository) Create(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patient (mrn, first_name, last_name, date_of_birth, age,
			gender, diagnosis, gleason_score, psa_level, clinical_stage, race,
			ethnicity, insurance, phone, email, address, custom_fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.MRN, p.FirstName, p.LastName,
		p.DateOfBirth, p.Age, p.Gender, p.Diagnosis, p.GleasonScore,
		p.PSALevel, p.ClinicalStage, p.Race, p.Ethnicity, p.Insurance,
		p.Phone, p.Email, p.Address, p.CustomFields).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMRN
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	query := `SELECT ` + patientCols + ` FROM patient WHERE id = $1`
	p, err := scanPatient(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (r *pgRepository) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	query := `SELECT ` + patientCols + ` FROM patient WHERE mrn = $1`
	p, err := scanPatient(r.pool.QueryRow(ctx, query, mrn))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient by mrn: %w", err)
	}
	return p, nil
}

func (r *pgRepository) Update(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patient SET
			first_name = $2, last_name = $3, date_of_birth = $4, age = $5,
			gender = $6, diagnosis = $7, gleason_score = $8, psa_level = $9,
			clinical_stage = $10, race = $11, ethnicity = $12, insurance = $13,
			phone = $14, email = $15, address = $16, custom_fields = $17,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, p.ID, p.FirstName, p.LastName,
		p.DateOfBirth, p.Age, p.Gender, p.Diagnosis, p.GleasonScore,
		p.PSALevel, p.ClinicalStage, p.Race, p.Ethnicity, p.Insurance,
		p.Phone, p.Email, p.Address, p.CustomFields).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepository) List(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	query := `SELECT ` + patientCols + ` FROM patient ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	patients, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *pgRepository) Search(ctx context.Context, f Filter, limit, offset int) ([]Patient, int, error) {
	where, args := buildFilter(f)

	countQuery := `SELECT count(DISTINCT p.id) FROM patient p ` + filterJoins(f) + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cohort: %w", err)
	}

	query := fmt.Sprintf(`SELECT DISTINCT %s FROM patient p %s%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		qualifiedPatientCols(), filterJoins(f), where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search cohort: %w", err)
	}
	defer rows.Close()

	patients, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

// qualifiedPatientCols prefixes every column with the patient alias so
// joined queries stay unambiguous.
func qualifiedPatientCols() string {
	cols := strings.Split(patientCols, ",")
	for i, c := range cols {
		cols[i] = "p." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func collectPatients(rows pgx.Rows) ([]Patient, error) {
	patients := make([]Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}

// filterJoins returns the join clause needed when procedure criteria are set.
func filterJoins(f Filter) string {
	if f.ProcedureType == nil && f.DateFrom == nil && f.DateTo == nil {
		return ""
	}
	return `JOIN procedure pr ON pr.patient_id = p.id `
}

func buildFilter(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AgeMin != nil {
		conds = append(conds, "p.age >= "+arg(*f.AgeMin))
	}
	if f.AgeMax != nil {
		conds = append(conds, "p.age <= "+arg(*f.AgeMax))
	}
	if f.Diagnosis != nil {
		conds = append(conds, "p.diagnosis ILIKE "+arg("%"+*f.Diagnosis+"%"))
	}
	if f.GleasonMin != nil {
		conds = append(conds, "p.gleason_score >= "+arg(*f.GleasonMin))
	}
	if f.GleasonMax != nil {
		conds = append(conds, "p.gleason_score <= "+arg(*f.GleasonMax))
	}
	if f.PSAMin != nil {
		conds = append(conds, "p.psa_level >= "+arg(*f.PSAMin))
	}
	if f.PSAMax != nil {
		conds = append(conds, "p.psa_level <= "+arg(*f.PSAMax))
	}
	if len(f.Genders) > 0 {
		conds = append(conds, "p.gender = ANY("+arg(f.Genders)+")")
	}
	if len(f.Races) > 0 {
		conds = append(conds, "p.race = ANY("+arg(f.Races)+")")
	}
	if len(f.Stages) > 0 {
		conds = append(conds, "p.clinical_stage = ANY("+arg(f.Stages)+")")
	}
	if f.ProcedureType != nil {
		conds = append(conds, "pr.procedure_type = "+arg(*f.ProcedureType))
	}
	if f.DateFrom != nil {
		conds = append(conds, "pr.procedure_date >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		conds = append(conds, "pr.procedure_date <= "+arg(*f.DateTo))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *pgRepository) CreateTag(ctx context.Context, t *Tag) error {
	query := `INSERT INTO patient_tag (name, color) VALUES ($1, $2) RETURNING id`
	if err := r.pool.QueryRow(ctx, query, t.Name, t.Color).Scan(&t.ID); err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (r *pgRepository) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color FROM patient_tag ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()
	return collectTags(rows)
}

func (r *pgRepository) AssignTag(ctx context.Context, patientID, tagID uuid.UUID) error {
	query := `
		INSERT INTO patient_tag_assignment (patient_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.pool.Exec(ctx, query, patientID, tagID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrTagNotFound
		}
		return fmt.Errorf("assign tag: %w", err)
	}
	return nil
}

func (r *pgRepository) UnassignTag(ctx context.Context, patientID, tagID uuid.UUID) error {
	query := `DELETE FROM patient_tag_assignment WHERE patient_id = $1 AND tag_id = $2`
	if _, err := r.pool.Exec(ctx, query, patientID, tagID); err != nil {
		return fmt.Errorf("unassign tag: %w", err)
	}
	return nil
}

func (r *pgRepository) TagsForPatient(ctx context.Context, patientID uuid.UUID) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.color
		FROM patient_tag t
		JOIN patient_tag_assignment a ON a.tag_id = t.id
		WHERE a.patient_id = $1
		ORDER BY t.name`
	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("tags for patient: %w", err)
	}
	defer rows.Close()
	return collectTags(rows)
}

func collectTags(rows pgx.Rows) ([]Tag, error) {
	tags := make([]Tag, 0)
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
