package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) CountPatients(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM patient`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (r *pgRepository) CountProcedures(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM procedure`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count procedures: %w", err)
	}
	return n, nil
}

func (r *pgRepository) CountProceduresSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	query := `SELECT count(*) FROM procedure WHERE procedure_date >= $1`
	if err := r.pool.QueryRow(ctx, query, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recent procedures: %w", err)
	}
	return n, nil
}

func (r *pgRepository) CountActiveSurveillance(ctx context.Context) (int, error) {
	var n int
	query := `
		SELECT count(DISTINCT p.id)
		FROM patient p
		LEFT JOIN patient_tag_assignment a ON a.patient_id = p.id
		LEFT JOIN patient_tag t ON t.id = a.tag_id
		WHERE p.diagnosis ILIKE '%active surveillance%'
		   OR t.name ILIKE 'active surveillance'`
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active surveillance: %w", err)
	}
	return n, nil
}

func (r *pgRepository) AvgPSA(ctx context.Context) (*float64, error) {
	var avg *float64
	query := `SELECT avg(psa_level) FROM patient WHERE psa_level IS NOT NULL`
	if err := r.pool.QueryRow(ctx, query).Scan(&avg); err != nil {
		return nil, fmt.Errorf("avg psa: %w", err)
	}
	return avg, nil
}

func (r *pgRepository) ProcedureCountsByType(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT procedure_type, count(*) FROM procedure GROUP BY procedure_type`)
	if err != nil {
		return nil, fmt.Errorf("procedures by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var procType string
		var n int
		if err := rows.Scan(&procType, &n); err != nil {
			return nil, fmt.Errorf("scan procedure count: %w", err)
		}
		counts[procType] = n
	}
	return counts, rows.Err()
}

func (r *pgRepository) PSALevels(ctx context.Context) ([]float64, error) {
	rows, err := r.pool.Query(ctx, `SELECT psa_level FROM patient WHERE psa_level IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("psa levels: %w", err)
	}
	defer rows.Close()

	out := make([]float64, 0)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan psa level: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *pgRepository) GleasonScores(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT gleason_score FROM patient WHERE gleason_score IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("gleason scores: %w", err)
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan gleason score: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var completenessFields = []string{
	"first_name", "last_name", "date_of_birth", "age", "gender",
	"diagnosis", "gleason_score", "psa_level", "clinical_stage",
}

func (r *pgRepository) MissingFieldCounts(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE first_name IS NULL),
			count(*) FILTER (WHERE last_name IS NULL),
			count(*) FILTER (WHERE date_of_birth IS NULL),
			count(*) FILTER (WHERE age IS NULL),
			count(*) FILTER (WHERE gender IS NULL),
			count(*) FILTER (WHERE diagnosis IS NULL),
			count(*) FILTER (WHERE gleason_score IS NULL),
			count(*) FILTER (WHERE psa_level IS NULL),
			count(*) FILTER (WHERE clinical_stage IS NULL)
		FROM patient`

	counts := make([]int, len(completenessFields))
	dest := make([]interface{}, len(counts))
	for i := range counts {
		dest[i] = &counts[i]
	}
	if err := r.pool.QueryRow(ctx, query).Scan(dest...); err != nil {
		return nil, fmt.Errorf("missing field counts: %w", err)
	}

	out := make(map[string]int, len(completenessFields))
	for i, field := range completenessFields {
		out[field] = counts[i]
	}
	return out, nil
}

func (r *pgRepository) DuplicateMRNs(ctx context.Context) ([]DuplicateMRN, error) {
	query := `SELECT mrn, count(*) FROM patient GROUP BY mrn HAVING count(*) > 1`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("duplicate mrns: %w", err)
	}
	defer rows.Close()

	out := make([]DuplicateMRN, 0)
	for rows.Next() {
		var d DuplicateMRN
		if err := rows.Scan(&d.MRN, &d.Count); err != nil {
			return nil, fmt.Errorf("scan duplicate mrn: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *pgRepository) ConsistencyCounts(ctx context.Context) (ConsistencyCounts, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE age < 0 OR age > 150),
			count(*) FILTER (WHERE psa_level < 0),
			count(*) FILTER (WHERE gleason_score < 1 OR gleason_score > 10)
		FROM patient`

	var c ConsistencyCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&c.InvalidAge, &c.NegativePSA, &c.GleasonOutOfRange); err != nil {
		return ConsistencyCounts{}, fmt.Errorf("consistency counts: %w", err)
	}
	return c, nil
}

func (r *pgRepository) RiskInputs(ctx context.Context) ([]RiskInput, error) {
	query := `SELECT id, mrn, psa_level, gleason_score, clinical_stage FROM patient`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("risk inputs: %w", err)
	}
	defer rows.Close()

	out := make([]RiskInput, 0)
	for rows.Next() {
		var in RiskInput
		if err := rows.Scan(&in.PatientID, &in.MRN, &in.PSALevel, &in.GleasonScore, &in.ClinicalStage); err != nil {
			return nil, fmt.Errorf("scan risk input: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
