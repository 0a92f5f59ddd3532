package analytics

import (
	"context"
	"time"
)

// Repository exposes the aggregate queries the dashboard needs.
type Repository interface {
	CountPatients(ctx context.Context) (int, error)
	CountProcedures(ctx context.Context) (int, error)
	CountProceduresSince(ctx context.Context, since time.Time) (int, error)
	CountActiveSurveillance(ctx context.Context) (int, error)
	AvgPSA(ctx context.Context) (*float64, error)
	ProcedureCountsByType(ctx context.Context) (map[string]int, error)
	PSALevels(ctx context.Context) ([]float64, error)
	GleasonScores(ctx context.Context) ([]int, error)
	RiskInputs(ctx context.Context) ([]RiskInput, error)
	MissingFieldCounts(ctx context.Context) (map[string]int, error)
	DuplicateMRNs(ctx context.Context) ([]DuplicateMRN, error)
	ConsistencyCounts(ctx context.Context) (ConsistencyCounts, error)
}
