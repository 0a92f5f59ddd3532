package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinsight/clinsight/internal/platform/cache"
)

const (
	recentWindow = 30 * 24 * time.Hour

	cacheKeyDashboard      = "analytics:dashboard"
	cacheKeyPSABuckets     = "analytics:psa-distribution"
	cacheKeyGleasonBuckets = "analytics:gleason-distribution"
	cacheKeyStratification = "analytics:risk-stratification"
	cacheKeyQuality        = "analytics:data-quality"
)

// Service computes registry-wide aggregates. Results are cached since
// every dashboard load would otherwise re-scan the patient table.
type Service struct {
	repo  Repository
	cache *cache.Store
}

func NewService(repo Repository, store *cache.Store) *Service {
	return &Service{repo: repo, cache: store}
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if hit, ok := s.cache.Get(cacheKeyDashboard); ok {
		return hit.(*DashboardStats), nil
	}

	patients, err := s.repo.CountPatients(ctx)
	if err != nil {
		return nil, err
	}
	procedures, err := s.repo.CountProcedures(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.CountProceduresSince(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, err
	}
	surveillance, err := s.repo.CountActiveSurveillance(ctx)
	if err != nil {
		return nil, err
	}
	avgPSA, err := s.repo.AvgPSA(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.ProcedureCountsByType(ctx)
	if err != nil {
		return nil, err
	}
	inputs, err := s.repo.RiskInputs(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]int)
	for _, in := range inputs {
		groups[Stratify(in)]++
	}

	stats := &DashboardStats{
		TotalPatients:      patients,
		TotalProcedures:    procedures,
		RecentProcedures:   recent,
		ActiveSurveillance: surveillance,
		HighRiskCount:      groups[RiskHigh] + groups[RiskVeryHigh],
		AvgPSA:             avgPSA,
		ProceduresByType:   byType,
		RiskGroups:         groups,
	}
	s.cache.Set(cacheKeyDashboard, stats, 0)
	return stats, nil
}

func (s *Service) PSADistribution(ctx context.Context) ([]Bucket, error) {
	if hit, ok := s.cache.Get(cacheKeyPSABuckets); ok {
		return hit.([]Bucket), nil
	}
	values, err := s.repo.PSALevels(ctx)
	if err != nil {
		return nil, err
	}
	buckets := psaBuckets(values)
	s.cache.Set(cacheKeyPSABuckets, buckets, 0)
	return buckets, nil
}

func (s *Service) GleasonDistribution(ctx context.Context) ([]Bucket, error) {
	if hit, ok := s.cache.Get(cacheKeyGleasonBuckets); ok {
		return hit.([]Bucket), nil
	}
	scores, err := s.repo.GleasonScores(ctx)
	if err != nil {
		return nil, err
	}
	buckets := gleasonBuckets(scores)
	s.cache.Set(cacheKeyGleasonBuckets, buckets, 0)
	return buckets, nil
}

// Stratification groups every patient by NCCN risk category.
func (s *Service) Stratification(ctx context.Context) ([]StratifiedPatient, error) {
	if hit, ok := s.cache.Get(cacheKeyStratification); ok {
		return hit.([]StratifiedPatient), nil
	}
	inputs, err := s.repo.RiskInputs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StratifiedPatient, 0, len(inputs))
	for _, in := range inputs {
		est := PredictRisk(RiskFeatures{
			PSALevel:      in.PSALevel,
			GleasonScore:  in.GleasonScore,
			ClinicalStage: in.ClinicalStage,
		})
		out = append(out, StratifiedPatient{
			RiskInput: in,
			RiskGroup: Stratify(in),
			Factors:   est.Factors,
		})
	}
	s.cache.Set(cacheKeyStratification, out, 0)
	return out, nil
}

// HighRisk returns patients in the high and very-high groups.
func (s *Service) HighRisk(ctx context.Context) ([]StratifiedPatient, error) {
	all, err := s.Stratification(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StratifiedPatient, 0)
	for _, p := range all {
		if p.RiskGroup == RiskHigh || p.RiskGroup == RiskVeryHigh {
			out = append(out, p)
		}
	}
	return out, nil
}

// Invalidate drops cached aggregates. Call after bulk data loads.
func (s *Service) Invalidate() {
	s.cache.Delete(cacheKeyDashboard)
	s.cache.Delete(cacheKeyPSABuckets)
	s.cache.Delete(cacheKeyGleasonBuckets)
	s.cache.Delete(cacheKeyStratification)
	s.cache.Delete(cacheKeyQuality)
}

func psaBuckets(values []float64) []Bucket {
	buckets := []Bucket{
		{Label: "0-4"},
		{Label: "4-10"},
		{Label: "10-20"},
		{Label: "20-50"},
		{Label: "50+"},
	}
	for _, v := range values {
		switch {
		case v < 4:
			buckets[0].Count++
		case v < 10:
			buckets[1].Count++
		case v < 20:
			buckets[2].Count++
		case v < 50:
			buckets[3].Count++
		default:
			buckets[4].Count++
		}
	}
	return buckets
}

func gleasonBuckets(scores []int) []Bucket {
	buckets := []Bucket{
		{Label: "6 or less"},
		{Label: "7"},
		{Label: "8-10"},
	}
	for _, v := range scores {
		switch {
		case v <= 6:
			buckets[0].Count++
		case v == 7:
			buckets[1].Count++
		default:
			buckets[2].Count++
		}
	}
	return buckets
}

// Stratify assigns the NCCN localized-disease risk group. Patients
// missing PSA or Gleason data land in the unknown group rather than
// being silently dropped.
func Stratify(in RiskInput) string {
	stage := ""
	if in.ClinicalStage != nil {
		stage = strings.ToUpper(strings.TrimSpace(*in.ClinicalStage))
	}

	if strings.HasPrefix(stage, "T3B") || strings.HasPrefix(stage, "T4") {
		return RiskVeryHigh
	}
	if in.PSALevel != nil && *in.PSALevel > 20 {
		return RiskHigh
	}
	if in.GleasonScore != nil && *in.GleasonScore >= 8 {
		return RiskHigh
	}
	if strings.HasPrefix(stage, "T3") {
		return RiskHigh
	}
	if in.PSALevel != nil && *in.PSALevel >= 10 {
		return RiskIntermediate
	}
	if in.GleasonScore != nil && *in.GleasonScore == 7 {
		return RiskIntermediate
	}
	if strings.HasPrefix(stage, "T2B") || strings.HasPrefix(stage, "T2C") {
		return RiskIntermediate
	}

	if in.PSALevel == nil || in.GleasonScore == nil {
		return RiskUnknown
	}
	if stage == "T1C" {
		return RiskVeryLow
	}
	return RiskLow
}

// PredictRisk is a transparent rule-based score, not a trained model.
// Each contributing factor is named so the caller can display why.
func PredictRisk(f RiskFeatures) RiskEstimate {
	score := 0
	var factors []string

	if f.PSALevel != nil {
		switch {
		case *f.PSALevel > 20:
			score += 3
			factors = append(factors, "PSA above 20 ng/mL")
		case *f.PSALevel >= 10:
			score += 2
			factors = append(factors, "PSA 10-20 ng/mL")
		case *f.PSALevel >= 4:
			score++
			factors = append(factors, "PSA 4-10 ng/mL")
		}
	}
	if f.GleasonScore != nil {
		switch {
		case *f.GleasonScore >= 8:
			score += 3
			factors = append(factors, fmt.Sprintf("Gleason score %d", *f.GleasonScore))
		case *f.GleasonScore == 7:
			score += 2
			factors = append(factors, "Gleason score 7")
		}
	}
	if f.ClinicalStage != nil {
		stage := strings.ToUpper(strings.TrimSpace(*f.ClinicalStage))
		switch {
		case strings.HasPrefix(stage, "T3"), strings.HasPrefix(stage, "T4"):
			score += 3
			factors = append(factors, "locally advanced stage "+stage)
		case strings.HasPrefix(stage, "T2"):
			score++
			factors = append(factors, "palpable tumor stage "+stage)
		}
	}
	if f.PSAVelocity != nil {
		switch {
		case *f.PSAVelocity > 2:
			score += 2
			factors = append(factors, "PSA velocity above 2 ng/mL/yr")
		case *f.PSAVelocity > 0.75:
			score++
			factors = append(factors, "PSA velocity above 0.75 ng/mL/yr")
		}
	}
	if f.Age != nil && *f.Age >= 70 {
		score++
		factors = append(factors, "age 70 or older")
	}

	level := "low"
	switch {
	case score >= 6:
		level = "high"
	case score >= 3:
		level = "intermediate"
	}
	if factors == nil {
		factors = []string{}
	}
	return RiskEstimate{Score: score, Level: level, Factors: factors}
}
