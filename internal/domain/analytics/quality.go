package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

const (
	iqrMultiplier   = 1.5
	maxOutlierRows  = 20
	duplicateWeight = 5
	issueWeight     = 3
)

// DuplicateMRN is an MRN shared by more than one patient row. The
// schema enforces uniqueness on new writes; bulk imports that predate
// the constraint can still carry duplicates.
type DuplicateMRN struct {
	MRN   string `json:"mrn"`
	Count int    `json:"count"`
}

// ConsistencyCounts are rows whose values fall outside plausible
// clinical ranges.
type ConsistencyCounts struct {
	InvalidAge        int
	NegativePSA       int
	GleasonOutOfRange int
}

type ConsistencyIssue struct {
	Type        string `json:"type"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// PSAOutlier is a patient whose PSA falls outside the IQR fences for
// the whole registry.
type PSAOutlier struct {
	PatientID uuid.UUID `json:"patient_id"`
	MRN       string    `json:"mrn"`
	PSALevel  float64   `json:"psa_level"`
	Reason    string    `json:"reason"`
}

type QualityReport struct {
	TotalPatients     int                `json:"total_patients"`
	OverallScore      float64            `json:"overall_quality_score"`
	MissingData       map[string]int     `json:"missing_data"`
	Completeness      map[string]float64 `json:"completeness"`
	Duplicates        []DuplicateMRN     `json:"duplicates"`
	Outliers          []PSAOutlier       `json:"outliers"`
	ConsistencyIssues []ConsistencyIssue `json:"consistency_issues"`
}

// Quality builds the registry-wide data quality report: per-field
// completeness, duplicate MRNs, PSA outliers, and range violations.
func (s *Service) Quality(ctx context.Context) (*QualityReport, error) {
	if hit, ok := s.cache.Get(cacheKeyQuality); ok {
		return hit.(*QualityReport), nil
	}

	total, err := s.repo.CountPatients(ctx)
	if err != nil {
		return nil, err
	}
	missing, err := s.repo.MissingFieldCounts(ctx)
	if err != nil {
		return nil, err
	}
	duplicates, err := s.repo.DuplicateMRNs(ctx)
	if err != nil {
		return nil, err
	}
	consistency, err := s.repo.ConsistencyCounts(ctx)
	if err != nil {
		return nil, err
	}
	psaLevels, err := s.repo.PSALevels(ctx)
	if err != nil {
		return nil, err
	}
	inputs, err := s.repo.RiskInputs(ctx)
	if err != nil {
		return nil, err
	}

	completeness := make(map[string]float64, len(missing))
	for field, count := range missing {
		if total > 0 {
			completeness[field] = round2((1 - float64(count)/float64(total)) * 100)
		} else {
			completeness[field] = 0
		}
	}

	report := &QualityReport{
		TotalPatients:     total,
		MissingData:       missing,
		Completeness:      completeness,
		Duplicates:        duplicates,
		Outliers:          psaOutliers(psaLevels, inputs),
		ConsistencyIssues: consistencyIssues(consistency),
	}
	report.OverallScore = qualityScore(completeness, len(duplicates), len(report.ConsistencyIssues))

	s.cache.Set(cacheKeyQuality, report, 0)
	return report, nil
}

func psaOutliers(levels []float64, inputs []RiskInput) []PSAOutlier {
	out := make([]PSAOutlier, 0)
	if len(levels) == 0 {
		return out
	}

	q1, _ := stats.Percentile(levels, 25)
	q3, _ := stats.Percentile(levels, 75)
	iqr := q3 - q1
	lower := q1 - iqrMultiplier*iqr
	upper := q3 + iqrMultiplier*iqr

	for _, in := range inputs {
		if in.PSALevel == nil {
			continue
		}
		v := *in.PSALevel
		if v >= lower && v <= upper {
			continue
		}
		reason := "above Q3+1.5*IQR"
		if v < lower {
			reason = "below Q1-1.5*IQR"
		}
		out = append(out, PSAOutlier{
			PatientID: in.PatientID,
			MRN:       in.MRN,
			PSALevel:  v,
			Reason:    reason,
		})
		if len(out) == maxOutlierRows {
			break
		}
	}
	return out
}

func consistencyIssues(c ConsistencyCounts) []ConsistencyIssue {
	issues := make([]ConsistencyIssue, 0)
	if c.InvalidAge > 0 {
		issues = append(issues, ConsistencyIssue{
			Type:        "invalid_age",
			Count:       c.InvalidAge,
			Description: "patients with age < 0 or > 150",
		})
	}
	if c.NegativePSA > 0 {
		issues = append(issues, ConsistencyIssue{
			Type:        "invalid_psa",
			Count:       c.NegativePSA,
			Description: "patients with negative PSA levels",
		})
	}
	if c.GleasonOutOfRange > 0 {
		issues = append(issues, ConsistencyIssue{
			Type:        "invalid_gleason",
			Count:       c.GleasonOutOfRange,
			Description: "patients with Gleason score < 1 or > 10",
		})
	}
	return issues
}

// qualityScore starts from mean field completeness and deducts per
// duplicate and per consistency issue class, floored at zero.
func qualityScore(completeness map[string]float64, duplicates, issues int) float64 {
	if len(completeness) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range completeness {
		sum += v
	}
	score := sum/float64(len(completeness)) - float64(duplicates*duplicateWeight) - float64(issues*issueWeight)
	if score < 0 {
		score = 0
	}
	return round2(score)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
