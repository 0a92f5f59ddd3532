package analytics

import (
	"github.com/google/uuid"
)

// DashboardStats is the registry-wide summary for the landing page.
type DashboardStats struct {
	TotalPatients      int            `json:"total_patients"`
	TotalProcedures    int            `json:"total_procedures"`
	RecentProcedures   int            `json:"recent_procedures"`
	ActiveSurveillance int            `json:"active_surveillance"`
	HighRiskCount      int            `json:"high_risk_count"`
	AvgPSA             *float64       `json:"avg_psa,omitempty"`
	ProceduresByType   map[string]int `json:"procedures_by_type"`
	RiskGroups         map[string]int `json:"risk_groups"`
}

// Bucket is one bar of a distribution chart.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Risk group names follow the NCCN localized-disease categories.
const (
	RiskVeryLow      = "very_low"
	RiskLow          = "low"
	RiskIntermediate = "intermediate"
	RiskHigh         = "high"
	RiskVeryHigh     = "very_high"
	RiskUnknown      = "unknown"
)

// RiskInput is the minimal per-patient slice stratification needs.
type RiskInput struct {
	PatientID     uuid.UUID `json:"patient_id"`
	MRN           string    `json:"mrn"`
	PSALevel      *float64  `json:"psa_level,omitempty"`
	GleasonScore  *int      `json:"gleason_score,omitempty"`
	ClinicalStage *string   `json:"clinical_stage,omitempty"`
}

// StratifiedPatient pairs a patient with their assigned risk group and
// the factors that contributed to it.
type StratifiedPatient struct {
	RiskInput
	RiskGroup string   `json:"risk_group"`
	Factors   []string `json:"factors"`
}

// RiskFeatures is the input to the rule-based risk estimate.
type RiskFeatures struct {
	Age           *int     `json:"age,omitempty"`
	PSALevel      *float64 `json:"psa_level,omitempty"`
	PSAVelocity   *float64 `json:"psa_velocity,omitempty"`
	GleasonScore  *int     `json:"gleason_score,omitempty"`
	ClinicalStage *string  `json:"clinical_stage,omitempty"`
}

// RiskEstimate is the rule-based score with the factors that drove it.
type RiskEstimate struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}
