package clinical

import (
	"time"

	"github.com/google/uuid"
)

// ProcedureTypes enumerates the interventions tracked by the registry.
var ProcedureTypes = map[string]bool{
	"biopsy":        true,
	"surgery":       true,
	"radiation":     true,
	"cryotherapy":   true,
	"hifu":          true,
	"hormone":       true,
	"chemotherapy":  true,
	"immunotherapy": true,
	"other":         true,
}

// ProcedureTypeLabels maps stored values to display labels.
var ProcedureTypeLabels = map[string]string{
	"biopsy":        "Biopsy",
	"surgery":       "Surgery",
	"radiation":     "Radiation Therapy",
	"cryotherapy":   "Cryotherapy",
	"hifu":          "HIFU",
	"hormone":       "Hormone Therapy",
	"chemotherapy":  "Chemotherapy",
	"immunotherapy": "Immunotherapy",
	"other":         "Other Procedure",
}

type Procedure struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	ProcedureType    string    `db:"procedure_type" json:"procedure_type"`
	ProcedureDate    time.Time `db:"procedure_date" json:"procedure_date"`
	Provider         *string   `db:"provider" json:"provider,omitempty"`
	Facility         *string   `db:"facility" json:"facility,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	CoresTaken       *int      `db:"cores_taken" json:"cores_taken,omitempty"`
	CoresPositive    *int      `db:"cores_positive" json:"cores_positive,omitempty"`
	GleasonPrimary   *int      `db:"gleason_primary" json:"gleason_primary,omitempty"`
	GleasonSecondary *int      `db:"gleason_secondary" json:"gleason_secondary,omitempty"`
	MarginStatus     *string   `db:"margin_status" json:"margin_status,omitempty"`
	Complications    *string   `db:"complications" json:"complications,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// TypeLabel returns the display name for the procedure type, with a
// placeholder for unrecognized values.
func (p *Procedure) TypeLabel() string {
	if label, ok := ProcedureTypeLabels[p.ProcedureType]; ok {
		return label
	}
	return "Unknown Procedure"
}

type LabResult struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	TestType       string    `db:"test_type" json:"test_type"`
	TestDate       time.Time `db:"test_date" json:"test_date"`
	TestValue      *float64  `db:"test_value" json:"test_value,omitempty"`
	TestUnit       *string   `db:"test_unit" json:"test_unit,omitempty"`
	ReferenceRange *string   `db:"reference_range" json:"reference_range,omitempty"`
	OrderingMD     *string   `db:"ordering_md" json:"ordering_md,omitempty"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FollowUpStatuses are the allowed disease states recorded at follow-up.
var FollowUpStatuses = map[string]bool{
	"stable":      true,
	"progression": true,
	"recurrence":  true,
	"remission":   true,
	"deceased":    true,
	"unknown":     true,
}

type FollowUp struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	FollowUpDate  time.Time  `db:"follow_up_date" json:"follow_up_date"`
	Status        *string    `db:"status" json:"status,omitempty"`
	PSAAtFollowUp *float64   `db:"psa_at_follow_up" json:"psa_at_follow_up,omitempty"`
	Symptoms      *string    `db:"symptoms" json:"symptoms,omitempty"`
	NextVisitDate *time.Time `db:"next_visit_date" json:"next_visit_date,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
