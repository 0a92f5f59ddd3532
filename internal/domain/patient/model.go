package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. MRN is the only required field;
// registries routinely receive records with everything else missing.
type Patient struct {
	ID            uuid.UUID              `db:"id" json:"id"`
	MRN           string                 `db:"mrn" json:"mrn"`
	FirstName     *string                `db:"first_name" json:"first_name,omitempty"`
	LastName      *string                `db:"last_name" json:"last_name,omitempty"`
	DateOfBirth   *time.Time             `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Age           *int                   `db:"age" json:"age,omitempty"`
	Gender        *string                `db:"gender" json:"gender,omitempty"`
	Diagnosis     *string                `db:"diagnosis" json:"diagnosis,omitempty"`
	GleasonScore  *int                   `db:"gleason_score" json:"gleason_score,omitempty"`
	PSALevel      *float64               `db:"psa_level" json:"psa_level,omitempty"`
	ClinicalStage *string                `db:"clinical_stage" json:"clinical_stage,omitempty"`
	Race          *string                `db:"race" json:"race,omitempty"`
	Ethnicity     *string                `db:"ethnicity" json:"ethnicity,omitempty"`
	Insurance     *string                `db:"insurance" json:"insurance,omitempty"`
	Phone         *string                `db:"phone" json:"phone,omitempty"`
	Email         *string                `db:"email" json:"email,omitempty"`
	Address       *string                `db:"address" json:"address,omitempty"`
	CustomFields  map[string]interface{} `db:"custom_fields" json:"custom_fields,omitempty"`
	CreatedAt     time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `db:"updated_at" json:"updated_at"`
	Tags          []Tag                  `db:"-" json:"tags,omitempty"`
}

// Tag is a researcher-defined label attached to patients.
type Tag struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Color *string   `db:"color" json:"color,omitempty"`
}

// DisplayName returns "Last, First" with placeholders for missing parts.
func (p *Patient) DisplayName() string {
	first := "Unknown"
	last := "Unknown"
	if p.FirstName != nil && *p.FirstName != "" {
		first = *p.FirstName
	}
	if p.LastName != nil && *p.LastName != "" {
		last = *p.LastName
	}
	return last + ", " + first
}

// Filter holds the research-context cohort criteria. All fields combine
// with AND; slice fields match any of their values.
type Filter struct {
	AgeMin        *int       `json:"age_min,omitempty"`
	AgeMax        *int       `json:"age_max,omitempty"`
	Diagnosis     *string    `json:"diagnosis,omitempty"`
	GleasonMin    *int       `json:"gleason_score_min,omitempty"`
	GleasonMax    *int       `json:"gleason_score_max,omitempty"`
	PSAMin        *float64   `json:"psa_level_min,omitempty"`
	PSAMax        *float64   `json:"psa_level_max,omitempty"`
	ProcedureType *string    `json:"procedure_type,omitempty"`
	Genders       []string   `json:"gender,omitempty"`
	Races         []string   `json:"race,omitempty"`
	Stages        []string   `json:"clinical_stage,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// IsZero reports whether no criteria are set.
func (f Filter) IsZero() bool {
	return f.AgeMin == nil && f.AgeMax == nil && f.Diagnosis == nil &&
		f.GleasonMin == nil && f.GleasonMax == nil &&
		f.PSAMin == nil && f.PSAMax == nil && f.ProcedureType == nil &&
		len(f.Genders) == 0 && len(f.Races) == 0 && len(f.Stages) == 0 &&
		f.DateFrom == nil && f.DateTo == nil
}
