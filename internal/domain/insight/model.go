package insight

import (
	"time"

	"github.com/google/uuid"
)

// Categories classify researcher notes on the registry.
var Categories = map[string]bool{
	"observation": true,
	"hypothesis":  true,
	"anomaly":     true,
	"action_item": true,
}

// Insight is a researcher-authored note, optionally scoped to one
// patient. Pinned insights surface first on the dashboard.
type Insight struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	Author    string     `db:"author" json:"author"`
	Title     string     `db:"title" json:"title"`
	Body      string     `db:"body" json:"body"`
	Category  string     `db:"category" json:"category"`
	Pinned    bool       `db:"pinned" json:"pinned"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
