package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Entry kinds.
const (
	KindProcedure = "procedure"
	KindLabResult = "lab_result"
)

// ProcedureRecord is the loosely-typed shape timeline merging accepts.
// Dates arrive as strings from external payloads and may be malformed.
type ProcedureRecord struct {
	Date     string `json:"procedure_date"`
	Type     string `json:"procedure_type"`
	Provider string `json:"provider"`
	Facility string `json:"facility"`
	Notes    string `json:"notes"`
}

// LabRecord is the loosely-typed lab result shape for timeline merging.
type LabRecord struct {
	Date           string   `json:"test_date"`
	Type           string   `json:"test_type"`
	Value          *float64 `json:"test_value"`
	Unit           string   `json:"test_unit"`
	ReferenceRange string   `json:"reference_range"`
	Notes          string   `json:"notes"`
}

// Entry is one merged timeline item. A zero Timestamp marks a record
// whose date could not be parsed; those sort after every dated entry.
type Entry struct {
	Kind        string    `json:"kind"`
	Timestamp   time.Time `json:"timestamp"`
	DateValid   bool      `json:"date_valid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`
}

// Timeline carries the merged entries plus an explicit empty signal so
// callers can tell "no data" apart from "not loaded".
type Timeline struct {
	Entries []Entry `json:"entries"`
	HasData bool    `json:"has_data"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// parseDate tries the accepted layouts and returns the zero time when
// none match. It never fails.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Merge combines procedures and lab results into a single timeline
// sorted newest first. Records with equal or unparseable timestamps
// keep their input order, procedures before labs. Every input record
// produces exactly one entry.
func Merge(procedures []ProcedureRecord, labs []LabRecord) Timeline {
	entries := make([]Entry, 0, len(procedures)+len(labs))

	for _, p := range procedures {
		ts, ok := parseDate(p.Date)
		entries = append(entries, Entry{
			Kind:        KindProcedure,
			Timestamp:   ts,
			DateValid:   ok,
			Title:       procedureTitle(p.Type),
			Description: procedureDescription(p),
			Notes:       p.Notes,
		})
	}
	for _, l := range labs {
		ts, ok := parseDate(l.Date)
		entries = append(entries, Entry{
			Kind:        KindLabResult,
			Timestamp:   ts,
			DateValid:   ok,
			Title:       labTitle(l.Type),
			Description: labDescription(l),
			Notes:       l.Notes,
		})
	}

	// Stable descending sort. Zero timestamps compare older than any
	// real date and therefore sink to the end.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return Timeline{Entries: entries, HasData: len(entries) > 0}
}

var procedureLabels = map[string]string{
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

func procedureTitle(procType string) string {
	if label, ok := procedureLabels[strings.ToLower(strings.TrimSpace(procType))]; ok {
		return label
	}
	return "Unknown Procedure"
}

func procedureDescription(p ProcedureRecord) string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(p.Provider) != "" {
		parts = append(parts, p.Provider)
	}
	if strings.TrimSpace(p.Facility) != "" {
		parts = append(parts, p.Facility)
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

func labTitle(testType string) string {
	t := strings.TrimSpace(testType)
	if t == "" {
		return "Unknown Test"
	}
	if len(t) <= 4 {
		return strings.ToUpper(t)
	}
	r, size := utf8.DecodeRuneInString(t)
	return strings.ToUpper(string(r)) + t[size:]
}

func labDescription(l LabRecord) string {
	value := "N/A"
	if l.Value != nil {
		value = trimFloat(*l.Value)
		if strings.TrimSpace(l.Unit) != "" {
			value += " " + l.Unit
		}
	}
	if strings.TrimSpace(l.ReferenceRange) != "" {
		return fmt.Sprintf("%s (ref %s)", value, l.ReferenceRange)
	}
	return value
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
