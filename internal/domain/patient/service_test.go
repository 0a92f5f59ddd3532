package patient

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	patients    map[uuid.UUID]*Patient
	tags        map[uuid.UUID]*Tag
	assignments map[uuid.UUID][]uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:    make(map[uuid.UUID]*Patient),
		tags:        make(map[uuid.UUID]*Tag),
		assignments: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	for _, existing := range m.patients {
		if existing.MRN == p.MRN {
			return ErrDuplicateMRN
		}
	}
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	for _, p := range m.patients {
		if p.MRN == mrn {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]Patient, int, error) {
	out := make([]Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockRepo) Search(_ context.Context, f Filter, limit, offset int) ([]Patient, int, error) {
	out := make([]Patient, 0)
	for _, p := range m.patients {
		if f.GleasonMin != nil && (p.GleasonScore == nil || *p.GleasonScore < *f.GleasonMin) {
			continue
		}
		if f.PSAMin != nil && (p.PSALevel == nil || *p.PSALevel < *f.PSAMin) {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockRepo) CreateTag(_ context.Context, t *Tag) error {
	t.ID = uuid.New()
	m.tags[t.ID] = t
	return nil
}

func (m *mockRepo) ListTags(_ context.Context) ([]Tag, error) {
	out := make([]Tag, 0, len(m.tags))
	for _, t := range m.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockRepo) AssignTag(_ context.Context, patientID, tagID uuid.UUID) error {
	if _, ok := m.tags[tagID]; !ok {
		return ErrTagNotFound
	}
	m.assignments[patientID] = append(m.assignments[patientID], tagID)
	return nil
}

func (m *mockRepo) UnassignTag(_ context.Context, patientID, tagID uuid.UUID) error {
	ids := m.assignments[patientID]
	for i, id := range ids {
		if id == tagID {
			m.assignments[patientID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockRepo) TagsForPatient(_ context.Context, patientID uuid.UUID) ([]Tag, error) {
	out := make([]Tag, 0)
	for _, id := range m.assignments[patientID] {
		if t, ok := m.tags[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }

func TestRegisterRequiresMRN(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Register(context.Background(), &Patient{})
	if err == nil || !strings.Contains(err.Error(), "mrn") {
		t.Fatalf("expected mrn validation error, got %v", err)
	}
}

func TestRegisterMRNOnly(t *testing.T) {
	svc := NewService(newMockRepo())

	p := &Patient{MRN: "  MRN-0001  "}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.MRN != "MRN-0001" {
		t.Errorf("mrn not trimmed: %q", p.MRN)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id assigned")
	}
}

func TestRegisterDuplicateMRN(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if err := svc.Register(ctx, &Patient{MRN: "MRN-0001"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := svc.Register(ctx, &Patient{MRN: "MRN-0001"})
	if err != ErrDuplicateMRN {
		t.Fatalf("expected ErrDuplicateMRN, got %v", err)
	}
}

func TestRegisterRejectsOutOfRange(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	cases := []struct {
		name    string
		patient Patient
	}{
		{"gleason too low", Patient{MRN: "a", GleasonScore: intPtr(1)}},
		{"gleason too high", Patient{MRN: "b", GleasonScore: intPtr(11)}},
		{"negative psa", Patient{MRN: "c", PSALevel: f64Ptr(-0.1)}},
		{"negative age", Patient{MRN: "d", Age: intPtr(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Register(ctx, &tc.patient); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSearchEmptyFilterFallsBackToList(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, mrn := range []string{"a", "b", "c"} {
		if err := svc.Register(ctx, &Patient{MRN: mrn}); err != nil {
			t.Fatalf("register %s: %v", mrn, err)
		}
	}

	patients, total, err := svc.Search(ctx, Filter{}, 20, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 3 || len(patients) != 3 {
		t.Errorf("expected 3 patients, got total=%d len=%d", total, len(patients))
	}
}

func TestSearchFilterByGleason(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	svc.Register(ctx, &Patient{MRN: "low", GleasonScore: intPtr(6)})
	svc.Register(ctx, &Patient{MRN: "high", GleasonScore: intPtr(9)})
	svc.Register(ctx, &Patient{MRN: "none"})

	patients, _, err := svc.Search(ctx, Filter{GleasonMin: intPtr(8)}, 20, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(patients) != 1 || patients[0].MRN != "high" {
		t.Errorf("expected only high-gleason patient, got %+v", patients)
	}
}

func TestSearchRejectsInvertedRange(t *testing.T) {
	svc := NewService(newMockRepo())

	_, _, err := svc.Search(context.Background(), Filter{AgeMin: intPtr(70), AgeMax: intPtr(50)}, 20, 0)
	if err == nil {
		t.Fatal("expected range validation error")
	}
}

func TestGetAttachesTags(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p := &Patient{MRN: "MRN-0001"}
	if err := svc.Register(ctx, p); err != nil {
		t.Fatalf("register: %v", err)
	}
	tag := &Tag{Name: "active surveillance"}
	if err := svc.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if err := svc.AssignTag(ctx, p.ID, tag.ID); err != nil {
		t.Fatalf("assign tag: %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "active surveillance" {
		t.Errorf("expected assigned tag, got %+v", got.Tags)
	}
}

func TestAssignTagUnknownPatient(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.AssignTag(context.Background(), uuid.New(), uuid.New())
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDisplayNamePlaceholders(t *testing.T) {
	p := &Patient{MRN: "x"}
	if got := p.DisplayName(); got != "Unknown, Unknown" {
		t.Errorf("empty name: got %q", got)
	}
	p.FirstName = strPtr("John")
	p.LastName = strPtr("Doe")
	if got := p.DisplayName(); got != "Doe, John" {
		t.Errorf("full name: got %q", got)
	}
}
