package cache

import (
	"testing"
	"time"
)

func TestStore_SetGet(t *testing.T) {
	s := New(time.Minute, time.Minute)
	s.Set("k", "v", time.Minute)

	val, ok := s.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if val.(string) != "v" {
		t.Errorf("expected v, got %v", val)
	}
}

func TestStore_Miss(t *testing.T) {
	s := New(time.Minute, time.Minute)
	if _, ok := s.Get("absent"); ok {
		t.Error("expected cache miss")
	}
}

func TestStore_Expiry(t *testing.T) {
	s := New(time.Minute, time.Minute)
	s.Set("k", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestStore_Delete(t *testing.T) {
	s := New(time.Minute, time.Minute)
	s.Set("k", "v", time.Minute)
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("expected entry to be deleted")
	}
}

func TestStore_TypedValue(t *testing.T) {
	type stats struct {
		Count int
	}
	s := New(time.Minute, time.Minute)
	s.Set("stats", &stats{Count: 3}, 0)

	val, ok := s.Get("stats")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if val.(*stats).Count != 3 {
		t.Errorf("unexpected value: %+v", val)
	}
}

func TestStore_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Count int    `json:"count"`
		Name  string `json:"name"`
	}

	s := New(time.Minute, time.Minute)
	s.SetJSON("stats", payload{Count: 3, Name: "cohort"}, time.Minute)

	var got payload
	if !s.GetJSON("stats", &got) {
		t.Fatal("expected cache hit")
	}
	if got.Count != 3 || got.Name != "cohort" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestStore_GetJSONMiss(t *testing.T) {
	s := New(time.Minute, time.Minute)
	var out map[string]int
	if s.GetJSON("absent", &out) {
		t.Error("expected miss")
	}
}
