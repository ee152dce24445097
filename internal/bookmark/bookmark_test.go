package bookmark

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "bookmarks.json")
	s, err := Open(p)
	if err != nil {
		t.Fatalf("open missing: %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatalf("expected empty store")
	}
	path := []string{"Produce", "Fruit"}
	b, err := s.Add(Bookmark{Name: "fruit", File: "sales.xlsx", Sheet: "Q1", Path: path, Metric: "Margin %"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	path[0] = "mutated"
	if b.ID == "" || b.CreatedAt.IsZero() {
		t.Fatalf("id/time not assigned: %+v", b)
	}
	if _, err := s.Add(Bookmark{Name: "dairy", File: "sales.csv"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	re, err := Open(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	list := re.List()
	if len(list) != 2 || list[0].Name != "dairy" || list[1].Name != "fruit" {
		t.Fatalf("list = %+v", list)
	}
	got, err := re.Get(b.ID[:8])
	if err != nil {
		t.Fatalf("get by prefix: %v", err)
	}
	if got.Path[0] != "Produce" || got.Metric != "Margin %" || got.Sheet != "Q1" {
		t.Fatalf("got = %+v", got)
	}
}

func TestShortID(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"abc":                                  "abc",
		"0f8e2c1a":                             "0f8e2c1a",
		"0f8e2c1a-6b2d-4c11-9a55-2f0d3c4b5a69": "0f8e2c1a",
	}
	for id, want := range cases {
		if got := (Bookmark{ID: id}).ShortID(); got != want {
			t.Fatalf("ShortID(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestStoreErrors(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "b.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Add(Bookmark{Name: "  "}); !errors.Is(err, ErrNoName) {
		t.Fatalf("want ErrNoName, got %v", err)
	}
	if _, err := s.Add(Bookmark{Name: "a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add(Bookmark{Name: "a"}); !errors.Is(err, ErrExists) {
		t.Fatalf("want ErrExists, got %v", err)
	}
	if _, err := s.Get("zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after remove, got %v", err)
	}
}
