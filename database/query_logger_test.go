package database

import (
	"errors"
	"testing"
	"time"
)

func TestQueryLoggerNewestFirst(t *testing.T) {
	ql := NewQueryLogger(10)
	ql.LogQuery("SELECT 1", time.Millisecond, 1, nil)
	ql.LogQuery("SELECT 2", time.Millisecond, 1, nil)
	ql.LogQuery("SELECT 3", time.Millisecond, 1, errors.New("boom"))

	got := ql.GetQueries()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].SQL != "SELECT 3" || got[2].SQL != "SELECT 1" {
		t.Errorf("unexpected order: %q ... %q", got[0].SQL, got[2].SQL)
	}
	if got[0].Error != "boom" {
		t.Errorf("error not recorded: %q", got[0].Error)
	}
}

func TestQueryLoggerRingOverwrite(t *testing.T) {
	ql := NewQueryLogger(3)
	for _, q := range []string{"a", "b", "c", "d", "e"} {
		ql.LogQuery(q, 0, 0, nil)
	}

	got := ql.GetQueries()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []string{"e", "d", "c"}
	for i, w := range want {
		if got[i].SQL != w {
			t.Errorf("queries[%d] = %q, want %q", i, got[i].SQL, w)
		}
	}
	if got[0].ID != 5 {
		t.Errorf("counter not monotonic: id = %d, want 5", got[0].ID)
	}
}

func TestQueryLoggerRecentAndClear(t *testing.T) {
	ql := NewQueryLogger(5)
	for _, q := range []string{"a", "b", "c"} {
		ql.LogQuery(q, 0, 0, nil)
	}

	recent := ql.GetRecentQueries(2)
	if len(recent) != 2 || recent[0].SQL != "c" {
		t.Errorf("GetRecentQueries(2) = %v", recent)
	}

	ql.Clear()
	if n := len(ql.GetQueries()); n != 0 {
		t.Errorf("after Clear len = %d, want 0", n)
	}
}
