package syncer

import (
	"testing"
	"time"
)

func TestParseClientTime(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   time.Time
	}{
		{
			name:   "rfc3339 with zone",
			input:  "2026-01-27T10:30:00+05:30",
			wantOK: true,
			want:   time.Date(2026, 1, 27, 5, 0, 0, 0, time.UTC),
		},
		{
			name:   "rfc3339 zulu",
			input:  "2026-01-27T10:30:00Z",
			wantOK: true,
			want:   time.Date(2026, 1, 27, 10, 30, 0, 0, time.UTC),
		},
		{
			name:   "naive timestamp treated as utc",
			input:  "2026-01-27T10:30:00",
			wantOK: true,
			want:   time.Date(2026, 1, 27, 10, 30, 0, 0, time.UTC),
		},
		{
			name:   "fractional seconds",
			input:  "2026-01-27T10:30:00.123Z",
			wantOK: true,
			want:   time.Date(2026, 1, 27, 10, 30, 0, 123000000, time.UTC),
		},
		{name: "empty", input: "", wantOK: false},
		{name: "garbage", input: "yesterday-ish", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClientTime(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseClientTime(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseClientTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIncomingWins(t *testing.T) {
	stored := time.Date(2026, 1, 27, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		incoming string
		want     bool
	}{
		{"strictly newer wins", "2026-01-27T12:00:01Z", true},
		{"older loses", "2026-01-27T11:59:59Z", false},
		{"equal loses", "2026-01-27T12:00:00Z", false},
		{"newer across zones", "2026-01-27T18:00:00+05:30", true},
		{"older across zones", "2026-01-27T17:00:00+05:30", false},
		{"missing timestamp applies", "", true},
		{"unparseable timestamp applies", "not-a-time", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IncomingWins(tt.incoming, stored); got != tt.want {
				t.Errorf("IncomingWins(%q, %v) = %v, want %v", tt.incoming, stored, got, tt.want)
			}
		})
	}
}

// The LWW invariant: whatever order two conflicting updates arrive in, the
// one with the later timestamp determines the final state. With the stored
// modified time always set to the winning client timestamp, the decision
// function alone guarantees it.
func TestLastWriteWinsOrderIndependence(t *testing.T) {
	t1 := "2026-01-27T10:00:00Z"
	t2 := "2026-01-27T11:00:00Z"
	parse := func(s string) time.Time {
		ts, ok := ParseClientTime(s)
		if !ok {
			t.Fatalf("bad fixture %q", s)
		}
		return ts
	}

	// Order t1 then t2: t1 applies onto older state, t2 applies over t1.
	base := time.Date(2026, 1, 27, 9, 0, 0, 0, time.UTC)
	stored := base
	if IncomingWins(t1, stored) {
		stored = parse(t1)
	}
	if IncomingWins(t2, stored) {
		stored = parse(t2)
	}
	finalA := stored

	// Order t2 then t1: t2 applies, t1 must be discarded.
	stored = base
	if IncomingWins(t2, stored) {
		stored = parse(t2)
	}
	if IncomingWins(t1, stored) {
		stored = parse(t1)
	}
	finalB := stored

	want := parse(t2)
	if !finalA.Equal(want) || !finalB.Equal(want) {
		t.Errorf("final states differ by order: %v vs %v, want %v", finalA, finalB, want)
	}
}

func TestCategoryUpdatesCarriesClientTime(t *testing.T) {
	name := "Drinks"
	updates := categoryUpdates(&categoryPayload{Name: &name}, "2026-01-27T10:00:00Z")

	if updates["name"] != "Drinks" {
		t.Errorf("name not carried: %v", updates["name"])
	}
	got, ok := updates["updated_at"].(time.Time)
	if !ok {
		t.Fatalf("updated_at missing from updates map")
	}
	if !got.Equal(time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("updated_at = %v, want client timestamp", got)
	}
	if _, present := updates["is_active"]; present {
		t.Errorf("omitted field leaked into updates map")
	}
}

func TestItemUpdatesPartial(t *testing.T) {
	qty := 7
	updates := itemUpdates(&itemPayload{StockQuantity: &qty}, "")

	if updates["stock_quantity"] != 7 {
		t.Errorf("stock_quantity = %v, want 7", updates["stock_quantity"])
	}
	if _, present := updates["price"]; present {
		t.Errorf("price should not be updated when absent from payload")
	}
	if _, present := updates["last_updated"]; present {
		t.Errorf("last_updated should not be set without a client timestamp")
	}
}
