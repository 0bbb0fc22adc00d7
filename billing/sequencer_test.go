package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trenztechno/pos-backend-sub000/models"
)

func TestFormatInvoiceNumber(t *testing.T) {
	at := time.Date(2026, 1, 27, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		prefix     string
		n          int
		wantFull   string
		wantShort  string
	}{
		{"first of the day", "INV", 1, "INV-20260127-0001", "INV-0001"},
		{"four digit padding holds", "INV", 42, "INV-20260127-0042", "INV-0042"},
		{"custom prefix", "REST", 7, "REST-20260127-0007", "REST-0007"},
		{"padding overflows gracefully", "INV", 12345, "INV-20260127-12345", "INV-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full, short := FormatInvoiceNumber(tt.prefix, at, tt.n)
			if full != tt.wantFull {
				t.Errorf("invoice number = %q, want %q", full, tt.wantFull)
			}
			if short != tt.wantShort {
				t.Errorf("bill number = %q, want %q", short, tt.wantShort)
			}
		})
	}
}

func TestPrefixFor(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name   string
		vendor models.Vendor
		want   string
	}{
		{"unset prefix falls back", models.Vendor{}, "INV"},
		{"blank prefix falls back", models.Vendor{BillPrefix: str("   ")}, "INV"},
		{"prefix is upper-cased and trimmed", models.Vendor{BillPrefix: str(" rest ")}, "REST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prefixFor(&tt.vendor); got != tt.want {
				t.Errorf("prefixFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitialSequence(t *testing.T) {
	vendorID := uuid.New()

	tests := []struct {
		name     string
		starting int
		wantLast int
	}{
		{"default starting number", 1, 0},
		{"vendor configured start", 100, 99},
		{"zero clamps to zero", 0, 0},
		{"negative clamps to zero", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor := models.Vendor{BillStartingNumber: tt.starting}
			vendor.ID = vendorID

			seq := initialSequence(&vendor, "20260127")
			if seq.LastNumber != tt.wantLast {
				t.Errorf("LastNumber = %d, want %d", seq.LastNumber, tt.wantLast)
			}
			if seq.VendorID != vendorID {
				t.Errorf("VendorID = %s, want %s", seq.VendorID, vendorID)
			}
			if seq.SeqDate != "20260127" {
				t.Errorf("SeqDate = %q, want %q", seq.SeqDate, "20260127")
			}
		})
	}
}

func TestDefaultPrefixOverride(t *testing.T) {
	orig := DefaultPrefix
	defer func() { DefaultPrefix = orig }()

	DefaultPrefix = "BILL"
	if got := prefixFor(&models.Vendor{}); got != "BILL" {
		t.Errorf("prefixFor() = %q, want %q", got, "BILL")
	}
}
