package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trenztechno/pos-backend-sub000/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func line(price, qty, gst string, pt models.PriceType) Line {
	return Line{Price: dec(price), Quantity: dec(qty), GSTPercentage: dec(gst), PriceType: pt}
}

func TestCalculateNonGST(t *testing.T) {
	tests := []struct {
		name     string
		discount string
		lines    []Line
		subtotal string
		total    string
	}{
		{
			name:     "single line no discount",
			discount: "0",
			lines:    []Line{line("25.00", "2", "18", models.PriceExclusive)},
			subtotal: "50.00",
			total:    "50.00",
		},
		{
			name:     "multiple lines with discount",
			discount: "10.00",
			lines: []Line{
				line("99.99", "1", "0", models.PriceExclusive),
				line("10.50", "3", "5", models.PriceInclusive),
			},
			subtotal: "131.49",
			total:    "121.49",
		},
		{
			name:     "empty bill",
			discount: "0",
			lines:    nil,
			subtotal: "0",
			total:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(models.BillingNonGST, false, dec(tt.discount), tt.lines)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if !got.Subtotal.Equal(dec(tt.subtotal)) {
				t.Errorf("subtotal = %s, want %s", got.Subtotal, tt.subtotal)
			}
			if !got.Total.Equal(dec(tt.total)) {
				t.Errorf("total = %s, want %s", got.Total, tt.total)
			}
			// Non-GST bills carry no tax at all.
			if !got.TotalTax.IsZero() || !got.CGST.IsZero() || !got.SGST.IsZero() || !got.IGST.IsZero() {
				t.Errorf("non-GST bill has tax: tax=%s cgst=%s sgst=%s igst=%s",
					got.TotalTax, got.CGST, got.SGST, got.IGST)
			}
		})
	}
}

func TestCalculateGSTExclusive(t *testing.T) {
	// 2 x 25.00 at 18% exclusive: subtotal 50, tax 9, total 59.
	got, err := Calculate(models.BillingGST, false, decimal.Zero,
		[]Line{line("25.00", "2", "18", models.PriceExclusive)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !got.Subtotal.Equal(dec("50.00")) {
		t.Errorf("subtotal = %s, want 50.00", got.Subtotal)
	}
	if !got.TotalTax.Equal(dec("9.00")) {
		t.Errorf("total_tax = %s, want 9.00", got.TotalTax)
	}
	if !got.CGST.Equal(dec("4.50")) || !got.SGST.Equal(dec("4.50")) {
		t.Errorf("cgst/sgst = %s/%s, want 4.50/4.50", got.CGST, got.SGST)
	}
	if !got.IGST.IsZero() {
		t.Errorf("igst = %s, want 0 for intra-state", got.IGST)
	}
	if !got.Total.Equal(dec("59.00")) {
		t.Errorf("total = %s, want 59.00", got.Total)
	}
	// total == subtotal + total_tax and total_tax == cgst+sgst+igst
	if !got.Total.Equal(got.Subtotal.Add(got.TotalTax)) {
		t.Errorf("total != subtotal + tax: %s != %s + %s", got.Total, got.Subtotal, got.TotalTax)
	}
	if !got.TotalTax.Equal(got.CGST.Add(got.SGST).Add(got.IGST)) {
		t.Errorf("tax split does not sum: %s != %s+%s+%s", got.TotalTax, got.CGST, got.SGST, got.IGST)
	}
}

func TestCalculateGSTInclusive(t *testing.T) {
	// 1 x 118.00 MRP at 18% inclusive: tax = 118*18/118 = 18, base 100.
	got, err := Calculate(models.BillingGST, false, decimal.Zero,
		[]Line{line("118.00", "1", "18", models.PriceInclusive)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !got.Subtotal.Equal(dec("100.00")) {
		t.Errorf("subtotal = %s, want 100.00", got.Subtotal)
	}
	if !got.TotalTax.Equal(dec("18.00")) {
		t.Errorf("total_tax = %s, want 18.00", got.TotalTax)
	}
	// Tax was already inside the MRP, so the total is unchanged.
	if !got.Total.Equal(dec("118.00")) {
		t.Errorf("total = %s, want 118.00", got.Total)
	}
}

func TestCalculateGSTInclusiveRounding(t *testing.T) {
	// 3 x 10.00 at 5% inclusive: tax = 30*5/105 = 1.4285... -> 1.43 at the
	// line level, base 28.57, total stays at the gross 30.00.
	got, err := Calculate(models.BillingGST, false, decimal.Zero,
		[]Line{line("10.00", "3", "5", models.PriceInclusive)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !got.TotalTax.Equal(dec("1.43")) {
		t.Errorf("total_tax = %s, want 1.43", got.TotalTax)
	}
	if !got.Subtotal.Equal(dec("28.57")) {
		t.Errorf("subtotal = %s, want 28.57", got.Subtotal)
	}
	if !got.Total.Equal(dec("30.00")) {
		t.Errorf("total = %s, want 30.00", got.Total)
	}
}

func TestCalculateInterState(t *testing.T) {
	got, err := Calculate(models.BillingGST, true, decimal.Zero,
		[]Line{line("25.00", "2", "18", models.PriceExclusive)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !got.IGST.Equal(dec("9.00")) {
		t.Errorf("igst = %s, want 9.00", got.IGST)
	}
	if !got.CGST.IsZero() || !got.SGST.IsZero() {
		t.Errorf("cgst/sgst = %s/%s, want zero for inter-state", got.CGST, got.SGST)
	}
}

func TestCalculateOddTaxSplit(t *testing.T) {
	// Tax of 0.05 cannot halve evenly at 2dp: cgst rounds to 0.03 and sgst
	// takes the remainder so the split still sums to the total tax.
	got, err := Calculate(models.BillingGST, false, decimal.Zero,
		[]Line{line("1.00", "1", "5", models.PriceExclusive)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !got.TotalTax.Equal(got.CGST.Add(got.SGST)) {
		t.Errorf("cgst+sgst = %s, want %s", got.CGST.Add(got.SGST), got.TotalTax)
	}
}

func TestCalculateMixedPriceTypes(t *testing.T) {
	// Exclusive line adds its tax on top, inclusive line keeps it inside.
	got, err := Calculate(models.BillingGST, false, decimal.Zero, []Line{
		line("100.00", "1", "18", models.PriceExclusive),
		line("118.00", "1", "18", models.PriceInclusive),
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !got.Subtotal.Equal(dec("200.00")) {
		t.Errorf("subtotal = %s, want 200.00", got.Subtotal)
	}
	if !got.TotalTax.Equal(dec("36.00")) {
		t.Errorf("total_tax = %s, want 36.00", got.TotalTax)
	}
	if !got.Total.Equal(dec("236.00")) {
		t.Errorf("total = %s, want 236.00", got.Total)
	}
}

func TestCalculateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mode    models.BillingMode
		lines   []Line
		wantErr error
	}{
		{
			name:    "negative price",
			mode:    models.BillingGST,
			lines:   []Line{line("-1.00", "1", "18", models.PriceExclusive)},
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "negative quantity",
			mode:    models.BillingGST,
			lines:   []Line{line("1.00", "-2", "18", models.PriceExclusive)},
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "percentage above 100",
			mode:    models.BillingGST,
			lines:   []Line{line("1.00", "1", "101", models.PriceExclusive)},
			wantErr: ErrPercentageRange,
		},
		{
			name:    "unknown price type",
			mode:    models.BillingGST,
			lines:   []Line{line("1.00", "1", "18", models.PriceType("weird"))},
			wantErr: ErrPriceType,
		},
		{
			name:    "unknown billing mode",
			mode:    models.BillingMode("vat"),
			lines:   nil,
			wantErr: ErrBillingMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.mode, false, decimal.Zero, tt.lines)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Calculate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
