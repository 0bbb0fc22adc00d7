package handlers

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trenztechno/pos-backend-sub000/models"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		upload  billUpload
		wantMsg string
	}{
		{
			name: "valid gst bill",
			upload: billUpload{
				InvoiceNumber: "INV-20250101-0001",
				BillingMode:   models.BillingGST,
				Subtotal:      dec("100"),
				TotalAmount:   dec("118"),
				TotalTax:      decimal.RequireFromString("18"),
				CGSTAmount:    decimal.RequireFromString("9"),
				SGSTAmount:    decimal.RequireFromString("9"),
			},
		},
		{
			name: "valid non-gst bill without tax fields",
			upload: billUpload{
				InvoiceNumber: "INV-20250101-0002",
				BillingMode:   models.BillingNonGST,
				Subtotal:      dec("50"),
				TotalAmount:   dec("50"),
			},
		},
		{
			name: "missing invoice number",
			upload: billUpload{
				BillingMode: models.BillingGST,
				Subtotal:    dec("100"),
				TotalAmount: dec("118"),
			},
			wantMsg: "invoice_number is required",
		},
		{
			name: "unknown billing mode",
			upload: billUpload{
				InvoiceNumber: "INV-20250101-0003",
				BillingMode:   "vat",
				Subtotal:      dec("100"),
				TotalAmount:   dec("100"),
			},
			wantMsg: "billing_mode must be 'gst' or 'non_gst'",
		},
		{
			name: "missing totals",
			upload: billUpload{
				InvoiceNumber: "INV-20250101-0004",
				BillingMode:   models.BillingNonGST,
			},
			wantMsg: "subtotal and total_amount are required",
		},
		{
			name: "tax split mismatch",
			upload: billUpload{
				InvoiceNumber: "INV-20250101-0005",
				BillingMode:   models.BillingGST,
				Subtotal:      dec("100"),
				TotalAmount:   dec("118"),
				TotalTax:      decimal.RequireFromString("18"),
				CGSTAmount:    decimal.RequireFromString("9"),
				SGSTAmount:    decimal.RequireFromString("8"),
			},
			wantMsg: "tax split does not add up to total_tax",
		},
		{
			name: "igst only split",
			upload: billUpload{
				InvoiceNumber: "INV-20250101-0006",
				BillingMode:   models.BillingGST,
				Subtotal:      dec("100"),
				TotalAmount:   dec("118"),
				TotalTax:      decimal.RequireFromString("18"),
				IGSTAmount:    decimal.RequireFromString("18"),
			},
		},
		{
			name: "unknown payment mode",
			upload: billUpload{
				InvoiceNumber: "INV-20250101-0007",
				BillingMode:   models.BillingNonGST,
				Subtotal:      dec("50"),
				TotalAmount:   dec("50"),
				PaymentMode:   "cheque",
			},
			wantMsg: "unknown payment_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateUpload(&tt.upload)
			if got != tt.wantMsg {
				t.Errorf("validateUpload() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestUploadLineAmounts(t *testing.T) {
	inclusive := models.PriceInclusive

	tests := []struct {
		name         string
		mode         models.BillingMode
		line         billLineRequest
		wantSubtotal string
		wantGST      string
	}{
		{
			name: "device snapshot wins",
			mode: models.BillingGST,
			line: billLineRequest{
				Price:         decimal.RequireFromString("118"),
				Quantity:      decimal.RequireFromString("1"),
				GSTPercentage: decimal.RequireFromString("18"),
				PriceType:     &inclusive,
				Subtotal:      dec("100.00"),
				ItemGSTAmount: dec("18.00"),
			},
			wantSubtotal: "100.00",
			wantGST:      "18.00",
		},
		{
			name: "inclusive line without snapshot is derived",
			mode: models.BillingGST,
			line: billLineRequest{
				Price:         decimal.RequireFromString("118"),
				Quantity:      decimal.RequireFromString("1"),
				GSTPercentage: decimal.RequireFromString("18"),
				PriceType:     &inclusive,
			},
			wantSubtotal: "100",
			wantGST:      "18",
		},
		{
			name: "exclusive line without snapshot is derived",
			mode: models.BillingGST,
			line: billLineRequest{
				Price:         decimal.RequireFromString("50"),
				Quantity:      decimal.RequireFromString("2"),
				GSTPercentage: decimal.RequireFromString("5"),
			},
			wantSubtotal: "100",
			wantGST:      "5",
		},
		{
			name: "non-gst line carries no tax",
			mode: models.BillingNonGST,
			line: billLineRequest{
				Price:    decimal.RequireFromString("40"),
				Quantity: decimal.RequireFromString("3"),
			},
			wantSubtotal: "120",
			wantGST:      "0",
		},
		{
			name: "partial snapshot keeps the provided field",
			mode: models.BillingGST,
			line: billLineRequest{
				Price:         decimal.RequireFromString("118"),
				Quantity:      decimal.RequireFromString("1"),
				GSTPercentage: decimal.RequireFromString("18"),
				PriceType:     &inclusive,
				ItemGSTAmount: dec("17.99"),
			},
			wantSubtotal: "100",
			wantGST:      "17.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, gst := uploadLineAmounts(tt.mode, tt.line)
			if !subtotal.Equal(decimal.RequireFromString(tt.wantSubtotal)) {
				t.Errorf("subtotal = %s, want %s", subtotal, tt.wantSubtotal)
			}
			if !gst.Equal(decimal.RequireFromString(tt.wantGST)) {
				t.Errorf("gst = %s, want %s", gst, tt.wantGST)
			}
		})
	}
}
