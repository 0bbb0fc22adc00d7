// Package billing computes bill totals and assigns invoice numbers.
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trenztechno/pos-backend-sub000/models"
)

var (
	// ErrNegativeAmount - a price, quantity or percentage was negative
	ErrNegativeAmount = errors.New("price, quantity and gst_percentage must not be negative")
	// ErrPercentageRange - GST percentage outside [0,100]
	ErrPercentageRange = errors.New("gst_percentage must be between 0 and 100")
	// ErrBillingMode - unknown billing mode
	ErrBillingMode = errors.New("billing_mode must be 'gst' or 'non_gst'")
	// ErrPriceType - unknown price type
	ErrPriceType = errors.New("price_type must be 'exclusive' or 'inclusive'")
)

var hundred = decimal.NewFromInt(100)

// Line is one sellable position on a bill.
type Line struct {
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	GSTPercentage decimal.Decimal
	PriceType     models.PriceType
}

// LineResult carries the per-line amounts, all rounded to two decimals
// before they enter any sum so floating drift can never creep in.
type LineResult struct {
	// Gross is price x quantity.
	Gross decimal.Decimal
	// Base is the pre-tax amount (equals Gross for exclusive pricing).
	Base decimal.Decimal
	// Tax is the GST amount for the line.
	Tax decimal.Decimal
}

// Totals is the computed financial summary of a bill.
type Totals struct {
	Subtotal decimal.Decimal
	TotalTax decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	Total    decimal.Decimal
	Lines    []LineResult
}

// Calculate computes bill totals for the given billing mode.
//
// Non-GST: subtotal is the sum of gross line amounts, total equals subtotal
// minus the bill-level discount, no tax fields are populated.
//
// GST with exclusive pricing: tax is additive on top of the gross amount.
// GST with inclusive pricing: the MRP already contains the tax, so the tax
// is extracted as gross x rate/(100+rate) and the reported subtotal is the
// sum of pre-tax bases while the total stays at the gross sum.
//
// interState decides the split: intra-state bills halve the tax into CGST
// and SGST, inter-state bills put everything into IGST. The flag comes from
// the caller; the server does not derive place of supply.
func Calculate(mode models.BillingMode, interState bool, discount decimal.Decimal, lines []Line) (*Totals, error) {
	if mode != models.BillingGST && mode != models.BillingNonGST {
		return nil, ErrBillingMode
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("discount: %w", ErrNegativeAmount)
	}

	t := &Totals{
		Subtotal: decimal.Zero,
		TotalTax: decimal.Zero,
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
		Total:    decimal.Zero,
		Lines:    make([]LineResult, 0, len(lines)),
	}

	grossSum := decimal.Zero
	for i, ln := range lines {
		lr, err := computeLine(mode, ln)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		t.Lines = append(t.Lines, lr)
		grossSum = grossSum.Add(lr.Gross)
		t.Subtotal = t.Subtotal.Add(lr.Base)
		t.TotalTax = t.TotalTax.Add(lr.Tax)
	}

	switch mode {
	case models.BillingNonGST:
		t.Total = t.Subtotal.Sub(discount)
	case models.BillingGST:
		// Inclusive lines already carry their tax inside the gross amount,
		// exclusive lines add it on top.
		t.Total = grossSum.Sub(discount)
		for i, ln := range lines {
			if ln.PriceType == models.PriceExclusive {
				t.Total = t.Total.Add(t.Lines[i].Tax)
			}
		}
		if interState {
			t.IGST = t.TotalTax
		} else {
			t.CGST = t.TotalTax.Div(decimal.NewFromInt(2)).Round(2)
			t.SGST = t.TotalTax.Sub(t.CGST)
		}
	}

	return t, nil
}

// ComputeLine derives the gross, pre-tax and tax amounts for a single line
// under the given billing mode.
func ComputeLine(mode models.BillingMode, ln Line) (LineResult, error) {
	return computeLine(mode, ln)
}

func computeLine(mode models.BillingMode, ln Line) (LineResult, error) {
	if ln.Price.IsNegative() || ln.Quantity.IsNegative() || ln.GSTPercentage.IsNegative() {
		return LineResult{}, ErrNegativeAmount
	}
	if ln.GSTPercentage.GreaterThan(hundred) {
		return LineResult{}, ErrPercentageRange
	}

	gross := ln.Price.Mul(ln.Quantity).Round(2)
	if mode == models.BillingNonGST {
		return LineResult{Gross: gross, Base: gross, Tax: decimal.Zero}, nil
	}

	switch ln.PriceType {
	case models.PriceExclusive:
		tax := gross.Mul(ln.GSTPercentage).Div(hundred).Round(2)
		return LineResult{Gross: gross, Base: gross, Tax: tax}, nil
	case models.PriceInclusive:
		tax := gross.Mul(ln.GSTPercentage).Div(hundred.Add(ln.GSTPercentage)).Round(2)
		return LineResult{Gross: gross, Base: gross.Sub(tax), Tax: tax}, nil
	default:
		return LineResult{}, ErrPriceType
	}
}
