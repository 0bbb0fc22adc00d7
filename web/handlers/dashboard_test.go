package handlers

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProfitEstimate(t *testing.T) {
	tests := []struct {
		name       string
		revenue    string
		wantCost   string
		wantProfit string
		wantMargin string
	}{
		{name: "round revenue", revenue: "1000", wantCost: "600.00", wantProfit: "400.00", wantMargin: "40.00"},
		{name: "odd revenue rounds cost", revenue: "333.33", wantCost: "200.00", wantProfit: "133.33", wantMargin: "40.00"},
		{name: "zero revenue has zero margin", revenue: "0", wantCost: "0.00", wantProfit: "0.00", wantMargin: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, profit, margin := profitEstimate(decimal.RequireFromString(tt.revenue))
			if !cost.Equal(decimal.RequireFromString(tt.wantCost)) {
				t.Errorf("cost = %s, want %s", cost, tt.wantCost)
			}
			if !profit.Equal(decimal.RequireFromString(tt.wantProfit)) {
				t.Errorf("profit = %s, want %s", profit, tt.wantProfit)
			}
			if !margin.Equal(decimal.RequireFromString(tt.wantMargin)) {
				t.Errorf("margin = %s, want %s", margin, tt.wantMargin)
			}
		})
	}
}

func TestOutstandingAmount(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  *decimal.Decimal
		want  string
	}{
		{name: "nothing recorded as paid", total: "500", paid: nil, want: "500"},
		{name: "partial payment", total: "500", paid: dec("125.50"), want: "374.50"},
		{name: "fully paid", total: "500", paid: dec("500"), want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outstandingAmount(decimal.RequireFromString(tt.total), tt.paid)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("outstanding = %s, want %s", got, tt.want)
			}
		})
	}
}
