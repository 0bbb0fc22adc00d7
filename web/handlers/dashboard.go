package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/models"
	"github.com/trenztechno/pos-backend-sub000/web/middleware"
)

// DashboardStats returns the headline numbers for a date window
// (defaulting to today): bill counts, revenue, tax and the payment split.
func DashboardStats(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var stats struct {
		TotalBills   int64           `json:"total_bills"`
		GSTBills     int64           `json:"gst_bills"`
		NonGSTBills  int64           `json:"non_gst_bills"`
		TotalRevenue decimal.Decimal `json:"total_revenue"`
		TotalTax     decimal.Decimal `json:"total_tax"`
		AvgBillValue decimal.Decimal `json:"avg_bill_value"`
	}

	if err := db.Model(&models.Bill{}).
		Where("vendor_id = ? AND bill_date >= ? AND bill_date < ?", vendor.ID, start, end).
		Select(`COUNT(*) AS total_bills,
			COUNT(*) FILTER (WHERE billing_mode = 'gst') AS gst_bills,
			COUNT(*) FILTER (WHERE billing_mode = 'non_gst') AS non_gst_bills,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(SUM(total_tax), 0) AS total_tax,
			COALESCE(AVG(total_amount), 0) AS avg_bill_value`).
		Scan(&stats).Error; err != nil {
		return serverError(c, "failed to compute stats")
	}

	payments, err2 := paymentBreakdown(c, start, end)
	if err2 != nil {
		return serverError(c, "failed to compute payment split")
	}

	return c.JSON(fiber.Map{
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.AddDate(0, 0, -1).Format("2006-01-02"),
		"stats":      stats,
		"payments":   payments,
	})
}

// DashboardSales returns the per-day revenue series for the window.
func DashboardSales(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var series []struct {
		Day      string          `json:"day"`
		Bills    int64           `json:"bills"`
		Revenue  decimal.Decimal `json:"revenue"`
		TotalTax decimal.Decimal `json:"total_tax"`
	}
	if err := db.Model(&models.Bill{}).
		Select(`TO_CHAR(bill_date, 'YYYY-MM-DD') AS day,
			COUNT(*) AS bills,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COALESCE(SUM(total_tax), 0) AS total_tax`).
		Where("vendor_id = ? AND bill_date >= ? AND bill_date < ?", vendor.ID, start, end).
		Group("day").
		Order("day ASC").
		Scan(&series).Error; err != nil {
		return serverError(c, "failed to compute sales series")
	}

	return c.JSON(fiber.Map{"sales": series, "count": len(series)})
}

// DashboardItems returns the top sold items by quantity and revenue,
// aggregated over the bill line snapshots so deleted catalog items still
// show up under the name they were sold as.
func DashboardItems(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	db := database.GetDB()

	var items []struct {
		ItemName string          `json:"item_name"`
		Quantity decimal.Decimal `json:"quantity"`
		Revenue  decimal.Decimal `json:"revenue"`
		Bills    int64           `json:"bills"`
	}
	if err := db.Model(&models.BillItem{}).
		Select(`bill_items.item_name,
			COALESCE(SUM(bill_items.quantity), 0) AS quantity,
			COALESCE(SUM(bill_items.subtotal + bill_items.item_gst_amount), 0) AS revenue,
			COUNT(DISTINCT bill_items.bill_id) AS bills`).
		Joins("JOIN bills ON bills.id = bill_items.bill_id").
		Where("bills.vendor_id = ? AND bills.bill_date >= ? AND bills.bill_date < ?", vendor.ID, start, end).
		Group("bill_items.item_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&items).Error; err != nil {
		return serverError(c, "failed to compute top items")
	}

	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// estimatedCostRate approximates cost of goods at 60% of revenue; item-level
// purchase prices are not captured, so profit is an estimate.
var estimatedCostRate = decimal.NewFromFloat(0.60)

// profitEstimate derives the estimated cost, profit and margin percentage
// from revenue.
func profitEstimate(revenue decimal.Decimal) (cost, profit, margin decimal.Decimal) {
	cost = revenue.Mul(estimatedCostRate).Round(2)
	profit = revenue.Sub(cost)
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return cost, profit, margin
}

// DashboardProfit returns revenue and an estimated profit for the window.
func DashboardProfit(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var agg struct {
		Bills   int64
		Revenue decimal.Decimal
	}
	if err := db.Model(&models.Bill{}).
		Where("vendor_id = ? AND bill_date >= ? AND bill_date < ?", vendor.ID, start, end).
		Select(`COUNT(*) AS bills, COALESCE(SUM(total_amount), 0) AS revenue`).
		Scan(&agg).Error; err != nil {
		return serverError(c, "failed to compute profit")
	}

	cost, profit, margin := profitEstimate(agg.Revenue)

	return c.JSON(fiber.Map{
		"start_date":        start.Format("2006-01-02"),
		"end_date":          end.AddDate(0, 0, -1).Format("2006-01-02"),
		"total_bills":       agg.Bills,
		"total_revenue":     agg.Revenue,
		"estimated_cost":    cost,
		"estimated_profit":  profit,
		"profit_margin_pct": margin,
		"note":              "Profit is estimated at a 60% cost of goods; actual purchase prices are not tracked.",
	})
}

// outstandingAmount is the unpaid balance on a bill. A missing amount_paid
// counts as nothing paid.
func outstandingAmount(total decimal.Decimal, paid *decimal.Decimal) decimal.Decimal {
	if paid == nil {
		return total
	}
	return total.Sub(*paid)
}

type pendingBill struct {
	BillID            string          `json:"bill_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	BillDate          string          `json:"bill_date"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	PaymentMode       string          `json:"payment_mode"`
	DaysPending       int             `json:"days_pending"`
}

// DashboardDues lists bills with money still owed: every credit bill plus
// any bill paid below its total, largest outstanding balance first.
func DashboardDues(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	var bills []models.Bill
	if err := db.
		Where("vendor_id = ?", vendor.ID).
		Where("payment_mode = ? OR (amount_paid IS NOT NULL AND amount_paid < total_amount)", models.PaymentCredit).
		Order("(total_amount - COALESCE(amount_paid, 0)) DESC").
		Find(&bills).Error; err != nil {
		return serverError(c, "failed to load pending bills")
	}

	now := time.Now()
	pending := make([]pendingBill, 0, len(bills))
	totalOutstanding := decimal.Zero
	var creditCount, partialCount int64

	for _, b := range bills {
		out := outstandingAmount(b.TotalAmount, b.AmountPaid)
		totalOutstanding = totalOutstanding.Add(out)
		if b.PaymentMode == models.PaymentCredit {
			creditCount++
		} else {
			partialCount++
		}

		p := pendingBill{
			BillID:            b.ID.String(),
			InvoiceNumber:     b.InvoiceNumber,
			BillDate:          b.BillDate.Format("2006-01-02"),
			CustomerName:      "N/A",
			CustomerPhone:     "N/A",
			TotalAmount:       b.TotalAmount,
			OutstandingAmount: out,
			PaymentMode:       string(b.PaymentMode),
			DaysPending:       int(now.Sub(b.BillDate).Hours() / 24),
		}
		if b.CustomerName != nil && *b.CustomerName != "" {
			p.CustomerName = *b.CustomerName
		}
		if b.CustomerPhone != nil && *b.CustomerPhone != "" {
			p.CustomerPhone = *b.CustomerPhone
		}
		if b.AmountPaid != nil {
			p.AmountPaid = *b.AmountPaid
		}
		pending = append(pending, p)
	}

	return c.JSON(fiber.Map{
		"pending_bills": pending,
		"summary": fiber.Map{
			"total_pending_bills":         len(pending),
			"total_outstanding_amount":    totalOutstanding,
			"credit_bills_count":          creditCount,
			"partial_payment_bills_count": partialCount,
		},
	})
}

type paymentRow struct {
	PaymentMode string          `json:"payment_mode"`
	Bills       int64           `json:"bills"`
	Amount      decimal.Decimal `json:"amount"`
}

func paymentBreakdown(c *fiber.Ctx, start, end time.Time) ([]paymentRow, error) {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	var rows []paymentRow
	err := db.Model(&models.Bill{}).
		Select(`payment_mode,
			COUNT(*) AS bills,
			COALESCE(SUM(total_amount), 0) AS amount`).
		Where("vendor_id = ? AND bill_date >= ? AND bill_date < ?", vendor.ID, start, end).
		Group("payment_mode").
		Order("amount DESC").
		Scan(&rows).Error
	return rows, err
}

// DashboardPayments returns the payment mode breakdown for the window.
func DashboardPayments(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}
	rows, err := paymentBreakdown(c, start, end)
	if err != nil {
		return serverError(c, "failed to compute payment split")
	}
	return c.JSON(fiber.Map{"payments": rows, "count": len(rows)})
}

// DashboardTax returns the GST summary for the window: the CGST/SGST/IGST
// components and the revenue split between the two billing modes.
func DashboardTax(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var tax struct {
		TotalTax      decimal.Decimal `json:"total_tax"`
		CGST          decimal.Decimal `json:"cgst"`
		SGST          decimal.Decimal `json:"sgst"`
		IGST          decimal.Decimal `json:"igst"`
		GSTRevenue    decimal.Decimal `json:"gst_revenue"`
		NonGSTRevenue decimal.Decimal `json:"non_gst_revenue"`
	}
	if err := db.Model(&models.Bill{}).
		Select(`COALESCE(SUM(total_tax), 0) AS total_tax,
			COALESCE(SUM(cgst_amount), 0) AS cgst,
			COALESCE(SUM(sgst_amount), 0) AS sgst,
			COALESCE(SUM(igst_amount), 0) AS igst,
			COALESCE(SUM(total_amount) FILTER (WHERE billing_mode = 'gst'), 0) AS gst_revenue,
			COALESCE(SUM(total_amount) FILTER (WHERE billing_mode = 'non_gst'), 0) AS non_gst_revenue`).
		Where("vendor_id = ? AND bill_date >= ? AND bill_date < ?", vendor.ID, start, end).
		Scan(&tax).Error; err != nil {
		return serverError(c, "failed to compute tax summary")
	}

	return c.JSON(fiber.Map{
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.AddDate(0, 0, -1).Format("2006-01-02"),
		"tax":        tax,
	})
}
