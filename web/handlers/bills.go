package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/billing"
	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/models"
	"github.com/trenztechno/pos-backend-sub000/syncer"
	"github.com/trenztechno/pos-backend-sub000/web/middleware"
)

type billLineRequest struct {
	ItemID        *string           `json:"item_id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	Price         decimal.Decimal   `json:"price"`
	MRPPrice      *decimal.Decimal  `json:"mrp_price"`
	PriceType     *models.PriceType `json:"price_type"`
	GSTPercentage decimal.Decimal   `json:"gst_percentage"`
	Quantity      decimal.Decimal   `json:"quantity"`
	Subtotal      *decimal.Decimal  `json:"subtotal"`
	ItemGSTAmount *decimal.Decimal  `json:"item_gst_amount"`
	VegNonveg     *models.VegMarker `json:"veg_nonveg"`
	Unit          *string           `json:"unit"`
}

// uploadLineAmounts resolves the stored subtotal and GST amount for an
// uploaded line. Devices that send their own snapshot win; for older clients
// that omit the fields the amounts are derived from price, quantity and GST
// percentage instead.
func uploadLineAmounts(mode models.BillingMode, li billLineRequest) (subtotal, gst decimal.Decimal) {
	if li.Subtotal != nil && li.ItemGSTAmount != nil {
		return *li.Subtotal, *li.ItemGSTAmount
	}

	priceType := models.PriceExclusive
	if li.PriceType != nil {
		priceType = *li.PriceType
	}
	lr, err := billing.ComputeLine(mode, billing.Line{
		Price:         li.Price,
		Quantity:      li.Quantity,
		GSTPercentage: li.GSTPercentage,
		PriceType:     priceType,
	})
	if err != nil {
		// Uploads are stored as-received, so a line the calculator rejects
		// still gets its raw gross amount.
		gross := li.Price.Mul(li.Quantity).Round(2)
		subtotal, gst = gross, decimal.Zero
	} else {
		subtotal, gst = lr.Base, lr.Tax
	}
	if li.Subtotal != nil {
		subtotal = *li.Subtotal
	}
	if li.ItemGSTAmount != nil {
		gst = *li.ItemGSTAmount
	}
	return subtotal, gst
}

type createBillRequest struct {
	BillingMode      models.BillingMode `json:"billing_mode"`
	InterState       bool               `json:"inter_state"`
	DeviceID         *string            `json:"device_id"`
	PaymentMode      models.PaymentMode `json:"payment_mode"`
	PaymentReference *string            `json:"payment_reference"`
	AmountPaid       *decimal.Decimal   `json:"amount_paid"`
	DiscountAmount   *decimal.Decimal   `json:"discount_amount"`
	CustomerName     *string            `json:"customer_name"`
	CustomerPhone    *string            `json:"customer_phone"`
	CustomerEmail    *string            `json:"customer_email"`
	CustomerAddress  *string            `json:"customer_address"`
	Notes            *string            `json:"notes"`
	TableNumber      *string            `json:"table_number"`
	WaiterName       *string            `json:"waiter_name"`
	Items            []billLineRequest  `json:"items"`
}

// CreateBill creates a bill with server-computed totals and a freshly
// assigned invoice number. The sequencer lock and the bill insert share one
// transaction, so a failed insert never burns a number another device could
// have used.
func CreateBill(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)

	var req createBillRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Items) == 0 {
		return badRequest(c, "items must not be empty")
	}
	if req.BillingMode == "" {
		req.BillingMode = models.BillingGST
	}
	if req.PaymentMode == "" {
		req.PaymentMode = models.PaymentCash
	}
	if !models.ValidPaymentMode(req.PaymentMode) {
		return badRequest(c, "unknown payment_mode")
	}

	discount := decimal.Zero
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
	}

	lines := make([]billing.Line, 0, len(req.Items))
	for i, li := range req.Items {
		if li.Name == "" {
			return badRequest(c, "items["+strconv.Itoa(i)+"]: name is required")
		}
		pt := models.PriceExclusive
		if li.PriceType != nil {
			pt = *li.PriceType
		}
		lines = append(lines, billing.Line{
			Price:         li.Price,
			Quantity:      li.Quantity,
			GSTPercentage: li.GSTPercentage,
			PriceType:     pt,
		})
	}

	totals, err := billing.Calculate(req.BillingMode, req.InterState, discount, lines)
	if err != nil {
		return badRequest(c, err.Error())
	}

	db := database.GetDB()
	now := time.Now()
	var bill models.Bill

	txErr := db.Transaction(func(tx *gorm.DB) error {
		invoiceNo, billNo, err := billing.NextInvoiceNumber(tx, vendor, now)
		if err != nil {
			return err
		}

		bill = models.Bill{
			ID:               uuid.New(),
			VendorID:         vendor.ID,
			DeviceID:         req.DeviceID,
			InvoiceNumber:    invoiceNo,
			BillNumber:       &billNo,
			BillDate:         now,
			BusinessName:     vendor.BusinessName,
			Address:          vendor.Address,
			GSTIN:            vendor.GSTNo,
			FSSAILicense:     vendor.FSSAILicense,
			LogoURL:          vendor.LogoURL,
			FooterNote:       vendor.FooterNote,
			CustomerName:     req.CustomerName,
			CustomerPhone:    req.CustomerPhone,
			CustomerEmail:    req.CustomerEmail,
			CustomerAddress:  req.CustomerAddress,
			BillingMode:      req.BillingMode,
			Subtotal:         totals.Subtotal,
			TotalAmount:      totals.Total,
			TotalTax:         totals.TotalTax,
			CGSTAmount:       totals.CGST,
			SGSTAmount:       totals.SGST,
			IGSTAmount:       totals.IGST,
			PaymentMode:      req.PaymentMode,
			PaymentReference: req.PaymentReference,
			AmountPaid:       req.AmountPaid,
			DiscountAmount:   discount,
			Notes:            req.Notes,
			TableNumber:      req.TableNumber,
			WaiterName:       req.WaiterName,
		}
		if req.AmountPaid != nil && req.AmountPaid.GreaterThan(totals.Total) {
			bill.ChangeAmount = req.AmountPaid.Sub(totals.Total)
		}
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}

		for i, li := range req.Items {
			lr := totals.Lines[i]
			line := models.BillItem{
				BillID:          bill.ID,
				ItemName:        li.Name,
				ItemDescription: li.Description,
				Price:           li.Price,
				PriceType:       models.PriceExclusive,
				Quantity:        li.Quantity,
				Subtotal:        lr.Base,
				GSTPercentage:   li.GSTPercentage,
				ItemGSTAmount:   lr.Tax,
				VegNonveg:       li.VegNonveg,
				Unit:            li.Unit,
			}
			if li.PriceType != nil {
				line.PriceType = *li.PriceType
			}
			if li.MRPPrice != nil {
				line.MRPPrice = *li.MRPPrice
			}
			if li.ItemID != nil {
				if id, err := uuid.Parse(*li.ItemID); err == nil {
					// Weak reference: keep it only when the item is the
					// vendor's own, otherwise strip it silently.
					var count int64
					tx.Model(&models.Item{}).
						Where("id = ? AND vendor_id = ?", id, vendor.ID).
						Count(&count)
					if count > 0 {
						line.ItemID = &id
					}
					line.OriginalItemID = &id
				}
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return serverError(c, "failed to create bill")
	}

	var fresh models.Bill
	if err := db.Preload("Items").First(&fresh, "id = ?", bill.ID).Error; err != nil {
		return serverError(c, "failed to reload bill")
	}
	return c.Status(fiber.StatusCreated).JSON(fresh)
}

// billUpload is one pre-numbered bill pushed from a device backup.
type billUpload struct {
	InvoiceNumber   string             `json:"invoice_number"`
	BillNumber      *string            `json:"bill_number"`
	BillDate        *string            `json:"bill_date"`
	BillingMode     models.BillingMode `json:"billing_mode"`
	Subtotal        *decimal.Decimal   `json:"subtotal"`
	TotalAmount     *decimal.Decimal   `json:"total_amount"`
	TotalTax        decimal.Decimal    `json:"total_tax"`
	CGSTAmount      decimal.Decimal    `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal    `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal    `json:"igst_amount"`
	PaymentMode     models.PaymentMode `json:"payment_mode"`
	AmountPaid      *decimal.Decimal   `json:"amount_paid"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	CustomerName    *string            `json:"customer_name"`
	CustomerPhone   *string            `json:"customer_phone"`
	CustomerEmail   *string            `json:"customer_email"`
	CustomerAddress *string            `json:"customer_address"`
	Notes           *string            `json:"notes"`
	TableNumber     *string            `json:"table_number"`
	WaiterName      *string            `json:"waiter_name"`
	Items           []billLineRequest  `json:"items"`
}

type backupSyncRequest struct {
	DeviceID string          `json:"device_id"`
	BillData json.RawMessage `json:"bill_data"`
}

// BackupSync accepts bills already numbered and totalled on the device and
// stores them as-is. Re-uploading is idempotent: a bill whose
// (vendor, invoice_number) pair already exists is counted as skipped. The
// endpoint is deliberately passive; it never recomputes or rejects totals,
// only checks the fields a bill cannot exist without.
func BackupSync(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)

	var req backupSyncRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.BillData) == 0 {
		return badRequest(c, "bill_data is required")
	}

	var uploads []billUpload
	if err := json.Unmarshal(req.BillData, &uploads); err != nil {
		var single billUpload
		if err := json.Unmarshal(req.BillData, &single); err != nil {
			return badRequest(c, "bill_data must be a bill object or an array of bills")
		}
		uploads = []billUpload{single}
	}

	db := database.GetDB()
	created, skipped := 0, 0
	errs := []syncer.OpError{}

	for _, up := range uploads {
		if msg := validateUpload(&up); msg != "" {
			errs = append(errs, syncer.OpError{ID: up.InvoiceNumber, Operation: "create", Error: msg})
			continue
		}

		var count int64
		db.Model(&models.Bill{}).
			Where("vendor_id = ? AND invoice_number = ?", vendor.ID, up.InvoiceNumber).
			Count(&count)
		if count > 0 {
			skipped++
			continue
		}

		if err := storeUpload(db, vendor, req.DeviceID, &up); err != nil {
			errs = append(errs, syncer.OpError{ID: up.InvoiceNumber, Operation: "create", Error: "failed to store bill"})
			continue
		}
		created++
	}

	return c.JSON(fiber.Map{
		"synced":  created + skipped,
		"created": created,
		"skipped": skipped,
		"errors":  errs,
	})
}

func validateUpload(up *billUpload) string {
	if up.InvoiceNumber == "" {
		return "invoice_number is required"
	}
	if up.BillingMode != models.BillingGST && up.BillingMode != models.BillingNonGST {
		return "billing_mode must be 'gst' or 'non_gst'"
	}
	if up.Subtotal == nil || up.TotalAmount == nil {
		return "subtotal and total_amount are required"
	}
	if up.BillingMode == models.BillingGST {
		split := up.CGSTAmount.Add(up.SGSTAmount).Add(up.IGSTAmount)
		if !split.Equal(up.TotalTax) {
			return "tax split does not add up to total_tax"
		}
	}
	if up.PaymentMode != "" && !models.ValidPaymentMode(up.PaymentMode) {
		return "unknown payment_mode"
	}
	return ""
}

func storeUpload(db *gorm.DB, vendor *models.Vendor, deviceID string, up *billUpload) error {
	billDate := time.Now()
	if up.BillDate != nil {
		if t, ok := syncer.ParseClientTime(*up.BillDate); ok {
			billDate = t
		} else if t, err := time.Parse("2006-01-02", *up.BillDate); err == nil {
			billDate = t
		}
	}

	bill := models.Bill{
		ID:              uuid.New(),
		VendorID:        vendor.ID,
		InvoiceNumber:   up.InvoiceNumber,
		BillNumber:      up.BillNumber,
		BillDate:        billDate,
		BusinessName:    vendor.BusinessName,
		Address:         vendor.Address,
		GSTIN:           vendor.GSTNo,
		FSSAILicense:    vendor.FSSAILicense,
		LogoURL:         vendor.LogoURL,
		FooterNote:      vendor.FooterNote,
		CustomerName:    up.CustomerName,
		CustomerPhone:   up.CustomerPhone,
		CustomerEmail:   up.CustomerEmail,
		CustomerAddress: up.CustomerAddress,
		BillingMode:     up.BillingMode,
		Subtotal:        *up.Subtotal,
		TotalAmount:     *up.TotalAmount,
		PaymentMode:     models.PaymentCash,
		AmountPaid:      up.AmountPaid,
		DiscountAmount:  up.DiscountAmount,
		Notes:           up.Notes,
		TableNumber:     up.TableNumber,
		WaiterName:      up.WaiterName,
	}
	if deviceID != "" {
		bill.DeviceID = &deviceID
	}
	if up.BillingMode == models.BillingGST {
		bill.TotalTax = up.TotalTax
		bill.CGSTAmount = up.CGSTAmount
		bill.SGSTAmount = up.SGSTAmount
		bill.IGSTAmount = up.IGSTAmount
	}
	if up.PaymentMode != "" {
		bill.PaymentMode = up.PaymentMode
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}
		for _, li := range up.Items {
			line := models.BillItem{
				BillID:          bill.ID,
				ItemName:        li.Name,
				ItemDescription: li.Description,
				Price:           li.Price,
				PriceType:       models.PriceExclusive,
				Quantity:        li.Quantity,
				GSTPercentage:   li.GSTPercentage,
				VegNonveg:       li.VegNonveg,
				Unit:            li.Unit,
			}
			if li.PriceType != nil {
				line.PriceType = *li.PriceType
			}
			if li.MRPPrice != nil {
				line.MRPPrice = *li.MRPPrice
			}
			line.Subtotal, line.ItemGSTAmount = uploadLineAmounts(up.BillingMode, li)
			if li.ItemID != nil {
				if id, err := uuid.Parse(*li.ItemID); err == nil {
					line.OriginalItemID = &id
					var count int64
					tx.Model(&models.Item{}).
						Where("id = ? AND vendor_id = ?", id, vendor.ID).
						Count(&count)
					if count > 0 {
						line.ItemID = &id
					}
				}
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListBills returns bill headers with line items, newest first.
func ListBills(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	q := db.Preload("Items").Where("vendor_id = ?", vendor.ID)

	if since := c.Query("since"); since != "" {
		t, ok := syncer.ParseClientTime(since)
		if !ok {
			return badRequest(c, "since must be an RFC 3339 timestamp")
		}
		q = q.Where("synced_at > ?", t)
	}
	if mode := c.Query("billing_mode"); mode != "" {
		if mode != string(models.BillingGST) && mode != string(models.BillingNonGST) {
			return badRequest(c, "billing_mode must be 'gst' or 'non_gst'")
		}
		q = q.Where("billing_mode = ?", mode)
	}
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return badRequest(c, "start_date must be YYYY-MM-DD")
		}
		q = q.Where("bill_date >= ?", t)
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return badRequest(c, "end_date must be YYYY-MM-DD")
		}
		q = q.Where("bill_date < ?", t.Add(24*time.Hour))
	}

	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var bills []models.Bill
	if err := q.Order("created_at DESC").Limit(limit).Find(&bills).Error; err != nil {
		return serverError(c, "failed to list bills")
	}
	return c.JSON(fiber.Map{"bills": bills, "count": len(bills)})
}

func vendorBill(c *fiber.Ctx, db *gorm.DB, vendor *models.Vendor) (*models.Bill, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, badRequest(c, "invalid bill id")
	}
	var bill models.Bill
	if err := db.Preload("Items").
		Where("id = ? AND vendor_id = ?", id, vendor.ID).
		First(&bill).Error; err != nil {
		return nil, notFound(c, "Bill not found")
	}
	return &bill, nil
}

// GetBill returns one bill with its line items.
func GetBill(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	bill, err := vendorBill(c, db, vendor)
	if bill == nil {
		return err
	}
	return c.JSON(bill)
}

type updateBillRequest struct {
	PaymentMode      *models.PaymentMode `json:"payment_mode"`
	PaymentReference *string             `json:"payment_reference"`
	AmountPaid       *decimal.Decimal    `json:"amount_paid"`
	CustomerName     *string             `json:"customer_name"`
	CustomerPhone    *string             `json:"customer_phone"`
	Notes            *string             `json:"notes"`
	Items            []billLineRequest   `json:"items"`
	InterState       bool                `json:"inter_state"`
}

// UpdateBill patches payment and customer details. When items are given
// the lines are replaced and the totals recomputed; the invoice number
// never changes.
func UpdateBill(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	bill, err := vendorBill(c, db, vendor)
	if bill == nil {
		return err
	}

	var req updateBillRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.PaymentMode != nil {
		if !models.ValidPaymentMode(*req.PaymentMode) {
			return badRequest(c, "unknown payment_mode")
		}
		updates["payment_mode"] = *req.PaymentMode
	}
	if req.PaymentReference != nil {
		updates["payment_reference"] = *req.PaymentReference
	}
	if req.AmountPaid != nil {
		updates["amount_paid"] = *req.AmountPaid
	}
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		updates["customer_phone"] = *req.CustomerPhone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if len(req.Items) > 0 {
			lines := make([]billing.Line, 0, len(req.Items))
			for _, li := range req.Items {
				pt := models.PriceExclusive
				if li.PriceType != nil {
					pt = *li.PriceType
				}
				lines = append(lines, billing.Line{
					Price:         li.Price,
					Quantity:      li.Quantity,
					GSTPercentage: li.GSTPercentage,
					PriceType:     pt,
				})
			}
			totals, err := billing.Calculate(bill.BillingMode, req.InterState, bill.DiscountAmount, lines)
			if err != nil {
				return err
			}

			if err := tx.Where("bill_id = ?", bill.ID).Delete(&models.BillItem{}).Error; err != nil {
				return err
			}
			for i, li := range req.Items {
				lr := totals.Lines[i]
				line := models.BillItem{
					BillID:        bill.ID,
					ItemName:      li.Name,
					Price:         li.Price,
					PriceType:     models.PriceExclusive,
					Quantity:      li.Quantity,
					Subtotal:      lr.Base,
					GSTPercentage: li.GSTPercentage,
					ItemGSTAmount: lr.Tax,
					VegNonveg:     li.VegNonveg,
					Unit:          li.Unit,
				}
				if li.PriceType != nil {
					line.PriceType = *li.PriceType
				}
				if li.MRPPrice != nil {
					line.MRPPrice = *li.MRPPrice
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			}

			updates["subtotal"] = totals.Subtotal
			updates["total_amount"] = totals.Total
			updates["total_tax"] = totals.TotalTax
			updates["cgst_amount"] = totals.CGST
			updates["sgst_amount"] = totals.SGST
			updates["igst_amount"] = totals.IGST
		}

		if len(updates) > 0 {
			return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Updates(updates).Error
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, billing.ErrNegativeAmount) ||
			errors.Is(txErr, billing.ErrPercentageRange) ||
			errors.Is(txErr, billing.ErrPriceType) ||
			errors.Is(txErr, billing.ErrBillingMode) {
			return badRequest(c, txErr.Error())
		}
		return serverError(c, "failed to update bill")
	}

	var fresh models.Bill
	if err := db.Preload("Items").First(&fresh, "id = ?", bill.ID).Error; err != nil {
		return serverError(c, "failed to reload bill")
	}
	return c.JSON(fresh)
}

// DeleteBill removes a bill and its lines.
func DeleteBill(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	bill, err := vendorBill(c, db, vendor)
	if bill == nil {
		return err
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&models.BillItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(bill).Error
	})
	if txErr != nil {
		return serverError(c, "failed to delete bill")
	}
	return c.JSON(fiber.Map{"message": "Bill deleted"})
}
