package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/billing"
	"github.com/trenztechno/pos-backend-sub000/models"
)

// SeedData populates the database with a demo vendor, a sales rep and a
// small catalog so the API is usable right after setup.
func SeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Vendor{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Println("Seed skipped: vendors already exist")
			return nil
		}

		vendor, err := seedVendor(tx)
		if err != nil {
			return fmt.Errorf("seed vendor: %w", err)
		}
		if err := seedSalesRep(tx); err != nil {
			return fmt.Errorf("seed sales rep: %w", err)
		}
		_, items, err := seedCatalog(tx, vendor)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if err := seedInventory(tx, vendor); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
		if err := seedBills(tx, vendor, items); err != nil {
			return fmt.Errorf("seed bills: %w", err)
		}

		log.Println("Seed data created successfully")
		return nil
	})
}

func seedVendor(tx *gorm.DB) (*models.Vendor, error) {
	owner := models.User{ID: uuid.New(), Username: "demo_vendor", IsActive: true}
	email := "owner@demo-cafe.example"
	owner.Email = &email
	if err := owner.SetPassword("demo12345"); err != nil {
		return nil, err
	}
	if err := tx.Create(&owner).Error; err != nil {
		return nil, err
	}

	business := "Demo Cafe"
	address := "12 MG Road, Bengaluru"
	gstNo := "29ABCDE1234F1Z5"
	fssai := "11223344556677"
	footer := "Thank you for visiting!"
	prefix := "INV"
	vendor := models.Vendor{
		ID:                 uuid.New(),
		UserID:             owner.ID,
		BusinessName:       &business,
		Address:            &address,
		GSTNo:              &gstNo,
		FSSAILicense:       &fssai,
		FooterNote:         &footer,
		BillPrefix:         &prefix,
		BillStartingNumber: 1,
		IsApproved:         true,
	}
	if err := tx.Create(&vendor).Error; err != nil {
		return nil, err
	}

	ownership := models.VendorUser{
		VendorID: vendor.ID,
		UserID:   owner.ID,
		IsOwner:  true,
		IsActive: true,
	}
	if err := tx.Create(&ownership).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func seedSalesRep(tx *gorm.DB) error {
	repUser := models.User{ID: uuid.New(), Username: "demo_rep", IsActive: true}
	if err := repUser.SetPassword("rep12345"); err != nil {
		return err
	}
	if err := tx.Create(&repUser).Error; err != nil {
		return err
	}
	name := "Demo Rep"
	rep := models.SalesRep{ID: uuid.New(), UserID: repUser.ID, Name: &name, IsActive: true}
	return tx.Create(&rep).Error
}

func seedCatalog(tx *gorm.DB, vendor *models.Vendor) ([]models.Category, []models.Item, error) {
	categoryNames := []struct {
		name string
		sort int
	}{
		{"Drinks", 1},
		{"Snacks", 2},
		{"Meals", 3},
	}
	categories := make([]models.Category, 0, len(categoryNames))
	for _, c := range categoryNames {
		cat := models.Category{
			ID:        uuid.New(),
			VendorID:  &vendor.ID,
			Name:      c.name,
			IsActive:  true,
			SortOrder: c.sort,
		}
		if err := tx.Create(&cat).Error; err != nil {
			return nil, nil, err
		}
		categories = append(categories, cat)
	}

	veg := models.MarkerVeg
	itemSpecs := []struct {
		name     string
		price    string
		mrp      string
		gst      string
		pt       models.PriceType
		veg      *models.VegMarker
		stock    int
		category int
	}{
		{"Coke", "25.00", "30.00", "18", models.PriceExclusive, nil, 120, 0},
		{"Masala Chai", "15.00", "15.00", "5", models.PriceInclusive, &veg, 500, 0},
		{"Samosa", "12.00", "12.00", "5", models.PriceInclusive, &veg, 80, 1},
		{"Veg Thali", "120.00", "120.00", "5", models.PriceExclusive, &veg, 40, 2},
	}
	items := make([]models.Item, 0, len(itemSpecs))
	for _, is := range itemSpecs {
		item := models.Item{
			ID:            uuid.New(),
			VendorID:      vendor.ID,
			Name:          is.name,
			Price:         decimal.RequireFromString(is.price),
			MRPPrice:      decimal.RequireFromString(is.mrp),
			GSTPercentage: decimal.RequireFromString(is.gst),
			PriceType:     is.pt,
			VegNonveg:     is.veg,
			StockQuantity: is.stock,
			IsActive:      true,
			LastUpdated:   time.Now(),
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, nil, err
		}
		if err := tx.Model(&item).Association("Categories").Append(&categories[is.category]); err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return categories, items, nil
}

func seedInventory(tx *gorm.DB, vendor *models.Vendor) error {
	supplier := "Bengaluru Wholesale Mart"
	specs := []struct {
		name string
		qty  string
		unit models.UnitType
		min  string
	}{
		{"Tea Leaves", "5.500", models.UnitKilogram, "2"},
		{"Milk", "20.000", models.UnitLiter, "10"},
		{"Cooking Oil", "8.000", models.UnitLiter, "5"},
	}
	for _, s := range specs {
		inv := models.InventoryItem{
			VendorID:      vendor.ID,
			Name:          s.name,
			Quantity:      decimal.RequireFromString(s.qty),
			UnitType:      s.unit,
			MinStockLevel: decimal.RequireFromString(s.min),
			SupplierName:  &supplier,
			IsActive:      true,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedBills(tx *gorm.DB, vendor *models.Vendor, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	coke := items[0]
	now := time.Now()

	totals, err := billing.Calculate(models.BillingGST, false, decimal.Zero, []billing.Line{
		{
			Price:         coke.Price,
			Quantity:      decimal.NewFromInt(2),
			GSTPercentage: coke.GSTPercentage,
			PriceType:     coke.PriceType,
		},
	})
	if err != nil {
		return err
	}

	invoiceNo, billNo, err := billing.NextInvoiceNumber(tx, vendor, now)
	if err != nil {
		return err
	}

	bill := models.Bill{
		ID:            uuid.New(),
		VendorID:      vendor.ID,
		InvoiceNumber: invoiceNo,
		BillNumber:    &billNo,
		BillDate:      now,
		BusinessName:  vendor.BusinessName,
		Address:       vendor.Address,
		GSTIN:         vendor.GSTNo,
		FSSAILicense:  vendor.FSSAILicense,
		FooterNote:    vendor.FooterNote,
		BillingMode:   models.BillingGST,
		Subtotal:      totals.Subtotal,
		TotalAmount:   totals.Total,
		TotalTax:      totals.TotalTax,
		CGSTAmount:    totals.CGST,
		SGSTAmount:    totals.SGST,
		IGSTAmount:    totals.IGST,
		PaymentMode:   models.PaymentCash,
	}
	if err := tx.Create(&bill).Error; err != nil {
		return err
	}

	line := models.BillItem{
		BillID:        bill.ID,
		ItemID:        &coke.ID,
		ItemName:      coke.Name,
		Price:         coke.Price,
		MRPPrice:      coke.MRPPrice,
		PriceType:     coke.PriceType,
		Quantity:      decimal.NewFromInt(2),
		Subtotal:      totals.Lines[0].Gross,
		GSTPercentage: coke.GSTPercentage,
		ItemGSTAmount: totals.Lines[0].Tax,
	}
	return tx.Create(&line).Error
}
