package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/models"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	// Get all models in dependency order
	allModels := models.AllModels()

	migrator := db.Migrator()
	for _, model := range allModels {
		tableName := "?"
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err == nil {
			tableName = stmt.Schema.Table
		}

		if err := db.AutoMigrate(model); err != nil {
			log.Printf("  ⚠ Warning: Could not migrate table %s: %v", tableName, err)
			continue
		}
		if migrator.HasTable(model) {
			log.Printf("  ✓ Migrated table: %s", tableName)
		}
	}

	// Uniqueness and lookup indexes GORM tags do not cover
	log.Println("Creating indexes...")
	if err := CreateIndexes(db); err != nil {
		log.Printf("Warning: Some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// CreateIndexes creates the composite indexes backing tenant isolation and
// idempotent sync. The partial unique index on items tolerates null SKUs,
// which plain gorm unique tags cannot express.
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Catalog indexes: per-tenant name uniqueness, null vendor = global
		{"idx_categories_global_name", "CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_global_name ON categories(name) WHERE vendor_id IS NULL"},
		{"idx_items_vendor_sku_partial", "CREATE UNIQUE INDEX IF NOT EXISTS idx_items_vendor_sku_partial ON items(vendor_id, sku) WHERE sku IS NOT NULL"},
		{"idx_items_barcode_lookup", "CREATE INDEX IF NOT EXISTS idx_items_barcode_lookup ON items(vendor_id, barcode) WHERE barcode IS NOT NULL"},

		// Billing indexes
		{"idx_bills_invoice_number", "CREATE INDEX IF NOT EXISTS idx_bills_invoice_number ON bills(invoice_number)"},
		{"idx_bills_billing_mode", "CREATE INDEX IF NOT EXISTS idx_bills_billing_mode ON bills(vendor_id, billing_mode)"},
		{"idx_bill_items_bill_created", "CREATE INDEX IF NOT EXISTS idx_bill_items_bill_created ON bill_items(bill_id, created_at)"},

		// Approval workflow
		{"idx_vendors_pending", "CREATE INDEX IF NOT EXISTS idx_vendors_pending ON vendors(is_approved, created_at)"},
	}

	successCount := 0
	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			log.Printf("  ⚠ Failed to create index %s: %v", idx.name, err)
		} else {
			log.Printf("  ✓ Created index: %s", idx.name)
			successCount++
		}
	}

	if successCount > 0 {
		log.Printf("Successfully created %d indexes", successCount)
	}

	return nil
}
