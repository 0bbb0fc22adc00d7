package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&User{},

		// 2. Tables depending on User
		&AuthToken{},
		&Vendor{},
		&SalesRep{},

		// 3. Tenant-owned tables
		&VendorUser{},
		&Category{},
		&Item{},
		&InventoryItem{},
		&Bill{},
		&InvoiceSequence{},
		&AppSettings{},

		// 4. Detail tables
		&BillItem{},
	}
}
