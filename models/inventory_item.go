package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitType is the unit of measurement for raw-material stock.
type UnitType string

const (
	UnitKilogram    UnitType = "kg"
	UnitGram        UnitType = "g"
	UnitLiter       UnitType = "L"
	UnitMilliliter  UnitType = "mL"
	UnitPiece       UnitType = "pcs"
	UnitPacket      UnitType = "pkt"
	UnitBox         UnitType = "box"
	UnitCarton      UnitType = "carton"
	UnitBag         UnitType = "bag"
	UnitBottle      UnitType = "bottle"
	UnitCan         UnitType = "can"
	UnitDozen       UnitType = "dozen"
	UnitMeter       UnitType = "m"
	UnitCentimeter  UnitType = "cm"
	UnitSquareMeter UnitType = "sqm"
	UnitCubicMeter  UnitType = "cum"
)

// UnitTypes lists every supported unit with its display label.
func UnitTypes() []map[string]string {
	pairs := []struct {
		value UnitType
		label string
	}{
		{UnitKilogram, "Kilogram (kg)"},
		{UnitGram, "Gram (g)"},
		{UnitLiter, "Liter (L)"},
		{UnitMilliliter, "Milliliter (mL)"},
		{UnitPiece, "Piece (pcs)"},
		{UnitPacket, "Packet (pkt)"},
		{UnitBox, "Box (box)"},
		{UnitCarton, "Carton (carton)"},
		{UnitBag, "Bag (bag)"},
		{UnitBottle, "Bottle (bottle)"},
		{UnitCan, "Can (can)"},
		{UnitDozen, "Dozen (dozen)"},
		{UnitMeter, "Meter (m)"},
		{UnitCentimeter, "Centimeter (cm)"},
		{UnitSquareMeter, "Square Meter (sqm)"},
		{UnitCubicMeter, "Cubic Meter (cum)"},
	}
	out := make([]map[string]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, map[string]string{"value": string(p.value), "label": p.label})
	}
	return out
}

// ValidUnitType reports whether u is one of the supported units.
func ValidUnitType(u UnitType) bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece, UnitPacket,
		UnitBox, UnitCarton, UnitBag, UnitBottle, UnitCan, UnitDozen,
		UnitMeter, UnitCentimeter, UnitSquareMeter, UnitCubicMeter:
		return true
	}
	return false
}

// InventoryItem represents inventory_items table - raw-material stock a
// vendor consumes. Deliberately unrelated to Item, which is what the vendor
// sells.
type InventoryItem struct {
	UUIDModel
	VendorID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_vendor_active;uniqueIndex:idx_inventory_vendor_name" json:"vendor_id"`
	Name            string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_inventory_vendor_name" json:"name"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"quantity"`
	UnitType        UnitType        `gorm:"type:varchar(20);not null;default:'kg'" json:"unit_type"`
	SKU             *string         `gorm:"type:varchar(100);index" json:"sku,omitempty"`
	Barcode         *string         `gorm:"type:varchar(100);index" json:"barcode,omitempty"`
	SupplierName    *string         `gorm:"type:varchar(255)" json:"supplier_name,omitempty"`
	SupplierContact *string         `gorm:"type:varchar(100)" json:"supplier_contact,omitempty"`
	MinStockLevel   decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"min_stock_level"`
	ReorderQuantity decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"reorder_quantity"`
	IsActive        bool            `gorm:"default:true;index:idx_inventory_vendor_active" json:"is_active"`
	LastRestockedAt *time.Time      `json:"last_restocked_at,omitempty"`

	Vendor Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the quantity fell below the minimum level.
func (ii *InventoryItem) IsLowStock() bool {
	if ii.MinStockLevel.IsPositive() {
		return ii.Quantity.LessThan(ii.MinStockLevel)
	}
	return false
}

// NeedsReorder reports whether the item is low and has a reorder quantity set.
func (ii *InventoryItem) NeedsReorder() bool {
	return ii.IsLowStock() && ii.ReorderQuantity.IsPositive()
}
