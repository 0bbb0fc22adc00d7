package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceType determines how GST relates to the listed price.
type PriceType string

const (
	// PriceExclusive - tax is added on top of the price
	PriceExclusive PriceType = "exclusive"
	// PriceInclusive - the MRP already contains the tax
	PriceInclusive PriceType = "inclusive"
)

// VegMarker type for the veg/non-veg flag printed on bills
type VegMarker string

const (
	MarkerVeg    VegMarker = "veg"
	MarkerNonVeg VegMarker = "non_veg"
)

// Item represents items table - a sellable product owned by one vendor.
// last_updated carries the client-supplied modification timestamp used for
// Last-Write-Wins conflict resolution during offline sync.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_items_vendor_active;uniqueIndex:idx_items_vendor_sku" json:"vendor_id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	MRPPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"mrp_price"`
	PriceType     PriceType       `gorm:"type:varchar(20);not null;default:'exclusive'" json:"price_type"`
	GSTPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percentage"`
	VegNonveg     *VegMarker      `gorm:"type:varchar(10)" json:"veg_nonveg,omitempty"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	SKU           *string         `gorm:"type:varchar(100);uniqueIndex:idx_items_vendor_sku" json:"sku,omitempty"`
	Barcode       *string         `gorm:"type:varchar(100);index" json:"barcode,omitempty"`
	IsActive      bool            `gorm:"default:true;index:idx_items_vendor_active" json:"is_active"`
	SortOrder     int             `gorm:"default:0;index" json:"sort_order"`
	ImageURL      *string         `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	LastUpdated   time.Time       `gorm:"index" json:"last_updated"`
	CreatedAt     time.Time       `json:"created_at"`

	Vendor     Vendor     `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
	Categories []Category `gorm:"many2many:item_categories" json:"categories,omitempty"`
}

// TableName specifies the table name for Item
func (Item) TableName() string {
	return "items"
}

// BeforeCreate assigns ID and LWW timestamp defaults.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.LastUpdated.IsZero() {
		i.LastUpdated = time.Now()
	}
	return nil
}

// CategoryIDs returns the ids of the item's categories.
func (i *Item) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(i.Categories))
	for _, c := range i.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
