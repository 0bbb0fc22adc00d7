package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents categories table - groups items for the POS menu.
// A null vendor_id marks a global category shared across all vendors.
type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_categories_vendor_name;index:idx_categories_vendor_active" json:"vendor_id,omitempty"`
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_vendor_name" json:"name"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool       `gorm:"default:true;index:idx_categories_vendor_active" json:"is_active"`
	SortOrder   int        `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// IsGlobal reports whether the category is shared across vendors.
func (c *Category) IsGlobal() bool {
	return c.VendorID == nil
}
