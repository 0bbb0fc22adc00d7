package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceSequence represents invoice_sequences table - the per-vendor,
// per-date counter behind invoice numbering. The row is taken FOR UPDATE
// inside the bill-creation transaction so concurrent devices can never be
// handed the same number.
type InvoiceSequence struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VendorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_seq_vendor_date" json:"vendor_id"`
	SeqDate    string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_invoice_seq_vendor_date" json:"seq_date"`
	LastNumber int       `gorm:"not null;default:0" json:"last_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Vendor Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for InvoiceSequence
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
