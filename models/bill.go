package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingMode type for the two tax regimes a bill can follow
type BillingMode string

const (
	BillingGST    BillingMode = "gst"
	BillingNonGST BillingMode = "non_gst"
)

// PaymentMode type for payment methods
type PaymentMode string

const (
	PaymentCash   PaymentMode = "cash"
	PaymentUPI    PaymentMode = "upi"
	PaymentCard   PaymentMode = "card"
	PaymentCredit PaymentMode = "credit"
	PaymentOther  PaymentMode = "other"
)

// ValidPaymentMode reports whether m is a known payment mode.
func ValidPaymentMode(m PaymentMode) bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentCredit, PaymentOther:
		return true
	}
	return false
}

// Bill represents bills table - an invoice header. Vendor profile fields are
// snapshotted at creation time so a later profile change never rewrites
// history. Uniqueness of (vendor_id, invoice_number) is what makes bill
// re-upload idempotent.
type Bill struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bills_vendor_invoice;index:idx_bills_vendor_date;index:idx_bills_vendor_synced" json:"vendor_id"`
	DeviceID *string   `gorm:"type:varchar(255);index" json:"device_id,omitempty"`

	InvoiceNumber string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_bills_vendor_invoice" json:"invoice_number"`
	BillNumber    *string   `gorm:"type:varchar(100)" json:"bill_number,omitempty"`
	BillDate      time.Time `gorm:"type:date;not null;index:idx_bills_vendor_date" json:"bill_date"`

	// Vendor snapshot for printing
	BusinessName *string `gorm:"type:varchar(255)" json:"business_name,omitempty"`
	Address      *string `gorm:"type:text" json:"address,omitempty"`
	GSTIN        *string `gorm:"type:varchar(50)" json:"gstin,omitempty"`
	FSSAILicense *string `gorm:"type:varchar(50)" json:"fssai_license,omitempty"`
	LogoURL      *string `gorm:"type:varchar(500)" json:"logo_url,omitempty"`
	FooterNote   *string `gorm:"type:text" json:"footer_note,omitempty"`

	// Customer information
	CustomerName    *string `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	CustomerPhone   *string `gorm:"type:varchar(20)" json:"customer_phone,omitempty"`
	CustomerEmail   *string `gorm:"type:varchar(254)" json:"customer_email,omitempty"`
	CustomerAddress *string `gorm:"type:text" json:"customer_address,omitempty"`

	BillingMode BillingMode `gorm:"type:varchar(20);not null;default:'gst';index" json:"billing_mode"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`

	// Tax breakdown, zero for non-GST bills
	TotalTax   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_tax"`
	CGSTAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cgst_amount"`
	SGSTAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"sgst_amount"`
	IGSTAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"igst_amount"`

	PaymentMode      PaymentMode      `gorm:"type:varchar(50);not null;default:'cash'" json:"payment_mode"`
	PaymentReference *string          `gorm:"type:varchar(255)" json:"payment_reference,omitempty"`
	AmountPaid       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_paid,omitempty"`
	ChangeAmount     decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"change_amount"`

	DiscountAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`

	Notes       *string `gorm:"type:text" json:"notes,omitempty"`
	TableNumber *string `gorm:"type:varchar(50)" json:"table_number,omitempty"`
	WaiterName  *string `gorm:"type:varchar(255)" json:"waiter_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	SyncedAt  time.Time `gorm:"autoUpdateTime;index:idx_bills_vendor_synced" json:"synced_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Vendor Vendor     `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
	Items  []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// TableName specifies the table name for Bill
func (Bill) TableName() string {
	return "bills"
}

// BeforeCreate assigns ID and bill date defaults.
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.BillDate.IsZero() {
		b.BillDate = time.Now()
	}
	return nil
}

// BillItem represents bill_items table - a line item carrying a snapshot of
// the sold item. item_id is a weak reference kept for analytics; deleting
// the catalog item never invalidates the bill.
type BillItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BillID uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`

	ItemID         *uuid.UUID `gorm:"type:uuid;index" json:"item_id,omitempty"`
	OriginalItemID *uuid.UUID `gorm:"type:uuid;index" json:"original_item_id,omitempty"`

	ItemName        string  `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemDescription *string `gorm:"type:text" json:"item_description,omitempty"`

	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	MRPPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"mrp_price"`
	PriceType     PriceType       `gorm:"type:varchar(20);not null;default:'exclusive'" json:"price_type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"quantity"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	GSTPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percentage"`
	ItemGSTAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"item_gst_amount"`

	VegNonveg *VegMarker `gorm:"type:varchar(10)" json:"veg_nonveg,omitempty"`
	Unit      *string    `gorm:"type:varchar(50)" json:"unit,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Bill Bill  `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"-"`
	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for BillItem
func (BillItem) TableName() string {
	return "bill_items"
}

// BeforeCreate assigns an ID when one was not supplied.
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TotalWithTax returns the line total including GST.
func (bi *BillItem) TotalWithTax() decimal.Decimal {
	return bi.Subtotal.Add(bi.ItemGSTAmount)
}
