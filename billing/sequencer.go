package billing

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trenztechno/pos-backend-sub000/models"
)

// DefaultPrefix is used when the vendor has no bill prefix configured.
// Overridden at startup from the BILL_PREFIX environment setting.
var DefaultPrefix = "INV"

// NextInvoiceNumber atomically assigns the next invoice number for the
// vendor on the given date and returns both the full invoice number
// ({PREFIX}-{YYYYMMDD}-{NNNN}) and the short bill number ({PREFIX}-{NNNN}).
//
// The per-(vendor, date) counter row is taken FOR UPDATE, so two devices
// syncing bills at the same moment serialize on the row and can never be
// handed the same number. Must be called inside the transaction that also
// inserts the bill.
func NextInvoiceNumber(tx *gorm.DB, vendor *models.Vendor, at time.Time) (string, string, error) {
	seqDate := at.Format("20060102")

	// Ensure the counter row exists. ON CONFLICT DO NOTHING lets two
	// first-bill-of-the-day transactions race on the insert without either
	// of them aborting; the loser just finds the winner's row below.
	seed := initialSequence(vendor, seqDate)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return "", "", fmt.Errorf("create invoice sequence: %w", err)
	}

	var seq models.InvoiceSequence
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("vendor_id = ? AND seq_date = ?", vendor.ID, seqDate).
		First(&seq).Error; err != nil {
		return "", "", fmt.Errorf("lock invoice sequence: %w", err)
	}

	seq.LastNumber++
	if err := tx.Model(&models.InvoiceSequence{}).
		Where("id = ?", seq.ID).
		Update("last_number", seq.LastNumber).Error; err != nil {
		return "", "", fmt.Errorf("advance invoice sequence: %w", err)
	}

	invoiceNo, billNo := FormatInvoiceNumber(prefixFor(vendor), at, seq.LastNumber)
	return invoiceNo, billNo, nil
}

// initialSequence builds the counter row for a vendor's first bill of the
// day, positioned so the first assigned number equals the configured
// starting number.
func initialSequence(vendor *models.Vendor, seqDate string) models.InvoiceSequence {
	last := vendor.BillStartingNumber - 1
	if last < 0 {
		last = 0
	}
	return models.InvoiceSequence{
		VendorID:   vendor.ID,
		SeqDate:    seqDate,
		LastNumber: last,
	}
}

// FormatInvoiceNumber renders the invoice and bill number strings for a
// sequence value.
func FormatInvoiceNumber(prefix string, at time.Time, n int) (string, string) {
	invoiceNo := fmt.Sprintf("%s-%s-%04d", prefix, at.Format("20060102"), n)
	billNo := fmt.Sprintf("%s-%04d", prefix, n)
	return invoiceNo, billNo
}

func prefixFor(vendor *models.Vendor) string {
	if vendor.BillPrefix != nil {
		if p := strings.ToUpper(strings.TrimSpace(*vendor.BillPrefix)); p != "" {
			return p
		}
	}
	return DefaultPrefix
}
