package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Vendor represents vendors table - the tenant entity.
// Every category, item, inventory record and bill is owned by exactly one
// vendor, and every query in the API layer is filtered by vendor id.
type Vendor struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BusinessName *string   `gorm:"type:varchar(255)" json:"business_name,omitempty"`
	Phone        *string   `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address      *string   `gorm:"type:text" json:"address,omitempty"`
	GSTNo        *string   `gorm:"type:varchar(50);uniqueIndex" json:"gst_no,omitempty"`
	FSSAILicense *string   `gorm:"type:varchar(50)" json:"fssai_license,omitempty"`
	LogoURL      *string   `gorm:"type:varchar(500)" json:"logo_url,omitempty"`
	FooterNote   *string   `gorm:"type:text" json:"footer_note,omitempty"`
	SecurityPIN  *string   `gorm:"type:varchar(255)" json:"-"`
	IsApproved   bool      `gorm:"default:false;index" json:"is_approved"`

	// Bill numbering configuration
	BillPrefix         *string `gorm:"type:varchar(50)" json:"bill_prefix,omitempty"`
	BillStartingNumber int     `gorm:"default:1" json:"bill_starting_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// CanUseAPI reports whether the vendor may call tenant-scoped endpoints.
// Approval and account activation are orthogonal: login needs an active
// user, API usage needs approval on top of that.
func (v *Vendor) CanUseAPI(owner *User) bool {
	return v.IsApproved && owner != nil && owner.IsActive
}

// SetSecurityPIN hashes and stores the PIN. An empty PIN clears it.
func (v *Vendor) SetSecurityPIN(pin string) error {
	if pin == "" {
		v.SecurityPIN = nil
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s := string(hash)
	v.SecurityPIN = &s
	return nil
}

// CheckSecurityPIN verifies a PIN against the stored hash.
func (v *Vendor) CheckSecurityPIN(pin string) bool {
	if v.SecurityPIN == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*v.SecurityPIN), []byte(pin)) == nil
}

// HasSecurityPIN reports whether a PIN is set.
func (v *Vendor) HasSecurityPIN() bool {
	return v.SecurityPIN != nil
}

// VendorForUser resolves the vendor a user acts for: the owned vendor when
// the user registered one, otherwise the vendor of an active staff
// membership. Returns nil when the user has neither.
func VendorForUser(db *gorm.DB, userID uuid.UUID) (*Vendor, error) {
	var vendor Vendor
	err := db.Where("user_id = ?", userID).First(&vendor).Error
	if err == nil {
		return &vendor, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var membership VendorUser
	err = db.Where("user_id = ? AND is_active = ?", userID, true).First(&membership).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.First(&vendor, "id = ?", membership.VendorID).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// IsOwner reports whether the user is the vendor's primary owner or holds
// an active owner membership.
func (v *Vendor) IsOwner(db *gorm.DB, userID uuid.UUID) (bool, error) {
	if v.UserID == userID {
		return true, nil
	}
	var count int64
	err := db.Model(&VendorUser{}).
		Where("vendor_id = ? AND user_id = ? AND is_active = ? AND is_owner = ?", v.ID, userID, true, true).
		Count(&count).Error
	return count > 0, err
}

// VendorUser represents vendor_users table - staff membership linking a
// login principal to a vendor. is_owner distinguishes the vendor admin
// (exactly one, the registering user) from staff.
type VendorUser struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_vendor_users_vendor_user" json:"vendor_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_vendor_users_vendor_user" json:"user_id"`
	IsOwner   bool       `gorm:"default:false" json:"is_owner"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	Vendor Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for VendorUser
func (VendorUser) TableName() string {
	return "vendor_users"
}

// BeforeCreate assigns an ID when one was not supplied.
func (vu *VendorUser) BeforeCreate(tx *gorm.DB) error {
	if vu.ID == uuid.Nil {
		vu.ID = uuid.New()
	}
	return nil
}

// SalesRep represents sales_reps table - staff who approve vendors.
type SalesRep struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name      *string   `gorm:"type:varchar(255)" json:"name,omitempty"`
	Phone     *string   `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for SalesRep
func (SalesRep) TableName() string {
	return "sales_reps"
}
