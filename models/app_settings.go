package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppSettings represents app_settings table - an opaque per-device config
// blob (printer setup, theme, etc.) the mobile app backs up. The server
// stores it verbatim, one row per (vendor, device).
type AppSettings struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_app_settings_vendor_device" json:"vendor_id"`
	DeviceID     string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_app_settings_vendor_device;index" json:"device_id"`
	SettingsData datatypes.JSON `gorm:"type:jsonb;not null" json:"settings_data"`
	LastUpdated  time.Time      `gorm:"autoUpdateTime" json:"last_updated"`
	CreatedAt    time.Time      `json:"created_at"`

	Vendor Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AppSettings
func (AppSettings) TableName() string {
	return "app_settings"
}

// BeforeCreate assigns an ID when one was not supplied.
func (s *AppSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
