package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/models"
	"github.com/trenztechno/pos-backend-sub000/web/middleware"
)

type settingsPushRequest struct {
	DeviceID     string          `json:"device_id"`
	SettingsData json.RawMessage `json:"settings_data"`
}

// PushSettings upserts the opaque per-device settings blob. The server
// never interprets the contents; it is a backup slot for the app.
func PushSettings(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)

	var req settingsPushRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.DeviceID == "" {
		return badRequest(c, "device_id is required")
	}
	if len(req.SettingsData) == 0 || !json.Valid(req.SettingsData) {
		return badRequest(c, "settings_data must be valid JSON")
	}

	db := database.GetDB()

	var existing models.AppSettings
	err := db.Where("vendor_id = ? AND device_id = ?", vendor.ID, req.DeviceID).
		First(&existing).Error
	switch err {
	case nil:
		if err := db.Model(&existing).
			Update("settings_data", []byte(req.SettingsData)).Error; err != nil {
			return serverError(c, "failed to update settings")
		}
		return c.JSON(fiber.Map{"message": "Settings updated", "settings": existing})
	case gorm.ErrRecordNotFound:
		settings := models.AppSettings{
			VendorID:     vendor.ID,
			DeviceID:     req.DeviceID,
			SettingsData: []byte(req.SettingsData),
		}
		if err := db.Create(&settings).Error; err != nil {
			return serverError(c, "failed to store settings")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Settings stored", "settings": settings})
	default:
		return serverError(c, "failed to load settings")
	}
}

// GetSettings returns the stored blob for a device.
func GetSettings(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	deviceID := c.Query("device_id")
	if deviceID == "" {
		return badRequest(c, "device_id is required")
	}

	db := database.GetDB()
	var settings models.AppSettings
	if err := db.Where("vendor_id = ? AND device_id = ?", vendor.ID, deviceID).
		First(&settings).Error; err != nil {
		return notFound(c, "No settings stored for this device")
	}
	return c.JSON(settings)
}
