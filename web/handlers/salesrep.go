package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/models"
)

// vendorSummary is the listing shape sales reps work with.
type vendorSummary struct {
	models.Vendor
	Username   string `json:"username"`
	UserActive bool   `json:"user_active"`
}

func summarize(db *gorm.DB, vendors []models.Vendor) ([]vendorSummary, error) {
	out := make([]vendorSummary, 0, len(vendors))
	for _, v := range vendors {
		var owner models.User
		if err := db.First(&owner, "id = ?", v.UserID).Error; err != nil {
			return nil, err
		}
		out = append(out, vendorSummary{Vendor: v, Username: owner.Username, UserActive: owner.IsActive})
	}
	return out, nil
}

// RepListVendors lists vendors for the approval queue. status filters
// pending (default all), search matches business name, GSTIN and the
// owner's username.
func RepListVendors(c *fiber.Ctx) error {
	db := database.GetDB()

	q := db.Model(&models.Vendor{})
	switch c.Query("status", "all") {
	case "pending":
		q = q.Where("is_approved = ?", false)
	case "approved":
		q = q.Where("is_approved = ?", true)
	case "all":
	default:
		return badRequest(c, "status must be 'pending', 'approved' or 'all'")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"business_name ILIKE ? OR gst_no ILIKE ? OR user_id IN (?)",
			like, like,
			db.Model(&models.User{}).Select("id").Where("username ILIKE ?", like),
		)
	}

	var vendors []models.Vendor
	if err := q.Order("created_at DESC").Find(&vendors).Error; err != nil {
		return serverError(c, "failed to list vendors")
	}

	summaries, err := summarize(db, vendors)
	if err != nil {
		return serverError(c, "failed to load vendor owners")
	}
	return c.JSON(fiber.Map{"vendors": summaries, "count": len(summaries)})
}

// RepGetVendor returns one vendor with its owner state.
func RepGetVendor(c *fiber.Ctx) error {
	db := database.GetDB()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid vendor id")
	}
	var vendor models.Vendor
	if err := db.First(&vendor, "id = ?", id).Error; err != nil {
		return notFound(c, "Vendor not found")
	}

	summaries, err := summarize(db, []models.Vendor{vendor})
	if err != nil {
		return serverError(c, "failed to load vendor owner")
	}
	return c.JSON(summaries[0])
}

func setVendorApproval(c *fiber.Ctx, approved bool) error {
	db := database.GetDB()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid vendor id")
	}
	var vendor models.Vendor
	if err := db.First(&vendor, "id = ?", id).Error; err != nil {
		return notFound(c, "Vendor not found")
	}

	if err := db.Model(&vendor).Update("is_approved", approved).Error; err != nil {
		return serverError(c, "failed to update vendor")
	}
	if approved {
		return c.JSON(fiber.Map{"message": "Vendor approved", "vendor": vendor})
	}
	return c.JSON(fiber.Map{"message": "Vendor approval revoked", "vendor": vendor})
}

// RepApproveVendor marks a vendor approved, unlocking the API for it.
func RepApproveVendor(c *fiber.Ctx) error {
	return setVendorApproval(c, true)
}

// RepRejectVendor withdraws approval. The owner can still log in and sees
// the pending message again.
func RepRejectVendor(c *fiber.Ctx) error {
	return setVendorApproval(c, false)
}

func setOwnerActive(c *fiber.Ctx, active bool) error {
	db := database.GetDB()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid vendor id")
	}
	var vendor models.Vendor
	if err := db.First(&vendor, "id = ?", id).Error; err != nil {
		return notFound(c, "Vendor not found")
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", vendor.UserID).
			Update("is_active", active).Error; err != nil {
			return err
		}
		if !active {
			// Deactivation locks the account out immediately.
			return tx.Where("user_id = ?", vendor.UserID).Delete(&models.AuthToken{}).Error
		}
		return nil
	})
	if txErr != nil {
		return serverError(c, "failed to update vendor account")
	}

	if active {
		return c.JSON(fiber.Map{"message": "Vendor account activated"})
	}
	return c.JSON(fiber.Map{"message": "Vendor account deactivated"})
}

// RepActivateVendor re-enables the vendor owner's login. Activation and
// approval are independent switches.
func RepActivateVendor(c *fiber.Ctx) error {
	return setOwnerActive(c, true)
}

// RepDeactivateVendor disables the vendor owner's login and revokes all
// of their tokens.
func RepDeactivateVendor(c *fiber.Ctx) error {
	return setOwnerActive(c, false)
}

type bulkApproveRequest struct {
	VendorIDs []string `json:"vendor_ids"`
}

// RepBulkApprove approves a list of vendors in one call. Unknown ids are
// reported back, valid ones are still approved.
func RepBulkApprove(c *fiber.Ctx) error {
	var req bulkApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.VendorIDs) == 0 {
		return badRequest(c, "vendor_ids must not be empty")
	}

	db := database.GetDB()
	approved := 0
	failed := []string{}

	for _, raw := range req.VendorIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			failed = append(failed, raw)
			continue
		}
		res := db.Model(&models.Vendor{}).
			Where("id = ?", id).
			Update("is_approved", true)
		if res.Error != nil || res.RowsAffected == 0 {
			failed = append(failed, raw)
			continue
		}
		approved++
	}

	return c.JSON(fiber.Map{"approved": approved, "failed": failed})
}
