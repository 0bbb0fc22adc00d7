package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/models"
	"github.com/trenztechno/pos-backend-sub000/web/middleware"
)

// requireOwner resolves the vendor and checks the caller holds owner rights.
// Staff members can use the POS but never manage other staff.
func requireOwner(c *fiber.Ctx) (*models.Vendor, *models.User, error) {
	vendor := middleware.VendorFromCtx(c)
	user := middleware.UserFromCtx(c)

	db := database.GetDB()
	owner, err := vendor.IsOwner(db, user.ID)
	if err != nil {
		return nil, nil, serverError(c, "failed to check ownership")
	}
	if !owner {
		return nil, nil, forbidden(c, "Only the vendor owner can manage staff")
	}
	return vendor, user, nil
}

type createStaffRequest struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// CreateStaffUser creates a staff login attached to the owner's vendor.
func CreateStaffUser(c *fiber.Ctx) error {
	vendor, user, err := requireOwner(c)
	if vendor == nil {
		return err
	}

	var req createStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return badRequest(c, "username is required")
	}
	if len(req.Password) < 8 {
		return badRequest(c, "password must be at least 8 characters")
	}

	db := database.GetDB()

	var count int64
	db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return badRequest(c, "username already taken")
	}

	staff := models.User{
		ID:        uuid.New(),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := staff.SetPassword(req.Password); err != nil {
		return serverError(c, "failed to hash password")
	}

	membership := models.VendorUser{
		VendorID:  vendor.ID,
		UserID:    staff.ID,
		IsOwner:   false,
		IsActive:  true,
		CreatedBy: &user.ID,
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}
		return tx.Create(&membership).Error
	})
	if txErr != nil {
		return serverError(c, "failed to create staff user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":       staff,
		"membership": membership,
	})
}

// ListStaffUsers lists the vendor's staff memberships with their users.
func ListStaffUsers(c *fiber.Ctx) error {
	vendor, _, err := requireOwner(c)
	if vendor == nil {
		return err
	}

	db := database.GetDB()
	var memberships []models.VendorUser
	if err := db.Preload("User").
		Where("vendor_id = ?", vendor.ID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return serverError(c, "failed to list staff")
	}
	return c.JSON(fiber.Map{"users": memberships, "count": len(memberships)})
}

type resetStaffPasswordRequest struct {
	Password string `json:"password"`
}

// ResetStaffPassword sets a new password for a staff member and revokes
// their tokens.
func ResetStaffPassword(c *fiber.Ctx) error {
	vendor, _, err := requireOwner(c)
	if vendor == nil {
		return err
	}

	staffID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var req resetStaffPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Password) < 8 {
		return badRequest(c, "password must be at least 8 characters")
	}

	db := database.GetDB()

	var membership models.VendorUser
	if err := db.Where("vendor_id = ? AND user_id = ?", vendor.ID, staffID).First(&membership).Error; err != nil {
		return notFound(c, "Staff user not found")
	}
	if membership.IsOwner {
		return forbidden(c, "Cannot reset the owner password here")
	}

	var staff models.User
	if err := db.First(&staff, "id = ?", staffID).Error; err != nil {
		return notFound(c, "Staff user not found")
	}
	if err := staff.SetPassword(req.Password); err != nil {
		return serverError(c, "failed to hash password")
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", staff.ID).
			Update("password_hash", staff.PasswordHash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", staff.ID).Delete(&models.AuthToken{}).Error
	})
	if txErr != nil {
		return serverError(c, "failed to reset password")
	}

	return c.JSON(fiber.Map{"message": "Password reset"})
}

// RemoveStaffUser deactivates a staff membership and revokes the user's
// tokens. The owner membership can never be removed.
func RemoveStaffUser(c *fiber.Ctx) error {
	vendor, _, err := requireOwner(c)
	if vendor == nil {
		return err
	}

	staffID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	db := database.GetDB()

	var membership models.VendorUser
	if err := db.Where("vendor_id = ? AND user_id = ?", vendor.ID, staffID).First(&membership).Error; err != nil {
		return notFound(c, "Staff user not found")
	}
	if membership.IsOwner {
		return forbidden(c, "Cannot remove the vendor owner")
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.VendorUser{}).
			Where("id = ?", membership.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", staffID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", staffID).Delete(&models.AuthToken{}).Error
	})
	if txErr != nil {
		return serverError(c, "failed to remove staff user")
	}

	return c.JSON(fiber.Map{"message": "Staff user removed"})
}

type pinRequest struct {
	PIN string `json:"pin"`
}

// SetSecurityPIN stores a bcrypt hash of the vendor's app PIN. An empty
// pin clears it.
func SetSecurityPIN(c *fiber.Ctx) error {
	vendor, _, err := requireOwner(c)
	if vendor == nil {
		return err
	}

	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PIN != "" && (len(req.PIN) < 4 || len(req.PIN) > 8) {
		return badRequest(c, "pin must be 4 to 8 characters")
	}

	if err := vendor.SetSecurityPIN(req.PIN); err != nil {
		return serverError(c, "failed to hash pin")
	}

	db := database.GetDB()
	if err := db.Model(vendor).Update("security_pin", vendor.SecurityPIN).Error; err != nil {
		return serverError(c, "failed to store pin")
	}
	if req.PIN == "" {
		return c.JSON(fiber.Map{"message": "Security PIN cleared"})
	}
	return c.JSON(fiber.Map{"message": "Security PIN set"})
}

// VerifySecurityPIN checks a PIN attempt against the stored hash.
func VerifySecurityPIN(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)

	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if !vendor.HasSecurityPIN() {
		return badRequest(c, "No security PIN is set")
	}
	return c.JSON(fiber.Map{"valid": vendor.CheckSecurityPIN(req.PIN)})
}

// SecurityPINStatus reports whether a PIN is configured.
func SecurityPINStatus(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	return c.JSON(fiber.Map{"has_security_pin": vendor.HasSecurityPIN()})
}
