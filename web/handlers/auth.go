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

type registerRequest struct {
	Username        string  `json:"username"`
	Email           *string `json:"email"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
	BusinessName    *string `json:"business_name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	GSTNo           *string `json:"gst_no"`
	FSSAILicense    *string `json:"fssai_license"`
}

// Register creates a new user plus a vendor profile pending approval.
func Register(c *fiber.Ctx) error {
	var req registerRequest
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
	if req.Password != req.PasswordConfirm {
		return badRequest(c, "passwords do not match")
	}

	db := database.GetDB()

	var count int64
	db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return badRequest(c, "username already taken")
	}
	if req.GSTNo != nil && *req.GSTNo != "" {
		db.Model(&models.Vendor{}).Where("gst_no = ?", *req.GSTNo).Count(&count)
		if count > 0 {
			return badRequest(c, "gst_no already registered")
		}
	}

	user := models.User{ID: uuid.New(), Username: req.Username, Email: req.Email, IsActive: true}
	if err := user.SetPassword(req.Password); err != nil {
		return serverError(c, "failed to hash password")
	}

	vendor := models.Vendor{
		ID:                 uuid.New(),
		UserID:             user.ID,
		BusinessName:       req.BusinessName,
		Phone:              req.Phone,
		Address:            req.Address,
		GSTNo:              normalizeOptional(req.GSTNo),
		FSSAILicense:       req.FSSAILicense,
		IsApproved:         false,
		BillStartingNumber: 1,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&vendor).Error; err != nil {
			return err
		}
		owner := models.VendorUser{
			VendorID: vendor.ID,
			UserID:   user.ID,
			IsOwner:  true,
			IsActive: true,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return serverError(c, "registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Your account is pending approval.",
		"user":    user,
		"vendor":  vendor,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a bearer token. Vendors whose
// profile is still unapproved get a 403 with the pending message so the
// app can show the waiting screen instead of a generic failure.
func Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		return unauthorized(c, "Invalid username or password")
	}
	if !user.CheckPassword(req.Password) {
		return unauthorized(c, "Invalid username or password")
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is deactivated. Contact support.",
		})
	}

	vendor, err := models.VendorForUser(db, user.ID)
	if err != nil {
		return serverError(c, "failed to resolve vendor")
	}

	// Sales reps log in through the same endpoint without a vendor profile.
	if vendor != nil && !vendor.IsApproved {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Your vendor account is pending approval. Please wait for admin approval.",
		})
	}

	token, err := models.NewAuthToken(user.ID)
	if err != nil {
		return serverError(c, "failed to create token")
	}
	if err := db.Create(token).Error; err != nil {
		return serverError(c, "failed to store token")
	}

	resp := fiber.Map{"token": token.Key, "user": user}
	if vendor != nil {
		resp["vendor"] = vendor
	}
	return c.JSON(resp)
}

// Logout revokes the presented token.
func Logout(c *fiber.Ctx) error {
	key := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	key = strings.TrimPrefix(key, "Token ")

	db := database.GetDB()
	db.Where("key = ?", key).Delete(&models.AuthToken{})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GetProfile returns the vendor profile of the authenticated user.
func GetProfile(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	user := middleware.UserFromCtx(c)
	return c.JSON(fiber.Map{
		"user":             user,
		"vendor":           vendor,
		"has_security_pin": vendor.HasSecurityPIN(),
	})
}

type profileUpdateRequest struct {
	BusinessName       *string `json:"business_name"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	GSTNo              *string `json:"gst_no"`
	FSSAILicense       *string `json:"fssai_license"`
	LogoURL            *string `json:"logo_url"`
	FooterNote         *string `json:"footer_note"`
	BillPrefix         *string `json:"bill_prefix"`
	BillStartingNumber *int    `json:"bill_starting_number"`
}

// UpdateProfile patches the vendor profile, including the bill numbering
// configuration used by the invoice sequencer.
func UpdateProfile(c *fiber.Ctx) error {
	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	updates := map[string]interface{}{}
	if req.BusinessName != nil {
		updates["business_name"] = *req.BusinessName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.GSTNo != nil {
		gst := strings.TrimSpace(*req.GSTNo)
		if gst != "" {
			var count int64
			db.Model(&models.Vendor{}).
				Where("gst_no = ? AND id <> ?", gst, vendor.ID).
				Count(&count)
			if count > 0 {
				return badRequest(c, "gst_no already registered")
			}
			updates["gst_no"] = gst
		} else {
			updates["gst_no"] = nil
		}
	}
	if req.FSSAILicense != nil {
		updates["fssai_license"] = *req.FSSAILicense
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.FooterNote != nil {
		updates["footer_note"] = *req.FooterNote
	}
	if req.BillPrefix != nil {
		prefix := strings.ToUpper(strings.TrimSpace(*req.BillPrefix))
		if len(prefix) > 10 {
			return badRequest(c, "bill_prefix must be at most 10 characters")
		}
		updates["bill_prefix"] = prefix
	}
	if req.BillStartingNumber != nil {
		if *req.BillStartingNumber < 1 {
			return badRequest(c, "bill_starting_number must be at least 1")
		}
		updates["bill_starting_number"] = *req.BillStartingNumber
	}

	if len(updates) > 0 {
		if err := db.Model(vendor).Updates(updates).Error; err != nil {
			return serverError(c, "failed to update profile")
		}
	}

	var fresh models.Vendor
	if err := db.First(&fresh, "id = ?", vendor.ID).Error; err != nil {
		return serverError(c, "failed to reload profile")
	}
	return c.JSON(fiber.Map{"vendor": fresh})
}

type forgotPasswordRequest struct {
	Username string `json:"username"`
	GSTNo    string `json:"gst_no"`
}

// ForgotPassword verifies the username + GSTIN pair and hands back a reset
// token good for one password change.
func ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.GSTNo == "" {
		return badRequest(c, "username and gst_no are required")
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		return notFound(c, "No matching account found")
	}
	var vendor models.Vendor
	if err := db.Where("user_id = ? AND gst_no = ?", user.ID, strings.TrimSpace(req.GSTNo)).First(&vendor).Error; err != nil {
		return notFound(c, "No matching account found")
	}

	token, err := models.NewAuthToken(user.ID)
	if err != nil {
		return serverError(c, "failed to create reset token")
	}
	if err := db.Create(token).Error; err != nil {
		return serverError(c, "failed to store reset token")
	}

	return c.JSON(fiber.Map{"reset_token": token.Key})
}

type resetPasswordRequest struct {
	ResetToken      string `json:"reset_token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// ResetPassword consumes a reset token and sets the new password. All
// existing tokens for the user are revoked.
func ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Password) < 8 {
		return badRequest(c, "password must be at least 8 characters")
	}
	if req.Password != req.PasswordConfirm {
		return badRequest(c, "passwords do not match")
	}

	db := database.GetDB()

	var token models.AuthToken
	if err := db.Preload("User").Where("key = ?", req.ResetToken).First(&token).Error; err != nil {
		return unauthorized(c, "Invalid or expired reset token")
	}

	user := token.User
	if err := user.SetPassword(req.Password); err != nil {
		return serverError(c, "failed to hash password")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("password_hash", user.PasswordHash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error
	})
	if err != nil {
		return serverError(c, "failed to reset password")
	}

	return c.JSON(fiber.Map{"message": "Password reset successful"})
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
