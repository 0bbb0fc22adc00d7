package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/models"
)

// Context local keys set by the auth middleware
const (
	LocalUser     = "user"
	LocalVendor   = "vendor"
	LocalSalesRep = "salesRep"
)

// pendingApprovalMessage matches what mobile clients display verbatim.
const pendingApprovalMessage = "Your vendor account is pending approval. Please wait for admin approval."

// RequireAuth resolves the bearer token to a user and stores it in locals.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, bail := userFromToken(c)
		if user == nil {
			return bail
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireVendor resolves the bearer token to a user plus the vendor the
// user acts for, and enforces the approval gate: API usage requires an
// approved vendor and an active user.
func RequireVendor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, bail := userFromToken(c)
		if user == nil {
			return bail
		}

		db := database.GetDB()
		vendor, err := models.VendorForUser(db, user.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve vendor")
		}
		if vendor == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Vendor profile not found",
			})
		}
		if !vendor.IsApproved || !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": pendingApprovalMessage,
			})
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalVendor, vendor)
		return c.Next()
	}
}

// RequireSalesRep resolves the bearer token to an active sales rep.
func RequireSalesRep() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, bail := userFromToken(c)
		if user == nil {
			return bail
		}

		db := database.GetDB()
		var rep models.SalesRep
		if err := db.Where("user_id = ?", user.ID).First(&rep).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Access denied. Sales rep access required.",
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve sales rep")
		}
		if !rep.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Sales rep account not active",
			})
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalSalesRep, &rep)
		return c.Next()
	}
}

func userFromToken(c *fiber.Ctx) (*models.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	key := strings.TrimPrefix(authHeader, "Bearer ")
	if key == authHeader {
		// Mobile clients historically send "Token <key>" as well
		key = strings.TrimPrefix(authHeader, "Token ")
	}
	if key == authHeader || key == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Bearer token required",
		})
	}

	db := database.GetDB()
	var token models.AuthToken
	if err := db.Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}
	if !token.User.IsActive {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}
	return &token.User, nil
}

// UserFromCtx returns the authenticated user stored by the middleware.
func UserFromCtx(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalUser).(*models.User)
	return u
}

// VendorFromCtx returns the vendor scope stored by the middleware.
func VendorFromCtx(c *fiber.Ctx) *models.Vendor {
	v, _ := c.Locals(LocalVendor).(*models.Vendor)
	return v
}

// SalesRepFromCtx returns the sales rep stored by the middleware.
func SalesRepFromCtx(c *fiber.Ctx) *models.SalesRep {
	r, _ := c.Locals(LocalSalesRep).(*models.SalesRep)
	return r
}
