package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/trenztechno/pos-backend-sub000/web/handlers"
	"github.com/trenztechno/pos-backend-sub000/web/middleware"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server
func NewServer() *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))

	// Custom middleware to inject SQL logs into context
	app.Use(middleware.SQLDebugMiddleware())

	// Setup routes
	setupRoutes(app)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App) {
	// Health and debug
	app.Get("/health", handlers.Health)
	app.Get("/api/debug/sql", handlers.GetSQLQueries)
	app.Delete("/api/debug/sql", handlers.ClearSQLQueries)

	// Authentication and vendor profile
	auth := app.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", middleware.RequireAuth(), handlers.Logout)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Post("/reset-password", handlers.ResetPassword)
	auth.Get("/profile", middleware.RequireVendor(), handlers.GetProfile)
	auth.Patch("/profile", middleware.RequireVendor(), handlers.UpdateProfile)

	// Staff management (owner only, checked inside the handlers)
	vendorUsers := auth.Group("/vendor/users", middleware.RequireVendor())
	vendorUsers.Post("/create", handlers.CreateStaffUser)
	vendorUsers.Get("/", handlers.ListStaffUsers)
	vendorUsers.Post("/:id/reset-password", handlers.ResetStaffPassword)
	vendorUsers.Delete("/:id", handlers.RemoveStaffUser)

	pin := auth.Group("/vendor/security-pin", middleware.RequireVendor())
	pin.Post("/set", handlers.SetSecurityPIN)
	pin.Post("/verify", handlers.VerifySecurityPIN)
	pin.Get("/status", handlers.SecurityPINStatus)

	// Catalog (categories before the item ":id" routes)
	items := app.Group("/items", middleware.RequireVendor())
	items.Get("/categories", handlers.ListCategories)
	items.Post("/categories", handlers.CreateCategory)
	items.Post("/categories/sync", handlers.SyncCategories)
	items.Get("/categories/:id", handlers.GetCategory)
	items.Patch("/categories/:id", handlers.UpdateCategory)
	items.Delete("/categories/:id", handlers.DeleteCategory)
	items.Post("/sync", handlers.SyncItems)
	items.Get("/", handlers.ListItems)
	items.Post("/", handlers.CreateItem)
	items.Get("/:id", handlers.GetItem)
	items.Patch("/:id", handlers.UpdateItem)
	items.Patch("/:id/status", handlers.UpdateItemStatus)
	items.Delete("/:id", handlers.DeleteItem)

	// Inventory
	inventory := app.Group("/inventory", middleware.RequireVendor())
	inventory.Get("/unit-types", handlers.ListUnitTypes)
	inventory.Get("/", handlers.ListInventory)
	inventory.Post("/", handlers.CreateInventoryItem)
	inventory.Get("/:id", handlers.GetInventoryItem)
	inventory.Patch("/:id", handlers.UpdateInventoryItem)
	inventory.Patch("/:id/stock", handlers.UpdateStock)
	inventory.Delete("/:id", handlers.DeleteInventoryItem)

	// Bills
	bills := app.Group("/bills", middleware.RequireVendor())
	bills.Get("/", handlers.ListBills)
	bills.Post("/", handlers.CreateBill)
	bills.Get("/:id", handlers.GetBill)
	bills.Patch("/:id", handlers.UpdateBill)
	bills.Delete("/:id", handlers.DeleteBill)
	app.Post("/backup/sync", middleware.RequireVendor(), handlers.BackupSync)

	// Device settings backup
	settings := app.Group("/settings", middleware.RequireVendor())
	settings.Post("/push", handlers.PushSettings)
	settings.Get("/", handlers.GetSettings)

	// Sales rep approval console
	rep := app.Group("/sales-rep", middleware.RequireSalesRep())
	rep.Get("/vendors", handlers.RepListVendors)
	rep.Post("/vendors/bulk-approve", handlers.RepBulkApprove)
	rep.Get("/vendors/:id", handlers.RepGetVendor)
	rep.Post("/vendors/:id/approve", handlers.RepApproveVendor)
	rep.Post("/vendors/:id/reject", handlers.RepRejectVendor)
	rep.Post("/vendors/:id/activate", handlers.RepActivateVendor)
	rep.Post("/vendors/:id/deactivate", handlers.RepDeactivateVendor)

	// Dashboard analytics
	dashboard := app.Group("/dashboard", middleware.RequireVendor())
	dashboard.Get("/stats", handlers.DashboardStats)
	dashboard.Get("/sales", handlers.DashboardSales)
	dashboard.Get("/items", handlers.DashboardItems)
	dashboard.Get("/payments", handlers.DashboardPayments)
	dashboard.Get("/tax", handlers.DashboardTax)
	dashboard.Get("/profit", handlers.DashboardProfit)
	dashboard.Get("/dues", handlers.DashboardDues)
}
