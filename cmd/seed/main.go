package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/trenztechno/pos-backend-sub000/billing"
	"github.com/trenztechno/pos-backend-sub000/config"
	"github.com/trenztechno/pos-backend-sub000/database"
)

func main() {
	force := flag.Bool("force", false, "Force re-seed even if data exists")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	fmt.Println("🌱 Starting Database Seeding Tool")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	fmt.Printf("📊 Database: %s@%s:%s/%s\n\n",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	if cfg.App.BillPrefix != "" {
		billing.DefaultPrefix = cfg.App.BillPrefix
	}

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.CheckConnection(database.DB); err != nil {
		log.Fatal("Database connection check failed:", err)
	}

	if *force {
		fmt.Println("⚠️  Force flag enabled. Clearing existing data...")
		// Clear data in reverse dependency order
		tables := []string{
			"bill_items",
			"bills",
			"invoice_sequences",
			"app_settings",
			"item_categories",
			"items",
			"categories",
			"inventory_items",
			"vendor_users",
			"sales_reps",
			"auth_tokens",
			"vendors",
			"users",
		}
		for _, table := range tables {
			if err := database.DB.Exec("DELETE FROM " + table).Error; err != nil {
				log.Printf("  Warning: Failed to clear %s: %v", table, err)
			}
		}
	}

	fmt.Println("🔄 Seeding demo data...")
	if err := database.SeedData(database.DB); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	fmt.Println("✅ Seeding completed successfully!")
	fmt.Println("\nDemo accounts:")
	fmt.Println("  vendor: demo_vendor / demo12345")
	fmt.Println("  sales rep: demo_rep / demo12345")
}

func showHelp() {
	fmt.Println(`
Database Seeding Tool for POS Backend

Usage:
  go run cmd/seed/main.go [options]

Options:
  -force    Clear existing data and re-seed
  -help     Show this help message

The seed creates one approved demo vendor with a small menu, raw-material
inventory and a sample bill, plus a demo sales rep account.`)
}
