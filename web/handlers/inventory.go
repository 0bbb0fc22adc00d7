package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/models"
	"github.com/trenztechno/pos-backend-sub000/web/middleware"
)

// ListUnitTypes returns the supported units of measurement.
func ListUnitTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"unit_types": models.UnitTypes()})
}

// ListInventory returns the vendor's raw-material stock with filters.
func ListInventory(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	q := db.Where("vendor_id = ?", vendor.ID)
	if c.Query("is_active") != "" {
		q = q.Where("is_active = ?", c.QueryBool("is_active"))
	}
	if ut := c.Query("unit_type"); ut != "" {
		if !models.ValidUnitType(models.UnitType(ut)) {
			return badRequest(c, "unknown unit_type")
		}
		q = q.Where("unit_type = ?", ut)
	}
	if c.QueryBool("low_stock") {
		q = q.Where("min_stock_level > 0 AND quantity < min_stock_level")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ? OR barcode ILIKE ? OR supplier_name ILIKE ?",
			like, like, like, like)
	}

	var items []models.InventoryItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return serverError(c, "failed to list inventory")
	}

	lowStock := 0
	for i := range items {
		if items[i].IsLowStock() {
			lowStock++
		}
	}
	return c.JSON(fiber.Map{"inventory": items, "count": len(items), "low_stock_count": lowStock})
}

type inventoryRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitType        *models.UnitType `json:"unit_type"`
	SKU             *string          `json:"sku"`
	Barcode         *string          `json:"barcode"`
	SupplierName    *string          `json:"supplier_name"`
	SupplierContact *string          `json:"supplier_contact"`
	MinStockLevel   *decimal.Decimal `json:"min_stock_level"`
	ReorderQuantity *decimal.Decimal `json:"reorder_quantity"`
	IsActive        *bool            `json:"is_active"`
}

// CreateInventoryItem registers a raw-material stock record.
func CreateInventoryItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)

	var req inventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return badRequest(c, "name is required")
	}
	if req.Quantity != nil && req.Quantity.IsNegative() {
		return badRequest(c, "quantity must not be negative")
	}
	if req.UnitType != nil && !models.ValidUnitType(*req.UnitType) {
		return badRequest(c, "unknown unit_type")
	}
	name := strings.TrimSpace(*req.Name)

	db := database.GetDB()

	var count int64
	db.Model(&models.InventoryItem{}).
		Where("vendor_id = ? AND name = ?", vendor.ID, name).
		Count(&count)
	if count > 0 {
		return badRequest(c, "inventory item with this name already exists")
	}

	item := models.InventoryItem{
		VendorID:        vendor.ID,
		Name:            name,
		Description:     req.Description,
		UnitType:        models.UnitKilogram,
		SKU:             normalizeOptional(req.SKU),
		Barcode:         normalizeOptional(req.Barcode),
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		IsActive:        true,
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
		if req.Quantity.IsPositive() {
			now := time.Now()
			item.LastRestockedAt = &now
		}
	}
	if req.UnitType != nil {
		item.UnitType = *req.UnitType
	}
	if req.MinStockLevel != nil {
		item.MinStockLevel = *req.MinStockLevel
	}
	if req.ReorderQuantity != nil {
		item.ReorderQuantity = *req.ReorderQuantity
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := db.Create(&item).Error; err != nil {
		return serverError(c, "failed to create inventory item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func vendorInventoryItem(c *fiber.Ctx, db *gorm.DB, vendor *models.Vendor) (*models.InventoryItem, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, badRequest(c, "invalid inventory item id")
	}
	var item models.InventoryItem
	if err := db.Where("id = ? AND vendor_id = ?", id, vendor.ID).First(&item).Error; err != nil {
		return nil, notFound(c, "Inventory item not found")
	}
	return &item, nil
}

// GetInventoryItem returns one stock record with the derived flags.
func GetInventoryItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorInventoryItem(c, db, vendor)
	if item == nil {
		return err
	}
	return c.JSON(fiber.Map{
		"item":          item,
		"is_low_stock":  item.IsLowStock(),
		"needs_reorder": item.NeedsReorder(),
	})
}

// UpdateInventoryItem patches the descriptive fields of a stock record.
// Quantity changes go through the stock endpoint so the restock timestamp
// stays honest.
func UpdateInventoryItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorInventoryItem(c, db, vendor)
	if item == nil {
		return err
	}

	var req inventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badRequest(c, "name must not be empty")
		}
		var count int64
		db.Model(&models.InventoryItem{}).
			Where("vendor_id = ? AND name = ? AND id <> ?", vendor.ID, name, item.ID).
			Count(&count)
		if count > 0 {
			return badRequest(c, "inventory item with this name already exists")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.UnitType != nil {
		if !models.ValidUnitType(*req.UnitType) {
			return badRequest(c, "unknown unit_type")
		}
		updates["unit_type"] = *req.UnitType
	}
	if req.SKU != nil {
		updates["sku"] = normalizeOptional(req.SKU)
	}
	if req.Barcode != nil {
		updates["barcode"] = normalizeOptional(req.Barcode)
	}
	if req.SupplierName != nil {
		updates["supplier_name"] = *req.SupplierName
	}
	if req.SupplierContact != nil {
		updates["supplier_contact"] = *req.SupplierContact
	}
	if req.MinStockLevel != nil {
		if req.MinStockLevel.IsNegative() {
			return badRequest(c, "min_stock_level must not be negative")
		}
		updates["min_stock_level"] = *req.MinStockLevel
	}
	if req.ReorderQuantity != nil {
		if req.ReorderQuantity.IsNegative() {
			return badRequest(c, "reorder_quantity must not be negative")
		}
		updates["reorder_quantity"] = *req.ReorderQuantity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(item).Updates(updates).Error; err != nil {
			return serverError(c, "failed to update inventory item")
		}
	}
	return c.JSON(item)
}

type stockRequest struct {
	Action   string           `json:"action"`
	Quantity *decimal.Decimal `json:"quantity"`
}

// UpdateStock adjusts the quantity of a stock record. Actions: set, add,
// subtract. Subtracting below zero is rejected; an add of a positive amount
// records the restock time.
func UpdateStock(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorInventoryItem(c, db, vendor)
	if item == nil {
		return err
	}

	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Quantity == nil {
		return badRequest(c, "quantity is required")
	}
	if req.Quantity.IsNegative() {
		return badRequest(c, "quantity must not be negative")
	}

	updates := map[string]interface{}{}
	switch req.Action {
	case "set":
		updates["quantity"] = *req.Quantity
	case "add":
		updates["quantity"] = item.Quantity.Add(*req.Quantity)
		if req.Quantity.IsPositive() {
			updates["last_restocked_at"] = time.Now()
		}
	case "subtract":
		next := item.Quantity.Sub(*req.Quantity)
		if next.IsNegative() {
			return badRequest(c, "stock cannot go negative")
		}
		updates["quantity"] = next
	default:
		return badRequest(c, "action must be 'set', 'add' or 'subtract'")
	}

	if err := db.Model(item).Updates(updates).Error; err != nil {
		return serverError(c, "failed to update stock")
	}
	return c.JSON(fiber.Map{
		"item":          item,
		"is_low_stock":  item.IsLowStock(),
		"needs_reorder": item.NeedsReorder(),
	})
}

// DeleteInventoryItem removes a stock record.
func DeleteInventoryItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorInventoryItem(c, db, vendor)
	if item == nil {
		return err
	}
	if err := db.Delete(item).Error; err != nil {
		return serverError(c, "failed to delete inventory item")
	}
	return c.JSON(fiber.Map{"message": "Inventory item deleted"})
}
