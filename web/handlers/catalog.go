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

// ListCategories returns the vendor's categories plus global ones.
func ListCategories(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	q := db.Where("vendor_id = ? OR vendor_id IS NULL", vendor.ID)
	if c.Query("is_active") != "" {
		q = q.Where("is_active = ?", c.QueryBool("is_active"))
	}
	if search := c.Query("search"); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var categories []models.Category
	if err := q.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return serverError(c, "failed to list categories")
	}
	return c.JSON(fiber.Map{"categories": categories, "count": len(categories)})
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

// CreateCategory creates a vendor-scoped category.
func CreateCategory(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return badRequest(c, "name is required")
	}
	name := strings.TrimSpace(*req.Name)

	db := database.GetDB()

	var count int64
	db.Model(&models.Category{}).
		Where("vendor_id = ? AND name = ?", vendor.ID, name).
		Count(&count)
	if count > 0 {
		return badRequest(c, "category with this name already exists")
	}

	cat := models.Category{
		ID:          uuid.New(),
		VendorID:    &vendor.ID,
		Name:        name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
	}

	if err := db.Create(&cat).Error; err != nil {
		return serverError(c, "failed to create category")
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// vendorCategory loads a category the vendor may modify. Cross-tenant and
// global categories look identical to a missing one from the outside.
func vendorCategory(c *fiber.Ctx, db *gorm.DB, vendor *models.Vendor) (*models.Category, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, badRequest(c, "invalid category id")
	}
	var cat models.Category
	if err := db.Where("id = ? AND vendor_id = ?", id, vendor.ID).First(&cat).Error; err != nil {
		return nil, notFound(c, "Category not found")
	}
	return &cat, nil
}

// GetCategory returns one category (vendor's own or global).
func GetCategory(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	var cat models.Category
	if err := db.Where("id = ? AND (vendor_id = ? OR vendor_id IS NULL)", id, vendor.ID).First(&cat).Error; err != nil {
		return notFound(c, "Category not found")
	}
	return c.JSON(cat)
}

// UpdateCategory patches a vendor-owned category.
func UpdateCategory(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	cat, err := vendorCategory(c, db, vendor)
	if cat == nil {
		return err
	}

	var req categoryRequest
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
		db.Model(&models.Category{}).
			Where("vendor_id = ? AND name = ? AND id <> ?", vendor.ID, name, cat.ID).
			Count(&count)
		if count > 0 {
			return badRequest(c, "category with this name already exists")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := db.Model(cat).Updates(updates).Error; err != nil {
			return serverError(c, "failed to update category")
		}
	}
	return c.JSON(cat)
}

// DeleteCategory removes a vendor-owned category. Items keep existing; only
// the association rows go away.
func DeleteCategory(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	cat, err := vendorCategory(c, db, vendor)
	if cat == nil {
		return err
	}
	if err := db.Delete(cat).Error; err != nil {
		return serverError(c, "failed to delete category")
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// ListItems returns the vendor's items with optional filters.
func ListItems(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	q := db.Preload("Categories").Where("vendor_id = ?", vendor.ID)
	if c.Query("is_active") != "" {
		q = q.Where("is_active = ?", c.QueryBool("is_active"))
	}
	if catID := c.Query("category"); catID != "" {
		id, err := uuid.Parse(catID)
		if err != nil {
			return badRequest(c, "invalid category id")
		}
		q = q.Where("id IN (?)", db.Table("item_categories").
			Select("item_id").
			Where("category_id = ?", id))
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR sku ILIKE ? OR barcode ILIKE ?",
			like, like, like, like)
	}

	var items []models.Item
	if err := q.Order("sort_order ASC, name ASC").Find(&items).Error; err != nil {
		return serverError(c, "failed to list items")
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

type itemRequest struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description"`
	Price         *decimal.Decimal  `json:"price"`
	MRPPrice      *decimal.Decimal  `json:"mrp_price"`
	PriceType     *models.PriceType `json:"price_type"`
	GSTPercentage *decimal.Decimal  `json:"gst_percentage"`
	VegNonveg     *models.VegMarker `json:"veg_nonveg"`
	StockQuantity *int              `json:"stock_quantity"`
	SKU           *string           `json:"sku"`
	Barcode       *string           `json:"barcode"`
	IsActive      *bool             `json:"is_active"`
	SortOrder     *int              `json:"sort_order"`
	ImageURL      *string           `json:"image_url"`
	CategoryIDs   []string          `json:"category_ids"`
}

// resolveCategories validates that every referenced category is active and
// belongs to the vendor (or is global).
func resolveCategories(db *gorm.DB, vendorID uuid.UUID, rawIDs []string) ([]models.Category, error) {
	if rawIDs == nil {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid category id: "+raw)
		}
		ids = append(ids, id)
	}

	var categories []models.Category
	if len(ids) > 0 {
		if err := db.Where("id IN ? AND (vendor_id = ? OR vendor_id IS NULL) AND is_active = ?", ids, vendorID, true).
			Find(&categories).Error; err != nil {
			return nil, err
		}
		if len(categories) != len(ids) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "one or more categories do not exist for this vendor")
		}
	} else {
		categories = []models.Category{}
	}
	return categories, nil
}

// CreateItem creates a sellable item.
func CreateItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return badRequest(c, "name is required")
	}
	if req.Price == nil || req.Price.IsNegative() {
		return badRequest(c, "price is required and must not be negative")
	}
	if req.PriceType != nil && *req.PriceType != models.PriceExclusive && *req.PriceType != models.PriceInclusive {
		return badRequest(c, "price_type must be 'exclusive' or 'inclusive'")
	}
	if req.GSTPercentage != nil &&
		(req.GSTPercentage.IsNegative() || req.GSTPercentage.GreaterThan(decimal.NewFromInt(100))) {
		return badRequest(c, "gst_percentage must be between 0 and 100")
	}

	db := database.GetDB()

	categories, err := resolveCategories(db, vendor.ID, req.CategoryIDs)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return serverError(c, "failed to validate categories")
	}

	item := models.Item{
		ID:          uuid.New(),
		VendorID:    vendor.ID,
		Name:        strings.TrimSpace(*req.Name),
		Description: req.Description,
		Price:       *req.Price,
		PriceType:   models.PriceExclusive,
		VegNonveg:   req.VegNonveg,
		SKU:         normalizeOptional(req.SKU),
		Barcode:     normalizeOptional(req.Barcode),
		IsActive:    true,
		ImageURL:    req.ImageURL,
		LastUpdated: time.Now(),
	}
	if req.MRPPrice != nil {
		item.MRPPrice = *req.MRPPrice
	}
	if req.PriceType != nil {
		item.PriceType = *req.PriceType
	}
	if req.GSTPercentage != nil {
		item.GSTPercentage = *req.GSTPercentage
	}
	if req.StockQuantity != nil {
		item.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if categories != nil {
			return tx.Model(&item).Association("Categories").Replace(categories)
		}
		return nil
	})
	if txErr != nil {
		return serverError(c, "failed to create item")
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func vendorItem(c *fiber.Ctx, db *gorm.DB, vendor *models.Vendor) (*models.Item, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, badRequest(c, "invalid item id")
	}
	var item models.Item
	if err := db.Preload("Categories").
		Where("id = ? AND vendor_id = ?", id, vendor.ID).
		First(&item).Error; err != nil {
		return nil, notFound(c, "Item not found")
	}
	return &item, nil
}

// GetItem returns one item with its categories.
func GetItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorItem(c, db, vendor)
	if item == nil {
		return err
	}
	return c.JSON(item)
}

// UpdateItem patches an item and optionally replaces its categories.
func UpdateItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorItem(c, db, vendor)
	if item == nil {
		return err
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badRequest(c, "name must not be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return badRequest(c, "price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.MRPPrice != nil {
		updates["mrp_price"] = *req.MRPPrice
	}
	if req.PriceType != nil {
		if *req.PriceType != models.PriceExclusive && *req.PriceType != models.PriceInclusive {
			return badRequest(c, "price_type must be 'exclusive' or 'inclusive'")
		}
		updates["price_type"] = *req.PriceType
	}
	if req.GSTPercentage != nil {
		if req.GSTPercentage.IsNegative() || req.GSTPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return badRequest(c, "gst_percentage must be between 0 and 100")
		}
		updates["gst_percentage"] = *req.GSTPercentage
	}
	if req.VegNonveg != nil {
		updates["veg_nonveg"] = *req.VegNonveg
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.SKU != nil {
		updates["sku"] = normalizeOptional(req.SKU)
	}
	if req.Barcode != nil {
		updates["barcode"] = normalizeOptional(req.Barcode)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	categories, catErr := resolveCategories(db, vendor.ID, req.CategoryIDs)
	if catErr != nil {
		if fe, ok := catErr.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return serverError(c, "failed to validate categories")
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["last_updated"] = time.Now()
			if err := tx.Model(item).Updates(updates).Error; err != nil {
				return err
			}
		}
		if categories != nil {
			return tx.Model(item).Association("Categories").Replace(categories)
		}
		return nil
	})
	if txErr != nil {
		return serverError(c, "failed to update item")
	}

	var fresh models.Item
	if err := db.Preload("Categories").First(&fresh, "id = ?", item.ID).Error; err != nil {
		return serverError(c, "failed to reload item")
	}
	return c.JSON(fresh)
}

type itemStatusRequest struct {
	IsActive      *bool `json:"is_active"`
	StockQuantity *int  `json:"stock_quantity"`
}

// UpdateItemStatus is the fast toggle the POS uses to mark items sold out.
func UpdateItemStatus(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorItem(c, db, vendor)
	if item == nil {
		return err
	}

	var req itemStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.IsActive == nil && req.StockQuantity == nil {
		return badRequest(c, "is_active or stock_quantity is required")
	}

	updates := map[string]interface{}{"last_updated": time.Now()}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if err := db.Model(item).Updates(updates).Error; err != nil {
		return serverError(c, "failed to update item status")
	}
	return c.JSON(item)
}

// DeleteItem removes an item. Bill lines referencing it keep their snapshot.
func DeleteItem(c *fiber.Ctx) error {
	vendor := middleware.VendorFromCtx(c)
	db := database.GetDB()

	item, err := vendorItem(c, db, vendor)
	if item == nil {
		return err
	}
	if err := db.Select("Categories").Delete(item).Error; err != nil {
		return serverError(c, "failed to delete item")
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}
