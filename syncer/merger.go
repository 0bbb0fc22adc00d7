// Package syncer applies offline-first batches from mobile devices to the
// canonical store using Last-Write-Wins conflict resolution.
package syncer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trenztechno/pos-backend-sub000/models"
)

// Operation is one entry of a sync batch.
type Operation struct {
	Operation string          `json:"operation"`
	ID        string          `json:"id,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// OpError reports a single failed operation. The batch as a whole never
// aborts; failures are collected and returned alongside the successes.
type OpError struct {
	ID        string `json:"id,omitempty"`
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// Result summarizes an applied batch.
type Result struct {
	Synced  int           `json:"synced"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Deleted int           `json:"deleted"`
	Records []interface{} `json:"records"`
	Errors  []OpError     `json:"errors"`
}

func (r *Result) fail(id, op, msg string) {
	r.Errors = append(r.Errors, OpError{ID: id, Operation: op, Error: msg})
}

// ParseClientTime parses the client-supplied timestamp. Mobile clients send
// RFC 3339; a missing offset is treated as UTC.
func ParseClientTime(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IncomingWins decides the Last-Write-Wins comparison: the incoming change
// applies only when its timestamp is strictly newer than the stored
// record's last-modified time. A missing or unparseable timestamp applies
// unconditionally, matching the lenient behavior offline clients rely on.
func IncomingWins(ts string, stored time.Time) bool {
	t, ok := ParseClientTime(ts)
	if !ok {
		return true
	}
	return t.After(stored.UTC())
}

// categoryPayload is the mutable subset of Category accepted from devices.
type categoryPayload struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

// itemPayload is the mutable subset of Item accepted from devices.
type itemPayload struct {
	ID            string             `json:"id"`
	Name          *string            `json:"name"`
	Description   *string            `json:"description"`
	Price         *decimal.Decimal   `json:"price"`
	MRPPrice      *decimal.Decimal   `json:"mrp_price"`
	PriceType     *models.PriceType  `json:"price_type"`
	GSTPercentage *decimal.Decimal   `json:"gst_percentage"`
	VegNonveg     *models.VegMarker  `json:"veg_nonveg"`
	StockQuantity *int               `json:"stock_quantity"`
	SKU           *string            `json:"sku"`
	Barcode       *string            `json:"barcode"`
	IsActive      *bool              `json:"is_active"`
	SortOrder     *int               `json:"sort_order"`
	ImageURL      *string            `json:"image_url"`
	CategoryIDs   []string           `json:"category_ids"`
	Categories    []string           `json:"categories"`
}

func (p *itemPayload) categoryIDs() []string {
	if p.CategoryIDs != nil {
		return p.CategoryIDs
	}
	return p.Categories
}

// SyncCategories applies a batch of category operations for the vendor.
// Operations run in array order; a later operation in the same batch sees
// the effect of an earlier one, so duplicate ids resolve in array order
// after the timestamp rule.
func SyncCategories(db *gorm.DB, vendorID uuid.UUID, ops []Operation) *Result {
	res := &Result{Records: []interface{}{}, Errors: []OpError{}}

	for _, op := range ops {
		opType := op.Operation
		if opType == "" {
			opType = "create"
		}

		var payload categoryPayload
		if len(op.Data) > 0 {
			if err := json.Unmarshal(op.Data, &payload); err != nil {
				res.fail(op.ID, opType, fmt.Sprintf("invalid data: %v", err))
				continue
			}
		}
		rawID := payload.ID
		if rawID == "" {
			rawID = op.ID
		}

		switch opType {
		case "delete":
			deleteRecord(db, res, op, rawID, &models.Category{}, vendorID, "category")
		case "create", "update":
			syncCategoryUpsert(db, res, op, opType, rawID, &payload, vendorID)
		default:
			res.fail(op.ID, opType, "unknown operation")
		}
	}

	res.Synced = res.Created + res.Updated + res.Deleted
	return res
}

func syncCategoryUpsert(db *gorm.DB, res *Result, op Operation, opType, rawID string, payload *categoryPayload, vendorID uuid.UUID) {
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			res.fail(rawID, opType, "invalid category id")
			return
		}

		var existing models.Category
		err = db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&existing).Error
		if err == nil {
			// Conflict: apply only when the client change is newer.
			if !IncomingWins(op.Timestamp, existing.UpdatedAt) {
				res.Records = append(res.Records, existing)
				return
			}
			updates := categoryUpdates(payload, op.Timestamp)
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				res.fail(rawID, opType, err.Error())
				return
			}
			res.Updated++
			res.Records = append(res.Records, existing)
			return
		}
		if err != gorm.ErrRecordNotFound {
			res.fail(rawID, opType, err.Error())
			return
		}

		// No record with this id for the tenant: insert with the client id.
		created, err := createCategory(db, payload, op.Timestamp, vendorID, id)
		if err != nil {
			res.fail(rawID, opType, err.Error())
			return
		}
		res.Created++
		res.Records = append(res.Records, created)
		return
	}

	created, err := createCategory(db, payload, op.Timestamp, vendorID, uuid.Nil)
	if err != nil {
		res.fail("", opType, err.Error())
		return
	}
	res.Created++
	res.Records = append(res.Records, created)
}

func createCategory(db *gorm.DB, payload *categoryPayload, ts string, vendorID uuid.UUID, id uuid.UUID) (*models.Category, error) {
	if payload.Name == nil || *payload.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	cat := models.Category{
		ID:          id,
		VendorID:    &vendorID,
		Name:        *payload.Name,
		Description: payload.Description,
		IsActive:    true,
		SortOrder:   0,
	}
	if cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}
	if payload.IsActive != nil {
		cat.IsActive = *payload.IsActive
	}
	if payload.SortOrder != nil {
		cat.SortOrder = *payload.SortOrder
	}
	if t, ok := ParseClientTime(ts); ok {
		cat.UpdatedAt = t
	}
	if err := db.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func categoryUpdates(payload *categoryPayload, ts string) map[string]interface{} {
	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if payload.SortOrder != nil {
		updates["sort_order"] = *payload.SortOrder
	}
	// Persist the client timestamp as the record's modified time so later
	// conflicts compare against the write that actually won.
	if t, ok := ParseClientTime(ts); ok {
		updates["updated_at"] = t
	}
	return updates
}

// SyncItems applies a batch of item operations for the vendor.
func SyncItems(db *gorm.DB, vendorID uuid.UUID, ops []Operation) *Result {
	res := &Result{Records: []interface{}{}, Errors: []OpError{}}

	for _, op := range ops {
		opType := op.Operation
		if opType == "" {
			opType = "create"
		}

		var payload itemPayload
		if len(op.Data) > 0 {
			if err := json.Unmarshal(op.Data, &payload); err != nil {
				res.fail(op.ID, opType, fmt.Sprintf("invalid data: %v", err))
				continue
			}
		}
		rawID := payload.ID
		if rawID == "" {
			rawID = op.ID
		}

		switch opType {
		case "delete":
			deleteRecord(db, res, op, rawID, &models.Item{}, vendorID, "item")
		case "create", "update":
			syncItemUpsert(db, res, op, opType, rawID, &payload, vendorID)
		default:
			res.fail(op.ID, opType, "unknown operation")
		}
	}

	res.Synced = res.Created + res.Updated + res.Deleted
	return res
}

func syncItemUpsert(db *gorm.DB, res *Result, op Operation, opType, rawID string, payload *itemPayload, vendorID uuid.UUID) {
	categories, err := validateCategories(db, vendorID, payload.categoryIDs())
	if err != nil {
		res.fail(rawID, opType, err.Error())
		return
	}

	if rawID != "" {
		id, perr := uuid.Parse(rawID)
		if perr != nil {
			res.fail(rawID, opType, "invalid item id")
			return
		}

		var existing models.Item
		err = db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&existing).Error
		if err == nil {
			if !IncomingWins(op.Timestamp, existing.LastUpdated) {
				res.Records = append(res.Records, existing)
				return
			}
			updates := itemUpdates(payload, op.Timestamp)
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				res.fail(rawID, opType, err.Error())
				return
			}
			if categories != nil {
				if err := db.Model(&existing).Association("Categories").Replace(categories); err != nil {
					res.fail(rawID, opType, err.Error())
					return
				}
			}
			res.Updated++
			res.Records = append(res.Records, existing)
			return
		}
		if err != gorm.ErrRecordNotFound {
			res.fail(rawID, opType, err.Error())
			return
		}

		created, cerr := createItem(db, payload, op.Timestamp, vendorID, id, categories)
		if cerr != nil {
			res.fail(rawID, opType, cerr.Error())
			return
		}
		res.Created++
		res.Records = append(res.Records, created)
		return
	}

	created, cerr := createItem(db, payload, op.Timestamp, vendorID, uuid.Nil, categories)
	if cerr != nil {
		res.fail("", opType, cerr.Error())
		return
	}
	res.Created++
	res.Records = append(res.Records, created)
}

func createItem(db *gorm.DB, payload *itemPayload, ts string, vendorID uuid.UUID, id uuid.UUID, categories []models.Category) (*models.Item, error) {
	if payload.Name == nil || *payload.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	item := models.Item{
		ID:          id,
		VendorID:    vendorID,
		Name:        *payload.Name,
		Description: payload.Description,
		PriceType:   models.PriceExclusive,
		IsActive:    true,
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if payload.Price != nil {
		if payload.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative")
		}
		item.Price = *payload.Price
	}
	if payload.MRPPrice != nil {
		item.MRPPrice = *payload.MRPPrice
	}
	if payload.PriceType != nil {
		item.PriceType = *payload.PriceType
	}
	if payload.GSTPercentage != nil {
		item.GSTPercentage = *payload.GSTPercentage
	}
	if payload.VegNonveg != nil {
		item.VegNonveg = payload.VegNonveg
	}
	if payload.StockQuantity != nil {
		item.StockQuantity = *payload.StockQuantity
	}
	if payload.SKU != nil {
		item.SKU = payload.SKU
	}
	if payload.Barcode != nil {
		item.Barcode = payload.Barcode
	}
	if payload.IsActive != nil {
		item.IsActive = *payload.IsActive
	}
	if payload.SortOrder != nil {
		item.SortOrder = *payload.SortOrder
	}
	if payload.ImageURL != nil {
		item.ImageURL = payload.ImageURL
	}
	if t, ok := ParseClientTime(ts); ok {
		item.LastUpdated = t
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	if categories != nil {
		if err := db.Model(&item).Association("Categories").Replace(categories); err != nil {
			return nil, err
		}
	}
	return &item, nil
}

func itemUpdates(payload *itemPayload, ts string) map[string]interface{} {
	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.Price != nil {
		updates["price"] = *payload.Price
	}
	if payload.MRPPrice != nil {
		updates["mrp_price"] = *payload.MRPPrice
	}
	if payload.PriceType != nil {
		updates["price_type"] = *payload.PriceType
	}
	if payload.GSTPercentage != nil {
		updates["gst_percentage"] = *payload.GSTPercentage
	}
	if payload.VegNonveg != nil {
		updates["veg_nonveg"] = *payload.VegNonveg
	}
	if payload.StockQuantity != nil {
		updates["stock_quantity"] = *payload.StockQuantity
	}
	if payload.SKU != nil {
		updates["sku"] = *payload.SKU
	}
	if payload.Barcode != nil {
		updates["barcode"] = *payload.Barcode
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if payload.SortOrder != nil {
		updates["sort_order"] = *payload.SortOrder
	}
	if payload.ImageURL != nil {
		updates["image_url"] = *payload.ImageURL
	}
	if t, ok := ParseClientTime(ts); ok {
		updates["last_updated"] = t
	}
	return updates
}

// validateCategories resolves category ids against the vendor's own active
// categories. A nil return with nil error means "leave memberships alone".
func validateCategories(db *gorm.DB, vendorID uuid.UUID, rawIDs []string) ([]models.Category, error) {
	if rawIDs == nil {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q", raw)
		}
		ids = append(ids, id)
	}
	var categories []models.Category
	if len(ids) > 0 {
		if err := db.Where("id IN ? AND vendor_id = ? AND is_active = ?", ids, vendorID, true).
			Find(&categories).Error; err != nil {
			return nil, err
		}
		if len(categories) != len(ids) {
			return nil, fmt.Errorf("one or more categories not found or do not belong to vendor")
		}
	}
	return categories, nil
}

// deleteRecord applies a delete unconditionally when the record exists for
// the tenant. No timestamp comparison happens here - an offline delete wins
// over a concurrent newer edit, which mirrors how the mobile clients expect
// tombstones to behave.
func deleteRecord(db *gorm.DB, res *Result, op Operation, rawID string, model interface{}, vendorID uuid.UUID, kind string) {
	if rawID == "" {
		res.fail("", "delete", kind+" id required for delete")
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		res.fail(rawID, "delete", "invalid "+kind+" id")
		return
	}
	tx := db.Where("id = ? AND vendor_id = ?", id, vendorID).Delete(model)
	if tx.Error != nil {
		res.fail(rawID, "delete", tx.Error.Error())
		return
	}
	if tx.RowsAffected == 0 {
		res.fail(rawID, "delete", kind+" not found")
		return
	}
	res.Deleted++
	res.Records = append(res.Records, map[string]string{
		"id":        rawID,
		"operation": "delete",
		"status":    "success",
	})
}
