package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/trenztechno/pos-backend-sub000/database"
	"github.com/trenztechno/pos-backend-sub000/syncer"
	"github.com/trenztechno/pos-backend-sub000/web/middleware"
)

type syncRequest struct {
	DeviceID   string             `json:"device_id"`
	Operations []syncer.Operation `json:"operations"`
}

var errSyncShape = errors.New("unrecognized sync payload")

// parseSyncOperations accepts the three body shapes devices send: a bare
// JSON array of operations, a {device_id, operations} wrapper, or a single
// operation object.
func parseSyncOperations(body []byte) ([]syncer.Operation, error) {
	var ops []syncer.Operation
	if err := json.Unmarshal(body, &ops); err == nil {
		return ops, nil
	}

	var req syncRequest
	if err := json.Unmarshal(body, &req); err == nil && req.Operations != nil {
		return req.Operations, nil
	}

	var op syncer.Operation
	if err := json.Unmarshal(body, &op); err == nil {
		if op.Operation != "" || op.ID != "" || len(op.Data) > 0 {
			return []syncer.Operation{op}, nil
		}
	}
	return nil, errSyncShape
}

// SyncCategories applies an offline batch of category operations.
// Failures of individual operations never abort the batch; they come back
// in the errors array so the device can retry just those.
func SyncCategories(c *fiber.Ctx) error {
	ops, err := parseSyncOperations(c.Body())
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	vendor := middleware.VendorFromCtx(c)
	res := syncer.SyncCategories(database.GetDB(), vendor.ID, ops)
	return c.JSON(res)
}

// SyncItems applies an offline batch of item operations.
func SyncItems(c *fiber.Ctx) error {
	ops, err := parseSyncOperations(c.Body())
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	vendor := middleware.VendorFromCtx(c)
	res := syncer.SyncItems(database.GetDB(), vendor.ID, ops)
	return c.JSON(res)
}
