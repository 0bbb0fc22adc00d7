package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trenztechno/pos-backend-sub000/database"
)

// Health reports liveness and the state of the database connection.
func Health(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := database.CheckConnection(database.GetDB()); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}
	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"database": dbStatus,
		"time":     time.Now().UTC(),
	})
}

// GetSQLQueries returns the recent query log ring buffer.
func GetSQLQueries(c *fiber.Ctx) error {
	queries := database.SQLLogger.GetQueries()
	return c.JSON(fiber.Map{"queries": queries, "count": len(queries)})
}

// ClearSQLQueries empties the query log ring buffer.
func ClearSQLQueries(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.JSON(fiber.Map{"message": "Query log cleared"})
}
