package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trenztechno/pos-backend-sub000/database"
)

// SQLDebugMiddleware injects the SQL queries executed during a request into
// its context so debug responses can echo them back.
func SQLDebugMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		beforeCount := len(database.SQLLogger.GetQueries())

		err := c.Next()

		// Queries executed during this request (the logger prepends)
		afterQueries := database.SQLLogger.GetQueries()
		requestQueries := []database.QueryLog{}

		if diff := len(afterQueries) - beforeCount; diff > 0 && diff <= len(afterQueries) {
			requestQueries = afterQueries[:diff]
		}

		c.Locals("SQLQueries", requestQueries)
		c.Locals("TotalSQLQueries", len(requestQueries))

		return err
	}
}
