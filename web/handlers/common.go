package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func serverError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
}

// dateRange parses start_date/end_date query params (YYYY-MM-DD), both
// defaulting to today, and returns the half-open [start, end+1d) window.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	today := time.Now().Truncate(24 * time.Hour)

	start := today
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
		}
		start = t
	}
	end := today
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
	}
	return start, end.Add(24 * time.Hour), nil
}
