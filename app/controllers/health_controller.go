package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paynudge/paynudge/internal/pkg/cache"
	"github.com/paynudge/paynudge/internal/pkg/database"
)

// HandleHealth reports liveness plus the state of the two backing stores.
func HandleHealth(c *fiber.Ctx) error {
	dbStatus := "ok"
	if db := database.GetDB(); db == nil {
		dbStatus = "down"
	} else if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	cacheStatus := "ok"
	if client := cache.GetClient(); client == nil {
		cacheStatus = "down"
	} else if err := client.Ping(c.Context()).Err(); err != nil {
		cacheStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus != "ok" || cacheStatus != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   "up",
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
