package watering

import (
	"github.com/dinasim/greener-sub003/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/checklist", authMiddleware, func(c *fiber.Ctx) error {
		businessID := c.Query("business_id")
		if businessID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "business_id required")
		}
		items, err := svc.Checklist(c.Context(), businessID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(items)
	})

	r.Post("/plants/:id/mark", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Method string   `json:"method"`
			Lat    *float64 `json:"lat"`
			Lng    *float64 `json:"lng"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Method == "" {
			body.Method = "manual"
		}
		var coords *geo.Coordinates
		if body.Lat != nil && body.Lng != nil {
			coords = &geo.Coordinates{Lat: *body.Lat, Lng: *body.Lng}
			if err := coords.Validate(); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		nextDue, err := svc.MarkWatered(c.Context(), c.Params("id"), body.Method, coords)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"next_due": nextDue})
	})

	r.Put("/plants/:id/schedule", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			IntervalDays int `json:"interval_days"`
		}
		if err := c.BodyParser(&body); err != nil || body.IntervalDays <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "interval_days required")
		}
		sched, err := svc.UpsertSchedule(c.Context(), c.Params("id"), body.IntervalDays)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sched)
	})

	r.Get("/plants/:id/schedule", func(c *fiber.Ctx) error {
		sched, err := svc.GetSchedule(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "schedule not found")
		}
		return c.JSON(sched)
	})

	r.Get("/plants/:id/history", func(c *fiber.Ctx) error {
		entries, err := svc.History(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	})
}
