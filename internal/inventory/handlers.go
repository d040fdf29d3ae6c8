package inventory

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Plant
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.BusinessID == "" || req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "business_id and name required")
		}
		plant, err := svc.CreatePlant(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(plant)
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, _ := strconv.ParseFloat(c.Query("lat"), 64)
		lng, _ := strconv.ParseFloat(c.Query("lng"), 64)
		radius, _ := strconv.ParseFloat(c.Query("radius_km"), 64)
		if radius == 0 {
			radius = 5
		}
		plants, err := svc.SearchNearby(c.Context(), lat, lng, radius)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plants)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		plant, err := svc.GetPlant(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "plant not found")
		}
		return c.JSON(plant)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Plant
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		plant, err := svc.UpdatePlant(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plant)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeletePlant(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/business/:businessID", func(c *fiber.Ctx) error {
		plants, err := svc.ListByBusiness(c.Context(), c.Params("businessID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plants)
	})

	r.Get("/business/:businessID/low-stock", authMiddleware, func(c *fiber.Ctx) error {
		threshold, _ := strconv.Atoi(c.Query("threshold"))
		if threshold == 0 {
			threshold = 3
		}
		plants, err := svc.LowStock(c.Context(), c.Params("businessID"), threshold)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plants)
	})
}
