package orders

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Order
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.BuyerID == "" || req.BusinessID == "" || len(req.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "buyer_id, business_id and items required")
		}
		order, err := svc.CreateOrder(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		order, err := svc.GetOrder(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return c.JSON(order)
	})

	r.Put("/:id/status", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status required")
		}
		order, err := svc.UpdateStatus(c.Context(), c.Params("id"), body.Status)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(order)
	})

	r.Get("/buyer/:buyerID", authMiddleware, func(c *fiber.Ctx) error {
		list, err := svc.ListByBuyer(c.Context(), c.Params("buyerID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(list)
	})

	r.Get("/business/:businessID", authMiddleware, func(c *fiber.Ctx) error {
		list, err := svc.ListByBusiness(c.Context(), c.Params("businessID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(list)
	})
}
