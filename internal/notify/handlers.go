package notify

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/tokens", authMiddleware, func(c *fiber.Ctx) error {
		var req DeviceToken
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.UserID == "" || req.Token == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id and token required")
		}
		token, err := svc.RegisterToken(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(token)
	})

	r.Delete("/tokens", authMiddleware, func(c *fiber.Ctx) error {
		var req DeviceToken
		if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.Token == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id and token required")
		}
		if err := svc.RemoveToken(c.Context(), req.UserID, req.Token); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/tokens/:userID", authMiddleware, func(c *fiber.Ctx) error {
		tokens, err := svc.TokensForUser(c.Context(), c.Params("userID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(tokens)
	})

	r.Post("/reminders/:businessID", authMiddleware, func(c *fiber.Ctx) error {
		count, err := svc.SendOverdueReminder(c.Context(), c.Params("businessID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"plants_due": count})
	})
}
