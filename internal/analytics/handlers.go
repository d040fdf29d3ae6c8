package analytics

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/dashboard/:businessID", authMiddleware, func(c *fiber.Ctx) error {
		summary, err := svc.Dashboard(c.Context(), c.Params("businessID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summary)
	})

	r.Delete("/dashboard/:businessID/cache", authMiddleware, func(c *fiber.Ctx) error {
		svc.Invalidate(c.Context(), c.Params("businessID"))
		return c.SendStatus(fiber.StatusNoContent)
	})
}
