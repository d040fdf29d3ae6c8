package guide

import (
	"errors"
	"time"

	"github.com/dinasim/greener-sub003/internal/navigation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, registry *Registry, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			BusinessID string   `json:"business_id"`
			PlantIDs   []string `json:"plant_ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.BusinessID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "business_id required")
		}
		session, err := registry.CreateSession(c.Context(), req.BusinessID, req.PlantIDs)
		if err != nil {
			if errors.Is(err, navigation.ErrEmptyRoute) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "no plants to route")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"session_id": session.ID,
			"snapshot":   session.Controller.Snapshot(),
		})
	})

	r.Get("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		session, err := registry.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.JSON(session.Controller.Snapshot())
	})

	r.Post("/sessions/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		session, err := registry.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		session.Controller.Pause()
		return c.JSON(session.Controller.Snapshot())
	})

	r.Post("/sessions/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		session, err := registry.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err := session.Controller.Resume(); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(session.Controller.Snapshot())
	})

	r.Post("/sessions/:id/finish", authMiddleware, func(c *fiber.Ctx) error {
		session, err := registry.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		session.Controller.Finish()
		return c.JSON(session.Controller.Snapshot())
	})

	r.Post("/sessions/:id/next", authMiddleware, func(c *fiber.Ctx) error {
		return moveCursor(c, registry, func(ctrl *navigation.Controller) error { return ctrl.Next() })
	})

	r.Post("/sessions/:id/previous", authMiddleware, func(c *fiber.Ctx) error {
		return moveCursor(c, registry, func(ctrl *navigation.Controller) error { return ctrl.Previous() })
	})

	r.Post("/sessions/:id/jump", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Index int `json:"index"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return moveCursor(c, registry, func(ctrl *navigation.Controller) error { return ctrl.JumpTo(req.Index) })
	})

	r.Post("/sessions/:id/confirm", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			WaypointID string `json:"waypoint_id"`
		}
		if err := c.BodyParser(&req); err != nil || req.WaypointID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "waypoint_id required")
		}
		session, err := registry.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		nextDue, err := session.Controller.ConfirmWatered(c.Context(), req.WaypointID)
		if err != nil {
			switch {
			case errors.Is(err, navigation.ErrUnknownWaypoint):
				return fiber.NewError(fiber.StatusNotFound, "waypoint not in route")
			case errors.Is(err, navigation.ErrConfirmPending):
				return fiber.NewError(fiber.StatusConflict, "confirmation already in progress")
			case errors.Is(err, navigation.ErrSessionCompleted):
				return fiber.NewError(fiber.StatusConflict, "session already finished")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.JSON(fiber.Map{
			"next_due": nextDue,
			"snapshot": session.Controller.Snapshot(),
		})
	})

	r.Delete("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := registry.Remove(c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Device position stream. The walker's phone pushes JSON samples;
	// a closed socket reads as tracking loss.
	r.Get("/sessions/:id/position", websocket.New(func(c *websocket.Conn) {
		session, err := registry.Get(c.Params("id"))
		if err != nil {
			_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"session not found"}`))
			return
		}

		for {
			var sample navigation.PositionSample
			if err := c.ReadJSON(&sample); err != nil {
				session.Feed.Fail(errors.New("position stream closed"))
				return
			}
			if sample.Timestamp.IsZero() {
				sample.Timestamp = time.Now()
			}
			session.Feed.Push(sample)
		}
	}))
}

func moveCursor(c *fiber.Ctx, registry *Registry, move func(*navigation.Controller) error) error {
	session, err := registry.Get(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	if err := move(session.Controller); err != nil {
		if errors.Is(err, navigation.ErrOutOfRange) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(session.Controller.Snapshot())
}
