package server

import (
	"github.com/dinasim/greener-sub003/internal/analytics"
	"github.com/dinasim/greener-sub003/internal/auth"
	"github.com/dinasim/greener-sub003/internal/config"
	"github.com/dinasim/greener-sub003/internal/guide"
	"github.com/dinasim/greener-sub003/internal/inventory"
	"github.com/dinasim/greener-sub003/internal/mq"
	"github.com/dinasim/greener-sub003/internal/notify"
	"github.com/dinasim/greener-sub003/internal/orders"
	"github.com/dinasim/greener-sub003/internal/stream"
	"github.com/dinasim/greener-sub003/internal/watering"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Broker *mq.Broker
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, broker *mq.Broker) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Broker: broker,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	wateringSvc := watering.NewService(s.DB)
	guideRegistry := guide.NewRegistry(wateringSvc, wateringSvc, s.Stream, s.Broker)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	inventory.RegisterRoutes(s.App.Group("/plants"), inventory.NewService(s.DB), jwtMiddleware)
	orders.RegisterRoutes(s.App.Group("/orders"), orders.NewService(s.DB, s.Broker), jwtMiddleware)
	watering.RegisterRoutes(s.App.Group("/watering"), wateringSvc, jwtMiddleware)
	guide.RegisterRoutes(s.App.Group("/guide"), guideRegistry, jwtMiddleware)
	// Dashboard routes are business-facing: the JWT gate runs at the group
	// level so the role check sees the parsed claims.
	analytics.RegisterRoutes(s.App.Group("/analytics", jwtMiddleware), analytics.NewService(s.DB, s.Redis), auth.BusinessOnly())
	notify.RegisterRoutes(s.App.Group("/notify"), notify.NewService(s.DB, s.Broker), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
