package controller

import (
	"context"
	"time"

	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything whose reachability the status endpoint reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type healthController struct {
	store     Pinger
	logger    logger.ILogger
	version   string
	logsRoute bool
	startedAt time.Time
}

// NewHealthController exposes /health/logs only when logsRoute is set.
func NewHealthController(store Pinger, log logger.ILogger, version string, logsRoute bool) IHealthController {
	return &healthController{
		store:     store,
		logger:    log,
		version:   version,
		logsRoute: logsRoute,
		startedAt: time.Now(),
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health")
	h.Get("", c.Health)
	h.Get("status", c.Status)
	if c.logsRoute {
		h.Get("logs", c.Logs)
	}
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{"status": "healthy"}))
}

func (c *healthController) Status(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	store := "ok"
	status := "healthy"
	if err := c.store.Ping(pingCtx); err != nil {
		c.logger.Warn("HEALTH", "Session store unreachable", map[string]interface{}{"error": err.Error()})
		store = "unreachable"
		status = "degraded"
	}

	body := serverutils.SuccessResponse("OK", fiber.Map{
		"status":         status,
		"session_store":  store,
		"version":        c.version,
		"uptime_seconds": int(time.Since(c.startedAt).Seconds()),
	})
	if status != "healthy" {
		body.Success = false
		body.Code = fiber.StatusServiceUnavailable
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	return ctx.JSON(body)
}

// Logs pages through the service log, newest first.
func (c *healthController) Logs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := c.logger.GetLogs(ctx.Query("level"), limit, ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", entries))
}
