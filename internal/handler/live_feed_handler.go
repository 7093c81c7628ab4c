package handler

import (
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/service"
	internalWS "ai-interview-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const logModule = "LiveFeedHandler"

type LiveFeedHandler struct {
	service service.IInterviewService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewLiveFeedHandler(service service.IInterviewService, hub *internalWS.Hub, log logger.ILogger) *LiveFeedHandler {
	return &LiveFeedHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *LiveFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/interviews/:id", h.ServeWs)
}

// ServeWs streams the events of one interview session. Unknown or expired
// sessions are refused before the upgrade.
func (h *LiveFeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionId := c.Params("id")
	if _, err := h.service.GetSession(c.UserContext(), sessionId); err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(logModule, "Live feed opened", map[string]interface{}{"session_id": sessionId})
		internalWS.ServeWs(h.hub, conn, sessionId)
		h.logger.Info(logModule, "Live feed closed", map[string]interface{}{"session_id": sessionId})
	})(c)
}
