package assistantHandler

import (
	assistantService "EllaBooking/internal/api/assistant/service"
	"EllaBooking/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: as,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	assistant := srv.Group("/assistant")

	assistant.Post("/sessions", h.StartSession)
	assistant.Post("/sessions/:session_id/messages", h.middleware.NewRateLimiter, h.SubmitMessage)
	assistant.Get("/sessions/:session_id/transcript", h.GetTranscript)
	assistant.Get("/sessions/:session_id/state", h.GetState)
	assistant.Delete("/sessions/:session_id", h.CloseSession)

	assistant.Use("/sessions/:session_id/ws", wsMiddleware)
	assistant.Get("/sessions/:session_id/ws", websocket.New(h.handleTranscriptWebSocket))

	assistant.Post("/quote", h.Quote)

	assistant.Get("/bookings", h.ListBookings)
	assistant.Get("/bookings/:booking_id", h.GetBooking)
}
