package handlers

import (
	"github.com/go-playground/validator/v10"
	fiberws "github.com/gofiber/websocket/v2"

	"predictor/internal/service"
	"predictor/internal/websocket"
)

// Handler handles HTTP requests for the competition API
type Handler struct {
	service   *service.CompetitionService
	hub       *websocket.Hub
	validator *validator.Validate
}

// NewHandler creates a new API handler
func NewHandler(svc *service.CompetitionService, hub *websocket.Hub) *Handler {
	return &Handler{
		service:   svc,
		hub:       hub,
		validator: validator.New(),
	}
}

// HandleWebSocket registers a websocket connection with the hub and blocks
// until it disconnects
func (h *Handler) HandleWebSocket(conn *fiberws.Conn) {
	websocket.ServeWS(h.hub, conn)
}
