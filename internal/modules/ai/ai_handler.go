package ai

import (
	"errors"
	"io"
	"net/http"

	"hugo-automotriz/internal/auth"
	"hugo-automotriz/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the assistant.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new ai handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the assistant routes on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/ai/chat", h.Chat)
	g.POST("/ai/maintenance", h.Maintenance)
}

// Chat proxies the streamed model reply to the caller byte for byte.
func (h *Handler) Chat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	stream, err := h.svc.Chat(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrAssistantUnavailable) {
			return c.JSON(http.StatusBadGateway, models.AIErrorPayload{Error: "Assistant unavailable"})
		}
		c.Logger().Error("Handler.Chat: ", err)
		return c.JSON(http.StatusInternalServerError, models.AIErrorPayload{Error: "Assistant unavailable"})
	}
	defer stream.Close()

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := io.Copy(c.Response(), stream); err != nil {
		c.Logger().Error("Handler.Chat stream: ", err)
	}
	return nil
}

func (h *Handler) Maintenance(c echo.Context) error {
	var req models.MaintenanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	report, aiErr := h.svc.Maintenance(c.Request().Context(), auth.UserID(c), req)
	if aiErr != nil {
		return c.JSON(http.StatusBadGateway, aiErr)
	}
	return c.JSON(http.StatusOK, report)
}
