package assistance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"hugo-automotriz/internal/auth"
	"hugo-automotriz/internal/models"
	"hugo-automotriz/internal/modules/tracking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the assistance lifecycle.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new assistance handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the assistance routes on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/assistance", h.CreateRequest)
	g.GET("/assistance/incoming", h.ListIncoming)
	g.GET("/assistance/mine", h.ListMine)
	g.GET("/assistance/:requestId/status", h.GetStatus)
	g.GET("/assistance/:requestId/track", h.TrackRequest)
	g.POST("/assistance/:requestId/accept", h.AcceptRequest)
	g.POST("/assistance/:requestId/complete", h.CompleteRequest)
}

func (h *Handler) CreateRequest(c echo.Context) error {
	userID := auth.UserID(c)

	var req models.CreateAssistanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	created, err := h.svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, models.ErrNoVehicle) {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "No vehicle available"})
		}
		c.Logger().Error("Handler.CreateRequest: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create assistance request"})
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetStatus(c echo.Context) error {
	requestID, err := requestIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request id"})
	}

	view, err := h.svc.Status(c.Request().Context(), requestID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Request not found"})
		}
		c.Logger().Error("Handler.GetStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve request status"})
	}

	return c.JSON(http.StatusOK, view)
}

func (h *Handler) AcceptRequest(c echo.Context) error {
	providerID := auth.UserID(c)
	requestID, err := requestIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request id"})
	}

	if err := h.svc.Accept(c.Request().Context(), providerID, requestID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Request not found"})
		}
		c.Logger().Error("Handler.AcceptRequest: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to accept request"})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CompleteRequest(c echo.Context) error {
	actorID := auth.UserID(c)
	requestID, err := requestIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request id"})
	}

	if err := h.svc.Complete(c.Request().Context(), actorID, requestID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Request not found"})
		}
		c.Logger().Error("Handler.CompleteRequest: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to complete request"})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListIncoming(c echo.Context) error {
	requests, err := h.svc.ListIncoming(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListIncoming: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list incoming requests"})
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) ListMine(c echo.Context) error {
	providerID := auth.UserID(c)

	requests, err := h.svc.ListMine(c.Request().Context(), providerID)
	if err != nil {
		c.Logger().Error("Handler.ListMine: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list accepted requests"})
	}
	return c.JSON(http.StatusOK, requests)
}

// TrackRequest streams tracker snapshots as server-sent events: one event per
// status change or estimator tick, until the request completes or the client
// disconnects.
func (h *Handler) TrackRequest(c echo.Context) error {
	requestID, err := requestIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request id"})
	}

	ctx := c.Request().Context()
	if _, err := h.svc.Status(ctx, requestID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Request not found"})
		}
		c.Logger().Error("Handler.TrackRequest: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to track request"})
	}

	updates := make(chan tracking.Snapshot, 8)
	completed := make(chan struct{})
	tr := tracking.New(h.svc, requestID, tracking.Options{})
	tr.OnUpdate = func(s tracking.Snapshot) {
		select {
		case updates <- s:
		default: // slow client; the next snapshot supersedes this one
		}
	}
	tr.OnComplete = func() { close(completed) }

	tr.Start(ctx)
	defer tr.Stop()

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().WriteHeader(http.StatusOK)

	writeEvent := func(s tracking.Snapshot) error {
		payload, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", payload); err != nil {
			return err
		}
		c.Response().Flush()
		return nil
	}

	if err := writeEvent(tr.Snapshot()); err != nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-completed:
			writeEvent(tr.Snapshot())
			return nil
		case s := <-updates:
			if err := writeEvent(s); err != nil {
				return nil
			}
		}
	}
}

func requestIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("requestId"), 10, 64)
}
