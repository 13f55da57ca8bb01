package workshops

import (
	"errors"
	"net/http"
	"strconv"

	"hugo-automotriz/internal/auth"
	"hugo-automotriz/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for workshops.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new workshop handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the workshop routes on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/workshops", h.ListWorkshops)
	g.GET("/workshops/:workshopId", h.GetWorkshop)
	g.GET("/workshop/stats", h.GetStats)
	g.PUT("/workshop/settings", h.UpdateSettings)
}

func (h *Handler) ListWorkshops(c echo.Context) error {
	workshops, err := h.svc.List(c.Request().Context(), c.QueryParam("filter"))
	if err != nil {
		c.Logger().Error("Handler.ListWorkshops: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list workshops"})
	}
	return c.JSON(http.StatusOK, workshops)
}

func (h *Handler) GetWorkshop(c echo.Context) error {
	workshopID, err := strconv.ParseInt(c.Param("workshopId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid workshop id"})
	}

	detail, err := h.svc.Get(c.Request().Context(), workshopID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		c.Logger().Error("Handler.GetWorkshop: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve workshop"})
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) GetStats(c echo.Context) error {
	ownerID := auth.UserID(c)

	stats, err := h.svc.Stats(c.Request().Context(), ownerID)
	if err != nil {
		if errors.Is(err, models.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		c.Logger().Error("Handler.GetStats: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to compute stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	ownerID := auth.UserID(c)

	var req models.UpdateWorkshopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	if err := h.svc.UpdateSettings(c.Request().Context(), ownerID, req); err != nil {
		if errors.Is(err, models.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		c.Logger().Error("Handler.UpdateSettings: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update settings"})
	}
	return c.NoContent(http.StatusNoContent)
}
