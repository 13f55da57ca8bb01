package appointments

import (
	"errors"
	"fmt"
	"net/http"

	"hugo-automotriz/internal/auth"
	"hugo-automotriz/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for appointments and the workshop report.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new appointment handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the appointment routes on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/appointments", h.CreateBooking)
	g.GET("/workshop/appointments", h.ListWorkshopAppointments)
	g.POST("/workshop/appointments", h.CreateManualAppointment)
	g.GET("/workshop/clients", h.ListClients)
	g.GET("/workshop/services", h.ListCatalog)
	g.GET("/reports/workshop", h.ExportReport)
}

func (h *Handler) CreateBooking(c echo.Context) error {
	userID := auth.UserID(c)

	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	created, err := h.svc.CreateBooking(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, models.ErrNoVehicle) {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "No vehicle available"})
		}
		c.Logger().Error("Handler.CreateBooking: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create appointment"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListWorkshopAppointments(c echo.Context) error {
	ownerID := auth.UserID(c)

	bucket := c.QueryParam("status")
	if bucket == "" {
		bucket = BucketUpcoming
	}

	apps, err := h.svc.ListForWorkshop(c.Request().Context(), ownerID, bucket)
	if err != nil {
		if errors.Is(err, models.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		c.Logger().Error("Handler.ListWorkshopAppointments: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list appointments"})
	}
	return c.JSON(http.StatusOK, apps)
}

func (h *Handler) CreateManualAppointment(c echo.Context) error {
	ownerID := auth.UserID(c)

	var req models.CreateManualAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	created, err := h.svc.CreateManual(c.Request().Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, models.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Vehicle not found"})
		}
		c.Logger().Error("Handler.CreateManualAppointment: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create appointment"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListClients(c echo.Context) error {
	ownerID := auth.UserID(c)

	clients, err := h.svc.Clients(c.Request().Context(), ownerID)
	if err != nil {
		if errors.Is(err, models.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		c.Logger().Error("Handler.ListClients: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list clients"})
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *Handler) ListCatalog(c echo.Context) error {
	ownerID := auth.UserID(c)

	services, err := h.svc.CatalogServices(c.Request().Context(), ownerID)
	if err != nil {
		if errors.Is(err, models.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		c.Logger().Error("Handler.ListCatalog: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list services"})
	}
	return c.JSON(http.StatusOK, services)
}

func (h *Handler) ExportReport(c echo.Context) error {
	ownerID := auth.UserID(c)

	filename, content, err := h.svc.ExportCSV(c.Request().Context(), ownerID)
	if err != nil {
		if errors.Is(err, models.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Workshop not found"})
		}
		c.Logger().Error("Handler.ExportReport: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to build report"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}
