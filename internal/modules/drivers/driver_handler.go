package drivers

import (
	"errors"
	"net/http"
	"strconv"

	"hugo-automotriz/internal/auth"
	"hugo-automotriz/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for driver profiles and vehicles.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new driver handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the driver routes on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/vehicles", h.ListVehicles)
	g.POST("/vehicles", h.AddVehicle)
	g.DELETE("/vehicles/:vehicleId", h.DeleteVehicle)
}

func (h *Handler) GetProfile(c echo.Context) error {
	user, err := h.svc.Profile(c.Request().Context(), auth.UserID(c))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		}
		c.Logger().Error("Handler.GetProfile: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load profile"})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		c.Logger().Error("Handler.UpdateProfile: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update profile"})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ListVehicles(c echo.Context) error {
	vehicles, err := h.svc.ListVehicles(c.Request().Context(), auth.UserID(c))
	if err != nil {
		c.Logger().Error("Handler.ListVehicles: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list vehicles"})
	}
	return c.JSON(http.StatusOK, vehicles)
}

func (h *Handler) AddVehicle(c echo.Context) error {
	var req models.CreateVehicleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	vehicle, err := h.svc.AddVehicle(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		c.Logger().Error("Handler.AddVehicle: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to add vehicle"})
	}
	return c.JSON(http.StatusCreated, vehicle)
}

func (h *Handler) DeleteVehicle(c echo.Context) error {
	vehicleID, err := strconv.ParseInt(c.Param("vehicleId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid vehicle ID"})
	}

	if err := h.svc.DeleteVehicle(c.Request().Context(), auth.UserID(c), vehicleID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Vehicle not found"})
		}
		c.Logger().Error("Handler.DeleteVehicle: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete vehicle"})
	}
	return c.NoContent(http.StatusNoContent)
}
