package reviews

import (
	"errors"
	"net/http"
	"strconv"

	"hugo-automotriz/internal/auth"
	"hugo-automotriz/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for reviews.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new review handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the review routes on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/assistance/:requestId/review", h.SubmitReview)
}

func (h *Handler) SubmitReview(c echo.Context) error {
	userID := auth.UserID(c)

	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request id"})
	}

	var req models.SubmitReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	review, err := h.svc.Submit(c.Request().Context(), userID, requestID, req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Request not found"})
		}
		if errors.Is(err, models.ErrNoProvider) {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "Request has no assigned provider"})
		}
		c.Logger().Error("Handler.SubmitReview: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to submit review"})
	}

	return c.JSON(http.StatusCreated, review)
}
