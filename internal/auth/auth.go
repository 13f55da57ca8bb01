package auth

import (
	"context"
	"net/http"

	"hugo-automotriz/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// UserResolver maps the identity provider's stable subject to the local user
// row. The provider is trusted to hand out exactly one subject per account.
type UserResolver interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

// Middleware verifies the bearer JWT issued by the identity provider and puts
// the resolved local identity into the echo context as "userID" (int64) and
// "userRole" (string). Every downstream operation receives identity through
// explicit parameters pulled from there; there is no ambient current user.
func Middleware(secret string, users UserResolver) echo.MiddlewareFunc {
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
		},
	})

	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
			}
			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
			}

			user, err := users.FindByExternalID(c.Request().Context(), sub)
			if err != nil {
				// A valid token for an unknown subject is still unauthorized;
				// the account was never synced into this system.
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
			}

			c.Set("userID", user.ID)
			c.Set("userRole", user.Role)
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(resolve(next))
	}
}

// UserID pulls the authenticated local user id from the echo context.
func UserID(c echo.Context) int64 {
	id, _ := c.Get("userID").(int64)
	return id
}

// UserRole pulls the authenticated user's role from the echo context.
func UserRole(c echo.Context) string {
	role, _ := c.Get("userRole").(string)
	return role
}
