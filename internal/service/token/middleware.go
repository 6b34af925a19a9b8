package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/teguhsatriya/furnimart/internal/models"
)

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	sub, _ := claims["sub"].(float64)
	role, _ := claims["role"].(string)
	c.Set("userID", uint(sub))
	c.Set("role", role)
}

// UserID pulls the authenticated user id the middleware stored in the
// request context.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

// RequireUser authenticates via the access token cookie, transparently
// rotating an expired access token with the refresh cookie.
func (t *TokenService) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		asCookie, err := c.Cookie("accessToken")
		if err == nil && asCookie.Value != "" {
			claims, verr := t.ValidateAccess(asCookie.Value)
			if verr == nil {
				setUserContext(c, claims)
				return next(c)
			}
			if !errors.Is(verr, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil || rfCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		newAccess, newRefresh, claims, err := t.Rotate(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}

		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))
		setUserContext(c, claims)
		return next(c)
	}
}

// RequireAdmin is RequireUser plus a role check.
func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.RequireUser(func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	})
}
