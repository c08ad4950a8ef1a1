package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvallon/trainlog-api/internal/domain"
	"github.com/nvallon/trainlog-api/internal/service"
	"github.com/nvallon/trainlog-api/internal/util"
)

type AuthHandler struct {
	auth       *service.AuthService
	sessionTTL time.Duration
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, sessionTTL time.Duration) {
	handler := &AuthHandler{auth: auth, sessionTTL: sessionTTL}

	group := e.Group("/api/v1/auth")
	group.POST("/register", handler.register)
	group.POST("/login", handler.login)
	group.GET("/logout", handler.logout)
}

// register handles POST /api/v1/auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	user, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if verrs, ok := domain.AsValidation(err); ok {
			return c.JSON(http.StatusBadRequest, util.FieldErrors("validation failed", verrs))
		}
		if cerr, ok := domain.AsConflict(err); ok {
			return c.JSON(http.StatusConflict, util.FieldErrors(cerr.Error(), map[string]string{
				cerr.Field: "is already taken",
			}))
		}
		c.Logger().Errorf("register user: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}

	return c.JSON(http.StatusCreated, AuthUserResponse{User: toAuthUser(user)})
}

// login handles POST /api/v1/auth/login. Failures are reported with one
// generic message: the response must not reveal whether the username
// exists.
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	session, user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid username or password"))
		}
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, AuthTokenResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toAuthUser(user),
	})
}

// logout handles GET /api/v1/auth/logout. Destroying an absent or already
// destroyed session still succeeds.
func (h *AuthHandler) logout(c echo.Context) error {
	if token := extractToken(c); token != "" {
		if err := h.auth.Logout(c.Request().Context(), token); err != nil {
			c.Logger().Errorf("logout: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func toAuthUser(user *domain.User) AuthUser {
	return AuthUser{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
