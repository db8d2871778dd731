package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/config"
	"github.com/iliyamo/media-review-api/internal/mailer"
	"github.com/iliyamo/media-review-api/internal/repository"
)

// AuthHandler implements the passwordless login flow: request a
// confirmation code by email, then trade email+code for an access token.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Codes *auth.CodeService
	Mail  mailer.Dispatcher
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, codes *auth.CodeService, mail mailer.Dispatcher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Codes: codes, Mail: mail}
}

type codeReq struct {
	Email string `json:"email"`
}

type tokenReq struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

// validEmail normalizes and validates an address; ok is false for
// anything net/mail will not parse as a bare address.
func validEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}

// IssueCode handles POST /v1/auth/email. The identity is created on first
// contact (get-or-create); the derived code goes out through the mail
// dispatcher and is never stored. Repeating the request inside one time
// bucket re-sends the same code.
func (h *AuthHandler) IssueCode(c echo.Context) error {
	var req codeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email, ok := validEmail(req.Email)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, created, err := h.Users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load user"})
	}
	if created {
		c.Logger().Infof("auth: new identity for %s", email)
	}

	code := h.Codes.Issue(u)
	msg := mailer.Message{
		From:    h.Cfg.MailFrom,
		To:      u.Email,
		Subject: "Confirmation code",
		Body:    fmt.Sprintf("Confirmation code: %s", code),
	}
	if err := h.Mail.Dispatch(ctx, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send confirmation code"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("confirmation code was sent to %s", email),
	})
}

// IssueToken handles POST /v1/auth/token. Code mismatch and code expiry
// are logged as distinct causes but answered identically, so the response
// does not reveal which stage failed. On success the user's last-login
// timestamp moves first, which retires the just-used code, and the token
// is signed from the refreshed record.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email, ok := validEmail(req.Email)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email is required"})
	}
	code := strings.TrimSpace(req.ConfirmationCode)
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirmation_code is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load user"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}

	if err := h.Codes.Verify(u, code); err != nil {
		// One client-visible failure for both causes; the log keeps them
		// apart for telemetry.
		c.Logger().Infof("auth: code rejected for %s: %v", email, err)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fmt.Sprintf("invalid confirmation code for %s", email),
		})
	}

	if err := h.Users.TouchLastLogin(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record login"})
	}

	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	token, _, err := auth.IssueAccessToken(h.Cfg.JWTSecret, u, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
