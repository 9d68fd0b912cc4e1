package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/auth"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// AuthHandler issues access tokens for the administrator account.
type AuthHandler struct {
	authenticator *auth.AdminAuthenticator
	tokens        *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authenticator *auth.AdminAuthenticator, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, tokens: tokens}
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	role, ok := h.authenticator.Authenticate(req.Email, req.Password)
	if !ok {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := h.tokens.GenerateToken(req.Email, role)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}
