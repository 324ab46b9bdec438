package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account
// POST /api/v1/users/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, "User registered", user)
}

// Login handles user authentication
// POST /api/v1/users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return ok(c, "Login successful", resp)
}

// ResetPassword changes the password after checking the old one
// POST /api/v1/users/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req service.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.UserContext(), &req); err != nil {
		return err
	}
	return ok(c, "Password updated", nil)
}
