package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers
// GET /api/v1/users/list
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "Users retrieved", users)
}

// GetUser
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "User retrieved", user)
}

// DeleteUser
// DELETE /api/v1/users/delete/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeleteUser(c.UserContext(), id, actor(c)); err != nil {
		return err
	}
	return ok(c, "User deleted", nil)
}
