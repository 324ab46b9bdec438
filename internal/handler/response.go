package handler

import (
	"errors"
	"log/slog"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// Envelope is the single response shape of every endpoint.
type Envelope struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Details interface{} `json:"details,omitempty"`
}

func respond(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(Envelope{
		Code:    code,
		Status:  utils.StatusMessage(code),
		Message: message,
		Data:    data,
	})
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusOK, message, data)
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusCreated, message, data)
}

// ErrorHandler renders every error returned by a handler or middleware as
// an Envelope. Internal errors are logged and their cause is hidden.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		env := Envelope{Code: fiber.StatusInternalServerError, Message: "internal server error"}

		var appErr *apperr.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			env.Message = appErr.Message
			env.Details = appErr.Details
			switch appErr.Kind {
			case apperr.KindValidation, apperr.KindConflict:
				env.Code = fiber.StatusBadRequest
			case apperr.KindNotFound:
				env.Code = fiber.StatusNotFound
			case apperr.KindAuth:
				env.Code = fiber.StatusUnauthorized
			default:
				env.Message = "internal server error"
			}
		case errors.As(err, &fiberErr):
			env.Code = fiberErr.Code
			env.Message = fiberErr.Message
		}

		if env.Code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(), "path", c.Path(), "error", err)
		}
		env.Status = utils.StatusMessage(env.Code)
		return c.Status(env.Code).JSON(env)
	}
}

// Locals keys set by the auth middleware.
const (
	LocalUserID    = "user_id"
	LocalUserName  = "user_name"
	LocalUserEmail = "user_email"
)

func actor(c *fiber.Ctx) service.Actor {
	a := service.Actor{}
	if id, ok := c.Locals(LocalUserID).(string); ok {
		a.ID, _ = uuid.Parse(id)
	}
	a.Name, _ = c.Locals(LocalUserName).(string)
	a.Email, _ = c.Locals(LocalUserEmail).(string)
	return a
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id", nil)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid request body", nil)
	}
	return nil
}
