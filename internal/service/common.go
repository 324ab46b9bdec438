package service

import (
	"errors"
	"strings"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
)

// Actor is the authenticated user performing a request.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func (a Actor) audit() string {
	if a.ID == uuid.Nil {
		return ""
	}
	return a.ID.String()
}

func (a Actor) payload() map[string]interface{} {
	return map[string]interface{}{"id": a.ID, "name": a.Name, "email": a.Email}
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation("validation failed", errs)
	}
	return nil
}

// parseID turns a request string into a UUID, reporting the JSON field on failure.
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Validation("validation failed", []*validator.ErrorResponse{{FailedField: field, Tag: "uuid"}})
	}
	return id, nil
}

func parseOptionalID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := parseID(field, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate accepts RFC 3339 or a plain YYYY-MM-DD; nil or empty yields fallback.
func parseDate(field string, raw *string, fallback time.Time) (time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return fallback, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*raw)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("validation failed", []*validator.ErrorResponse{{FailedField: field, Tag: "date"}})
}

// storeErr maps repository errors onto apperr kinds.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict(what + " already exists")
	default:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperr.Internal("failed to access "+what, err)
	}
}
