package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
)

// namedRecord is a reference row identified by a single name
// (category, storage location, note type).
type namedRecord[T any] interface {
	*T
	GetName() string
	SetName(string)
	StampCreated(by string)
	StampUpdated(by string)
}

type NamedRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type NamedService[T any] interface {
	Create(ctx context.Context, req *NamedRequest, actor Actor) (*T, error)
	List(ctx context.Context, search string) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, id uuid.UUID, req *NamedRequest, actor Actor) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type namedService[T any, PT namedRecord[T]] struct {
	repo   repository.Repository[T]
	label  string
	unique bool
}

// NewNamedService serves a name-only reference table. With unique set,
// names must be distinct ignoring case and surrounding whitespace.
func NewNamedService[T any, PT namedRecord[T]](repo repository.Repository[T], label string, unique bool) NamedService[T] {
	return &namedService[T, PT]{repo: repo, label: label, unique: unique}
}

func (s *namedService[T, PT]) Create(ctx context.Context, req *NamedRequest, actor Actor) (*T, error) {
	name, err := s.checkName(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	item := PT(new(T))
	item.SetName(name)
	item.StampCreated(actor.audit())
	if err := s.repo.Create(ctx, (*T)(item)); err != nil {
		return nil, storeErr(err, s.label)
	}
	return (*T)(item), nil
}

func (s *namedService[T, PT]) List(ctx context.Context, search string) ([]T, error) {
	items, err := s.repo.FindAll(ctx, repository.ListQuery{
		Search:        strings.TrimSpace(search),
		SearchColumns: []string{"name"},
	})
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	return items, nil
}

func (s *namedService[T, PT]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	return item, nil
}

func (s *namedService[T, PT]) Update(ctx context.Context, id uuid.UUID, req *NamedRequest, actor Actor) (*T, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	name, err := s.checkName(ctx, req, &id)
	if err != nil {
		return nil, err
	}
	PT(item).SetName(name)
	PT(item).StampUpdated(actor.audit())
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, storeErr(err, s.label)
	}
	return item, nil
}

func (s *namedService[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.repo.Delete(ctx, id), s.label)
}

func (s *namedService[T, PT]) checkName(ctx context.Context, req *NamedRequest, self *uuid.UUID) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return "", err
	}
	if !s.unique {
		return req.Name, nil
	}
	_, err := s.repo.FindOneBy(ctx, "name", req.Name, self)
	switch {
	case err == nil:
		return "", apperr.Conflict(fmt.Sprintf("%s '%s' already exists", s.label, req.Name))
	case errors.Is(err, repository.ErrNotFound):
		return req.Name, nil
	default:
		return "", storeErr(err, s.label)
	}
}
