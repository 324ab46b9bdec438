package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// NamedHandler serves categories, storage locations and note types.
type NamedHandler[T any] struct {
	service service.NamedService[T]
	label   string
}

func NewNamedHandler[T any](s service.NamedService[T], label string) *NamedHandler[T] {
	return &NamedHandler[T]{service: s, label: label}
}

func (h *NamedHandler[T]) Create(c *fiber.Ctx) error {
	var req service.NamedRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return err
	}
	return created(c, h.label+" created", item)
}

func (h *NamedHandler[T]) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	return ok(c, h.label+" list retrieved", items)
}

func (h *NamedHandler[T]) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, h.label+" retrieved", item)
}

func (h *NamedHandler[T]) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req service.NamedRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return err
	}
	return ok(c, h.label+" updated", item)
}

func (h *NamedHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, h.label+" deleted", nil)
}

// ContactHandler serves customers and vendors.
type ContactHandler[T any] struct {
	service service.ContactService[T]
	label   string
}

func NewContactHandler[T any](s service.ContactService[T], label string) *ContactHandler[T] {
	return &ContactHandler[T]{service: s, label: label}
}

func (h *ContactHandler[T]) Create(c *fiber.Ctx) error {
	var req service.ContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return err
	}
	return created(c, h.label+" created", item)
}

// List
// GET ?search=&sort_by=created_at|name|email&sort_order=asc|desc
func (h *ContactHandler[T]) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), service.ContactListOptions{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	})
	if err != nil {
		return err
	}
	return ok(c, h.label+" list retrieved", items)
}

func (h *ContactHandler[T]) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, h.label+" retrieved", item)
}

func (h *ContactHandler[T]) GetByEmail(c *fiber.Ctx) error {
	item, err := h.service.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return ok(c, h.label+" retrieved", item)
}

func (h *ContactHandler[T]) Search(c *fiber.Ctx) error {
	items, err := h.service.Search(c.UserContext(), c.Params("keyword"))
	if err != nil {
		return err
	}
	return ok(c, h.label+" search results", items)
}

func (h *ContactHandler[T]) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req service.UpdateContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return err
	}
	return ok(c, h.label+" updated", item)
}

func (h *ContactHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, h.label+" deleted", nil)
}

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return err
	}
	return created(c, "Supplier created", supplier)
}

func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.service.List(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	return ok(c, "Supplier list retrieved", suppliers)
}

func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	supplier, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "Supplier retrieved", supplier)
}

func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Supplier updated", supplier)
}

func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, "Supplier deleted", nil)
}
