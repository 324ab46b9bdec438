package handler

import (
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ledgerFilter reads ?from=, ?to= (YYYY-MM-DD, inclusive) and ?product_id=.
func ledgerFilter(c *fiber.Ctx) (repository.LedgerFilter, error) {
	var f repository.LedgerFilter
	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return f, apperr.Validation("from must be YYYY-MM-DD", nil)
		}
		f.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return f, apperr.Validation("to must be YYYY-MM-DD", nil)
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, apperr.Validation("product_id must be a uuid", nil)
		}
		f.ProductID = &id
	}
	return f, nil
}

type GoodsInHandler struct {
	service service.GoodsInService
}

func NewGoodsInHandler(s service.GoodsInService) *GoodsInHandler {
	return &GoodsInHandler{service: s}
}

func (h *GoodsInHandler) Create(c *fiber.Ctx) error {
	var req service.CreateGoodsInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return err
	}
	return created(c, "Goods-in recorded", entry)
}

func (h *GoodsInHandler) List(c *fiber.Ctx) error {
	filter, err := ledgerFilter(c)
	if err != nil {
		return err
	}
	entries, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return ok(c, "Goods-in retrieved", entries)
}

func (h *GoodsInHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "Goods-in retrieved", entry)
}

func (h *GoodsInHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req service.UpdateGoodsInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Goods-in updated", entry)
}

func (h *GoodsInHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, actor(c)); err != nil {
		return err
	}
	return ok(c, "Goods-in deleted", nil)
}

type GoodsOutHandler struct {
	service service.GoodsOutService
}

func NewGoodsOutHandler(s service.GoodsOutService) *GoodsOutHandler {
	return &GoodsOutHandler{service: s}
}

func (h *GoodsOutHandler) Create(c *fiber.Ctx) error {
	var req service.CreateGoodsOutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return err
	}
	return created(c, "Goods-out recorded", entry)
}

func (h *GoodsOutHandler) List(c *fiber.Ctx) error {
	filter, err := ledgerFilter(c)
	if err != nil {
		return err
	}
	entries, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return ok(c, "Goods-out retrieved", entries)
}

func (h *GoodsOutHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "Goods-out retrieved", entry)
}

func (h *GoodsOutHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req service.UpdateGoodsOutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Goods-out updated", entry)
}

func (h *GoodsOutHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, actor(c)); err != nil {
		return err
	}
	return ok(c, "Goods-out deleted", nil)
}
