package handler

import (
	"bytes"
	"fmt"
	"time"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return err
	}
	return created(c, "Product created", product)
}

// List supports ?search= (code, name, product_name) and ?category=.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), repository.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		return err
	}
	return ok(c, "Products retrieved", products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "Product retrieved", product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req service.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Product updated", product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, actor(c)); err != nil {
		return err
	}
	return ok(c, "Product deleted", nil)
}

func (h *ProductHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), &buf); err != nil {
		return err
	}
	c.Attachment(fmt.Sprintf("stok-%s.xlsx", time.Now().Format("20060102")))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
