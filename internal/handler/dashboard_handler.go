package handler

import (
	"strconv"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "Dashboard summary", summary)
}

func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "Dashboard overview", overview)
}

func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	top, err := h.service.TopProductsByValue(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "Top products by stock value", top)
}

func (h *DashboardHandler) TopSelling(c *fiber.Ctx) error {
	top, err := h.service.TopSelling(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "Top selling products", top)
}

func (h *DashboardHandler) RevenueByMonth(c *fiber.Ctx) error {
	months, err := h.service.RevenueByMonth(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "Revenue by month", months)
}

// Chart
// GET /api/v1/dashboard/chart?period=monthly|weekly
func (h *DashboardHandler) Chart(c *fiber.Ctx) error {
	buckets, err := h.service.Chart(c.UserContext(), c.Query("period", "monthly"))
	if err != nil {
		return err
	}
	return ok(c, "Chart data", buckets)
}

// StockAlert
// GET /api/v1/dashboard/stock-alert?threshold=10
func (h *DashboardHandler) StockAlert(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.Validation("threshold must be an integer", nil)
		}
		threshold = &v
	}
	alert, err := h.service.StockAlert(c.UserContext(), threshold)
	if err != nil {
		return err
	}
	return ok(c, "Stock alert", alert)
}
