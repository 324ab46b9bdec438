package handler

import (
	"go-inventory-ledger/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every resource handler mounted under /api/v1.
type Handlers struct {
	Auth            *AuthHandler
	Users           *UserHandler
	Products        *ProductHandler
	GoodsIn         *GoodsInHandler
	GoodsOut        *GoodsOutHandler
	Dashboard       *DashboardHandler
	Categories      *NamedHandler[model.Category]
	StorageLocation *NamedHandler[model.StorageLocation]
	NoteTypes       *NamedHandler[model.NoteType]
	Suppliers       *SupplierHandler
	Customers       *ContactHandler[model.Customer]
	Vendors         *ContactHandler[model.Vendor]
}

type resource interface {
	Create(*fiber.Ctx) error
	List(*fiber.Ctx) error
	Get(*fiber.Ctx) error
	Update(*fiber.Ctx) error
	Delete(*fiber.Ctx) error
}

// mount registers POST /, GET /list, GET|PUT|DELETE /:id. Static routes
// added through extra go before /:id.
func mount(r fiber.Router, h resource, extra func(fiber.Router)) {
	r.Post("/", h.Create)
	r.Get("/list", h.List)
	if extra != nil {
		extra(r)
	}
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// Register wires the REST routes. requireAuth guards everything except
// registration, login and password reset.
func Register(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	users := api.Group("/users")
	users.Post("/register", h.Auth.Register)
	users.Post("/login", h.Auth.Login)
	users.Post("/reset-password", h.Auth.ResetPassword)

	// ============ PROTECTED ROUTES ============
	users.Get("/list", requireAuth, h.Users.GetUsers)
	users.Delete("/delete/:id", requireAuth, h.Users.DeleteUser)
	users.Get("/:id", requireAuth, h.Users.GetUser)

	protected := api.Group("", requireAuth)

	mount(protected.Group("/products"), h.Products, func(r fiber.Router) {
		r.Get("/export", h.Products.Export)
	})
	mount(protected.Group("/barang-masuk"), h.GoodsIn, nil)
	mount(protected.Group("/barang-keluar"), h.GoodsOut, nil)
	mount(protected.Group("/categories"), h.Categories, nil)
	mount(protected.Group("/lokasi-simpan"), h.StorageLocation, nil)
	mount(protected.Group("/tipe-nota"), h.NoteTypes, nil)
	mount(protected.Group("/suppliers"), h.Suppliers, nil)
	mount(protected.Group("/customers"), h.Customers, nil)
	mount(protected.Group("/vendors"), h.Vendors, func(r fiber.Router) {
		r.Get("/email/:email", h.Vendors.GetByEmail)
		r.Get("/search/:keyword", h.Vendors.Search)
	})

	dash := protected.Group("/dashboard")
	dash.Get("/summary", h.Dashboard.Summary)
	dash.Get("/overview", h.Dashboard.Overview)
	dash.Get("/top-products", h.Dashboard.TopProducts)
	dash.Get("/top-selling", h.Dashboard.TopSelling)
	dash.Get("/revenue-by-month", h.Dashboard.RevenueByMonth)
	dash.Get("/chart", h.Dashboard.Chart)
	dash.Get("/stock-alert", h.Dashboard.StockAlert)
}
