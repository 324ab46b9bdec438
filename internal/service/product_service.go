package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/export"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	Create(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	Export(ctx context.Context, w io.Writer) error
}

type CreateProductRequest struct {
	Code        string           `json:"code" validate:"required,max=100"`
	Name        string           `json:"name" validate:"required"`
	ProductName string           `json:"product_name" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	Variation   string           `json:"variation" validate:"required"`
	Unit        string           `json:"unit" validate:"required,max=50"`
	HppPerPiece *decimal.Decimal `json:"hpp_per_piece" validate:"required,gte=0"`
	StockIn     int              `json:"stock_in" validate:"gte=0"`
	StockOut    int              `json:"stock_out" validate:"gte=0"`
	Location    *string          `json:"location"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest overwrites only the fields that are present.
type UpdateProductRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	ProductName *string          `json:"product_name" validate:"omitempty,min=1"`
	Category    *string          `json:"category" validate:"omitempty,min=1"`
	Variation   *string          `json:"variation" validate:"omitempty,min=1"`
	Unit        *string          `json:"unit" validate:"omitempty,min=1,max=50"`
	HppPerPiece *decimal.Decimal `json:"hpp_per_piece" validate:"omitempty,gte=0"`
	StockIn     *int             `json:"stock_in" validate:"omitempty,gte=0"`
	StockOut    *int             `json:"stock_out" validate:"omitempty,gte=0"`
	Location    *string          `json:"location"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
}

type productService struct {
	repo     repository.ProductRepository
	notifier Notifier
}

func NewProductService(repo repository.ProductRepository, notifier Notifier) ProductService {
	return &productService{repo: repo, notifier: notifier}
}

func (s *productService) Create(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeFree(ctx, code, nil); err != nil {
		return nil, err
	}

	product := &model.Product{
		Code:        code,
		Name:        req.Name,
		ProductName: req.ProductName,
		Category:    req.Category,
		Variation:   req.Variation,
		Unit:        req.Unit,
		HppPerPiece: *req.HppPerPiece,
		StockIn:     req.StockIn,
		StockOut:    req.StockOut,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	product.RecomputeStock()
	product.CreatedBy = actor.audit()
	product.UpdatedBy = actor.audit()

	if err := s.repo.Create(ctx, product); err != nil {
		// the unique index still wins a race between two creates
		return nil, storeErr(err, "product")
	}

	s.notify(ctx, "product_created", product, actor, fmt.Sprintf("%s created product '%s'", actor.Name, product.ProductName))
	return product, nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != product.Code {
			if err := s.ensureCodeFree(ctx, code, &product.ID); err != nil {
				return nil, err
			}
		}
		product.Code = code
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.ProductName != nil {
		product.ProductName = *req.ProductName
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Variation != nil {
		product.Variation = *req.Variation
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.HppPerPiece != nil {
		product.HppPerPiece = *req.HppPerPiece
	}
	if req.Location != nil {
		product.Location = req.Location
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	withCounters := req.StockIn != nil || req.StockOut != nil
	if withCounters {
		if req.StockIn != nil {
			product.StockIn = *req.StockIn
		}
		if req.StockOut != nil {
			product.StockOut = *req.StockOut
		}
		product.RecomputeStock()
	}
	product.UpdatedBy = actor.audit()

	if err := s.repo.Update(ctx, product, withCounters); err != nil {
		return nil, storeErr(err, "product")
	}
	if fresh, err := s.repo.FindByID(ctx, id); err == nil {
		product = fresh
	}

	s.notify(ctx, "product_updated", product, actor, fmt.Sprintf("%s updated product '%s'", actor.Name, product.ProductName))
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if err := s.repo.Delete(ctx, id, actor.audit()); err != nil {
		return storeErr(err, "product")
	}
	s.notify(ctx, "product_deleted", map[string]interface{}{"id": id}, actor, fmt.Sprintf("%s deleted a product", actor.Name))
	return nil
}

func (s *productService) Export(ctx context.Context, w io.Writer) error {
	products, err := s.repo.FindAll(ctx, repository.ProductFilter{})
	if err != nil {
		return storeErr(err, "product")
	}
	if err := export.WriteProducts(w, products); err != nil {
		return apperr.Internal("failed to build export", err)
	}
	return nil
}

func (s *productService) ensureCodeFree(ctx context.Context, code string, self *uuid.UUID) error {
	existing, err := s.repo.FindByCode(ctx, code)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return storeErr(err, "product")
	case self != nil && existing.ID == *self:
		return nil
	default:
		return apperr.Conflict(fmt.Sprintf("product code '%s' already exists", code))
	}
}

func (s *productService) notify(ctx context.Context, action string, data interface{}, actor Actor, msg string) {
	s.notifier.Changed(ctx, ws.Event{
		Type:    "stock_update",
		Action:  action,
		Data:    data,
		User:    actor.payload(),
		Message: msg,
	})
}
