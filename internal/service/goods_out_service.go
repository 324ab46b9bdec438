package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoodsOutService interface {
	Create(ctx context.Context, req *CreateGoodsOutRequest, actor Actor) (*model.GoodsOutResponse, error)
	List(ctx context.Context, filter repository.LedgerFilter) ([]model.GoodsOutResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.GoodsOutResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateGoodsOutRequest, actor Actor) (*model.GoodsOutResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
}

type CreateGoodsOutRequest struct {
	Date           *string `json:"date"`
	NoteTypeID     string  `json:"note_type_id" validate:"required,uuid"`
	CustomerID     *string `json:"customer_id" validate:"omitempty,uuid"`
	NoteNumber     string  `json:"note_number" validate:"max=100"`
	AdditionalInfo *string `json:"additional_info"`
	ProductID      string  `json:"product_id" validate:"required,uuid"`
	QtyOut         int     `json:"qty_out" validate:"required,gt=0"`
	HandledBy      *string `json:"handled_by" validate:"omitempty,uuid"`
	LocationID     *string `json:"location_id" validate:"omitempty,uuid"`
}

// UpdateGoodsOutRequest overwrites only the fields that are present.
// HppSnapshot is only honoured when non-zero.
type UpdateGoodsOutRequest struct {
	Date           *string          `json:"date"`
	NoteTypeID     *string          `json:"note_type_id" validate:"omitempty,uuid"`
	CustomerID     *string          `json:"customer_id" validate:"omitempty,uuid"`
	NoteNumber     *string          `json:"note_number" validate:"omitempty,min=1,max=100"`
	AdditionalInfo *string          `json:"additional_info"`
	ProductID      *string          `json:"product_id" validate:"omitempty,uuid"`
	QtyOut         *int             `json:"qty_out" validate:"omitempty,gt=0"`
	HppSnapshot    *decimal.Decimal `json:"hpp_snapshot" validate:"omitempty,gte=0"`
	HandledBy      *string          `json:"handled_by" validate:"omitempty,uuid"`
	LocationID     *string          `json:"location_id" validate:"omitempty,uuid"`
}

type goodsOutService struct {
	repo          repository.GoodsOutRepository
	products      repository.ProductRepository
	stock         repository.StockRepository
	notifier      Notifier
	noteNumbers   *NoteNumberGenerator
	trackStockOut bool
	log           *slog.Logger
	now           func() time.Time
}

// NewGoodsOutService builds the goods-out ledger. With trackStockOut false,
// entries never touch product counters.
func NewGoodsOutService(
	repo repository.GoodsOutRepository,
	products repository.ProductRepository,
	stock repository.StockRepository,
	notifier Notifier,
	trackStockOut bool,
	logger *slog.Logger,
) GoodsOutService {
	return &goodsOutService{
		repo:          repo,
		products:      products,
		stock:         stock,
		notifier:      notifier,
		noteNumbers:   NewNoteNumberGenerator(),
		trackStockOut: trackStockOut,
		log:           logger,
		now:           time.Now,
	}
}

func (s *goodsOutService) Create(ctx context.Context, req *CreateGoodsOutRequest, actor Actor) (*model.GoodsOutResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	entry := &model.GoodsOut{
		NoteNumber:     req.NoteNumber,
		AdditionalInfo: req.AdditionalInfo,
		QtyOut:         req.QtyOut,
		HandledByID:    actor.ID,
	}
	var err error
	if entry.Date, err = parseDate("date", req.Date, s.now()); err != nil {
		return nil, err
	}
	if entry.NoteTypeID, err = parseID("note_type_id", req.NoteTypeID); err != nil {
		return nil, err
	}
	if entry.CustomerID, err = parseOptionalID("customer_id", req.CustomerID); err != nil {
		return nil, err
	}
	if entry.LocationID, err = parseOptionalID("location_id", req.LocationID); err != nil {
		return nil, err
	}
	if req.HandledBy != nil && *req.HandledBy != "" {
		if entry.HandledByID, err = parseID("handled_by", *req.HandledBy); err != nil {
			return nil, err
		}
	}
	productID, err := parseID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	entry.SnapshotFrom(product)
	entry.RecomputeTotal()
	if entry.NoteNumber == "" {
		entry.NoteNumber = s.noteNumbers.Next()
	}
	entry.CreatedBy = actor.audit()
	entry.UpdatedBy = actor.audit()

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, storeErr(err, "goods-out entry")
	}

	s.adjust(ctx, entry.ProductID, entry.QtyOut, "create")
	s.notify(ctx, "goods_out_created", entry, actor)

	return s.reload(ctx, entry)
}

func (s *goodsOutService) List(ctx context.Context, filter repository.LedgerFilter) ([]model.GoodsOutResponse, error) {
	entries, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "goods-out entry")
	}
	out := make([]model.GoodsOutResponse, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToResponse())
	}
	return out, nil
}

func (s *goodsOutService) Get(ctx context.Context, id uuid.UUID) (*model.GoodsOutResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "goods-out entry")
	}
	resp := entry.ToResponse()
	return &resp, nil
}

func (s *goodsOutService) Update(ctx context.Context, id uuid.UUID, req *UpdateGoodsOutRequest, actor Actor) (*model.GoodsOutResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "goods-out entry")
	}
	oldProduct, oldQty := entry.ProductID, entry.QtyOut

	if req.ProductID != nil {
		productID, err := parseID("product_id", *req.ProductID)
		if err != nil {
			return nil, err
		}
		if productID != entry.ProductID {
			product, err := s.products.FindByID(ctx, productID)
			if err != nil {
				return nil, storeErr(err, "product")
			}
			entry.SnapshotFrom(product)
			entry.Product = product
		}
	}
	if req.HppSnapshot != nil && !req.HppSnapshot.IsZero() {
		entry.HppSnapshot = *req.HppSnapshot
	}
	if req.QtyOut != nil {
		entry.QtyOut = *req.QtyOut
	}
	entry.RecomputeTotal()

	if entry.Date, err = parseDate("date", req.Date, entry.Date); err != nil {
		return nil, err
	}
	if req.NoteTypeID != nil {
		if entry.NoteTypeID, err = parseID("note_type_id", *req.NoteTypeID); err != nil {
			return nil, err
		}
	}
	if req.CustomerID != nil {
		if entry.CustomerID, err = parseOptionalID("customer_id", req.CustomerID); err != nil {
			return nil, err
		}
	}
	if req.LocationID != nil {
		if entry.LocationID, err = parseOptionalID("location_id", req.LocationID); err != nil {
			return nil, err
		}
	}
	if req.HandledBy != nil {
		if entry.HandledByID, err = parseID("handled_by", *req.HandledBy); err != nil {
			return nil, err
		}
	}
	if req.NoteNumber != nil {
		entry.NoteNumber = *req.NoteNumber
	}
	if req.AdditionalInfo != nil {
		entry.AdditionalInfo = req.AdditionalInfo
	}
	entry.UpdatedBy = actor.audit()

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, storeErr(err, "goods-out entry")
	}

	if entry.ProductID == oldProduct {
		s.adjust(ctx, entry.ProductID, entry.QtyOut-oldQty, "update")
	} else {
		s.adjust(ctx, oldProduct, -oldQty, "update")
		s.adjust(ctx, entry.ProductID, entry.QtyOut, "update")
	}
	s.notify(ctx, "goods_out_updated", entry, actor)

	return s.reload(ctx, entry)
}

func (s *goodsOutService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "goods-out entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, "goods-out entry")
	}

	s.adjust(ctx, entry.ProductID, -entry.QtyOut, "delete")
	s.notify(ctx, "goods_out_deleted", entry, actor)
	return nil
}

// adjust moves stock_out by delta when stock-out tracking is on. Failures
// are logged, the ledger write stands.
func (s *goodsOutService) adjust(ctx context.Context, productID uuid.UUID, delta int, op string) {
	if !s.trackStockOut {
		return
	}
	if err := s.stock.Adjust(ctx, productID, 0, delta); err != nil {
		level := slog.LevelError
		if errors.Is(err, repository.ErrNotFound) {
			level = slog.LevelWarn
		}
		s.log.Log(ctx, level, "goods-out stock adjustment failed",
			"op", op, "product_id", productID, "delta_out", delta, "error", err)
	}
}

func (s *goodsOutService) reload(ctx context.Context, entry *model.GoodsOut) (*model.GoodsOutResponse, error) {
	if fresh, err := s.repo.FindByID(ctx, entry.ID); err == nil {
		entry = fresh
	}
	resp := entry.ToResponse()
	return &resp, nil
}

func (s *goodsOutService) notify(ctx context.Context, action string, entry *model.GoodsOut, actor Actor) {
	s.notifier.Changed(ctx, ws.Event{
		Type:   "stock_update",
		Action: action,
		Data: map[string]interface{}{
			"id":          entry.ID,
			"product_id":  entry.ProductID,
			"qty_out":     entry.QtyOut,
			"total_hpp":   entry.TotalHpp,
			"note_number": entry.NoteNumber,
		},
		User:    actor.payload(),
		Message: fmt.Sprintf("%s recorded goods-out %s (%d)", actor.Name, entry.NoteNumber, entry.QtyOut),
	})
}
