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

type GoodsInService interface {
	Create(ctx context.Context, req *CreateGoodsInRequest, actor Actor) (*model.GoodsInResponse, error)
	List(ctx context.Context, filter repository.LedgerFilter) ([]model.GoodsInResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.GoodsInResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateGoodsInRequest, actor Actor) (*model.GoodsInResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
}

type CreateGoodsInRequest struct {
	Date              *string          `json:"date"`
	NoteTypeID        string           `json:"note_type_id" validate:"required,uuid"`
	SupplierID        string           `json:"supplier_id" validate:"required,uuid"`
	NoteNumber        string           `json:"note_number" validate:"required,max=100"`
	AdditionalNotes   string           `json:"additional_notes"`
	ProductID         string           `json:"product_id" validate:"required,uuid"`
	QtyIn             int              `json:"qty_in" validate:"required,gt=0"`
	Unit              string           `json:"unit" validate:"required,max=50"`
	EnteredBy         *string          `json:"entered_by" validate:"omitempty,uuid"`
	StorageLocationID string           `json:"storage_location_id" validate:"required,uuid"`
	Hpp               *decimal.Decimal `json:"hpp" validate:"required,gte=0"`
}

type UpdateGoodsInRequest struct {
	Date              *string          `json:"date"`
	NoteTypeID        *string          `json:"note_type_id" validate:"omitempty,uuid"`
	SupplierID        *string          `json:"supplier_id" validate:"omitempty,uuid"`
	NoteNumber        *string          `json:"note_number" validate:"omitempty,min=1,max=100"`
	AdditionalNotes   *string          `json:"additional_notes"`
	ProductID         *string          `json:"product_id" validate:"omitempty,uuid"`
	QtyIn             *int             `json:"qty_in" validate:"omitempty,gt=0"`
	Unit              *string          `json:"unit" validate:"omitempty,min=1,max=50"`
	EnteredBy         *string          `json:"entered_by" validate:"omitempty,uuid"`
	StorageLocationID *string          `json:"storage_location_id" validate:"omitempty,uuid"`
	Hpp               *decimal.Decimal `json:"hpp" validate:"omitempty,gte=0"`
}

type goodsInService struct {
	repo     repository.GoodsInRepository
	stock    repository.StockRepository
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewGoodsInService(repo repository.GoodsInRepository, stock repository.StockRepository, notifier Notifier, logger *slog.Logger) GoodsInService {
	return &goodsInService{repo: repo, stock: stock, notifier: notifier, log: logger, now: time.Now}
}

func (s *goodsInService) Create(ctx context.Context, req *CreateGoodsInRequest, actor Actor) (*model.GoodsInResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	entry := &model.GoodsIn{
		NoteNumber:      req.NoteNumber,
		AdditionalNotes: req.AdditionalNotes,
		QtyIn:           req.QtyIn,
		Unit:            req.Unit,
		Hpp:             *req.Hpp,
		EnteredByID:     actor.ID,
	}
	var err error
	if entry.Date, err = parseDate("date", req.Date, s.now()); err != nil {
		return nil, err
	}
	if entry.NoteTypeID, err = parseID("note_type_id", req.NoteTypeID); err != nil {
		return nil, err
	}
	if entry.SupplierID, err = parseID("supplier_id", req.SupplierID); err != nil {
		return nil, err
	}
	if entry.ProductID, err = parseID("product_id", req.ProductID); err != nil {
		return nil, err
	}
	if entry.StorageLocationID, err = parseID("storage_location_id", req.StorageLocationID); err != nil {
		return nil, err
	}
	if req.EnteredBy != nil && *req.EnteredBy != "" {
		if entry.EnteredByID, err = parseID("entered_by", *req.EnteredBy); err != nil {
			return nil, err
		}
	}
	entry.CreatedBy = actor.audit()
	entry.UpdatedBy = actor.audit()

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, storeErr(err, "goods-in entry")
	}

	s.adjust(ctx, entry.ProductID, entry.QtyIn, "create")
	s.notify(ctx, "goods_in_created", entry, actor)

	return s.reload(ctx, entry)
}

func (s *goodsInService) List(ctx context.Context, filter repository.LedgerFilter) ([]model.GoodsInResponse, error) {
	entries, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "goods-in entry")
	}
	out := make([]model.GoodsInResponse, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToResponse())
	}
	return out, nil
}

func (s *goodsInService) Get(ctx context.Context, id uuid.UUID) (*model.GoodsInResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "goods-in entry")
	}
	resp := entry.ToResponse()
	return &resp, nil
}

func (s *goodsInService) Update(ctx context.Context, id uuid.UUID, req *UpdateGoodsInRequest, actor Actor) (*model.GoodsInResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "goods-in entry")
	}
	oldProduct, oldQty := entry.ProductID, entry.QtyIn

	if entry.Date, err = parseDate("date", req.Date, entry.Date); err != nil {
		return nil, err
	}
	if req.NoteTypeID != nil {
		if entry.NoteTypeID, err = parseID("note_type_id", *req.NoteTypeID); err != nil {
			return nil, err
		}
	}
	if req.SupplierID != nil {
		if entry.SupplierID, err = parseID("supplier_id", *req.SupplierID); err != nil {
			return nil, err
		}
	}
	if req.ProductID != nil {
		if entry.ProductID, err = parseID("product_id", *req.ProductID); err != nil {
			return nil, err
		}
	}
	if req.StorageLocationID != nil {
		if entry.StorageLocationID, err = parseID("storage_location_id", *req.StorageLocationID); err != nil {
			return nil, err
		}
	}
	if req.EnteredBy != nil {
		if entry.EnteredByID, err = parseID("entered_by", *req.EnteredBy); err != nil {
			return nil, err
		}
	}
	if req.NoteNumber != nil {
		entry.NoteNumber = *req.NoteNumber
	}
	if req.AdditionalNotes != nil {
		entry.AdditionalNotes = *req.AdditionalNotes
	}
	if req.QtyIn != nil {
		entry.QtyIn = *req.QtyIn
	}
	if req.Unit != nil {
		entry.Unit = *req.Unit
	}
	if req.Hpp != nil {
		entry.Hpp = *req.Hpp
	}
	entry.UpdatedBy = actor.audit()

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, storeErr(err, "goods-in entry")
	}

	if entry.ProductID == oldProduct {
		s.adjust(ctx, entry.ProductID, entry.QtyIn-oldQty, "update")
	} else {
		s.adjust(ctx, oldProduct, -oldQty, "update")
		s.adjust(ctx, entry.ProductID, entry.QtyIn, "update")
	}
	s.notify(ctx, "goods_in_updated", entry, actor)

	return s.reload(ctx, entry)
}

func (s *goodsInService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "goods-in entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, "goods-in entry")
	}

	s.adjust(ctx, entry.ProductID, -entry.QtyIn, "delete")
	s.notify(ctx, "goods_in_deleted", entry, actor)
	return nil
}

// adjust moves stock_in by delta. The ledger row is already committed, so a
// failure here is logged and not returned.
func (s *goodsInService) adjust(ctx context.Context, productID uuid.UUID, delta int, op string) {
	if err := s.stock.Adjust(ctx, productID, delta, 0); err != nil {
		level := slog.LevelError
		if errors.Is(err, repository.ErrNotFound) {
			level = slog.LevelWarn
		}
		s.log.Log(ctx, level, "goods-in stock adjustment failed",
			"op", op, "product_id", productID, "delta_in", delta, "error", err)
	}
}

// reload re-reads the entry with its references resolved; on failure the
// unresolved entry is returned since the write itself succeeded.
func (s *goodsInService) reload(ctx context.Context, entry *model.GoodsIn) (*model.GoodsInResponse, error) {
	if fresh, err := s.repo.FindByID(ctx, entry.ID); err == nil {
		entry = fresh
	}
	resp := entry.ToResponse()
	return &resp, nil
}

func (s *goodsInService) notify(ctx context.Context, action string, entry *model.GoodsIn, actor Actor) {
	s.notifier.Changed(ctx, ws.Event{
		Type:   "stock_update",
		Action: action,
		Data: map[string]interface{}{
			"id":          entry.ID,
			"product_id":  entry.ProductID,
			"qty_in":      entry.QtyIn,
			"note_number": entry.NoteNumber,
		},
		User:    actor.payload(),
		Message: fmt.Sprintf("%s recorded goods-in %s (%d)", actor.Name, entry.NoteNumber, entry.QtyIn),
	})
}
