package repository

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerFilter narrows ledger lists by date range and product.
type LedgerFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID *uuid.UUID
}

type GoodsInRepository interface {
	Create(ctx context.Context, entry *model.GoodsIn) error
	FindAll(ctx context.Context, filter LedgerFilter) ([]model.GoodsIn, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.GoodsIn, error)
	Update(ctx context.Context, entry *model.GoodsIn) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type goodsInRepo struct {
	db *gorm.DB
}

func NewGoodsInRepo(db *gorm.DB) GoodsInRepository {
	return &goodsInRepo{db}
}

// preload resolves every reference; missing targets stay nil.
func (r *goodsInRepo) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("NoteType").
		Preload("Supplier").
		Preload("Product").
		Preload("EnteredBy").
		Preload("StorageLocation")
}

func (r *goodsInRepo) Create(ctx context.Context, entry *model.GoodsIn) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *goodsInRepo) FindAll(ctx context.Context, filter LedgerFilter) ([]model.GoodsIn, error) {
	var entries []model.GoodsIn
	err := applyLedgerFilter(r.preload(ctx), filter).
		Order("date DESC").
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *goodsInRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GoodsIn, error) {
	var entry model.GoodsIn
	if err := r.preload(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *goodsInRepo) Update(ctx context.Context, entry *model.GoodsIn) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entry).Error
}

func (r *goodsInRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.GoodsIn{}, "id = ?", id))
}

func applyLedgerFilter(tx *gorm.DB, filter LedgerFilter) *gorm.DB {
	if filter.From != nil {
		tx = tx.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		tx = tx.Where("date <= ?", *filter.To)
	}
	if filter.ProductID != nil {
		tx = tx.Where("product_id = ?", *filter.ProductID)
	}
	return tx
}
