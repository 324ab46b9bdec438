package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GoodsOutRepository interface {
	Create(ctx context.Context, entry *model.GoodsOut) error
	FindAll(ctx context.Context, filter LedgerFilter) ([]model.GoodsOut, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.GoodsOut, error)
	Update(ctx context.Context, entry *model.GoodsOut) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type goodsOutRepo struct {
	db *gorm.DB
}

func NewGoodsOutRepo(db *gorm.DB) GoodsOutRepository {
	return &goodsOutRepo{db}
}

func (r *goodsOutRepo) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("NoteType").
		Preload("Customer").
		Preload("Product").
		Preload("HandledBy").
		Preload("Location")
}

func (r *goodsOutRepo) Create(ctx context.Context, entry *model.GoodsOut) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *goodsOutRepo) FindAll(ctx context.Context, filter LedgerFilter) ([]model.GoodsOut, error) {
	var entries []model.GoodsOut
	err := applyLedgerFilter(r.preload(ctx), filter).
		Order("date DESC").
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *goodsOutRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GoodsOut, error) {
	var entry model.GoodsOut
	if err := r.preload(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *goodsOutRepo) Update(ctx context.Context, entry *model.GoodsOut) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entry).Error
}

func (r *goodsOutRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.GoodsOut{}, "id = ?", id))
}
