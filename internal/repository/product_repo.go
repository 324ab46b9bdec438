package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows the product list.
type ProductFilter struct {
	Search   string
	Category string
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product, withCounters bool) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	tx := applyListQuery(r.db.WithContext(ctx), ListQuery{
		Search:        filter.Search,
		SearchColumns: []string{"code", "name", "product_name"},
	})
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	err := tx.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// counterColumns belong to StockRepository.Adjust unless a caller sets them
// explicitly.
var counterColumns = []string{"stock_in", "stock_out", "total_stock"}

// Update writes the product's descriptive fields. Stock counters are only
// written when withCounters is set, so a rename cannot overwrite an Adjust
// that committed after the product was read.
func (r *productRepo) Update(ctx context.Context, product *model.Product, withCounters bool) error {
	return affected(updateQuery(r.db.WithContext(ctx), product, withCounters))
}

func updateQuery(tx *gorm.DB, product *model.Product, withCounters bool) *gorm.DB {
	omit := []string{"created_at", "created_by", "deleted_at", "deleted_by"}
	if !withCounters {
		omit = append(omit, counterColumns...)
	}
	return tx.Model(product).Select("*").Omit(omit...).Updates(product)
}

// Delete is a soft delete; ledger rows keep pointing at the id and
// resolve it as missing afterwards.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&model.Product{}, "id = ?", id))
	})
}
