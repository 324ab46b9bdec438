package repository

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesAggregate groups goods-out rows per product.
type SalesAggregate struct {
	ProductID           uuid.UUID       `json:"product_id"`
	ProductNameSnapshot string          `json:"product_name_snapshot"`
	TotalQty            int64           `json:"total_qty"`
	TotalHpp            decimal.Decimal `json:"total_hpp"`
	LastSaleDate        time.Time       `json:"last_sale_date"`
}

// DatedValue is one goods-out row reduced to its date and hpp_snapshot * qty_out.
type DatedValue struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// DashboardRepository is read-only.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	SumGoodsInValue(ctx context.Context) (decimal.Decimal, error)
	SumGoodsOutValue(ctx context.Context) (decimal.Decimal, error)
	AllProducts(ctx context.Context) ([]model.Product, error)
	LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	SalesByProduct(ctx context.Context) ([]SalesAggregate, error)
	GoodsOutValues(ctx context.Context, from, to time.Time) ([]DatedValue, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *dashboardRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("total_stock <= ?", threshold).Count(&count).Error
	return count, err
}

type sumRow struct {
	Total decimal.Decimal
}

func (r *dashboardRepo) SumGoodsInValue(ctx context.Context) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.GoodsIn{}).
		Select("COALESCE(SUM(hpp * qty_in), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

func (r *dashboardRepo) SumGoodsOutValue(ctx context.Context) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.GoodsOut{}).
		Select("COALESCE(SUM(hpp_snapshot * qty_out), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

func (r *dashboardRepo) AllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *dashboardRepo) LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("total_stock <= ?", threshold).
		Order("total_stock ASC").
		Find(&products).Error
	return products, err
}

func (r *dashboardRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *dashboardRepo) SalesByProduct(ctx context.Context) ([]SalesAggregate, error) {
	var rows []SalesAggregate
	err := r.db.WithContext(ctx).Model(&model.GoodsOut{}).
		Select(`
			product_id,
			MAX(product_name_snapshot) AS product_name_snapshot,
			COALESCE(SUM(qty_out), 0) AS total_qty,
			COALESCE(SUM(qty_out * hpp_snapshot), 0) AS total_hpp,
			MAX(date) AS last_sale_date
		`).
		Group("product_id").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) GoodsOutValues(ctx context.Context, from, to time.Time) ([]DatedValue, error) {
	var rows []DatedValue
	err := r.db.WithContext(ctx).Model(&model.GoodsOut{}).
		Select("date, hpp_snapshot * qty_out AS value").
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}
