package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository is the single write path for product stock counters.
// Both ledgers call Adjust; nothing else touches stock_in/stock_out.
type StockRepository interface {
	Adjust(ctx context.Context, productID uuid.UUID, deltaIn, deltaOut int) error
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

// Adjust applies the deltas in one UPDATE so concurrent ledger writes
// cannot lose increments. Postgres evaluates every SET expression against
// the old row, so total_stock is computed from the same pre-update values.
func (r *stockRepo) Adjust(ctx context.Context, productID uuid.UUID, deltaIn, deltaOut int) error {
	if deltaIn == 0 && deltaOut == 0 {
		return nil
	}

	res := adjustQuery(r.db.WithContext(ctx), productID, deltaIn, deltaOut)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func adjustQuery(tx *gorm.DB, productID uuid.UUID, deltaIn, deltaOut int) *gorm.DB {
	return tx.Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock_in":    gorm.Expr("GREATEST(stock_in + ?, 0)", deltaIn),
			"stock_out":   gorm.Expr("GREATEST(stock_out + ?, 0)", deltaOut),
			"total_stock": gorm.Expr("GREATEST(GREATEST(stock_in + ?, 0) - GREATEST(stock_out + ?, 0), 0)", deltaIn, deltaOut),
		})
}
