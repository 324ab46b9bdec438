package model

import "github.com/shopspring/decimal"

// Product carries the running stock counters. TotalStock is always derived
// from StockIn/StockOut, never written by callers.
type Product struct {
	BaseModel
	Code        string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_code,where:deleted_at IS NULL" json:"code"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Category    string          `gorm:"type:varchar(255);not null;index" json:"category"`
	Variation   string          `gorm:"type:varchar(255);not null" json:"variation"`
	Unit        string          `gorm:"type:varchar(50);not null" json:"unit"`
	HppPerPiece decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"hpp_per_piece"`

	StockIn    int `gorm:"not null;default:0" json:"stock_in"`
	StockOut   int `gorm:"not null;default:0" json:"stock_out"`
	TotalStock int `gorm:"not null;default:0;index" json:"total_stock"`

	Location *string `gorm:"type:varchar(255)" json:"location"`
	ImageURL *string `gorm:"type:text" json:"image_url"`
}

func (Product) TableName() string {
	return "products"
}

// ClampStock is the stock rule: max(0, in - out).
func ClampStock(stockIn, stockOut int) int {
	if total := stockIn - stockOut; total > 0 {
		return total
	}
	return 0
}

// RecomputeStock refreshes TotalStock after StockIn or StockOut changed.
func (p *Product) RecomputeStock() {
	if p.StockIn < 0 {
		p.StockIn = 0
	}
	if p.StockOut < 0 {
		p.StockOut = 0
	}
	p.TotalStock = ClampStock(p.StockIn, p.StockOut)
}

// Adjust applies ledger deltas to the counters and recomputes TotalStock.
func (p *Product) Adjust(deltaIn, deltaOut int) {
	p.StockIn += deltaIn
	p.StockOut += deltaOut
	p.RecomputeStock()
}

// StockValue is hpp_per_piece * total_stock.
func (p *Product) StockValue() decimal.Decimal {
	return p.HppPerPiece.Mul(decimal.NewFromInt(int64(p.TotalStock)))
}
