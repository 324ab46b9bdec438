package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/cache"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	topValueLimit   = 2
	topSellingLimit = 5
	weeklyBuckets   = 8
	monthlyBuckets  = 12
)

type DashboardService interface {
	Summary(ctx context.Context) (*Summary, error)
	TopProductsByValue(ctx context.Context) ([]ProductValue, error)
	TopSelling(ctx context.Context) ([]TopSellingProduct, error)
	RevenueByMonth(ctx context.Context) ([]Bucket, error)
	Chart(ctx context.Context, period string) ([]Bucket, error)
	StockAlert(ctx context.Context, threshold *int) (*StockAlert, error)
	Overview(ctx context.Context) (*Overview, error)
}

type Summary struct {
	TotalProducts      int64           `json:"total_products"`
	LowStockCount      int64           `json:"low_stock_count"`
	LowStockThreshold  int             `json:"low_stock_threshold"`
	TotalGoodsInValue  decimal.Decimal `json:"total_goods_in_value"`
	TotalGoodsOutValue decimal.Decimal `json:"total_goods_out_value"`
}

type ProductValue struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Code        string          `json:"code"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	TotalStock  int             `json:"total_stock"`
	HppPerPiece decimal.Decimal `json:"hpp_per_piece"`
	Value       decimal.Decimal `json:"value"`
	// PercentageProduct is total_stock relative to the number of products.
	PercentageProduct float64 `json:"percentage_product"`
}

// TopSellingProduct carries both the cost recorded at sale time and the
// product's current cost. Current figures are nil when the product is gone.
type TopSellingProduct struct {
	ProductID        uuid.UUID        `json:"product_id"`
	ProductResolved  bool             `json:"product_resolved"`
	ProductName      string           `json:"product_name"`
	Category         string           `json:"category"`
	TotalQty         int64            `json:"total_qty"`
	TotalHppSnapshot decimal.Decimal  `json:"total_hpp_snapshot"`
	CurrentHpp       *decimal.Decimal `json:"current_hpp"`
	TotalHppCurrent  *decimal.Decimal `json:"total_hpp_current"`
	LastSaleDate     time.Time        `json:"last_sale_date"`
}

// Bucket is an inclusive [Start, End] window summing hpp_snapshot * qty_out.
type Bucket struct {
	Label string          `json:"label"`
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Total decimal.Decimal `json:"total"`
}

type StockAlert struct {
	Threshold int            `json:"threshold"`
	Products  []ProductValue `json:"products"`
}

type Overview struct {
	Summary        *Summary            `json:"summary"`
	TopProducts    []ProductValue      `json:"top_products"`
	TopSelling     []TopSellingProduct `json:"top_selling"`
	RevenueByMonth []Bucket            `json:"revenue_by_month"`
}

type dashboardService struct {
	repo      repository.DashboardRepository
	cache     *cache.Cache
	threshold int
	log       *slog.Logger
	now       func() time.Time
}

// NewDashboardService builds the read-only aggregator. c may be nil.
func NewDashboardService(repo repository.DashboardRepository, c *cache.Cache, lowStockThreshold int, logger *slog.Logger) DashboardService {
	return &dashboardService{repo: repo, cache: c, threshold: lowStockThreshold, log: logger, now: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context) (*Summary, error) {
	return cached(ctx, s, func(ctx context.Context) (*Summary, error) {
		var (
			out = &Summary{LowStockThreshold: s.threshold}
			err error
		)
		if out.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
			return nil, err
		}
		if out.LowStockCount, err = s.repo.CountLowStock(ctx, s.threshold); err != nil {
			return nil, err
		}
		if out.TotalGoodsInValue, err = s.repo.SumGoodsInValue(ctx); err != nil {
			return nil, err
		}
		if out.TotalGoodsOutValue, err = s.repo.SumGoodsOutValue(ctx); err != nil {
			return nil, err
		}
		return out, nil
	}, "summary", strconv.Itoa(s.threshold))
}

func (s *dashboardService) TopProductsByValue(ctx context.Context) ([]ProductValue, error) {
	return cached(ctx, s, func(ctx context.Context) ([]ProductValue, error) {
		products, err := s.repo.AllProducts(ctx)
		if err != nil {
			return nil, err
		}
		count := len(products)
		values := make([]ProductValue, 0, count)
		for i := range products {
			pv := productValue(&products[i])
			pv.PercentageProduct = float64(pv.TotalStock) / float64(count) * 100
			values = append(values, pv)
		}
		slices.SortStableFunc(values, func(a, b ProductValue) int {
			return b.Value.Cmp(a.Value)
		})
		if len(values) > topValueLimit {
			values = values[:topValueLimit]
		}
		return values, nil
	}, "top-products")
}

func (s *dashboardService) TopSelling(ctx context.Context) ([]TopSellingProduct, error) {
	return cached(ctx, s, func(ctx context.Context) ([]TopSellingProduct, error) {
		sales, err := s.repo.SalesByProduct(ctx)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(sales, func(a, b repository.SalesAggregate) int {
			if c := cmp.Compare(b.TotalQty, a.TotalQty); c != 0 {
				return c
			}
			return b.LastSaleDate.Compare(a.LastSaleDate)
		})
		if len(sales) > topSellingLimit {
			sales = sales[:topSellingLimit]
		}

		ids := make([]uuid.UUID, 0, len(sales))
		for _, sale := range sales {
			ids = append(ids, sale.ProductID)
		}
		products, err := s.repo.ProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]int, len(products))
		for i := range products {
			byID[products[i].ID] = i
		}

		out := make([]TopSellingProduct, 0, len(sales))
		for _, sale := range sales {
			item := TopSellingProduct{
				ProductID:        sale.ProductID,
				ProductName:      sale.ProductNameSnapshot,
				TotalQty:         sale.TotalQty,
				TotalHppSnapshot: sale.TotalHpp,
				LastSaleDate:     sale.LastSaleDate,
			}
			if idx, ok := byID[sale.ProductID]; ok {
				p := products[idx]
				current := p.HppPerPiece
				total := current.Mul(decimal.NewFromInt(sale.TotalQty))
				item.ProductResolved = true
				item.ProductName = p.ProductName
				item.Category = p.Category
				item.CurrentHpp = &current
				item.TotalHppCurrent = &total
			}
			out = append(out, item)
		}
		return out, nil
	}, "top-selling")
}

func (s *dashboardService) RevenueByMonth(ctx context.Context) ([]Bucket, error) {
	now := s.now()
	return cached(ctx, s, func(ctx context.Context) ([]Bucket, error) {
		return s.fill(ctx, calendarMonths(now))
	}, "revenue-by-month", strconv.Itoa(now.Year()))
}

func (s *dashboardService) Chart(ctx context.Context, period string) ([]Bucket, error) {
	now := s.now()
	var buckets []Bucket
	switch period {
	case "monthly":
		buckets = trailingMonths(now, monthlyBuckets)
	case "weekly":
		buckets = trailingWeeks(now, weeklyBuckets)
	default:
		return nil, apperr.Validation("period must be 'monthly' or 'weekly'", nil)
	}
	return cached(ctx, s, func(ctx context.Context) ([]Bucket, error) {
		return s.fill(ctx, buckets)
	}, "chart", period, now.Format("2006-01-02"))
}

func (s *dashboardService) StockAlert(ctx context.Context, threshold *int) (*StockAlert, error) {
	limit := s.threshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, apperr.Validation("threshold must not be negative", nil)
		}
		limit = *threshold
	}
	return cached(ctx, s, func(ctx context.Context) (*StockAlert, error) {
		products, err := s.repo.LowStockProducts(ctx, limit)
		if err != nil {
			return nil, err
		}
		out := &StockAlert{Threshold: limit, Products: make([]ProductValue, 0, len(products))}
		for i := range products {
			out.Products = append(out.Products, productValue(&products[i]))
		}
		return out, nil
	}, "stock-alert", strconv.Itoa(limit))
}

func (s *dashboardService) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Summary, err = s.Summary(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TopProducts, err = s.TopProductsByValue(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TopSelling, err = s.TopSelling(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.RevenueByMonth, err = s.RevenueByMonth(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// fill sums goods-out values into buckets, which must be sorted and disjoint.
func (s *dashboardService) fill(ctx context.Context, buckets []Bucket) ([]Bucket, error) {
	if len(buckets) == 0 {
		return buckets, nil
	}
	rows, err := s.repo.GoodsOutValues(ctx, buckets[0].Start, buckets[len(buckets)-1].End)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		for i := range buckets {
			if !row.Date.Before(buckets[i].Start) && !row.Date.After(buckets[i].End) {
				buckets[i].Total = buckets[i].Total.Add(row.Value)
				break
			}
		}
	}
	return buckets, nil
}

// cached serves load through the dashboard cache. When Redis itself fails
// the read falls back to load so the dashboard stays available.
func cached[T any](ctx context.Context, s *dashboardService, load func(context.Context) (T, error), parts ...string) (T, error) {
	var (
		out     T
		loaded  T
		didLoad bool
		loadErr error
	)
	loader := func(ctx context.Context) (interface{}, error) {
		v, err := load(ctx)
		if err != nil {
			loadErr = err
			return nil, err
		}
		loaded, didLoad = v, true
		return v, nil
	}

	key, err := s.cache.BuildKey(ctx, parts...)
	if err == nil {
		if err = s.cache.FetchJSON(ctx, key, &out, loader); err == nil {
			return out, nil
		}
		if loadErr != nil {
			return out, storeErr(loadErr, "dashboard data")
		}
		if didLoad {
			// only the cache write failed
			s.log.Warn("dashboard cache write failed", "key", parts, "error", err)
			return loaded, nil
		}
	}

	s.log.Warn("dashboard cache unavailable, reading through", "key", parts, "error", err)
	v, err := load(ctx)
	if err != nil {
		return out, storeErr(err, "dashboard data")
	}
	return v, nil
}

func productValue(p *model.Product) ProductValue {
	return ProductValue{
		ProductID:   p.ID,
		Code:        p.Code,
		ProductName: p.ProductName,
		Category:    p.Category,
		TotalStock:  p.TotalStock,
		HppPerPiece: p.HppPerPiece,
		Value:       p.StockValue(),
	}
}
