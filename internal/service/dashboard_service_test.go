package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/cache"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDashboardRepo answers aggregate queries from in-memory fixtures.
type stubDashboardRepo struct {
	products []model.Product
	goodsIn  []model.GoodsIn
	goodsOut []model.GoodsOut
	calls    atomic.Int64
	err      error
}

func (r *stubDashboardRepo) CountProducts(context.Context) (int64, error) {
	r.calls.Add(1)
	return int64(len(r.products)), r.err
}

func (r *stubDashboardRepo) CountLowStock(_ context.Context, threshold int) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.TotalStock <= threshold {
			n++
		}
	}
	return n, r.err
}

func (r *stubDashboardRepo) SumGoodsInValue(context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range r.goodsIn {
		total = total.Add(r.goodsIn[i].Value())
	}
	return total, r.err
}

func (r *stubDashboardRepo) SumGoodsOutValue(context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, g := range r.goodsOut {
		total = total.Add(g.HppSnapshot.Mul(decimal.NewFromInt(int64(g.QtyOut))))
	}
	return total, r.err
}

func (r *stubDashboardRepo) AllProducts(context.Context) ([]model.Product, error) {
	r.calls.Add(1)
	return r.products, r.err
}

func (r *stubDashboardRepo) LowStockProducts(_ context.Context, threshold int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.TotalStock <= threshold {
			out = append(out, p)
		}
	}
	return out, r.err
}

func (r *stubDashboardRepo) ProductsByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, r.err
}

func (r *stubDashboardRepo) SalesByProduct(context.Context) ([]repository.SalesAggregate, error) {
	byID := map[uuid.UUID]*repository.SalesAggregate{}
	var order []uuid.UUID
	for _, g := range r.goodsOut {
		agg, ok := byID[g.ProductID]
		if !ok {
			agg = &repository.SalesAggregate{ProductID: g.ProductID, ProductNameSnapshot: g.ProductNameSnapshot}
			byID[g.ProductID] = agg
			order = append(order, g.ProductID)
		}
		agg.TotalQty += int64(g.QtyOut)
		agg.TotalHpp = agg.TotalHpp.Add(g.HppSnapshot.Mul(decimal.NewFromInt(int64(g.QtyOut))))
		if g.Date.After(agg.LastSaleDate) {
			agg.LastSaleDate = g.Date
		}
	}
	out := make([]repository.SalesAggregate, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, r.err
}

func (r *stubDashboardRepo) GoodsOutValues(_ context.Context, from, to time.Time) ([]repository.DatedValue, error) {
	var out []repository.DatedValue
	for _, g := range r.goodsOut {
		if g.Date.Before(from) || g.Date.After(to) {
			continue
		}
		out = append(out, repository.DatedValue{Date: g.Date, Value: g.HppSnapshot.Mul(decimal.NewFromInt(int64(g.QtyOut)))})
	}
	return out, r.err
}

var dashboardNow = time.Date(2026, time.October, 17, 15, 30, 0, 0, time.UTC)

func newDashboard(repo repository.DashboardRepository, c *cache.Cache) *dashboardService {
	svc := NewDashboardService(repo, c, 10, discardLogger()).(*dashboardService)
	svc.now = func() time.Time { return dashboardNow }
	return svc
}

func sale(productID uuid.UUID, name string, qty int, cost int64, date time.Time) model.GoodsOut {
	return model.GoodsOut{
		ProductID: productID, ProductNameSnapshot: name, QtyOut: qty,
		HppSnapshot: decimal.NewFromInt(cost), Date: date,
	}
}

func TestDashboardSummary(t *testing.T) {
	repo := &stubDashboardRepo{
		products: []model.Product{
			{TotalStock: 0}, {TotalStock: 10}, {TotalStock: 11}, {TotalStock: 3}, {TotalStock: 200},
		},
		goodsIn: []model.GoodsIn{
			{Hpp: decimal.NewFromInt(1000), QtyIn: 5},
			{Hpp: decimal.NewFromInt(250), QtyIn: 4},
		},
		goodsOut: []model.GoodsOut{
			sale(uuid.New(), "x", 3, 1000, dashboardNow),
		},
	}
	summary, err := newDashboard(repo, nil).Summary(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 5, summary.TotalProducts)
	assert.EqualValues(t, 3, summary.LowStockCount)
	assert.Equal(t, "6000", summary.TotalGoodsInValue.String())
	assert.Equal(t, "3000", summary.TotalGoodsOutValue.String())
}

func TestDashboardTopProductsByValue(t *testing.T) {
	repo := &stubDashboardRepo{products: []model.Product{
		{Code: "A", HppPerPiece: decimal.NewFromInt(100), TotalStock: 10},
		{Code: "B", HppPerPiece: decimal.NewFromInt(1000), TotalStock: 4},
		{Code: "C", HppPerPiece: decimal.NewFromInt(10), TotalStock: 50},
		{Code: "D", HppPerPiece: decimal.NewFromInt(5), TotalStock: 2},
	}}
	top, err := newDashboard(repo, nil).TopProductsByValue(context.Background())
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Code)
	assert.Equal(t, "4000", top[0].Value.String())
	assert.InDelta(t, 100.0, top[0].PercentageProduct, 0.0001) // 4 of 4 products
	assert.Equal(t, "A", top[1].Code)
	assert.InDelta(t, 250.0, top[1].PercentageProduct, 0.0001)
}

func TestDashboardTopSellingExposesBothCosts(t *testing.T) {
	kept := model.Product{ProductName: "Kaos", Category: "Pakaian", HppPerPiece: decimal.NewFromInt(150)}
	kept.ID = uuid.New()
	gone := uuid.New()

	repo := &stubDashboardRepo{
		products: []model.Product{kept},
		goodsOut: []model.GoodsOut{
			sale(kept.ID, "Kaos lama", 4, 100, dashboardNow.AddDate(0, 0, -3)),
			sale(gone, "Topi", 9, 50, dashboardNow.AddDate(0, 0, -2)),
			sale(kept.ID, "Kaos lama", 2, 120, dashboardNow.AddDate(0, 0, -1)),
		},
	}
	top, err := newDashboard(repo, nil).TopSelling(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, gone, top[0].ProductID)
	assert.False(t, top[0].ProductResolved)
	assert.Equal(t, "Topi", top[0].ProductName)
	assert.Nil(t, top[0].TotalHppCurrent)

	assert.True(t, top[1].ProductResolved)
	assert.Equal(t, "Kaos", top[1].ProductName)
	assert.EqualValues(t, 6, top[1].TotalQty)
	assert.Equal(t, "640", top[1].TotalHppSnapshot.String())
	require.NotNil(t, top[1].TotalHppCurrent)
	assert.Equal(t, "900", top[1].TotalHppCurrent.String())
	assert.True(t, top[1].LastSaleDate.Equal(dashboardNow.AddDate(0, 0, -1)))
}

func TestDashboardTopSellingLimit(t *testing.T) {
	repo := &stubDashboardRepo{}
	for i := 1; i <= 7; i++ {
		repo.goodsOut = append(repo.goodsOut, sale(uuid.New(), "p", i, 1, dashboardNow))
	}
	top, err := newDashboard(repo, nil).TopSelling(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.EqualValues(t, 7, top[0].TotalQty)
	assert.EqualValues(t, 3, top[4].TotalQty)
}

func TestDashboardRevenueByMonth(t *testing.T) {
	id := uuid.New()
	repo := &stubDashboardRepo{goodsOut: []model.GoodsOut{
		sale(id, "p", 1, 100, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)),
		sale(id, "p", 2, 100, time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC)),
		sale(id, "p", 1, 700, time.Date(2026, time.October, 5, 8, 0, 0, 0, time.UTC)),
		sale(id, "p", 1, 999, time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)),
	}}
	months, err := newDashboard(repo, nil).RevenueByMonth(context.Background())
	require.NoError(t, err)

	require.Len(t, months, 12)
	assert.Equal(t, "2026-01", months[0].Label)
	assert.Equal(t, "300", months[0].Total.String())
	assert.Equal(t, "700", months[9].Total.String())
	assert.True(t, months[11].Total.IsZero())
}

func TestDashboardChart(t *testing.T) {
	id := uuid.New()
	repo := &stubDashboardRepo{goodsOut: []model.GoodsOut{
		sale(id, "p", 1, 10, dashboardNow),
		sale(id, "p", 1, 20, dashboardNow.AddDate(0, 0, -7)),
		sale(id, "p", 1, 40, dashboardNow.AddDate(0, -11, -20)),
	}}
	svc := newDashboard(repo, nil)

	weekly, err := svc.Chart(context.Background(), "weekly")
	require.NoError(t, err)
	require.Len(t, weekly, 8)
	assert.Equal(t, "10", weekly[7].Total.String())
	assert.Equal(t, "20", weekly[6].Total.String())
	assert.True(t, weekly[0].Start.Before(weekly[7].Start))

	monthly, err := svc.Chart(context.Background(), "monthly")
	require.NoError(t, err)
	require.Len(t, monthly, 12)
	assert.Equal(t, "30", monthly[11].Total.String())
	assert.Equal(t, "40", monthly[0].Total.String())

	_, err = svc.Chart(context.Background(), "yearly")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDashboardStockAlert(t *testing.T) {
	repo := &stubDashboardRepo{products: []model.Product{
		{Code: "A", TotalStock: 2}, {Code: "B", TotalStock: 25}, {Code: "C", TotalStock: 10},
	}}
	svc := newDashboard(repo, nil)

	alert, err := svc.StockAlert(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, alert.Threshold)
	assert.Len(t, alert.Products, 2)

	alert, err = svc.StockAlert(context.Background(), ptr(30))
	require.NoError(t, err)
	assert.Len(t, alert.Products, 3)

	_, err = svc.StockAlert(context.Background(), ptr(-1))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDashboardOverview(t *testing.T) {
	repo := &stubDashboardRepo{products: []model.Product{{Code: "A", TotalStock: 1}}}
	overview, err := newDashboard(repo, nil).Overview(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, overview.Summary.TotalProducts)
	assert.Len(t, overview.TopProducts, 1)
	assert.Len(t, overview.RevenueByMonth, 12)
	assert.Empty(t, overview.TopSelling)
}

func TestDashboardRepositoryErrorIsInternal(t *testing.T) {
	repo := &stubDashboardRepo{err: errors.New("connection refused")}
	_, err := newDashboard(repo, nil).Overview(context.Background())
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestDashboardUsesCacheUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.New(client, time.Minute)

	repo := &stubDashboardRepo{products: []model.Product{{Code: "A", TotalStock: 1}}}
	svc := newDashboard(repo, c)
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	second, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, repo.calls.Load())

	require.NoError(t, c.Bump(ctx))
	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, repo.calls.Load())
}

func TestDashboardFallsBackWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	repo := &stubDashboardRepo{products: []model.Product{{Code: "A", TotalStock: 1}}}
	summary, err := newDashboard(repo, cache.New(client, time.Minute)).Summary(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.TotalProducts)
}

// failWrites rejects SET so cached values can be read but never stored.
type failWrites struct{}

func (failWrites) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failWrites) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "set" {
			err := errors.New("READONLY You can't write against a read only replica")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (failWrites) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestDashboardCacheWriteFailureLoadsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	client.AddHook(failWrites{})

	repo := &stubDashboardRepo{products: []model.Product{{Code: "A", TotalStock: 1}, {Code: "B", TotalStock: 40}}}
	summary, err := newDashboard(repo, cache.New(client, time.Minute)).Summary(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.TotalProducts)
	assert.EqualValues(t, 1, summary.LowStockCount)
	assert.EqualValues(t, 1, repo.calls.Load())
}
