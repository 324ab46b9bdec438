package service

import (
	"context"
	"sync"
	"testing"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type goodsInFixture struct {
	products *memoryProducts
	ledger   *memoryGoodsIn
	notifier *recordingNotifier
	svc      GoodsInService
}

func newGoodsInFixture() *goodsInFixture {
	f := &goodsInFixture{
		products: newMemoryProducts(),
		ledger:   newMemoryGoodsIn(),
		notifier: &recordingNotifier{},
	}
	f.svc = NewGoodsInService(f.ledger, f.products, f.notifier, discardLogger())
	return f
}

func goodsInRequest(productID uuid.UUID, qty int) *CreateGoodsInRequest {
	return &CreateGoodsInRequest{
		NoteTypeID:        uuid.NewString(),
		SupplierID:        uuid.NewString(),
		NoteNumber:        "PO-001",
		ProductID:         productID.String(),
		QtyIn:             qty,
		Unit:              "pcs",
		StorageLocationID: uuid.NewString(),
		Hpp:               hpp(1000),
	}
}

func TestGoodsInCreateAndDeleteMoveStockIn(t *testing.T) {
	f := newGoodsInFixture()
	ctx := context.Background()
	productID := f.products.put(model.Product{Code: "A1"})

	entry, err := f.svc.Create(ctx, goodsInRequest(productID, 5), testActor)
	require.NoError(t, err)
	assert.Equal(t, testActor.ID, entry.EnteredBy.ID)
	assert.Equal(t, "5000", entry.TotalValue.String())

	p := f.products.get(productID)
	assert.Equal(t, 5, p.StockIn)
	assert.Equal(t, 5, p.TotalStock)

	require.NoError(t, f.svc.Delete(ctx, entry.ID, testActor))
	p = f.products.get(productID)
	assert.Equal(t, 0, p.StockIn)
	assert.Equal(t, 0, p.TotalStock)

	assert.Equal(t, []string{"goods_in_created", "goods_in_deleted"}, f.notifier.actions())
}

func TestGoodsInUpdateAppliesDelta(t *testing.T) {
	f := newGoodsInFixture()
	ctx := context.Background()
	first := f.products.put(model.Product{Code: "A1"})
	second := f.products.put(model.Product{Code: "B2"})

	entry, err := f.svc.Create(ctx, goodsInRequest(first, 5), testActor)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, entry.ID, &UpdateGoodsInRequest{QtyIn: ptr(8)}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 8, f.products.get(first).StockIn)

	_, err = f.svc.Update(ctx, entry.ID, &UpdateGoodsInRequest{ProductID: ptr(second.String()), QtyIn: ptr(2)}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, f.products.get(first).StockIn)
	assert.Equal(t, 2, f.products.get(second).StockIn)
	assert.Equal(t, 2, f.products.get(second).TotalStock)
}

func TestGoodsInMissingProductIsBestEffort(t *testing.T) {
	f := newGoodsInFixture()

	entry, err := f.svc.Create(context.Background(), goodsInRequest(uuid.New(), 3), testActor)
	require.NoError(t, err)
	assert.False(t, entry.Product.Resolved)

	_, err = f.ledger.FindByID(context.Background(), entry.ID)
	assert.NoError(t, err)
}

func TestGoodsInValidation(t *testing.T) {
	f := newGoodsInFixture()
	ctx := context.Background()

	req := goodsInRequest(uuid.New(), 0)
	_, err := f.svc.Create(ctx, req, testActor)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	req = goodsInRequest(uuid.New(), 1)
	req.SupplierID = "not-a-uuid"
	_, err = f.svc.Create(ctx, req, testActor)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	req = goodsInRequest(uuid.New(), 1)
	req.Date = ptr("17/10/2026")
	_, err = f.svc.Create(ctx, req, testActor)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGoodsInDateParsing(t *testing.T) {
	f := newGoodsInFixture()
	req := goodsInRequest(uuid.New(), 1)
	req.Date = ptr("2026-03-14")

	entry, err := f.svc.Create(context.Background(), req, testActor)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", entry.Date.Format("2006-01-02"))
}

func TestGoodsInConcurrentCreatesDoNotLoseIncrements(t *testing.T) {
	f := newGoodsInFixture()
	productID := f.products.put(model.Product{Code: "A1"})

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), goodsInRequest(productID, 1), testActor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p := f.products.get(productID)
	assert.Equal(t, workers, p.StockIn)
	assert.Equal(t, workers, p.TotalStock)
}
