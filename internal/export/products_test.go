package export

import (
	"bytes"
	"testing"

	"go-inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteProducts(t *testing.T) {
	rak := "Rak A1"
	products := []model.Product{
		{Code: "BRG-001", Name: "Kaos", ProductName: "Kaos Polos", Category: "Pakaian", Variation: "M", Unit: "pcs",
			HppPerPiece: decimal.NewFromInt(25000), StockIn: 10, StockOut: 4, TotalStock: 6, Location: &rak},
		{Code: "BRG-002", Name: "Topi", ProductName: "Topi Baseball", Category: "Aksesoris", Variation: "-", Unit: "pcs",
			HppPerPiece: decimal.NewFromInt(15000)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProducts(&buf, products))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(productSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Kode", rows[0][0])
	assert.Equal(t, "BRG-001", rows[1][0])
	assert.Equal(t, "6", rows[1][9])
	assert.Equal(t, "150000", rows[1][10])
	assert.Equal(t, "Rak A1", rows[1][11])
	assert.Equal(t, "0", rows[2][9])
}

func TestWriteProductsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProducts(&buf, nil))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(productSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
