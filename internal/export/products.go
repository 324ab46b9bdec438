// Package export renders stock-taking sheets.
package export

import (
	"fmt"
	"io"

	"go-inventory-ledger/internal/model"

	"github.com/xuri/excelize/v2"
)

const productSheet = "Stok"

var productHeader = []interface{}{
	"Kode", "Nama", "Nama Produk", "Kategori", "Variasi", "Satuan",
	"HPP / pcs", "Stok Masuk", "Stok Keluar", "Total Stok", "Nilai Stok", "Lokasi",
}

// WriteProducts writes one row per product, header first, as an xlsx workbook.
func WriteProducts(w io.Writer, products []model.Product) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", productSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := file.SetSheetRow(productSheet, "A1", &productHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range products {
		location := ""
		if p.Location != nil {
			location = *p.Location
		}
		hpp, _ := p.HppPerPiece.Float64()
		value, _ := p.StockValue().Float64()
		row := []interface{}{
			p.Code, p.Name, p.ProductName, p.Category, p.Variation, p.Unit,
			hpp, p.StockIn, p.StockOut, p.TotalStock, value, location,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(productSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := file.SetPanes(productSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	_, err := file.WriteTo(w)
	return err
}
