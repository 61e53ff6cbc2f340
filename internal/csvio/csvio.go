// Package csvio imports product lists and exports latest snapshots.
// It uses encoding/csv directly; none of the surrounding stack carries
// a CSV dependency and the format is a plain header-plus-rows table.
package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

type productUpserter interface {
	UpsertProduct(ctx context.Context, p models.ProductTarget) error
}

// ImportProducts reads "jumia_sku,jysk_url,reference_price,click_text,
// row_selector" rows and upserts each product. Returns how many rows
// were imported.
func ImportProducts(ctx context.Context, r io.Reader, store productUpserter) (int, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"jumia_sku", "jysk_url", "reference_price"} {
		if _, ok := col[required]; !ok {
			return 0, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return record[i]
		}
		return ""
	}

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("failed to read csv row: %w", err)
		}

		refPrice, err := strconv.ParseFloat(field(record, "reference_price"), 64)
		if err != nil {
			return imported, fmt.Errorf("invalid reference_price for %s: %w", field(record, "jumia_sku"), err)
		}

		p := models.ProductTarget{
			SKU:            field(record, "jumia_sku"),
			URL:            field(record, "jysk_url"),
			ReferencePrice: refPrice,
			ClickText:      field(record, "click_text"),
			RowSelector:    field(record, "row_selector"),
		}
		if err := store.UpsertProduct(ctx, p); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// ExportSnapshots writes the latest per-store snapshots as CSV.
func ExportSnapshots(w io.Writer, snapshots []models.Snapshot) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"jumia_sku", "jysk_url", "store_name", "current_stock", "status",
		"current_price", "last_checked",
	}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, snap := range snapshots {
		qty := ""
		if snap.Qty != nil {
			qty = strconv.Itoa(*snap.Qty)
		}
		record := []string{
			snap.SKU,
			snap.URL,
			snap.StoreName,
			qty,
			string(snap.Status),
			strconv.FormatFloat(snap.Price, 'f', 2, 64),
			snap.FetchedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
