package repository

import (
	"context"
	"io"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

// ProductRow is one parsed spreadsheet row.
type ProductRow struct {
	Row    int // 1-based sheet row
	Fields entity.ProductFields
}

// ProductSheet reads and writes product spreadsheets
type ProductSheet interface {
	// Parse reads rows from the first sheet
	Parse(ctx context.Context, r io.Reader) ([]ProductRow, error)

	// Export writes products as a single-sheet workbook
	Export(ctx context.Context, w io.Writer, products []entity.Product) error
}
