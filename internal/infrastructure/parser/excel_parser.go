package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

const exportSheet = "Products"

// ExportHeader is the first row of every exported workbook.
var ExportHeader = []string{"ID", "Name", "Description", "Price", "Quantity", "Company", "Delivery Partner"}

type excelParser struct {
	logger *slog.Logger
}

// NewExcelParser reads and writes product workbooks.
func NewExcelParser(logger *slog.Logger) repository.ProductSheet {
	if logger == nil {
		logger = slog.Default()
	}
	return &excelParser{logger: logger.With("component", "excel")}
}

// Parse reads product rows from the first sheet. Rows without a name or a
// usable price are skipped.
func (e *excelParser) Parse(ctx context.Context, r io.Reader) ([]repository.ProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	// a numeric second column means the sheet starts with data
	columnMap := defaultColumns()
	startRow := 0
	if len(rows[0]) < 2 || !isNumber(rows[0][1]) {
		columnMap = e.mapColumns(rows[0])
		startRow = 1
	}
	e.logger.Debug("excel_columns_mapped", "sheet", sheets[0], "columns", columnMap, "rows", len(rows)-startRow)

	nameCol, ok := columnMap["name"]
	if !ok {
		return nil, fmt.Errorf("no name column in header %v", rows[0])
	}
	priceCol, ok := columnMap["price"]
	if !ok {
		return nil, fmt.Errorf("no price column in header %v", rows[0])
	}

	var out []repository.ProductRow
	for i := startRow; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		name := cell(row, nameCol)
		if name == "" {
			e.logger.Debug("excel_row_skipped", "row", i+1, "reason", "no name")
			continue
		}
		price, err := parsePrice(cell(row, priceCol))
		if err != nil {
			e.logger.Debug("excel_row_skipped", "row", i+1, "reason", err)
			continue
		}

		fields := entity.ProductFields{
			Name:     entity.Ptr(name),
			Price:    &price,
			Quantity: entity.Ptr(0),
		}
		if idx, ok := columnMap["quantity"]; ok {
			if q, err := strconv.Atoi(strings.ReplaceAll(cell(row, idx), " ", "")); err == nil {
				fields.Quantity = &q
			}
		}
		fields.Description = optional(row, columnMap, "description")
		fields.Company = optional(row, columnMap, "company")
		fields.DeliveryPartner = optional(row, columnMap, "delivery_partner")

		out = append(out, repository.ProductRow{Row: i + 1, Fields: fields})
	}

	e.logger.Info("excel_parsed", "products", len(out))
	return out, nil
}

// Export writes products under ExportHeader on a single sheet.
func (e *excelParser) Export(ctx context.Context, w io.Writer, products []entity.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(exportSheet, 1, 1, style)
	}

	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.ID.String(),
			p.Name,
			p.Description,
			p.Price.InexactFloat64(),
			p.Quantity,
			p.Company,
			p.DeliveryPartner,
		}
		if err := f.SetSheetRow(exportSheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	e.logger.Info("excel_exported", "products", len(products))
	return nil
}

func defaultColumns() map[string]int {
	return map[string]int{"name": 0, "price": 1, "quantity": 2}
}

// mapColumns recognises header aliases. Specific names are checked before
// generic ones, so "Company name" maps to company rather than name.
func (e *excelParser) mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	set := func(key string, i int) {
		if _, taken := columnMap[key]; !taken {
			columnMap[key] = i
		}
	}

	for i, col := range header {
		colName := strings.ToLower(strings.TrimSpace(col))

		switch {
		case colName == "id" || colName == "#":
			set("id", i)
		case contains(colName, "delivery", "partner", "courier", "carrier", "shipping"):
			set("delivery_partner", i)
		case contains(colName, "company", "supplier", "vendor", "manufacturer", "brand"):
			set("company", i)
		case contains(colName, "description", "details", "info", "notes"):
			set("description", i)
		case contains(colName, "price", "cost", "amount", "$", "usd"):
			set("price", i)
		case contains(colName, "quantity", "qty", "stock", "count", "units"):
			set("quantity", i)
		case contains(colName, "name", "product", "item", "title"):
			set("name", i)
		}
	}
	return columnMap
}

func contains(str string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(str, k) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optional(row []string, columnMap map[string]int, key string) *string {
	idx, ok := columnMap[key]
	if !ok {
		return nil
	}
	if v := cell(row, idx); v != "" {
		return &v
	}
	return nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	_, err := parsePrice(s)
	return err == nil
}

// parsePrice accepts thousands separators and a leading or trailing
// currency marker.
func parsePrice(raw string) (decimal.Decimal, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty price")
	}
	for _, junk := range []string{",", " ", "$", "€", "£", "usd", "eur"} {
		s = strings.ReplaceAll(s, junk, "")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price format: %q", raw)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price: %q", raw)
	}
	return price, nil
}
