package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/domain/repository"
)

// ustun sarlavhalaridagi kalit so'zlar (arabcha jadval: "الاسم (name)", "السعر (price)", "الذاكره (Rom)")
var (
	nameHeaders     = []string{"name", "الاسم", "model", "device"}
	priceHeaders    = []string{"price", "السعر"}
	capacityHeaders = []string{"rom", "الذاكره", "الذاكرة", "storage", "capacity", "memory"}
)

type sheetPriceSource struct {
	path  string
	sheet string
}

// NewPriceSource xlsx yoki csv (kengaytma bo'yicha) narx jadvali manbasi.
// sheet bo'sh bo'lsa birinchi varaq olinadi.
func NewPriceSource(path, sheet string) repository.PriceSource {
	return &sheetPriceSource{path: path, sheet: strings.TrimSpace(sheet)}
}

func (s *sheetPriceSource) LoadPrices(ctx context.Context) ([]entity.PriceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(s.path), ".csv") {
		rows, err = readCSVRows(s.path)
	} else {
		rows, err = s.readSheetRows()
	}
	if err != nil {
		return nil, err
	}
	return parsePriceRows(s.path, rows)
}

func (s *sheetPriceSource) readSheetRows() ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &entity.SourceFormatError{Source: s.path, Reason: fmt.Sprintf("sheet %q not found", sheet), Err: err}
	}
	if sheet == "" {
		return nil, &entity.SourceFormatError{Source: s.path, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows %s/%s: %w", s.path, sheet, err)
	}
	return rows, nil
}

// readCSVRows loads a CSV file from disk into [][]string while preserving empty fields.
func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable columns per row
	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &entity.SourceFormatError{Source: path, Reason: "invalid csv", Err: err}
		}
		rows = append(rows, record)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

type priceColumns struct {
	name, price, capacity int
}

// parsePriceRows birinchi to'liq sarlavha qatorini topadi, keyin yaroqli qatorlarni yig'adi.
// Nomi, narxi yoki xotirasi bo'sh qatorlar tashlab ketiladi.
func parsePriceRows(source string, rows [][]string) ([]entity.PriceRow, error) {
	header := -1
	var cols priceColumns
	for i, row := range rows {
		if c, ok := detectColumns(row); ok {
			header, cols = i, c
			break
		}
	}
	if header < 0 {
		return nil, &entity.SourceFormatError{Source: source, Reason: "missing name/price/rom columns"}
	}

	out := make([]entity.PriceRow, 0, len(rows)-header-1)
	for _, row := range rows[header+1:] {
		r := entity.PriceRow{
			Name:     cell(row, cols.name),
			Price:    cell(row, cols.price),
			Capacity: cell(row, cols.capacity),
		}
		if r.Name == "" || r.Price == "" || r.Capacity == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func detectColumns(row []string) (priceColumns, bool) {
	cols := priceColumns{name: -1, price: -1, capacity: -1}
	for i, raw := range row {
		tokens := headerTokens(raw)
		switch {
		case cols.name < 0 && hasAny(tokens, nameHeaders):
			cols.name = i
		case cols.price < 0 && hasAny(tokens, priceHeaders):
			cols.price = i
		case cols.capacity < 0 && hasAny(tokens, capacityHeaders):
			cols.capacity = i
		}
	}
	return cols, cols.name >= 0 && cols.price >= 0 && cols.capacity >= 0
}

func headerTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasAny(tokens, keys []string) bool {
	for _, t := range tokens {
		for _, k := range keys {
			if t == k {
				return true
			}
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
