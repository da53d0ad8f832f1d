package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// RawRecord is one source row before unification. Every numeric value may
// be missing.
type RawRecord struct {
	Date             time.Time
	ProductName      string
	PriceAmazon      *float64
	PriceFlipkart    *float64
	PriceJiomart     *float64
	DiscountAmazon   *float64
	DiscountFlipkart *float64
	DiscountJiomart  *float64
}

// RawTable is the content of one product source. Columns lists the
// recognized headers that were present, using their canonical names.
type RawTable struct {
	Name    string
	Columns []string
	Records []RawRecord
	Skipped int
}

// HasColumn reports whether the source carried the named column
func (t RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// knownColumns maps normalized header text to canonical column names
var knownColumns = func() map[string]string {
	m := map[string]string{
		normalizeHeader(domain.ColumnDate):        domain.ColumnDate,
		normalizeHeader(domain.ColumnProductName): domain.ColumnProductName,
	}
	for _, f := range domain.Fields() {
		m[normalizeHeader(string(f))] = string(f)
	}
	return m
}()

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// tableFromRows converts a header row plus data rows into a RawTable.
// Leading blank rows are ignored; the first non-blank row is the header.
// Rows without a date are counted in Skipped.
func tableFromRows(name string, rows [][]string) (RawTable, error) {
	table := RawTable{Name: name}

	header := -1
	for i, row := range rows {
		if !blankRow(row) {
			header = i
			break
		}
	}
	if header == -1 {
		return table, nil
	}

	columnMap := make(map[string]int)
	for j, cell := range rows[header] {
		canonical, ok := knownColumns[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, dup := columnMap[canonical]; dup {
			continue
		}
		columnMap[canonical] = j
		table.Columns = append(table.Columns, canonical)
	}

	get := func(row []string, column string) string {
		j, ok := columnMap[column]
		if !ok || j >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[j])
	}

	for i := header + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}

		rowNum := i + 1
		dateCell := get(row, domain.ColumnDate)
		if dateCell == "" {
			table.Skipped++
			continue
		}

		date, err := parseDate(dateCell)
		if err != nil {
			return table, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid date %q", name, rowNum, dateCell), err).
				With("source", name).
				With("row", rowNum)
		}

		rec := RawRecord{
			Date:        date,
			ProductName: get(row, domain.ColumnProductName),
		}

		targets := map[domain.Field]**float64{
			domain.FieldPriceAmazon:      &rec.PriceAmazon,
			domain.FieldPriceFlipkart:    &rec.PriceFlipkart,
			domain.FieldPriceJiomart:     &rec.PriceJiomart,
			domain.FieldDiscountAmazon:   &rec.DiscountAmazon,
			domain.FieldDiscountFlipkart: &rec.DiscountFlipkart,
			domain.FieldDiscountJiomart:  &rec.DiscountJiomart,
		}
		for _, field := range domain.Fields() {
			raw := get(row, string(field))
			v, err := parseNumber(raw)
			if err != nil {
				return table, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid %s %q", name, rowNum, field, raw), err).
					With("source", name).
					With("row", rowNum).
					With("column", string(field))
			}
			*targets[field] = v
		}

		table.Records = append(table.Records, rec)
	}

	return table, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// parseDate accepts Excel serial numbers as well as common text layouts.
// Day-first layouts are tried before month-first ones.
func parseDate(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return truncateDay(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var numberReplacer = strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "", "%", "", " ", "")

// parseNumber returns nil for blank cells and the usual missing markers.
// Prices and discounts are never negative.
func parseNumber(s string) (*float64, error) {
	s = numberReplacer.Replace(strings.TrimSpace(s))
	switch strings.ToLower(s) {
	case "", "-", "na", "n/a", "nan", "null", "none":
		return nil, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	if v < 0 {
		return nil, fmt.Errorf("negative value %v", v)
	}
	return &v, nil
}
