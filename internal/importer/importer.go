// Package importer loads medicines and categories from CSV or XLSX exports.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"medistore/internal/domain"
)

// Kind identifies which catalog file is being imported.
type Kind string

const (
	KindMedicines  Kind = "medicines"
	KindCategories Kind = "categories"
)

type MedicineWriter interface {
	Upsert(ctx context.Context, sku string, m domain.Medicine) (*domain.Medicine, error)
}

type CategoryWriter interface {
	UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// recordReader is satisfied by *csv.Reader and by sheet rows.
type recordReader interface {
	Read() ([]string, error)
}

// Importer upserts rows from a catalog file. Medicine rows also create the
// categories they reference.
type Importer struct {
	reader     recordReader
	medicines  MedicineWriter
	categories CategoryWriter
	seen       map[string]bool
}

// NewCSVImporter reads a comma separated file with a header row.
func NewCSVImporter(r io.Reader, medicines MedicineWriter, categories CategoryWriter) *Importer {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return newImporter(csvr, medicines, categories)
}

// NewXLSXImporter reads the first sheet of a workbook. Rows follow the same
// header rules as CSV files.
func NewXLSXImporter(r io.ReaderAt, size int64, medicines MedicineWriter, categories CategoryWriter) (*Importer, error) {
	book, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if len(book.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return newImporter(newSheetReader(book.Sheets[0]), medicines, categories), nil
}

func newImporter(r recordReader, medicines MedicineWriter, categories CategoryWriter) *Importer {
	return &Importer{reader: r, medicines: medicines, categories: categories, seen: map[string]bool{}}
}

type medicineRow struct {
	SKU  string
	Line int
	Med  domain.Medicine
}

// Run imports every row and returns the number of medicines or categories
// written. A bad row stops the import with its line number.
func (i *Importer) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	kind := kindOf(index)
	if kind == KindMedicines && i.medicines == nil {
		return 0, errors.New("medicine file given but no medicine writer configured")
	}
	if i.categories == nil {
		return 0, errors.New("category writer not configured")
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		switch kind {
		case KindCategories:
			c := parseCategory(record, index)
			if c.Slug == "" {
				return imported, fmt.Errorf("row %d: category slug or name required", line)
			}
			if _, err := i.categories.UpsertCategory(ctx, c); err != nil {
				return imported, fmt.Errorf("row %d: upsert category %q: %w", line, c.Slug, err)
			}
			i.seen[c.Slug] = true
		default:
			row, err := parseMedicine(record, index, line)
			if err != nil {
				return imported, err
			}
			if err := i.save(ctx, row); err != nil {
				return imported, err
			}
		}
		imported++
	}
	return imported, nil
}

func (i *Importer) save(ctx context.Context, row *medicineRow) error {
	if slug := row.Med.CategorySlug; slug != "" && !i.seen[slug] {
		if _, err := i.categories.UpsertCategory(ctx, domain.Category{Slug: slug, Name: titleFromSlug(slug)}); err != nil {
			return fmt.Errorf("row %d: upsert category %q: %w", row.Line, slug, err)
		}
		i.seen[slug] = true
	}
	if _, err := i.medicines.Upsert(ctx, row.SKU, row.Med); err != nil {
		return fmt.Errorf("row %d: upsert medicine %q: %w", row.Line, row.SKU, err)
	}
	return nil
}

// DetectKind peeks at the header row of a CSV file.
func DetectKind(r io.Reader) (Kind, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	headers, err := csvr.Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	return kindOf(headerIndex(headers)), nil
}

func kindOf(index map[string]int) Kind {
	if _, ok := index["sku"]; ok {
		return KindMedicines
	}
	if _, ok := index["price"]; ok {
		return KindMedicines
	}
	return KindCategories
}

func parseMedicine(record []string, index map[string]int, line int) (*medicineRow, error) {
	sku := pick(record, index, "sku")
	name := pick(record, index, "name")
	if sku == "" || name == "" {
		return nil, fmt.Errorf("row %d: sku and name are required", line)
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("row %d: invalid price %q", line, pick(record, index, "price"))
	}
	discount, err := intOr(pick(record, index, "discount_percent"), 0)
	if err != nil || discount < 0 || discount >= 100 {
		return nil, fmt.Errorf("row %d: invalid discount_percent", line)
	}
	stock, err := intOr(pick(record, index, "stock_quantity"), 0)
	if err != nil || stock < 0 {
		return nil, fmt.Errorf("row %d: invalid stock_quantity", line)
	}

	return &medicineRow{
		SKU:  sku,
		Line: line,
		Med: domain.Medicine{
			Name:                 name,
			Brand:                pick(record, index, "brand"),
			GenericName:          pick(record, index, "generic_name"),
			CategorySlug:         slugify(pick(record, index, "category")),
			Description:          pick(record, index, "description"),
			PriceCents:           price.Shift(2).Round(0).IntPart(),
			DiscountPercent:      discount,
			ImageURL:             pick(record, index, "image_url"),
			RequiresPrescription: boolOr(pick(record, index, "requires_prescription"), false),
			IsActive:             boolOr(pick(record, index, "is_active"), true),
			StockQuantity:        stock,
		},
	}, nil
}

func parseCategory(record []string, index map[string]int) domain.Category {
	name := pick(record, index, "name")
	slug := slugify(pick(record, index, "slug"))
	if slug == "" {
		slug = slugify(name)
	}
	if name == "" {
		name = titleFromSlug(slug)
	}
	return domain.Category{Name: name, Slug: slug}
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func intOr(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func boolOr(s string, def bool) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	case "false", "no", "n", "0":
		return false
	}
	return def
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func titleFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

type sheetReader struct {
	sheet *xlsx.Sheet
	next  int
}

func newSheetReader(sheet *xlsx.Sheet) *sheetReader {
	return &sheetReader{sheet: sheet}
}

func (s *sheetReader) Read() ([]string, error) {
	if s.next >= len(s.sheet.Rows) {
		return nil, io.EOF
	}
	row := s.sheet.Rows[s.next]
	s.next++
	if row == nil {
		return []string{}, nil
	}
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = cell.String()
	}
	return out, nil
}
