package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tealeg/xlsx"

	"medistore/internal/domain"
)

type stubMedicineRepo struct {
	skus  []string
	items []domain.Medicine
}

type stubCategoryRepo struct {
	items []domain.Category
}

func (s *stubMedicineRepo) Upsert(_ context.Context, sku string, m domain.Medicine) (*domain.Medicine, error) {
	s.skus = append(s.skus, sku)
	s.items = append(s.items, m)
	return &m, nil
}

func (s *stubCategoryRepo) UpsertCategory(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_RunMedicines(t *testing.T) {
	csvData := `sku,name,brand,generic_name,category,price,discount_percent,stock_quantity,requires_prescription,is_active,image_url
MED-001,Dolo 650,Micro Labs,Paracetamol,Pain Relief,30.50,10,120,no,,https://example.com/dolo.jpg
MED-002,Azithral 500,Alembic,Azithromycin,Antibiotics,119.99,,40,yes,true,
,,,,,,,,,,
MED-003,Old Syrup,Gone,Paracetamol,pain-relief,5,,0,,false,`

	meds := &stubMedicineRepo{}
	cats := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), meds, cats)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 medicines imported, got %d", count)
	}
	first := meds.items[0]
	if meds.skus[0] != "MED-001" || first.PriceCents != 3050 || first.DiscountPercent != 10 || first.StockQuantity != 120 {
		t.Fatalf("unexpected first medicine %+v", first)
	}
	if first.CategorySlug != "pain-relief" || first.RequiresPrescription || !first.IsActive {
		t.Fatalf("unexpected first medicine flags %+v", first)
	}
	if meds.items[1].PriceCents != 11999 || !meds.items[1].RequiresPrescription {
		t.Fatalf("unexpected second medicine %+v", meds.items[1])
	}
	if meds.items[2].IsActive {
		t.Fatalf("expected third medicine inactive")
	}
	if len(cats.items) != 2 { // pain-relief once, antibiotics
		t.Fatalf("expected 2 category upserts, got %+v", cats.items)
	}
	if cats.items[0].Name != "Pain Relief" || cats.items[1].Slug != "antibiotics" {
		t.Fatalf("unexpected categories %+v", cats.items)
	}
}

func TestCSVImporter_RejectsBadRow(t *testing.T) {
	csvData := `sku,name,price
MED-001,Dolo 650,30
MED-002,Broken,abc`

	meds := &stubMedicineRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), meds, &stubCategoryRepo{})

	count, err := imp.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("expected row 3 error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row imported before failure, got %d", count)
	}
}

func TestCSVImporter_RunCategoriesFile(t *testing.T) {
	csvData := `name,slug
Pain Relief,
,vitamins-supplements
Diabetes Care,diabetes`

	cats := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), nil, cats)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 categories imported, got %d", count)
	}
	if cats.items[0].Slug != "pain-relief" {
		t.Fatalf("expected slug from name, got %+v", cats.items[0])
	}
	if cats.items[1].Name != "Vitamins Supplements" {
		t.Fatalf("expected name from slug, got %+v", cats.items[1])
	}
	if cats.items[2].Slug != "diabetes" || cats.items[2].Name != "Diabetes Care" {
		t.Fatalf("unexpected third category %+v", cats.items[2])
	}
}

func TestXLSXImporter_Run(t *testing.T) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Medicines")
	if err != nil {
		t.Fatalf("add sheet: %v", err)
	}
	for _, rec := range [][]string{
		{"SKU", "Name", "Category", "Price"},
		{"MED-010", "Shelcal 500", "Vitamins", "99.5"},
	} {
		row := sheet.AddRow()
		for _, v := range rec {
			row.AddCell().SetValue(v)
		}
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	meds := &stubMedicineRepo{}
	imp, err := NewXLSXImporter(bytes.NewReader(buf.Bytes()), int64(buf.Len()), meds, &stubCategoryRepo{})
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 || meds.skus[0] != "MED-010" || meds.items[0].PriceCents != 9950 {
		t.Fatalf("unexpected import %d %+v", count, meds.items)
	}
}

func TestDetectKind(t *testing.T) {
	medicineCSV := `sku,name,price
MED-1,Dolo,30`
	categoryCSV := `name,slug
Pain Relief,pain-relief`

	kind, err := DetectKind(strings.NewReader(medicineCSV))
	if err != nil {
		t.Fatalf("detect medicine kind: %v", err)
	}
	if kind != KindMedicines {
		t.Fatalf("expected medicine kind, got %s", kind)
	}

	kind, err = DetectKind(strings.NewReader(categoryCSV))
	if err != nil {
		t.Fatalf("detect category kind: %v", err)
	}
	if kind != KindCategories {
		t.Fatalf("expected category kind, got %s", kind)
	}
}
