// Package seed inserts demo catalog data for manual testing.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
	catalogrepo "medistore/internal/repository/catalog"
	medicinerepo "medistore/internal/repository/medicine"
	settingsrepo "medistore/internal/repository/settings"
	wholesalerepo "medistore/internal/repository/wholesale"
)

type medicineSeed struct {
	SKU string
	domain.Medicine
}

var categories = []domain.Category{
	{Name: "Pain Relief", Slug: "pain-relief"},
	{Name: "Antibiotics", Slug: "antibiotics"},
	{Name: "Vitamins & Supplements", Slug: "vitamins"},
	{Name: "Diabetes Care", Slug: "diabetes"},
}

var medicines = []medicineSeed{
	{"DEMO-DOLO-650", domain.Medicine{Name: "Dolo 650", Brand: "Micro Labs", GenericName: "Paracetamol", CategorySlug: "pain-relief", PriceCents: 3050, DiscountPercent: 10, StockQuantity: 200, IsActive: true}},
	{"DEMO-AZITHRAL-500", domain.Medicine{Name: "Azithral 500", Brand: "Alembic", GenericName: "Azithromycin", CategorySlug: "antibiotics", PriceCents: 11999, StockQuantity: 60, RequiresPrescription: true, IsActive: true}},
	{"DEMO-SHELCAL-500", domain.Medicine{Name: "Shelcal 500", Brand: "Torrent", GenericName: "Calcium + Vitamin D3", CategorySlug: "vitamins", PriceCents: 9950, DiscountPercent: 15, StockQuantity: 150, IsActive: true}},
	{"DEMO-GLYCOMET-500", domain.Medicine{Name: "Glycomet 500", Brand: "USV", GenericName: "Metformin", CategorySlug: "diabetes", PriceCents: 2800, StockQuantity: 90, RequiresPrescription: true, IsActive: true}},
}

var doctors = []domain.Doctor{
	{Name: "Dr. Asha Menon", Specialty: "General Physician", Qualification: "MBBS, MD", ExperienceYears: 12, ConsultationFeeCents: 50000, Rating: 4.8, IsAvailable: true},
	{Name: "Dr. Vikram Rao", Specialty: "Cardiologist", Qualification: "MBBS, DM Cardiology", ExperienceYears: 18, ConsultationFeeCents: 120000, Rating: 4.6, IsAvailable: true},
	{Name: "Dr. Neha Kapoor", Specialty: "Dermatologist", Qualification: "MBBS, DDVL", ExperienceYears: 7, ConsultationFeeCents: 70000, Rating: 4.4, IsAvailable: true},
}

var labTests = []domain.LabTest{
	{Name: "Complete Blood Count", Category: "Blood", PriceCents: 39900, IsActive: true},
	{Name: "HbA1c", Category: "Diabetes", PriceCents: 54900, IsActive: true},
	{Name: "Lipid Profile", Category: "Heart", PriceCents: 69900, IsActive: true},
}

var scanTests = []domain.ScanTest{
	{Name: "Chest X-Ray", Type: "xray", PriceCents: 49900, IsActive: true},
	{Name: "MRI Brain", Type: "mri", PriceCents: 650000, IsActive: true},
	{Name: "Abdomen Ultrasound", Type: "ultrasound", PriceCents: 150000, IsActive: true},
}

var packages = []domain.HealthPackage{
	{Name: "Full Body Checkup", Tests: []string{"Complete Blood Count", "Lipid Profile", "HbA1c"}, PriceCents: 199900, IsPopular: true, IsActive: true},
	{Name: "Diabetes Screening", Tests: []string{"HbA1c", "Fasting Glucose"}, PriceCents: 89900, IsActive: true},
}

var wholesaleProducts = []domain.WholesaleProduct{
	{Name: "Paracetamol 500mg (strip of 10) x 100", SKU: "WS-PARA-100", Manufacturer: "Micro Labs", PriceCents: 150000, MinOrderQty: 10, StockQuantity: 500},
	{Name: "Surgical Masks (box of 50) x 20", SKU: "WS-MASK-20", Manufacturer: "Medline", PriceCents: 400000, MinOrderQty: 5, StockQuantity: 120},
}

// Apply inserts demo data. Medicines and categories are upserted by key;
// the other catalog tables are filled only while empty, so rerunning is safe.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	meds := medicinerepo.NewPostgres(pool, logger)
	catalog := catalogrepo.NewPostgres(pool, logger)

	for _, c := range categories {
		if _, err := meds.UpsertCategory(ctx, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}
	for _, m := range medicines {
		if _, err := meds.Upsert(ctx, m.SKU, m.Medicine); err != nil {
			return fmt.Errorf("upsert medicine %s: %w", m.SKU, err)
		}
	}

	steps := []struct {
		table string
		fill  func() error
	}{
		{"doctors", func() error {
			for _, d := range doctors {
				if _, err := catalog.CreateDoctor(ctx, d); err != nil {
					return err
				}
			}
			return nil
		}},
		{"lab_tests", func() error {
			for _, lt := range labTests {
				if _, err := catalog.CreateLabTest(ctx, lt); err != nil {
					return err
				}
			}
			return nil
		}},
		{"scan_tests", func() error {
			for _, st := range scanTests {
				if _, err := catalog.CreateScanTest(ctx, st); err != nil {
					return err
				}
			}
			return nil
		}},
		{"health_packages", func() error {
			for _, p := range packages {
				if _, err := catalog.CreateHealthPackage(ctx, p); err != nil {
					return err
				}
			}
			return nil
		}},
		{"products", func() error {
			ws := wholesalerepo.NewPostgres(pool, logger)
			for _, p := range wholesaleProducts {
				if _, err := ws.CreateProduct(ctx, p); err != nil {
					return err
				}
			}
			return nil
		}},
	}
	for _, s := range steps {
		empty, err := isEmpty(ctx, pool, s.table)
		if err != nil {
			return err
		}
		if !empty {
			logger.Info("seed: table already populated", zap.String("table", s.table))
			continue
		}
		if err := s.fill(); err != nil {
			return fmt.Errorf("seed %s: %w", s.table, err)
		}
	}

	settings := settingsrepo.NewPostgres(pool)
	if _, err := settings.Get(ctx); errors.Is(err, domain.ErrNotFound) {
		if _, err := settings.Upsert(ctx, domain.AdminSettings{
			StoreName:              "MediStore",
			SupportEmail:           "support@medistore.local",
			DeliveryFeeCents:       4900,
			FreeDeliveryAboveCents: 49900,
		}); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	return nil
}

// isEmpty reports whether table has no rows. table is always one of the
// literal names above.
func isEmpty(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	if err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+")").Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return !exists, nil
}
