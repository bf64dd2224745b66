package catalog

import (
	"context"
	"strings"

	"medistore/internal/domain"
	catalogrepo "medistore/internal/repository/catalog"
	medicinerepo "medistore/internal/repository/medicine"
)

// Service is the read side of the storefront catalog.
type Service struct {
	medicines medicinerepo.Repository
	catalog   catalogrepo.Repository
	pageLimit int
}

// New creates a Service. pageLimit caps SearchMedicines results and defaults
// to 50.
func New(medicines medicinerepo.Repository, catalog catalogrepo.Repository, pageLimit int) *Service {
	if pageLimit <= 0 {
		pageLimit = 50
	}
	return &Service{medicines: medicines, catalog: catalog, pageLimit: pageLimit}
}

type SearchInput struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
}

// SearchMedicines returns active medicines whose name, brand or generic name
// contains the query.
func (s *Service) SearchMedicines(ctx context.Context, in SearchInput) ([]domain.Medicine, error) {
	limit := in.Limit
	if limit <= 0 || limit > s.pageLimit {
		limit = s.pageLimit
	}
	return s.medicines.Search(ctx, medicinerepo.Filter{
		Query:    strings.TrimSpace(in.Query),
		Category: strings.TrimSpace(in.Category),
		Limit:    limit,
	})
}

// Medicine returns one medicine. Inactive medicines are reported as not found.
func (s *Service) Medicine(ctx context.Context, id string) (*domain.Medicine, error) {
	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.medicines.Categories(ctx)
}

// Doctors lists available doctors, best rated first.
func (s *Service) Doctors(ctx context.Context, specialty string) ([]domain.Doctor, error) {
	return s.catalog.Doctors(ctx, strings.TrimSpace(specialty))
}

func (s *Service) Doctor(ctx context.Context, id string) (*domain.Doctor, error) {
	return s.catalog.DoctorByID(ctx, id)
}

func (s *Service) LabTests(ctx context.Context, category string) ([]domain.LabTest, error) {
	return s.catalog.LabTests(ctx, strings.TrimSpace(category))
}

func (s *Service) ScanTests(ctx context.Context, scanType string) ([]domain.ScanTest, error) {
	return s.catalog.ScanTests(ctx, strings.TrimSpace(scanType))
}

func (s *Service) HealthPackages(ctx context.Context) ([]domain.HealthPackage, error) {
	return s.catalog.HealthPackages(ctx)
}
