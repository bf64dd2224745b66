package catalog

import (
	"context"

	"medistore/internal/domain"
)

// Repository reads and maintains the bookable catalog: doctors, lab tests,
// scans and health packages.
type Repository interface {
	Doctors(ctx context.Context, specialty string) ([]domain.Doctor, error)
	AllDoctors(ctx context.Context) ([]domain.Doctor, error)
	DoctorByID(ctx context.Context, id string) (*domain.Doctor, error)
	DoctorByUser(ctx context.Context, userID string) (*domain.Doctor, error)
	CreateDoctor(ctx context.Context, d domain.Doctor) (*domain.Doctor, error)
	DeleteDoctor(ctx context.Context, id string) error

	LabTests(ctx context.Context, category string) ([]domain.LabTest, error)
	LabTestByID(ctx context.Context, id string) (*domain.LabTest, error)
	CreateLabTest(ctx context.Context, t domain.LabTest) (*domain.LabTest, error)

	ScanTests(ctx context.Context, scanType string) ([]domain.ScanTest, error)
	ScanTestByID(ctx context.Context, id string) (*domain.ScanTest, error)
	CreateScanTest(ctx context.Context, t domain.ScanTest) (*domain.ScanTest, error)

	HealthPackages(ctx context.Context) ([]domain.HealthPackage, error)
	HealthPackageByID(ctx context.Context, id string) (*domain.HealthPackage, error)
	CreateHealthPackage(ctx context.Context, p domain.HealthPackage) (*domain.HealthPackage, error)
}
