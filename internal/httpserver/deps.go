package httpserver

import (
	"context"
	"io"

	"medistore/internal/changes"
	"medistore/internal/domain"
	"medistore/internal/service/admin"
	"medistore/internal/service/auth"
	"medistore/internal/service/booking"
	"medistore/internal/service/cart"
	"medistore/internal/service/catalog"
	"medistore/internal/service/dashboard"
	"medistore/internal/service/identity"
	"medistore/internal/service/order"
	"medistore/internal/service/wholesale"
)

type identityService interface {
	sessionResolver
	SignOut(ctx context.Context, token string) error
	TTLSeconds() int
}

type authService interface {
	Login(ctx context.Context, email, password string) (*auth.Landing, error)
	Register(ctx context.Context, in identity.SignUpInput) (*auth.Landing, error)
}

type catalogService interface {
	SearchMedicines(ctx context.Context, in catalog.SearchInput) ([]domain.Medicine, error)
	Medicine(ctx context.Context, id string) (*domain.Medicine, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Doctors(ctx context.Context, specialty string) ([]domain.Doctor, error)
	Doctor(ctx context.Context, id string) (*domain.Doctor, error)
	LabTests(ctx context.Context, category string) ([]domain.LabTest, error)
	ScanTests(ctx context.Context, scanType string) ([]domain.ScanTest, error)
	HealthPackages(ctx context.Context) ([]domain.HealthPackage, error)
}

// CartSession is the per-user cart synchronizer as seen by handlers.
// Mutators return the cart as it stood when their own change finished.
type CartSession interface {
	Load(ctx context.Context) domain.CartProjection
	AddItem(ctx context.Context, item domain.Medicine) (domain.CartProjection, error)
	RemoveItem(ctx context.Context, productID string) (domain.CartProjection, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (domain.CartProjection, error)
	Clear(ctx context.Context) (domain.CartProjection, error)
}

// CartProvider hands out the caller's cart and drops it on sign-out.
type CartProvider interface {
	For(ctx context.Context, sess *domain.Session) (CartSession, error)
	Release(userID string)
}

type cartManager struct{ m *cart.Manager }

// Carts adapts a cart.Manager to CartProvider.
func Carts(m *cart.Manager) CartProvider {
	return cartManager{m: m}
}

func (a cartManager) For(ctx context.Context, sess *domain.Session) (CartSession, error) {
	s, err := a.m.For(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a cartManager) Release(userID string) { a.m.Release(userID) }

type orderService interface {
	PlaceOrder(ctx context.Context, sess *domain.Session, in order.CheckoutInput) (*domain.Order, error)
	ListOrders(ctx context.Context, sess *domain.Session) ([]domain.Order, error)
}

type bookingService interface {
	BookAppointment(ctx context.Context, sess *domain.Session, in booking.AppointmentInput) (*domain.Confirmation, error)
	BookLabTest(ctx context.Context, sess *domain.Session, in booking.LabBookingInput) (*domain.Confirmation, error)
	UploadPrescription(ctx context.Context, sess *domain.Session, in booking.PrescriptionInput) (*domain.Confirmation, error)
}

type wholesaleService interface {
	Profile(ctx context.Context, sess *domain.Session) (*domain.WholesaleProfile, error)
	SaveProfile(ctx context.Context, sess *domain.Session, in wholesale.ProfileInput) (*domain.WholesaleProfile, error)
	Products(ctx context.Context, sess *domain.Session, query string) ([]domain.WholesaleProduct, error)
	Quotes(ctx context.Context, sess *domain.Session) ([]domain.QuoteRequest, error)
	SubmitQuote(ctx context.Context, sess *domain.Session, in wholesale.QuoteInput) (*domain.QuoteRequest, error)
	SetVerified(ctx context.Context, admin *domain.Session, userID string, verified bool) error
}

type dashboardService interface {
	Customer(ctx context.Context, sess *domain.Session) (*dashboard.Customer, error)
	Doctor(ctx context.Context, sess *domain.Session) (*dashboard.Doctor, error)
	Wholesale(ctx context.Context, sess *domain.Session, tab string) (*dashboard.Wholesale, error)
	Admin(ctx context.Context, sess *domain.Session) (*dashboard.Admin, error)
}

type adminService interface {
	Settings(ctx context.Context, sess *domain.Session) (*domain.AdminSettings, error)
	SaveSettings(ctx context.Context, sess *domain.Session, in admin.SettingsInput) (*domain.AdminSettings, error)
	Doctors(ctx context.Context, sess *domain.Session) ([]domain.Doctor, error)
	AddDoctor(ctx context.Context, sess *domain.Session, in admin.DoctorInput) (*domain.Doctor, error)
	DeleteDoctor(ctx context.Context, sess *domain.Session, id string) error
	CreateUser(ctx context.Context, sess *domain.Session, in identity.CreateUserInput) (string, error)
	ExportCatalog(ctx context.Context, sess *domain.Session, w io.Writer) error
}

type changeFeed interface {
	Observe(ctx context.Context, f changes.Filter) <-chan domain.ChangeEvent
}

// Deps carries the services the router dispatches to.
type Deps struct {
	Identity  identityService
	Auth      authService
	Catalog   catalogService
	Carts     CartProvider
	Orders    orderService
	Bookings  bookingService
	Wholesale wholesaleService
	Dashboard dashboardService
	Admin     adminService
	Changes   changeFeed

	UploadDir      string
	MaxUploadBytes int64
	CORSOrigins    []string
}
