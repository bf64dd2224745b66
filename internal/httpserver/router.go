package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"medistore/internal/domain"
)

type handlers struct {
	deps     Deps
	logger   *zap.Logger
	upgrader *websocket.Upgrader
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db pinger, deps Deps) (*gin.Engine, error) {
	if deps.Identity == nil || deps.Auth == nil || deps.Catalog == nil || deps.Carts == nil {
		return nil, errors.New("httpserver: identity, auth, catalog and cart services are required")
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 5 << 20
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(zap.NewStdLog(logger).Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	h := &handlers{deps: deps, logger: logger, upgrader: newUpgrader(deps.CORSOrigins)}
	api := router.Group("/api", sessionMiddleware(deps.Identity))

	api.POST("/auth/signup", h.signup)
	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", requireSession, h.logout)
	api.GET("/me", requireSession, h.me)
	api.GET("/navigation", h.navigate)

	api.GET("/medicines", h.searchMedicines)
	api.GET("/medicines/:id", h.getMedicine)
	api.GET("/categories", h.listCategories)
	api.GET("/doctors", h.listDoctors)
	api.GET("/doctors/:id", h.getDoctor)
	api.GET("/lab-tests", h.listLabTests)
	api.GET("/scan-tests", h.listScanTests)
	api.GET("/health-packages", h.listHealthPackages)

	cartGroup := api.Group("/cart", requireSession)
	cartGroup.GET("", h.getCart)
	cartGroup.POST("/items", h.addCartItem)
	cartGroup.PUT("/items/:medicineId", h.setCartQuantity)
	cartGroup.DELETE("/items/:medicineId", h.removeCartItem)
	cartGroup.DELETE("", h.clearCart)

	if deps.Orders != nil {
		api.POST("/orders", requireSession, h.placeOrder)
		api.GET("/orders", requireSession, h.listOrders)
	}

	if deps.Bookings != nil {
		api.POST("/appointments", requireSession, h.bookAppointment)
		api.POST("/lab-bookings", requireSession, h.bookLabTest)
		api.POST("/prescriptions", requireSession, h.uploadPrescription)
	}

	if deps.Dashboard != nil {
		api.GET("/dashboard", requireSession, h.customerDashboard)
		api.GET("/doctor/dashboard", requireRole(domain.RoleDoctor), h.doctorDashboard)
		api.GET("/wholesale/dashboard", requireRole(domain.RoleWholesale), h.wholesaleDashboard)
		api.GET("/admin/dashboard", requireRole(domain.RoleAdmin), h.adminDashboard)
	}

	if deps.Wholesale != nil {
		ws := api.Group("/wholesale", requireRole(domain.RoleWholesale))
		ws.GET("/profile", h.wholesaleProfile)
		ws.PUT("/profile", h.saveWholesaleProfile)
		ws.GET("/products", h.wholesaleProducts)
		ws.GET("/quotes", h.listQuotes)
		ws.POST("/quotes", h.submitQuote)
	}

	adminGroup := api.Group("/admin", requireRole(domain.RoleAdmin))
	if deps.Admin != nil {
		adminGroup.GET("/settings", h.getSettings)
		adminGroup.PUT("/settings", h.saveSettings)
		adminGroup.GET("/doctors", h.adminDoctors)
		adminGroup.POST("/doctors", h.addDoctor)
		adminGroup.DELETE("/doctors/:id", h.deleteDoctor)
		adminGroup.POST("/users", h.createUser)
		adminGroup.GET("/export/medicines.xlsx", h.exportCatalog)
	}
	if deps.Wholesale != nil {
		adminGroup.PUT("/wholesale/:userId/verification", h.setWholesaleVerified)
	}

	if deps.Changes != nil {
		api.GET("/observe", requireSession, h.observe)
	}

	return router, nil
}
