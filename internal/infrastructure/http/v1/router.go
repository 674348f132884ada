// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/domain/documents/purchase"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/documents/sale"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/ledger"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/payments"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/pos"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/posting"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/returns"
	"github.com/Jcrispin99/gym-app-sub000/internal/domain/tax"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/fiscal"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/http/v1/handlers"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/http/v1/middleware"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres/document_repo"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres/payment_repo"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres/returns_repo"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
	"github.com/Jcrispin99/gym-app-sub000/pkg/sequencer"
)

// RouterConfig holds everything the router needs to assemble the API.
type RouterConfig struct {
	// Pool is the database connection pool.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// Version is reported by the health info endpoint.
	Version string

	// Rates resolves tax codes for document creation. TaxID and
	// TaxMode define the selling context for documents created
	// through POS exchanges.
	Rates   tax.RateTable
	TaxID   string
	TaxMode tax.Mode
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints, no auth required
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	healthHandler.RegisterRoutes(router.Group("/health"))

	// Shared infrastructure
	txManager := postgres.NewTxManager(cfg.Pool)
	outboxQueue := fiscal.NewOutboxQueue(postgres.NewOutboxPublisher(txManager))
	seq := sequencer.New(cfg.Pool)

	// Repositories
	saleRepo := document_repo.NewSaleRepo(txManager)
	purchaseRepo := document_repo.NewPurchaseRepo(txManager)
	ledgerRepo := ledger_repo.NewLedgerRepo(txManager)
	paymentRepo := payment_repo.NewPaymentRepo(txManager)
	returnsRepo := returns_repo.NewReturnsRepo(txManager)

	// Services
	ledgerService := ledger.NewService(ledgerRepo)
	postingEngine := posting.NewEngine(ledgerService, txManager)
	returnsService := returns.NewService(returnsRepo, txManager)
	paymentsService := payments.NewService(paymentRepo)
	saleService := sale.NewService(saleRepo, postingEngine, seq, returnsService, outboxQueue, txManager)
	purchaseService := purchase.NewService(purchaseRepo, postingEngine, seq, txManager)
	posService := pos.NewService(saleService, paymentsService, txManager, cfg.Rates, cfg.TaxID, cfg.TaxMode)

	// Handlers
	baseHandler := handlers.NewBaseHandler()
	saleHandler := handlers.NewSaleHandler(baseHandler, saleService, cfg.Rates)
	purchaseHandler := handlers.NewPurchaseHandler(baseHandler, purchaseService)
	ledgerHandler := handlers.NewLedgerHandler(baseHandler, ledgerService)
	posHandler := handlers.NewPOSHandler(baseHandler, posService)

	// API v1, JWT required on everything
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))

	saleHandler.RegisterRoutes(api.Group("/sales"))
	purchaseHandler.RegisterRoutes(api.Group("/purchases"))
	ledgerHandler.RegisterRoutes(api.Group("/inventory"))
	// Exchanges move money at the till, so the POS surface is
	// limited to till staff.
	posHandler.RegisterRoutes(api.Group("/pos", middleware.RequireRole("cashier", "manager")))

	return router
}
