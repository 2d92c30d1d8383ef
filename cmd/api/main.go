package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/config"
	"github.com/pahanabooks/console-api/internal/domain/billing"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/internal/infrastructure/database"
	infraRepo "github.com/pahanabooks/console-api/internal/infrastructure/repository"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/handler"
	"github.com/pahanabooks/console-api/internal/presentation/http/middleware"
	"github.com/pahanabooks/console-api/internal/presentation/http/routes"
	"github.com/pahanabooks/console-api/pkg/document"
	"github.com/pahanabooks/console-api/pkg/email"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/printer"
	"github.com/pahanabooks/console-api/pkg/sealer"
	"github.com/pahanabooks/console-api/pkg/utils"
)

const cleanupInterval = 15 * time.Minute

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := request.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	// Session database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	tokenSealer, err := sealer.New(cfg.Session.SealKey)
	if err != nil {
		log.Fatalf("Failed to initialize session sealer: %v", err)
	}

	// Backend REST client
	api := backend.NewClient(&cfg.Backend)

	// Initialize repositories
	sessionRepo := infraRepo.NewSessionRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)
	authGateway := infraRepo.NewAuthGateway(api)
	billRepo := infraRepo.NewBillRepository(api)
	bookRepo := infraRepo.NewBookRepository(api)
	customerRepo := infraRepo.NewCustomerRepository(api)
	orderRepo := infraRepo.NewOrderRepository(api)
	analyticsRepo := infraRepo.NewAnalyticsRepository(api)
	blogRepo := infraRepo.NewBlogRepository(api)

	// Event bus and notifications
	bus := eventbus.New(cfg.Notifications.BusBuffer)
	notifier := service.NewNotifier(bus, cfg.Notifications.DefaultTTL, cfg.Notifications.ImportantTTL)
	caches := service.NewCaches()

	// Documents
	brand := document.Brand{Name: cfg.App.ShopName, Tagline: cfg.App.Tagline, Currency: cfg.App.Currency}
	renderers := document.DefaultRenderers()
	escpos := document.NewESCPOSRenderer(cfg.Printer.CharWidth)
	renderers[escpos.Format()] = escpos

	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		ShopName:     cfg.App.ShopName,
	})
	var mailer service.BillMailer
	if emailService.Configured() {
		mailer = emailService
	} else {
		log.Printf("Warning: SMTP is not configured, bill email is disabled")
	}

	receiptPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		receiptPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(authGateway, sessionRepo, tokenSealer, jwtManager)
	billingService := service.NewBillingService(billRepo, customerRepo, bookRepo, billing.NewDrafts(), bus, notifier)
	documentService := service.NewDocumentService(billingService, customerRepo, renderers, brand, receiptPrinter, mailer, notifier)
	bookService := service.NewBookService(bookRepo, caches, bus, notifier)
	orderService := service.NewOrderService(orderRepo, sessionRepo, caches, bus, notifier)
	customerService := service.NewCustomerService(customerRepo, caches, bus, notifier)
	reportService := service.NewReportService(billRepo, orderRepo, bookRepo, customerRepo, caches, renderers, brand, bus, notifier, service.ReportOptions{
		TopN:       cfg.Reports.TopBooks,
		TrendDays:  cfg.Reports.TrendDays,
		RefreshMin: cfg.Reports.RefreshMin,
		RefreshMax: cfg.Reports.RefreshMax,
	})
	analyticsService := service.NewAnalyticsService(analyticsRepo, reportService)
	blogService := service.NewBlogService(blogRepo, caches)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService, billingService),
		Billing:  handler.NewBillingHandler(billingService),
		Document: handler.NewDocumentHandler(documentService),
		Book:     handler.NewBookHandler(bookService),
		Order:    handler.NewOrderHandler(orderService),
		Customer: handler.NewCustomerHandler(customerService),
		Report:   handler.NewReportHandler(reportService, analyticsService),
		Event:    handler.NewEventHandler(bus),
		Blog:     handler.NewBlogHandler(blogService),
	}

	rateLimiter := middleware.NewSessionRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		Auth:            authService,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportService.Run(ctx)
	go cleanupLoop(ctx, authService, idempotencyRepo)

	port := cfg.App.Port
	if port == "" {
		port = "8090"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s, backend: %s", cfg.App.Env, cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

// cleanupLoop removes expired sessions and idempotency keys
func cleanupLoop(ctx context.Context, auth *service.AuthService, keys repository.IdempotencyRepository) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := auth.CleanupExpired(ctx); err != nil {
				log.Printf("[cleanup] sessions: %v", err)
			} else if n > 0 {
				log.Printf("[cleanup] removed %d expired sessions", n)
			}
			if err := keys.DeleteExpired(ctx); err != nil {
				log.Printf("[cleanup] idempotency keys: %v", err)
			}
		}
	}
}
