// QuoteDesk is a multi-tenant CRM API server: clients, leads,
// opportunities, products and quotations with PDF export, plus task
// tracking and analytics. Configuration comes from the environment, the
// schema is migrated on startup, and the server shuts down gracefully
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quotedesk/internal/cache"
	"quotedesk/internal/config"
	"quotedesk/internal/database"
	"quotedesk/internal/handlers"
	"quotedesk/internal/middleware"
	"quotedesk/internal/pdf"
	"quotedesk/internal/quote"
	"quotedesk/internal/router"
	"quotedesk/internal/storage"
	"quotedesk/internal/store"
	"quotedesk/internal/token"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Structured JSON logs in production, readable text in development.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Valkey is optional: without it analytics reports are computed on
	// every request instead of being cached.
	var reports *cache.ReportCache
	valkey, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, report caching disabled", "error", err)
	} else {
		defer valkey.Close()
		reports = cache.NewReportCache(valkey, cache.DefaultReportTTL)
	}

	// S3 storage is optional too; logo uploads return 503 without it.
	files, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return err
	}
	if files == nil {
		slog.Info("file storage not configured, logo uploads disabled")
	}

	scheme := quote.Daily
	if cfg.QuoteScheme == config.SchemeYearly {
		scheme = quote.Yearly
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	renderer := pdf.NewRenderer(cfg.PythonBin, cfg.PDFScript, cfg.TempDir)

	users := store.NewUserStore(db)
	clients := store.NewClientStore(db)
	contacts := store.NewContactStore(db)
	leads := store.NewLeadStore(db)
	opportunities := store.NewOpportunityStore(db)
	products := store.NewProductStore(db)
	templates := store.NewTemplateStore(db)
	quotations := store.NewQuotationStore(db, scheme)
	projects := store.NewProjectStore(db)
	tasks := store.NewTaskStore(db)
	taskAdmin := store.NewTaskAdminStore(db)
	analytics := store.NewAnalyticsStore(db)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	defer loginLimiter.Stop()

	r := router.New(router.Deps{
		Tokens:        tokens,
		Users:         users,
		LoginLimiter:  loginLimiter,
		Auth:          handlers.NewAuth(users, tokens),
		UserAdmin:     handlers.NewUsers(users),
		Clients:       handlers.NewClients(clients, contacts),
		Leads:         handlers.NewLeads(leads),
		Opportunities: handlers.NewOpportunities(opportunities),
		Products:      handlers.NewProducts(products),
		Quotations:    handlers.NewQuotations(quotations, templates, renderer),
		Templates:     handlers.NewTemplates(templates, files),
		Projects:      handlers.NewProjects(projects),
		Tasks:         handlers.NewTasks(tasks, reports),
		TaskAdmin:     handlers.NewTaskAdmin(taskAdmin),
		Analytics:     handlers.NewAnalytics(analytics, reports),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
