package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/config"
	"github.com/mamadbah2/tally/internal/ledger"
	"github.com/mamadbah2/tally/internal/repository/filestore"
	"github.com/mamadbah2/tally/internal/repository/mongodb"
	"github.com/mamadbah2/tally/internal/repository/redisstore"
	"github.com/mamadbah2/tally/internal/repository/sheets"
	"github.com/mamadbah2/tally/internal/scheduler"
	"github.com/mamadbah2/tally/internal/server/handlers"
	"github.com/mamadbah2/tally/internal/server/router"
	"github.com/mamadbah2/tally/internal/service/bookkeeping"
	"github.com/mamadbah2/tally/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/tally/pkg/clients/whatsapp"
	"github.com/mamadbah2/tally/pkg/currency"
	"github.com/mamadbah2/tally/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init snapshot store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer backend.close()

	book := ledger.New(backend.store, ledger.Options{
		InvoicePrefix: cfg.Business.InvoicePrefix,
		SeedDemoData:  cfg.Store.SeedDemoData,
	}, logger.Named(baseLogger, "ledger"))
	if err := book.Load(ctx); err != nil {
		baseLogger.Fatal("failed to load snapshot", zap.Error(err))
	}

	money := currency.New(cfg.Business.Currency)

	var mirror bookkeeping.DaybookMirror
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirror = sheets.NewDaybookMirror(sheetsRepo, cfg.Sheets.DaybookRange)
		baseLogger.Info("google sheets daybook mirror enabled")
	} else {
		baseLogger.Warn("google sheets credentials missing, daybook mirror disabled")
	}

	var alerts whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		alerts = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp owner alerts enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, owner alerts disabled")
	}

	bookkeepingSvc := bookkeeping.NewService(book, bookkeeping.Options{
		Mirror:     mirror,
		Alerts:     alerts,
		OwnerPhone: cfg.WhatsApp.OwnerPhone,
		Currency:   money,
	}, logger.Named(baseLogger, "svc.bookkeeping"))
	reportingSvc := reporting.NewService(book, backend.archive, money, logger.Named(baseLogger, "svc.reporting"))

	engine := router.New(router.Handlers{
		Ledger:    handlers.NewLedgerHandler(bookkeepingSvc, reportingSvc, logger.Named(baseLogger, "handlers.ledger")),
		Inventory: handlers.NewInventoryHandler(bookkeepingSvc, reportingSvc, logger.Named(baseLogger, "handlers.inventory")),
		Reports:   handlers.NewReportHandler(reportingSvc, logger.Named(baseLogger, "handlers.reports")),
		Account:   handlers.NewAccountHandler(bookkeepingSvc, logger.Named(baseLogger, "handlers.account")),
	}, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, book, alerts, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	sched.Stop()

	if err := book.Flush(shutdownCtx); err != nil {
		baseLogger.Error("final snapshot flush failed", zap.Error(err))
	}
}

type storeBackend struct {
	store   ledger.SnapshotStore
	archive reporting.ReportArchive
	close   func()
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storeBackend, error) {
	switch cfg.Store.Backend {
	case config.BackendMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Store.Key)
		if err != nil {
			return storeBackend{}, err
		}
		return storeBackend{
			store:   repo,
			archive: repo,
			close: func() {
				if err := repo.Close(context.Background()); err != nil {
					log.Error("failed to close mongodb connection", zap.Error(err))
				}
			},
		}, nil
	case config.BackendRedis:
		store, err := redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Store.Key,
		})
		if err != nil {
			return storeBackend{}, err
		}
		return storeBackend{
			store: store,
			close: func() {
				if err := store.Close(); err != nil {
					log.Error("failed to close redis connection", zap.Error(err))
				}
			},
		}, nil
	case config.BackendFile:
		return storeBackend{store: filestore.New(cfg.Store.FilePath), close: func() {}}, nil
	default:
		return storeBackend{}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
