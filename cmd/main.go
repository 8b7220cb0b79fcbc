package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"digital-canteen/internal/config"
	"digital-canteen/internal/database"
	"digital-canteen/internal/logger"
	"digital-canteen/internal/messaging"
	"digital-canteen/internal/services/catalog"
	"digital-canteen/internal/services/checkout"
	"digital-canteen/internal/services/identity"
	"digital-canteen/internal/services/notification"
	"digital-canteen/internal/services/profile"
	"digital-canteen/internal/services/recorder"
	"digital-canteen/internal/services/session"
	"digital-canteen/internal/services/storefront"
	"digital-canteen/internal/services/tracking"
)

const janitorInterval = time.Minute

// purger is implemented by both session stores
type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (storefront, order-recorder, notification-subscriber)")
		configPath = flag.String("config", "config.yaml", "Path to the YAML configuration file")
		port       = flag.Int("port", 0, "HTTP port, overrides server.port")
		workerName = flag.String("worker-name", "order-recorder", "Consumer name for order-recorder mode")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":     *mode,
		"port":     cfg.Server.Port,
		"prefetch": *prefetch,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "storefront":
		err = runStorefront(ctx, cfg, log)
	case "order-recorder":
		err = runOrderRecorder(ctx, cfg, log, *workerName, *prefetch)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}
	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// openDatabase connects to PostgreSQL and applies the embedded migrations
func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.RunMigrations(cfg.DatabaseURL(), log); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config, db *database.DB, log *logger.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.Source == config.CatalogSourceStatic {
		return catalog.Load(ctx, catalog.NewStaticProvider())
	}

	provider := catalog.NewPostgresProvider(db)
	seeded, err := provider.Seed(ctx, catalog.DefaultItems())
	if err != nil {
		return nil, fmt.Errorf("failed to seed menu: %w", err)
	}
	if seeded > 0 {
		log.Info("menu_seeded", fmt.Sprintf("Seeded %d menu items", seeded), "startup", nil)
	}
	return catalog.Load(ctx, provider)
}

// runStorefront runs the HTTP API
func runStorefront(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	menu, err := loadCatalog(ctx, cfg, db, log)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()
	publisher := messaging.NewPublisher(conn, log)

	var store interface {
		session.Store
		purger
	}
	if cfg.Session.Store == config.SessionStorePostgres {
		store = session.NewPostgresStore(db, cfg.Session.TTL)
	} else {
		store = session.NewMemoryStore(cfg.Session.TTL)
	}

	profiles := profile.NewPostgresStore(db)
	gateway := checkout.NewSimulatedGateway(cfg.Payment.SimulatedDelay)
	sessions := session.NewManager(store, profiles, func() *checkout.Flow {
		return checkout.NewFlow(gateway, profiles, publisher, log)
	}, log)

	handler := storefront.NewHandler(storefront.Deps{
		Catalog:  menu,
		Sessions: sessions,
		Identity: identity.NewHeaderProvider(),
		Profiles: profiles,
		Orders:   tracking.NewHandler(tracking.NewService(tracking.NewPostgresRepo(db), publisher, log), log),
		Health:   db,
		Logger:   log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("service_started", fmt.Sprintf("Storefront started on port %d", cfg.Server.Port), requestID, map[string]interface{}{
			"port":       cfg.Server.Port,
			"menu_items": menu.Len(),
			"session":    cfg.Session.Store,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		runJanitor(gctx, sessions, store, cfg.Session.TTL, log)
		return nil
	})

	return g.Wait()
}

// runJanitor ends idle sessions and purges expired saved carts until ctx is done
func runJanitor(ctx context.Context, sessions *session.Manager, store purger, ttl time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ended := sessions.Sweep(ttl)
			purged, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Error("session_purge_failed", "Failed to purge expired session values", "", err, nil)
			}
			if ended > 0 || purged > 0 {
				log.Debug("sessions_swept", "Removed idle sessions", "", map[string]interface{}{
					"sessions_ended": ended,
					"values_purged":  purged,
				})
			}
		}
	}
}

// runOrderRecorder consumes placed orders into the order history
func runOrderRecorder(ctx context.Context, cfg *config.Config, log *logger.Logger, name string, prefetch int) error {
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.QueueOrderRecords, name, prefetch)
	publisher := messaging.NewPublisher(conn, log)

	return recorder.NewWorker(name, db, consumer, publisher, log).Start(ctx)
}

// runNotificationSubscriber prints order notifications
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.QueueNotifications, "notification-subscriber", prefetch)
	return notification.NewSubscriber(consumer, log).Start(ctx)
}
