package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"

	cartapp "github.com/icepoint/backend/internal/application/cart"
	catalogapp "github.com/icepoint/backend/internal/application/catalog"
	fleetapp "github.com/icepoint/backend/internal/application/fleet"
	identityapp "github.com/icepoint/backend/internal/application/identity"
	notificationapp "github.com/icepoint/backend/internal/application/notification"
	orderapp "github.com/icepoint/backend/internal/application/order"
	paymentapp "github.com/icepoint/backend/internal/application/payment"
	reviewsapp "github.com/icepoint/backend/internal/application/reviews"
	shippingapp "github.com/icepoint/backend/internal/application/shipping"
	"github.com/icepoint/backend/internal/infrastructure/auth"
	"github.com/icepoint/backend/internal/infrastructure/cache"
	"github.com/icepoint/backend/internal/infrastructure/calendar"
	"github.com/icepoint/backend/internal/infrastructure/config"
	"github.com/icepoint/backend/internal/infrastructure/event"
	"github.com/icepoint/backend/internal/infrastructure/logger"
	"github.com/icepoint/backend/internal/infrastructure/mail"
	"github.com/icepoint/backend/internal/infrastructure/maps"
	"github.com/icepoint/backend/internal/infrastructure/payment"
	"github.com/icepoint/backend/internal/infrastructure/persistence"
	"github.com/icepoint/backend/internal/infrastructure/storage"
	"github.com/icepoint/backend/internal/infrastructure/telemetry"
	"github.com/icepoint/backend/internal/interfaces/http/handler"
	"github.com/icepoint/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file (default: ./config.toml)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting ice point backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Tracing, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Tracing.Enabled {
		if err := db.DB.Use(otelgorm.NewPlugin()); err != nil {
			log.Fatal("Failed to instrument database", zap.Error(err))
		}
	}
	log.Info("database connected")

	// Repositories and transaction boundary
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// External service adapters
	imageStorage, err := storage.NewS3ImageStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	mailer, err := mail.NewResendSender(&cfg.Mail)
	if err != nil {
		log.Fatal("Failed to initialize mail sender", zap.Error(err))
	}
	scheduler, err := calendar.NewGoogleScheduler(&cfg.Calendar)
	if err != nil {
		log.Fatal("Failed to initialize calendar scheduler", zap.Error(err))
	}
	mapsClient, err := maps.NewGoogleClient(&cfg.Maps)
	if err != nil {
		log.Fatal("Failed to initialize maps client", zap.Error(err))
	}
	gateway, err := payment.NewMercadoPagoGateway(&cfg.Payment)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	var reviewCache cache.Cache
	if cfg.Reviews.UseRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		reviewCache = cache.NewRedisCache(redisClient)
		log.Info("redis connected")
	} else {
		reviewCache = cache.NewMemoryCache()
	}

	// Event bus with post-checkout notification side effects
	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	bus.Subscribe(notificationapp.NewCheckedOutHandler(orderRepo, mailer, scheduler, cfg.Mail.StaffList, log))
	bus.Subscribe(notificationapp.NewCancelledHandler(orderRepo, mailer, scheduler, log))

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, imageStorage, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	cartService := cartapp.NewService(orderRepo, productRepo, uow, log)
	checkoutService := orderapp.NewCheckoutService(orderRepo, productRepo, cartRepo, userRepo, uow, bus, cfg.Pricing, log)
	orderService := orderapp.NewOrderService(orderRepo, uow, bus, log)
	availabilityService := orderapp.NewAvailabilityService(cartRepo, orderRepo, log)
	fleetService := fleetapp.NewService(cartRepo, log)
	userService := identityapp.NewUserService(userRepo, imageStorage, log)
	addressService := identityapp.NewAddressService(addressRepo, log)
	paymentService := paymentapp.NewService(orderRepo, gateway, uow, log)
	quoteService := shippingapp.NewQuoteService(mapsClient, cfg.Pricing, log)
	reviewService := reviewsapp.NewService(mapsClient, reviewCache, cfg.Reviews.CacheTTL, log)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	engine, err := router.New(cfg, log, jwtService, router.Handlers{
		System:       handler.NewSystemHandler(db, version),
		Product:      handler.NewProductHandler(productService),
		Category:     handler.NewCategoryHandler(categoryService),
		Cart:         handler.NewCartHandler(cartService),
		Order:        handler.NewOrderHandler(checkoutService, orderService),
		Availability: handler.NewAvailabilityHandler(availabilityService),
		Fleet:        handler.NewFleetHandler(fleetService),
		User:         handler.NewUserHandler(userService, addressService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Shipping:     handler.NewShippingHandler(quoteService),
		Reviews:      handler.NewReviewsHandler(reviewService),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced server shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus drain failed", zap.Error(err))
	}
	log.Info("server stopped")
}
