package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-shop-service/config"
	"github.com/fekuna/omnipos-shop-service/internal/broker"
	"github.com/fekuna/omnipos-shop-service/internal/cache"
	"github.com/fekuna/omnipos-shop-service/internal/database"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/i18n"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/search"
	"github.com/fekuna/omnipos-shop-service/internal/server"

	analyticsH "github.com/fekuna/omnipos-shop-service/internal/analytics/handler"
	analyticsRepoPkg "github.com/fekuna/omnipos-shop-service/internal/analytics/repository"
	analyticsUCPkg "github.com/fekuna/omnipos-shop-service/internal/analytics/usecase"

	catH "github.com/fekuna/omnipos-shop-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-shop-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-shop-service/internal/category/usecase"

	invH "github.com/fekuna/omnipos-shop-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-shop-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-shop-service/internal/inventory/usecase"

	orderH "github.com/fekuna/omnipos-shop-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-shop-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-shop-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-shop-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-shop-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-shop-service/internal/product/usecase"

	shipDispatcher "github.com/fekuna/omnipos-shop-service/internal/shipment/dispatcher"
	shipH "github.com/fekuna/omnipos-shop-service/internal/shipment/handler"
	shipListenerPkg "github.com/fekuna/omnipos-shop-service/internal/shipment/listener"
	shipUCPkg "github.com/fekuna/omnipos-shop-service/internal/shipment/usecase"
	"github.com/fekuna/omnipos-shop-service/internal/shipment/yalidine"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// loggerConfig uses JSON outside development; the level always comes from config.
func loggerConfig(cfg *config.Config) *logger.ZapLoggerConfig {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}
	return logConfig
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()
	loc := cfg.Shop.Location()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(loggerConfig(cfg))
	defer appLogger.Sync()

	// 3. Connect to Database
	pg := cfg.Database.Postgres
	db, err := database.Open(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            pg.Host,
		Port:            pg.Port,
		User:            pg.User,
		Password:        pg.Password,
		DBName:          pg.DBName,
		SSLMode:         pg.SSLMode,
		MaxOpenConns:    pg.MaxOpenConns,
		MaxIdleConns:    pg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(pg.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(pg.ConnMaxIdleTime) * time.Second,
		SQLitePath:      cfg.Database.SQLitePath,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(migrateCtx, db)
		cancelMigrate()
		if err != nil {
			appLogger.Fatal("Could not migrate database", zap.Error(err))
		}
	}

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewSQLRepository(db)
	prodRepo := prodRepoPkg.NewSQLRepository(db)
	invRepo := invRepoPkg.NewSQLRepository(db)
	orderRepo := orderRepoPkg.NewSQLRepository(db)
	analyticsRepo := analyticsRepoPkg.NewSQLRepository(db)

	// 5. Initialize Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, running without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5.5 Initialize Kafka
	var (
		kafkaProducer *broker.KafkaProducer
		kafkaConsumer *broker.KafkaConsumer
	)
	if cfg.Kafka.Enabled {
		kafkaProducer = broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer kafkaProducer.Close()
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 5.8 Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to SQL", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Initialize i18n
	translator, err := i18n.New()
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}
	responder := httpx.NewResponder(translator, appLogger)

	// 7. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, cfg.Elastic.ProductIndex, appLogger)

	invOpts := []invUCPkg.Option{invUCPkg.WithStockObserver(prodUC)}
	if redisClient != nil {
		invOpts = append(invOpts, invUCPkg.WithLocker(redisClient))
	}
	invUC := invUCPkg.NewInventoryUseCase(invRepo, appLogger, invOpts...)

	yalidineClient := yalidine.NewClient(yalidine.Config{
		BaseURL:    cfg.Yalidine.BaseURL,
		APIID:      cfg.Yalidine.APIID,
		APIToken:   cfg.Yalidine.APIToken,
		FromWilaya: cfg.Yalidine.FromWilaya,
		Timeout:    cfg.Yalidine.Timeout,
	})
	if !yalidineClient.IsConfigured() {
		appLogger.Warn("Yalidine credentials missing, parcels will not be created")
	}
	shipUC := shipUCPkg.NewShipmentUseCase(orderRepo, yalidineClient, appLogger)
	dispatcher := shipDispatcher.New(shipUC, shipDispatcher.Config{
		Workers:   cfg.Yalidine.Workers,
		QueueSize: cfg.Yalidine.QueueSize,
	}, appLogger)

	orderOpts := []orderUCPkg.Option{
		orderUCPkg.WithStockObserver(prodUC),
		orderUCPkg.WithLocation(loc),
	}
	if redisClient != nil {
		orderOpts = append(orderOpts, orderUCPkg.WithIdempotency(cache.NewIdempotencyStore(redisClient, idempotencyTTL)))
	}
	if kafkaProducer != nil {
		orderOpts = append(orderOpts, orderUCPkg.WithEvents(kafkaProducer))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7.5 Shipment queue: in-process, or driven by order events
	if cfg.Shop.ShipmentQueue == "kafka" && cfg.Kafka.Enabled {
		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.ShipmentGroupID,
		})
		defer kafkaConsumer.Close()
		shipListener := shipListenerPkg.NewShipmentListener(kafkaConsumer, dispatcher, appLogger)
		go shipListener.Start(ctx)
		appLogger.Info("Shipment listener started", zap.String("group", cfg.Kafka.ShipmentGroupID))
	} else {
		orderOpts = append(orderOpts, orderUCPkg.WithShipments(dispatcher))
	}
	dispatcher.Start(ctx)

	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, appLogger, orderOpts...)
	analyticsUC := analyticsUCPkg.NewAnalyticsUseCase(analyticsRepo, appLogger,
		analyticsUCPkg.WithLocation(loc),
		analyticsUCPkg.WithLowStockThreshold(cfg.Shop.LowStockThreshold),
	)

	// 8. Initialize Handlers
	srv := server.New(&cfg.Server, responder, appLogger)
	srv.Mount("/api/products", prodH.NewProductHandler(prodUC, responder, cfg.Shop.LowStockThreshold, appLogger))
	srv.Mount("/api/categories", catH.NewCategoryHandler(catUC, responder, appLogger))
	srv.Mount("/api/inventory", invH.NewInventoryHandler(invUC, responder, appLogger))
	srv.Mount("/api/orders", orderH.NewOrderHandler(orderUC, responder, appLogger))
	srv.Mount("/api/analytics", analyticsH.NewAnalyticsHandler(analyticsUC, responder, appLogger))
	srv.Mount("/api/yalidine", shipH.NewShipmentHandler(yalidineClient, orderUC, dispatcher, responder, appLogger))

	srv.AddHealthCheck("database", db.PingContext)
	if redisClient != nil {
		srv.AddHealthCheck("redis", func(ctx context.Context) error {
			return redisClient.Client.Ping(ctx).Err()
		})
	}

	// 9. Start HTTP Server
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("HTTP server failed", zap.Error(err))
		}
	}

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("HTTP server shutdown", zap.Error(err))
	}
	dispatcher.Stop(shutdownCtx)
	cancel()
	appLogger.Info("Server stopped")
}
