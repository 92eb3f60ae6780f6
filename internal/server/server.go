package server

import (
	"fmt"
	"net/http"
	"time"

	"bebida-express/internal/config"
	"bebida-express/internal/events"
	"bebida-express/internal/kvstore"
	"bebida-express/internal/metrics"
	custommiddleware "bebida-express/internal/middleware"
	"bebida-express/internal/repository"
	"bebida-express/internal/service"
	"bebida-express/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  kvstore.Store
	redis  *redis.Client
	kafka  *events.KafkaPublisher
}

// NewServer wires the marketplace over store. redisClient is optional and
// enables rate limiting on checkout.
func NewServer(cfg *config.Config, logger *zap.Logger, store kvstore.Store, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	orderMetrics := metrics.NewOrderMetrics()
	router.Handle("/metrics", orderMetrics.Handler())

	// Order events go to the in-process broker and, when configured, Kafka
	broker := events.NewBroker()
	var kafkaPublisher *events.KafkaPublisher
	publisher := events.Publisher(broker)
	if cfg.Kafka.Enabled() {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = events.Fanout(broker, kafkaPublisher)
		logger.Info("Publishing order events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	// Initialize repositories
	uow := repository.NewUnitOfWork(store)
	productRepo := repository.NewProductRepository(store)
	storeRepo := repository.NewStoreRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	merchantRepo := repository.NewMerchantRepository(store)
	customerRepo := repository.NewCustomerRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, logger)
	catalogService := service.NewCatalogService(productRepo, notificationService, logger)
	storeService := service.NewStoreService(storeRepo, logger)
	merchantService := service.NewMerchantService(uow, merchantRepo, cfg.JWT, cfg.Platform, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	insightService := service.NewInsightService(productRepo, orderRepo, storeRepo)
	orderService := service.NewOrderService(
		uow,
		orderRepo,
		broker,
		publisher,
		orderMetrics,
		service.CommissionFromConfig(cfg.Commission),
		logger,
	)

	// Checkout is rate limited only when Redis is available
	var orderLimiter func(http.Handler) http.Handler
	if redisClient != nil && cfg.RateLimit.OrdersPerMinute > 0 {
		orderLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.OrdersPerMinute,
			Window:            time.Minute,
			KeyPrefix:         cfg.Redis.KeyPrefix + "ratelimit:orders",
		}, logger)
	}

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Register routes
	transport.NewMerchantHandler(merchantService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewStoreHandler(storeService, catalogService, logger).RegisterRoutes(router)
	transport.NewCustomerHandler(customerService, orderService, logger).RegisterRoutes(router)
	transport.NewOrderHandler(orderService, storeService, logger).RegisterRoutes(router, orderLimiter)
	transport.NewNotificationHandler(notificationService, logger).RegisterRoutes(router)
	transport.NewAdminHandler(
		catalogService,
		orderService,
		storeService,
		insightService,
		notificationService,
		logger,
	).RegisterRoutes(router, authMiddleware)
	transport.NewPlatformHandler(storeService, insightService, logger).RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:     router,
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// The admin order stream is long-lived, so no write deadline
			WriteTimeout: 0,
		},
		config: cfg,
		logger: logger,
		store:  store,
		redis:  redisClient,
		kafka:  kafkaPublisher,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.kafka != nil {
		if err := s.kafka.Close(); err != nil {
			s.logger.Error("Failed to close Kafka writer", zap.Error(err))
		}
	}

	// Close the key-value store, which owns its database or Redis connection
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close key-value store", zap.Error(err))
		}
	}

	// The redis backend closes the shared client itself
	if s.redis != nil && s.config.Storage.Backend != config.StorageRedis {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
