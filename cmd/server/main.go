package main

import (
	"context"
	"time"

	validatorpkg "github.com/go-playground/validator/v10"

	"github.com/gin-gonic/gin"
	"github.com/invoflow/invoflow/internal/api"
	v1 "github.com/invoflow/invoflow/internal/api/v1"
	"github.com/invoflow/invoflow/internal/cache"
	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/dynamodb"
	"github.com/invoflow/invoflow/internal/gateway"
	"github.com/invoflow/invoflow/internal/gateway/stripe"
	"github.com/invoflow/invoflow/internal/kafka"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/publisher"
	"github.com/invoflow/invoflow/internal/repository"
	"github.com/invoflow/invoflow/internal/service"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/invoflow/invoflow/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// DynamoDB
			dynamodb.NewClient,

			// Producers
			provideKafkaProducer,

			// Event Publisher
			publisher.NewEventPublisher,

			// Payment gateway
			provideGateway,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewClientRepository,
			repository.NewPaymentRepository,
			repository.NewSettingsRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewSettingsService,
			service.NewClientService,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewBulkPaymentService,
			service.NewPaymentProcessorService,
			service.NewProrationService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

// provideKafkaProducer connects a producer only when events are routed to
// Kafka, so API-only deployments need no brokers
func provideKafkaProducer(cfg *config.Configuration) (*kafka.Producer, error) {
	if cfg.Event.PublishDestination != types.PublishToKafka {
		return nil, nil
	}
	return kafka.NewProducer(cfg)
}

// provideGateway enables card charging only when a Stripe key is
// configured; without one the gateway stays nil and charge requests are
// rejected as unconfigured
func provideGateway(cfg *config.Configuration, log *logger.Logger) (gateway.Gateway, error) {
	if cfg.Stripe.SecretKey == "" {
		log.Infow("stripe secret key not configured, card charging disabled")
		return nil, nil
	}
	return stripe.NewGateway(cfg, log)
}

func provideHandlers(
	logger *logger.Logger,
	paymentService service.PaymentService,
	bulkPaymentService service.BulkPaymentService,
	paymentProcessorService service.PaymentProcessorService,
	invoiceService service.InvoiceService,
	settingsService service.SettingsService,
	clientService service.ClientService,
	prorationService service.ProrationService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(),
		Payment:   v1.NewPaymentHandler(paymentService, bulkPaymentService, paymentProcessorService, logger),
		Invoice:   v1.NewInvoiceHandler(invoiceService, logger),
		Settings:  v1.NewSettingsHandler(settingsService, logger),
		Client:    v1.NewClientHandler(clientService, logger),
		Proration: v1.NewProrationHandler(prorationService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	producer *kafka.Producer,
	inMemoryCache *cache.InMemoryCache,
	validate *validatorpkg.Validate,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}

	if producer != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return producer.Close()
			},
		})
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
