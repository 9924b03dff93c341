package service

import (
	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/client"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	"github.com/invoflow/invoflow/internal/domain/payment"
	"github.com/invoflow/invoflow/internal/domain/settings"
	"github.com/invoflow/invoflow/internal/gateway"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/publisher"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	InvoiceRepo  invoice.Repository
	ClientRepo   client.Repository
	PaymentRepo  payment.Repository
	SettingsRepo settings.Repository

	// Infrastructure
	EventPublisher publisher.EventPublisher
	Gateway        gateway.Gateway
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	invoiceRepo invoice.Repository,
	clientRepo client.Repository,
	paymentRepo payment.Repository,
	settingsRepo settings.Repository,
	eventPublisher publisher.EventPublisher,
	gateway gateway.Gateway,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		InvoiceRepo:    invoiceRepo,
		ClientRepo:     clientRepo,
		PaymentRepo:    paymentRepo,
		SettingsRepo:   settingsRepo,
		EventPublisher: eventPublisher,
		Gateway:        gateway,
	}
}
