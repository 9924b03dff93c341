package repository

import (
	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/client"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	"github.com/invoflow/invoflow/internal/domain/payment"
	"github.com/invoflow/invoflow/internal/domain/settings"
	"github.com/invoflow/invoflow/internal/dynamodb"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/repository/ddb"
)

func NewInvoiceRepository(db *dynamodb.Client, cfg *config.Configuration, log *logger.Logger) invoice.Repository {
	return ddb.NewInvoiceRepository(db, cfg, log)
}

func NewClientRepository(db *dynamodb.Client, cfg *config.Configuration, log *logger.Logger) client.Repository {
	return ddb.NewClientRepository(db, cfg, log)
}

func NewPaymentRepository(db *dynamodb.Client, cfg *config.Configuration, log *logger.Logger) payment.Repository {
	return ddb.NewPaymentRepository(db, cfg, log)
}

func NewSettingsRepository(db *dynamodb.Client, cfg *config.Configuration, log *logger.Logger) settings.Repository {
	return ddb.NewSettingsRepository(db, cfg, log)
}
