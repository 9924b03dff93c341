package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/invoflow/invoflow/internal/api/v1"
	"github.com/invoflow/invoflow/internal/rest/middleware"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Payment   *v1.PaymentHandler
	Invoice   *v1.InvoiceHandler
	Settings  *v1.SettingsHandler
	Client    *v1.ClientHandler
	Proration *v1.ProrationHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.TenantMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	payments := router.Group("/payments")
	{
		payments.POST("/confirm", handlers.Payment.ConfirmPayment)
		payments.POST("/bulk-confirm", handlers.Payment.BulkConfirmPayments)
		payments.POST("/charge", handlers.Payment.ChargeInvoice)
		payments.GET("", handlers.Payment.ListPayments)
		payments.GET("/:id", handlers.Payment.GetPayment)
	}

	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.POST("/:id/finalize", handlers.Invoice.FinalizeInvoice)
		invoices.POST("/:id/void", handlers.Invoice.VoidInvoice)
	}

	settings := router.Group("/settings")
	{
		settings.GET("/invoice", handlers.Settings.GetInvoiceSettings)
		settings.PUT("/invoice", handlers.Settings.UpdateInvoiceSettings)
		settings.POST("/invoice/preview", handlers.Settings.PreviewBillingDates)
	}

	clients := router.Group("/clients")
	{
		clients.POST("", handlers.Client.CreateClient)
		clients.GET("", handlers.Client.ListClients)
		clients.GET("/:id", handlers.Client.GetClient)
	}

	proration := router.Group("/proration")
	{
		proration.POST("/deductible", handlers.Proration.Deductible)
	}
}
