package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoflow/invoflow/internal/api/dto"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/service"
	"github.com/invoflow/invoflow/internal/types"
)

type PaymentHandler struct {
	service   service.PaymentService
	bulk      service.BulkPaymentService
	processor service.PaymentProcessorService
	log       *logger.Logger
}

func NewPaymentHandler(
	service service.PaymentService,
	bulk service.BulkPaymentService,
	processor service.PaymentProcessorService,
	log *logger.Logger,
) *PaymentHandler {
	return &PaymentHandler{service: service, bulk: bulk, processor: processor, log: log}
}

// ConfirmPayment confirms a single received payment against an invoice
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to confirm payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// BulkConfirmPayments confirms a batch of same-client invoices
func (h *PaymentHandler) BulkConfirmPayments(c *gin.Context) {
	var req dto.BulkConfirmPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.bulk.ConfirmBulkPayments(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to confirm bulk payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChargeInvoice charges the client's stored payment method for an invoice
func (h *PaymentHandler) ChargeInvoice(c *gin.Context) {
	var req dto.ChargePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.processor.ChargeInvoice(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to charge invoice", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPayment returns one payment record
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListPayments returns payment records matching the query filter
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var filter types.PaymentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListPayments(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
