package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoflow/invoflow/internal/api/dto"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, log: log}
}

// GetInvoiceSettings returns the tenant's effective invoice settings
func (h *SettingsHandler) GetInvoiceSettings(c *gin.Context) {
	resp, err := h.service.GetInvoiceSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateInvoiceSettings validates and saves the tenant's invoice settings
func (h *SettingsHandler) UpdateInvoiceSettings(c *gin.Context) {
	var req dto.UpdateInvoiceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateInvoiceSettings(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to update invoice settings", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PreviewBillingDates derives billing dates for a reference date
func (h *SettingsHandler) PreviewBillingDates(c *gin.Context) {
	var req dto.PreviewBillingDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.PreviewBillingDates(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
