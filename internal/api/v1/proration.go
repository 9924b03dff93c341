package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoflow/invoflow/internal/api/dto"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/service"
)

type ProrationHandler struct {
	service service.ProrationService
	log     *logger.Logger
}

func NewProrationHandler(service service.ProrationService, log *logger.Logger) *ProrationHandler {
	return &ProrationHandler{service: service, log: log}
}

// Deductible computes a percentage-prorated amount
func (h *ProrationHandler) Deductible(c *gin.Context) {
	var req dto.DeductibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Deductible(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
