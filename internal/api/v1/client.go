package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoflow/invoflow/internal/api/dto"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/service"
)

type ClientHandler struct {
	service service.ClientService
	log     *logger.Logger
}

func NewClientHandler(service service.ClientService, log *logger.Logger) *ClientHandler {
	return &ClientHandler{service: service, log: log}
}

// CreateClient registers a billed client
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateClient(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to create client", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetClient returns one client with its reconciliation ledger
func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Client ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListClients returns all clients of the tenant
func (h *ClientHandler) ListClients(c *gin.Context) {
	resp, err := h.service.ListClients(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
