package dto

import (
	"github.com/invoflow/invoflow/internal/domain/client"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a request to register a billed client
type CreateClientRequest struct {
	Name                 string                 `json:"name" binding:"required"`
	BillingFrequency     types.BillingFrequency `json:"billing_frequency" binding:"required"`
	CurrentManagementFee decimal.Decimal        `json:"current_management_fee" binding:"required"`
	PaymentMethodRef     string                 `json:"payment_method_ref,omitempty"`
}

// ToClient builds the domain client from the request
func (r *CreateClientRequest) ToClient() *client.Client {
	return &client.Client{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:                  r.Name,
		BillingFrequency:      r.BillingFrequency,
		CurrentManagementFee:  r.CurrentManagementFee,
		AccumulatedDifference: decimal.Zero,
		PaymentMethodRef:      r.PaymentMethodRef,
		Version:               1,
	}
}

// ClientResponse represents a client with its reconciliation ledger
type ClientResponse struct {
	*client.Client
}

// NewClientResponse creates a client response from a domain client
func NewClientResponse(c *client.Client) *ClientResponse {
	return &ClientResponse{Client: c}
}

// ListClientsResponse represents all clients of the tenant
type ListClientsResponse struct {
	Items []*ClientResponse `json:"items"`
	Total int               `json:"total"`
}
