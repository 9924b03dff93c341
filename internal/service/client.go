package service

import (
	"context"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/client"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
)

// ClientService manages billed clients. The reconciliation ledger fields
// are read-only here; only payment confirmation mutates them.
type ClientService interface {
	CreateClient(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetClient(ctx context.Context, id string) (*dto.ClientResponse, error)
	ListClients(ctx context.Context) (*dto.ListClientsResponse, error)
}

type clientService struct {
	ServiceParams
}

func NewClientService(params ServiceParams) ClientService {
	return &clientService{ServiceParams: params}
}

func (s *clientService) CreateClient(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error) {
	c := req.ToClient()
	c.BaseModel = types.GetDefaultBaseModel(ctx)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.ClientRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("client created", "client_id", c.ID, "name", c.Name)
	return dto.NewClientResponse(c), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}

func (s *clientService) ListClients(ctx context.Context) (*dto.ListClientsResponse, error) {
	clients, err := s.ClientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ListClientsResponse{
		Items: lo.Map(clients, func(c *client.Client, _ int) *dto.ClientResponse {
			return dto.NewClientResponse(c)
		}),
		Total: len(clients),
	}, nil
}
