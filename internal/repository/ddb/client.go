package ddb

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/client"
	"github.com/invoflow/invoflow/internal/dynamodb"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

type clientDocument struct {
	PK                    string `dynamodbav:"pk"` // tenant id
	SK                    string `dynamodbav:"sk"` // client id
	Name                  string `dynamodbav:"name"`
	BillingFrequency      string `dynamodbav:"billing_frequency"`
	CurrentManagementFee  string `dynamodbav:"current_management_fee"`
	AccumulatedDifference string `dynamodbav:"accumulated_difference"`
	LastPaidPeriod        string `dynamodbav:"last_paid_period,omitempty"`
	PaymentMethodRef      string `dynamodbav:"payment_method_ref,omitempty"`
	Version               int    `dynamodbav:"version"`
	Status                string `dynamodbav:"status"`
	CreatedAt             string `dynamodbav:"created_at"`
	UpdatedAt             string `dynamodbav:"updated_at"`
	CreatedBy             string `dynamodbav:"created_by,omitempty"`
	UpdatedBy             string `dynamodbav:"updated_by,omitempty"`
}

type ClientRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

func NewClientRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) *ClientRepository {
	return &ClientRepository{
		client:    client,
		tableName: cfg.DynamoDB.ClientTableName,
		logger:    logger,
	}
}

func toClientDocument(c *client.Client) *clientDocument {
	return &clientDocument{
		PK:                    c.TenantID,
		SK:                    c.ID,
		Name:                  c.Name,
		BillingFrequency:      string(c.BillingFrequency),
		CurrentManagementFee:  c.CurrentManagementFee.String(),
		AccumulatedDifference: c.AccumulatedDifference.String(),
		LastPaidPeriod:        c.LastPaidPeriod.String(),
		PaymentMethodRef:      c.PaymentMethodRef,
		Version:               c.Version,
		Status:                string(c.BaseModel.Status),
		CreatedAt:             formatInstant(c.CreatedAt),
		UpdatedAt:             formatInstant(c.UpdatedAt),
		CreatedBy:             c.CreatedBy,
		UpdatedBy:             c.UpdatedBy,
	}
}

func fromClientDocument(doc *clientDocument) (*client.Client, error) {
	fee, err := decimal.NewFromString(doc.CurrentManagementFee)
	if err != nil {
		return nil, corruptDocument(err, doc.SK, "current_management_fee")
	}
	accumulated, err := decimal.NewFromString(doc.AccumulatedDifference)
	if err != nil {
		return nil, corruptDocument(err, doc.SK, "accumulated_difference")
	}

	return &client.Client{
		ID:                    doc.SK,
		Name:                  doc.Name,
		BillingFrequency:      types.BillingFrequency(doc.BillingFrequency),
		CurrentManagementFee:  fee,
		AccumulatedDifference: accumulated,
		LastPaidPeriod:        types.BillingMonth(doc.LastPaidPeriod),
		PaymentMethodRef:      doc.PaymentMethodRef,
		Version:               doc.Version,
		BaseModel: types.BaseModel{
			TenantID:  doc.PK,
			Status:    types.Status(doc.Status),
			CreatedAt: parseInstant(doc.CreatedAt),
			UpdatedAt: parseInstant(doc.UpdatedAt),
			CreatedBy: doc.CreatedBy,
			UpdatedBy: doc.UpdatedBy,
		},
	}, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	item, err := attributevalue.MarshalMap(toClientDocument(c))
	if err != nil {
		return marshalError(err, "client")
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ierr.WithError(err).
				WithHint("A client with this ID already exists").
				WithReportableDetails(map[string]any{"client_id": c.ID}).
				Mark(ierr.ErrAlreadyExists)
		}
		return storeError(err, "create client")
	}
	return nil
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	out, err := r.client.DB().GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       tenantKey(ctx, id),
	})
	if err != nil {
		return nil, storeError(err, "get client")
	}
	if out.Item == nil {
		return nil, ierr.NewError("client not found").
			WithHintf("No client with id %s", id).
			Mark(ierr.ErrNotFound)
	}

	var doc clientDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, marshalError(err, "client")
	}
	return fromClientDocument(&doc)
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	item, err := attributevalue.MarshalMap(toClientDocument(c))
	if err != nil {
		return marshalError(err, "client")
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(sk)"),
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ierr.NewError("client not found").
				WithHintf("No client with id %s", c.ID).
				Mark(ierr.ErrNotFound)
		}
		return storeError(err, "update client")
	}
	return nil
}

// UpdateVersioned replaces the client document only while its stored
// version matches, advancing the version in the same write. The ledger's
// read-modify-write cycle is built on this conditional replace.
func (r *ClientRepository) UpdateVersioned(ctx context.Context, c *client.Client) error {
	next := *c
	next.Version = c.Version + 1

	item, err := attributevalue.MarshalMap(toClientDocument(&next))
	if err != nil {
		return marshalError(err, "client")
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(sk) AND version = :expected"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":expected": &ddbtypes.AttributeValueMemberN{Value: strconv.Itoa(c.Version)},
		},
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ierr.WithError(err).
				WithHint("The client was modified concurrently, re-read and retry").
				WithReportableDetails(map[string]any{
					"client_id":        c.ID,
					"expected_version": c.Version,
				}).
				Mark(ierr.ErrVersionConflict)
		}
		return storeError(err, "update client")
	}

	c.Version = next.Version
	return nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	input := &awsdynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: types.GetTenantID(ctx)},
		},
	}

	result := make([]*client.Client, 0)
	paginator := awsdynamodb.NewQueryPaginator(r.client.DB(), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError(err, "list clients")
		}

		var docs []clientDocument
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &docs); err != nil {
			return nil, marshalError(err, "client")
		}
		for i := range docs {
			c, err := fromClientDocument(&docs[i])
			if err != nil {
				return nil, err
			}
			result = append(result, c)
		}
	}
	return result, nil
}
