package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/payment"
	"github.com/invoflow/invoflow/internal/dynamodb"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/shopspring/decimal"
)

type paymentDocument struct {
	PK                string            `dynamodbav:"pk"` // tenant id
	SK                string            `dynamodbav:"sk"` // payment id
	ReceiptNumber     string            `dynamodbav:"receipt_number,omitempty"`
	IdempotencyKey    string            `dynamodbav:"idempotency_key"`
	InvoiceID         string            `dynamodbav:"invoice_id"`
	ClientID          string            `dynamodbav:"client_id"`
	Amount            string            `dynamodbav:"amount"`
	Difference        string            `dynamodbav:"difference"`
	PaymentMethodType string            `dynamodbav:"payment_method_type"`
	PaymentStatus     string            `dynamodbav:"payment_status"`
	GatewayChargeID   string            `dynamodbav:"gateway_charge_id,omitempty"`
	RecordedAt        string            `dynamodbav:"recorded_at"`
	Metadata          map[string]string `dynamodbav:"metadata,omitempty"`
	Status            string            `dynamodbav:"status"`
	CreatedAt         string            `dynamodbav:"created_at"`
	UpdatedAt         string            `dynamodbav:"updated_at"`
	CreatedBy         string            `dynamodbav:"created_by,omitempty"`
	UpdatedBy         string            `dynamodbav:"updated_by,omitempty"`
}

type PaymentRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

func NewPaymentRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) *PaymentRepository {
	return &PaymentRepository{
		client:    client,
		tableName: cfg.DynamoDB.PaymentTableName,
		logger:    logger,
	}
}

func toPaymentDocument(p *payment.Payment) *paymentDocument {
	doc := &paymentDocument{
		PK:                p.TenantID,
		SK:                p.ID,
		ReceiptNumber:     p.ReceiptNumber,
		IdempotencyKey:    p.IdempotencyKey,
		InvoiceID:         p.InvoiceID,
		ClientID:          p.ClientID,
		Amount:            p.Amount.String(),
		Difference:        p.Difference.String(),
		PaymentMethodType: string(p.PaymentMethodType),
		PaymentStatus:     string(p.PaymentStatus),
		RecordedAt:        p.RecordedAt.String(),
		Metadata:          p.Metadata,
		Status:            string(p.BaseModel.Status),
		CreatedAt:         formatInstant(p.CreatedAt),
		UpdatedAt:         formatInstant(p.UpdatedAt),
		CreatedBy:         p.CreatedBy,
		UpdatedBy:         p.UpdatedBy,
	}
	if p.GatewayChargeID != nil {
		doc.GatewayChargeID = *p.GatewayChargeID
	}
	return doc
}

func fromPaymentDocument(doc *paymentDocument) (*payment.Payment, error) {
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, corruptDocument(err, doc.SK, "amount")
	}
	difference, err := decimal.NewFromString(doc.Difference)
	if err != nil {
		return nil, corruptDocument(err, doc.SK, "difference")
	}
	recordedAt, err := types.ParseTimestamp(doc.RecordedAt)
	if err != nil {
		return nil, corruptDocument(err, doc.SK, "recorded_at")
	}

	p := &payment.Payment{
		ID:                doc.SK,
		ReceiptNumber:     doc.ReceiptNumber,
		IdempotencyKey:    doc.IdempotencyKey,
		InvoiceID:         doc.InvoiceID,
		ClientID:          doc.ClientID,
		Amount:            amount,
		Difference:        difference,
		PaymentMethodType: types.PaymentMethodType(doc.PaymentMethodType),
		PaymentStatus:     types.PaymentStatus(doc.PaymentStatus),
		RecordedAt:        recordedAt,
		Metadata:          doc.Metadata,
		BaseModel: types.BaseModel{
			TenantID:  doc.PK,
			Status:    types.Status(doc.Status),
			CreatedAt: parseInstant(doc.CreatedAt),
			UpdatedAt: parseInstant(doc.UpdatedAt),
			CreatedBy: doc.CreatedBy,
			UpdatedBy: doc.UpdatedBy,
		},
	}
	if doc.GatewayChargeID != "" {
		chargeID := doc.GatewayChargeID
		p.GatewayChargeID = &chargeID
	}
	return p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	item, err := attributevalue.MarshalMap(toPaymentDocument(p))
	if err != nil {
		return marshalError(err, "payment")
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
				WithHint("A payment with this ID already exists").
				WithReportableDetails(map[string]any{"payment_id": p.ID}).
				Mark(ierr.ErrAlreadyExists)
		}
		return storeError(err, "create payment")
	}
	return nil
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	out, err := r.client.DB().GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       tenantKey(ctx, id),
	})
	if err != nil {
		return nil, storeError(err, "get payment")
	}
	if out.Item == nil {
		return nil, ierr.NewError("payment not found").
			WithHintf("No payment with id %s", id).
			Mark(ierr.ErrNotFound)
	}

	var doc paymentDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, marshalError(err, "payment")
	}
	return fromPaymentDocument(&doc)
}

func (r *PaymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	all, err := r.queryAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	start := filter.GetOffset()
	if start >= len(all) {
		return []*payment.Payment{}, nil
	}
	end := start + filter.GetLimit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *PaymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	all, err := r.queryAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (r *PaymentRepository) queryAll(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	input := &awsdynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: types.GetTenantID(ctx)},
		},
	}

	result := make([]*payment.Payment, 0)
	paginator := awsdynamodb.NewQueryPaginator(r.client.DB(), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError(err, "list payments")
		}

		var docs []paymentDocument
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &docs); err != nil {
			return nil, marshalError(err, "payment")
		}

		for i := range docs {
			p, err := fromPaymentDocument(&docs[i])
			if err != nil {
				return nil, err
			}
			if matchPaymentFilter(p, filter) {
				result = append(result, p)
			}
		}
	}
	return result, nil
}

func matchPaymentFilter(p *payment.Payment, filter *types.PaymentFilter) bool {
	if filter == nil {
		return true
	}
	if filter.InvoiceID != "" && p.InvoiceID != filter.InvoiceID {
		return false
	}
	if filter.ClientID != "" && p.ClientID != filter.ClientID {
		return false
	}
	return true
}
