package ddb

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	"github.com/invoflow/invoflow/internal/dynamodb"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// invoiceDocument is the DynamoDB shape of an invoice. Money travels as
// decimal strings and instants as RFC3339 strings; conversion happens only
// at this boundary.
type invoiceDocument struct {
	PK                 string            `dynamodbav:"pk"` // tenant id
	SK                 string            `dynamodbav:"sk"` // invoice id
	ClientID           string            `dynamodbav:"client_id"`
	InvoiceNumber      string            `dynamodbav:"invoice_number,omitempty"`
	InvoiceStatus      string            `dynamodbav:"invoice_status"`
	TotalAmount        string            `dynamodbav:"total_amount"`
	BillingPeriodStart string            `dynamodbav:"billing_period_start,omitempty"`
	BillingPeriodEnd   string            `dynamodbav:"billing_period_end,omitempty"`
	BillingMonth       string            `dynamodbav:"billing_month,omitempty"`
	IssueDate          string            `dynamodbav:"issue_date,omitempty"`
	DueDate            string            `dynamodbav:"due_date,omitempty"`
	PaidAmount         string            `dynamodbav:"paid_amount,omitempty"`
	PaymentDifference  string            `dynamodbav:"payment_difference,omitempty"`
	PaymentMethod      string            `dynamodbav:"payment_method,omitempty"`
	PaidAt             string            `dynamodbav:"paid_at,omitempty"`
	Metadata           map[string]string `dynamodbav:"metadata,omitempty"`
	Version            int               `dynamodbav:"version"`
	Status             string            `dynamodbav:"status"`
	CreatedAt          string            `dynamodbav:"created_at"`
	UpdatedAt          string            `dynamodbav:"updated_at"`
	CreatedBy          string            `dynamodbav:"created_by,omitempty"`
	UpdatedBy          string            `dynamodbav:"updated_by,omitempty"`
}

type InvoiceRepository struct {
	client        *dynamodb.Client
	tableName     string
	sequenceTable string
	logger        *logger.Logger
}

func NewInvoiceRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		client:        client,
		tableName:     cfg.DynamoDB.InvoiceTableName,
		sequenceTable: cfg.DynamoDB.SequenceTableName,
		logger:        logger,
	}
}

func toInvoiceDocument(inv *invoice.Invoice) *invoiceDocument {
	doc := &invoiceDocument{
		PK:            inv.TenantID,
		SK:            inv.ID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceStatus: string(inv.Status),
		TotalAmount:   inv.TotalAmount.String(),
		BillingMonth:  inv.BillingMonth.String(),
		PaymentMethod: inv.PaymentMethod.String(),
		PaidAt:        inv.PaidAt.String(),
		Metadata:      inv.Metadata,
		Version:       inv.Version,
		Status:        string(inv.BaseModel.Status),
		CreatedAt:     formatInstant(inv.CreatedAt),
		UpdatedAt:     formatInstant(inv.UpdatedAt),
		CreatedBy:     inv.CreatedBy,
		UpdatedBy:     inv.UpdatedBy,
	}
	if inv.BillingPeriodStart != nil {
		doc.BillingPeriodStart = formatInstant(*inv.BillingPeriodStart)
	}
	if inv.BillingPeriodEnd != nil {
		doc.BillingPeriodEnd = formatInstant(*inv.BillingPeriodEnd)
	}
	if !inv.IssueDate.IsZero() {
		doc.IssueDate = formatInstant(inv.IssueDate)
	}
	if !inv.DueDate.IsZero() {
		doc.DueDate = formatInstant(inv.DueDate)
	}
	if inv.PaidAmount != nil {
		doc.PaidAmount = inv.PaidAmount.String()
	}
	if inv.PaymentDifference != nil {
		doc.PaymentDifference = inv.PaymentDifference.String()
	}
	return doc
}

func fromInvoiceDocument(doc *invoiceDocument) (*invoice.Invoice, error) {
	total, err := decimal.NewFromString(doc.TotalAmount)
	if err != nil {
		return nil, corruptDocument(err, doc.SK, "total_amount")
	}

	paidAt, err := types.ParseTimestamp(doc.PaidAt)
	if err != nil {
		return nil, corruptDocument(err, doc.SK, "paid_at")
	}

	inv := &invoice.Invoice{
		ID:            doc.SK,
		ClientID:      doc.ClientID,
		InvoiceNumber: doc.InvoiceNumber,
		Status:        types.InvoiceStatus(doc.InvoiceStatus),
		TotalAmount:   total,
		BillingMonth:  types.BillingMonth(doc.BillingMonth),
		PaymentMethod: types.PaymentMethodType(doc.PaymentMethod),
		PaidAt:        paidAt,
		Metadata:      doc.Metadata,
		Version:       doc.Version,
		BaseModel: types.BaseModel{
			TenantID:  doc.PK,
			Status:    types.Status(doc.Status),
			CreatedAt: parseInstant(doc.CreatedAt),
			UpdatedAt: parseInstant(doc.UpdatedAt),
			CreatedBy: doc.CreatedBy,
			UpdatedBy: doc.UpdatedBy,
		},
	}

	if doc.BillingPeriodStart != "" {
		inv.BillingPeriodStart = lo.ToPtr(parseInstant(doc.BillingPeriodStart))
	}
	if doc.BillingPeriodEnd != "" {
		inv.BillingPeriodEnd = lo.ToPtr(parseInstant(doc.BillingPeriodEnd))
	}
	inv.IssueDate = parseInstant(doc.IssueDate)
	inv.DueDate = parseInstant(doc.DueDate)

	if doc.PaidAmount != "" {
		amount, err := decimal.NewFromString(doc.PaidAmount)
		if err != nil {
			return nil, corruptDocument(err, doc.SK, "paid_amount")
		}
		inv.PaidAmount = &amount
	}
	if doc.PaymentDifference != "" {
		diff, err := decimal.NewFromString(doc.PaymentDifference)
		if err != nil {
			return nil, corruptDocument(err, doc.SK, "payment_difference")
		}
		inv.PaymentDifference = &diff
	}

	return inv, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	item, err := attributevalue.MarshalMap(toInvoiceDocument(inv))
	if err != nil {
		return marshalError(err, "invoice")
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
				WithHint("An invoice with this ID already exists").
				WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
				Mark(ierr.ErrAlreadyExists)
		}
		return storeError(err, "create invoice")
	}
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	out, err := r.client.DB().GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       tenantKey(ctx, id),
	})
	if err != nil {
		return nil, storeError(err, "get invoice")
	}
	if out.Item == nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("No invoice with id %s", id).
			Mark(ierr.ErrNotFound)
	}

	var doc invoiceDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, marshalError(err, "invoice")
	}
	return fromInvoiceDocument(&doc)
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	item, err := attributevalue.MarshalMap(toInvoiceDocument(inv))
	if err != nil {
		return marshalError(err, "invoice")
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(sk)"),
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ierr.NewError("invoice not found").
				WithHintf("No invoice with id %s", inv.ID).
				Mark(ierr.ErrNotFound)
		}
		return storeError(err, "update invoice")
	}
	return nil
}

func (r *InvoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	all, err := r.queryAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	start := filter.GetOffset()
	if start >= len(all) {
		return []*invoice.Invoice{}, nil
	}
	end := start + filter.GetLimit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *InvoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	all, err := r.queryAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (r *InvoiceRepository) queryAll(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	input := &awsdynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: types.GetTenantID(ctx)},
		},
	}

	result := make([]*invoice.Invoice, 0)
	paginator := awsdynamodb.NewQueryPaginator(r.client.DB(), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError(err, "list invoices")
		}

		var docs []invoiceDocument
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &docs); err != nil {
			return nil, marshalError(err, "invoice")
		}

		for i := range docs {
			inv, err := fromInvoiceDocument(&docs[i])
			if err != nil {
				return nil, err
			}
			if matchInvoiceFilter(inv, filter) {
				result = append(result, inv)
			}
		}
	}
	return result, nil
}

func matchInvoiceFilter(inv *invoice.Invoice, filter *types.InvoiceFilter) bool {
	if filter == nil {
		return true
	}
	if filter.ClientID != "" && inv.ClientID != filter.ClientID {
		return false
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, inv.Status) {
		return false
	}
	return true
}

// NextInvoiceNumber allocates the next value of the tenant's monthly
// counter with an atomic ADD, so numbers are unique and sequential even
// under concurrent finalizations
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context, yearMonth string) (string, error) {
	out, err := r.client.DB().UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName: aws.String(r.sequenceTable),
		Key: map[string]ddbtypes.AttributeValue{
			"pk": &ddbtypes.AttributeValueMemberS{Value: types.GetTenantID(ctx)},
			"sk": &ddbtypes.AttributeValueMemberS{Value: yearMonth},
		},
		UpdateExpression: aws.String("ADD last_value :inc"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":inc": &ddbtypes.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: ddbtypes.ReturnValueUpdatedNew,
	})
	if err != nil {
		return "", storeError(err, "allocate invoice number")
	}

	attr, ok := out.Attributes["last_value"].(*ddbtypes.AttributeValueMemberN)
	if !ok {
		return "", ierr.NewError("sequence attribute missing").
			WithHint("The invoice number counter returned no value").
			Mark(ierr.ErrDatabase)
	}
	value, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil {
		return "", corruptDocument(err, yearMonth, "last_value")
	}

	return invoice.FormatInvoiceNumber(yearMonth, value), nil
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseInstant(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
