package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/settings"
	"github.com/invoflow/invoflow/internal/dynamodb"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/types"
)

// settingsSortKey is the fixed sort key of the tenant's single settings
// document
const settingsSortKey = "invoice_settings"

type settingsDocument struct {
	PK                       string `dynamodbav:"pk"` // tenant id
	SK                       string `dynamodbav:"sk"` // fixed, one document per tenant
	ID                       string `dynamodbav:"id"`
	ClosingDayType           string `dynamodbav:"closing_day_type"`
	ClosingDay               *int   `dynamodbav:"closing_day,omitempty"`
	IssueDayType             string `dynamodbav:"issue_day_type"`
	IssueDay                 *int   `dynamodbav:"issue_day,omitempty"`
	DueDateType              string `dynamodbav:"due_date_type"`
	DueDateDays              *int   `dynamodbav:"due_date_days,omitempty"`
	DueDateDay               *int   `dynamodbav:"due_date_day,omitempty"`
	AdjustDueDateForHolidays bool   `dynamodbav:"adjust_due_date_for_holidays"`
	Status                   string `dynamodbav:"status"`
	CreatedAt                string `dynamodbav:"created_at"`
	UpdatedAt                string `dynamodbav:"updated_at"`
	CreatedBy                string `dynamodbav:"created_by,omitempty"`
	UpdatedBy                string `dynamodbav:"updated_by,omitempty"`
}

type SettingsRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

func NewSettingsRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) *SettingsRepository {
	return &SettingsRepository{
		client:    client,
		tableName: cfg.DynamoDB.SettingsTableName,
		logger:    logger,
	}
}

func toSettingsDocument(s *settings.InvoiceSettings) *settingsDocument {
	return &settingsDocument{
		PK:                       s.TenantID,
		SK:                       settingsSortKey,
		ID:                       s.ID,
		ClosingDayType:           string(s.ClosingDayType),
		ClosingDay:               s.ClosingDay,
		IssueDayType:             string(s.IssueDayType),
		IssueDay:                 s.IssueDay,
		DueDateType:              string(s.DueDateType),
		DueDateDays:              s.DueDateDays,
		DueDateDay:               s.DueDateDay,
		AdjustDueDateForHolidays: s.AdjustDueDateForHolidays,
		Status:                   string(s.BaseModel.Status),
		CreatedAt:                formatInstant(s.CreatedAt),
		UpdatedAt:                formatInstant(s.UpdatedAt),
		CreatedBy:                s.CreatedBy,
		UpdatedBy:                s.UpdatedBy,
	}
}

func fromSettingsDocument(doc *settingsDocument) *settings.InvoiceSettings {
	return &settings.InvoiceSettings{
		ID:                       doc.ID,
		ClosingDayType:           types.ClosingDayType(doc.ClosingDayType),
		ClosingDay:               doc.ClosingDay,
		IssueDayType:             types.IssueDayType(doc.IssueDayType),
		IssueDay:                 doc.IssueDay,
		DueDateType:              types.DueDateType(doc.DueDateType),
		DueDateDays:              doc.DueDateDays,
		DueDateDay:               doc.DueDateDay,
		AdjustDueDateForHolidays: doc.AdjustDueDateForHolidays,
		BaseModel: types.BaseModel{
			TenantID:  doc.PK,
			Status:    types.Status(doc.Status),
			CreatedAt: parseInstant(doc.CreatedAt),
			UpdatedAt: parseInstant(doc.UpdatedAt),
			CreatedBy: doc.CreatedBy,
			UpdatedBy: doc.UpdatedBy,
		},
	}
}

func (r *SettingsRepository) Get(ctx context.Context) (*settings.InvoiceSettings, error) {
	out, err := r.client.DB().GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       tenantKey(ctx, settingsSortKey),
	})
	if err != nil {
		return nil, storeError(err, "get invoice settings")
	}
	if out.Item == nil {
		return nil, ierr.NewError("invoice settings not found").
			WithHint("The tenant has not saved invoice settings").
			Mark(ierr.ErrNotFound)
	}

	var doc settingsDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, marshalError(err, "invoice settings")
	}
	return fromSettingsDocument(&doc), nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *settings.InvoiceSettings) error {
	item, err := attributevalue.MarshalMap(toSettingsDocument(s))
	if err != nil {
		return marshalError(err, "invoice settings")
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return storeError(err, "save invoice settings")
	}
	return nil
}
