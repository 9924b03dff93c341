package ddb

import (
	"context"

	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
)

// tenantKey builds the composite key of a tenant-scoped document
func tenantKey(ctx context.Context, id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"pk": &ddbtypes.AttributeValueMemberS{Value: types.GetTenantID(ctx)},
		"sk": &ddbtypes.AttributeValueMemberS{Value: id},
	}
}

func storeError(err error, op string) error {
	return ierr.WithError(err).
		WithHintf("Document store operation failed: %s", op).
		Mark(ierr.ErrDatabase)
}

func marshalError(err error, entity string) error {
	return ierr.WithError(err).
		WithHintf("Failed to convert %s document", entity).
		Mark(ierr.ErrDatabase)
}

func corruptDocument(err error, id, field string) error {
	return ierr.WithError(err).
		WithHintf("Stored document %s has an unreadable %s", id, field).
		WithReportableDetails(map[string]any{"id": id, "field": field}).
		Mark(ierr.ErrDatabase)
}
