package invoice

import (
	"fmt"
	"time"
)

// Sequence tracks a tenant's invoice number counter for one month.
// Invoice numbers are unique and sequential per tenant.
type Sequence struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	YearMonth string    `json:"year_month"`
	LastValue int64     `json:"last_value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormatInvoiceNumber renders a sequence value as an invoice number,
// e.g. INV-202501-0042
func FormatInvoiceNumber(yearMonth string, value int64) string {
	return fmt.Sprintf("INV-%s-%04d", yearMonth, value)
}
