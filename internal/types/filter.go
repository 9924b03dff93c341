package types

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	ClientID string          `json:"client_id,omitempty" form:"client_id"`
	Statuses []InvoiceStatus `json:"statuses,omitempty" form:"statuses"`
	Limit    int             `json:"limit,omitempty" form:"limit"`
	Offset   int             `json:"offset,omitempty" form:"offset"`
}

func (f *InvoiceFilter) GetLimit() int {
	if f == nil || f.Limit <= 0 {
		return 50
	}
	return f.Limit
}

func (f *InvoiceFilter) GetOffset() int {
	if f == nil || f.Offset < 0 {
		return 0
	}
	return f.Offset
}

func (f *InvoiceFilter) Validate() error {
	if f == nil {
		return nil
	}
	for _, s := range f.Statuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PaymentFilter narrows payment list queries
type PaymentFilter struct {
	InvoiceID string `json:"invoice_id,omitempty" form:"invoice_id"`
	ClientID  string `json:"client_id,omitempty" form:"client_id"`
	Limit     int    `json:"limit,omitempty" form:"limit"`
	Offset    int    `json:"offset,omitempty" form:"offset"`
}

func (f *PaymentFilter) GetLimit() int {
	if f == nil || f.Limit <= 0 {
		return 50
	}
	return f.Limit
}

func (f *PaymentFilter) GetOffset() int {
	if f == nil || f.Offset < 0 {
		return 0
	}
	return f.Offset
}
