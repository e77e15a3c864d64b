package models

import (
	"encoding/json"
	"time"
)

const (
	InvoiceDraft      = "draft"
	InvoiceSent       = "sent"
	InvoiceApproved   = "approved"
	InvoiceInProgress = "in_progress"
	InvoiceCompleted  = "completed"
)

// InvoiceStatuses in workflow order.
var InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoiceApproved, InvoiceInProgress, InvoiceCompleted}

type Invoice struct {
	ID           int                   `json:"_id"`
	InvoiceNo    string                `json:"invoiceNo"`
	CompanyID    *int                  `json:"companyId"`
	LocationID   *int                  `json:"locationId"`
	CompanyName  string                `json:"companyName,omitempty"`
	LocationName string                `json:"locationName,omitempty"`
	Amount       float64               `json:"amount"`
	GSTAmount    float64               `json:"gstAmount"`
	Description  string                `json:"description"`
	Status       string                `json:"status"`
	History      []InvoiceHistoryEntry `json:"history"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// InvoiceHistoryEntry is one append-only status record.
type InvoiceHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy *int      `json:"updatedBy,omitempty"`
}

// AllowedNextStatuses lists the forward steps the workflow expects from the
// current status. Updates are not rejected when they skip or reverse steps.
func (i *Invoice) AllowedNextStatuses() []string {
	for idx, s := range InvoiceStatuses {
		if s == i.Status {
			return append([]string(nil), InvoiceStatuses[idx+1:]...)
		}
	}
	return nil
}

// MarshalJSON adds allowedNextStatuses for clients that guide the user
// through the workflow.
func (i *Invoice) MarshalJSON() ([]byte, error) {
	type alias Invoice
	next := i.AllowedNextStatuses()
	if next == nil {
		next = []string{}
	}
	return json.Marshal(struct {
		*alias
		AllowedNextStatuses []string `json:"allowedNextStatuses"`
	}{
		alias:               (*alias)(i),
		AllowedNextStatuses: next,
	})
}

func (i *Invoice) CanTransitionTo(next string) bool {
	return contains(i.AllowedNextStatuses(), next)
}

func IsValidInvoiceStatus(s string) bool {
	return contains(InvoiceStatuses, s)
}

type CreateInvoiceRequest struct {
	CompanyID   int     `json:"companyId" validate:"required"`
	LocationID  int     `json:"locationId" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	GSTAmount   float64 `json:"gstAmount" validate:"gte=0"`
	Description string  `json:"description" validate:"required"`
}

// UpdateInvoiceRequest is the admin field patch. Nil fields are unchanged.
type UpdateInvoiceRequest struct {
	Amount      *float64 `json:"amount"`
	GSTAmount   *float64 `json:"gstAmount"`
	Description *string  `json:"description"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceFilter scopes invoice listings; LocationID is set for agents.
type InvoiceFilter struct {
	LocationID *int
}
