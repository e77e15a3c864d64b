package models

import (
	"encoding/json"
	"math"
	"time"
)

const (
	TransactionAdvance        = "advance"
	TransactionInvoicePayment = "invoice_payment"
	TransactionFinalPayment   = "final_payment"
)

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
	PaymentPaid     = "paid"
)

var TransactionTypes = []string{TransactionAdvance, TransactionInvoicePayment, TransactionFinalPayment}

var PaymentStatuses = []string{PaymentPending, PaymentApproved, PaymentRejected, PaymentPaid}

// Payment is a payment request raised by an agent and settled by an admin.
type Payment struct {
	ID                        int        `json:"_id"`
	TransactionType           string     `json:"transactionType"`
	TransactionID             string     `json:"transactionId"`
	PONo                      string     `json:"poNo"`
	InvoiceNo                 string     `json:"invoiceNo,omitempty"`
	ProjectCost               *float64   `json:"projectCost,omitempty"`
	HandlingChargesPercentage *float64   `json:"handlingChargesPercentage,omitempty"`
	CalculatedHandlingCharges *float64   `json:"calculatedHandlingCharges,omitempty"`
	Instructions              string     `json:"instructions,omitempty"`
	Status                    string     `json:"status"`
	Remarks                   string     `json:"adminRemarks,omitempty"`
	ScreenshotURL             string     `json:"screenshotURL,omitempty"`
	ScreenshotFileType        string     `json:"screenshotFileType,omitempty"`
	PaymentDate               *time.Time `json:"paymentDate,omitempty"`
	CreatedBy                 *int       `json:"createdBy,omitempty"`
	CreatedByMobileNo         string     `json:"createdByMobileNo,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
}

// PayableAmount is project cost less handling charges, floored at zero.
// It is zero when either amount is missing.
func (p *Payment) PayableAmount() float64 {
	if p.ProjectCost == nil || p.CalculatedHandlingCharges == nil {
		return 0
	}
	return math.Max(0, *p.ProjectCost-*p.CalculatedHandlingCharges)
}

// HandlingCharges returns the calculated charge or zero.
func (p *Payment) HandlingCharges() float64 {
	if p.CalculatedHandlingCharges == nil {
		return 0
	}
	return *p.CalculatedHandlingCharges
}

func (p *Payment) MarshalJSON() ([]byte, error) {
	type alias Payment
	return json.Marshal(struct {
		*alias
		PayableAmount float64 `json:"payableAmount"`
	}{
		alias:         (*alias)(p),
		PayableAmount: p.PayableAmount(),
	})
}

// CanTransitionTo describes the intended review flow. Status updates do not
// enforce it; it is reported to clients as a hint.
func (p *Payment) CanTransitionTo(next string) bool {
	switch p.Status {
	case PaymentPending:
		return next == PaymentApproved || next == PaymentRejected || next == PaymentPaid
	case PaymentApproved:
		return next == PaymentPaid
	default:
		return false
	}
}

func IsValidPaymentStatus(s string) bool {
	return contains(PaymentStatuses, s)
}

func IsValidTransactionType(s string) bool {
	return contains(TransactionTypes, s)
}

type CreatePaymentRequest struct {
	TransactionType           string   `json:"transactionType" validate:"required,oneof=advance invoice_payment final_payment"`
	PONo                      string   `json:"poNo" validate:"required"`
	InvoiceNo                 string   `json:"invoiceNo"`
	ProjectCost               *float64 `json:"projectCost" validate:"omitempty,gte=0"`
	HandlingChargesPercentage *float64 `json:"handlingChargesPercentage" validate:"omitempty,gte=0"`
	CalculatedHandlingCharges *float64 `json:"calculatedHandlingCharges" validate:"omitempty,gte=0"`
	Instructions              string   `json:"instructions"`
}

// StoredFile is the handle returned by file storage.
type StoredFile struct {
	URL      string
	MimeType string
}

// PaymentFilter is the query behind the payment listing. CreatedBy scopes
// results to one agent.
type PaymentFilter struct {
	Page            int
	Limit           int
	Search          string
	Status          string
	TransactionType string
	StartDate       *time.Time
	EndDate         *time.Time
	CreatedBy       *int
}

type PaymentListPagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalPayments int  `json:"totalPayments"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
}

type PaymentListResponse struct {
	Payments    []*Payment            `json:"payments"`
	Pagination  PaymentListPagination `json:"pagination"`
	TotalAmount float64               `json:"totalAmount"`
}

// PaymentExportRow is a payment joined with its creator's company and
// location for the export sheet.
type PaymentExportRow struct {
	Payment  Payment
	Company  *Company
	Location *Location
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
