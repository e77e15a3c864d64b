package models

type Summary struct {
	TotalCompanies   int `json:"totalCompanies"`
	TotalLocations   int `json:"totalLocations"`
	TotalPayments    int `json:"totalPayments"`
	PendingPayments  int `json:"pendingPayments"`
	ApprovedPayments int `json:"approvedPayments"`
	TotalJournals    int `json:"totalJournals"`
}

type StatusAggregate struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type PaymentStats struct {
	Pending  StatusAggregate `json:"pending"`
	Approved StatusAggregate `json:"approved"`
	Paid     StatusAggregate `json:"paid"`
	Total    int             `json:"total"`
}

type AgentPaymentStats struct {
	TotalPayments        int     `json:"totalPayments"`
	PendingPayments      int     `json:"pendingPayments"`
	ApprovedPayments     int     `json:"approvedPayments"`
	PaidPayments         int     `json:"paidPayments"`
	RejectedPayments     int     `json:"rejectedPayments"`
	AdvancePayments      int     `json:"advancePayments"`
	TotalPaidAmount      float64 `json:"totalPaidAmount"`
	TotalProjectCost     float64 `json:"totalProjectCost"`
	TotalHandlingCharges float64 `json:"totalHandlingCharges"`
}

// PaymentTrendPoint is one month of payment activity. The amount fields are
// only reported for the agent trend.
type PaymentTrendPoint struct {
	Month       string   `json:"month"`
	Total       int      `json:"total"`
	Pending     int      `json:"pending"`
	Approved    int      `json:"approved"`
	Rejected    int      `json:"rejected"`
	Paid        int      `json:"paid"`
	TotalAmount *float64 `json:"totalAmount,omitempty"`
	PaidAmount  *float64 `json:"paidAmount,omitempty"`
}

type CompanyGrowthPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type JournalActivityPoint struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// PaymentAggregate sums over a payment filter.
type PaymentAggregate struct {
	Count           int
	HandlingCharges float64
	ProjectCost     float64
}
