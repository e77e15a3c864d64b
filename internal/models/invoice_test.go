package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestInvoiceAllowedNextStatuses(t *testing.T) {
	tests := []struct {
		status string
		want   []string
	}{
		{InvoiceDraft, []string{InvoiceSent, InvoiceApproved, InvoiceInProgress, InvoiceCompleted}},
		{InvoiceApproved, []string{InvoiceInProgress, InvoiceCompleted}},
		{InvoiceCompleted, nil},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			inv := &Invoice{Status: tt.status}
			if got := inv.AllowedNextStatuses(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllowedNextStatuses() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvoiceCanTransitionTo(t *testing.T) {
	inv := &Invoice{Status: InvoiceSent}
	if !inv.CanTransitionTo(InvoiceInProgress) {
		t.Error("sent -> in_progress should be a forward step")
	}
	if inv.CanTransitionTo(InvoiceDraft) {
		t.Error("sent -> draft is not a forward step")
	}
}

func TestInvoiceJSONIncludesAllowedNextStatuses(t *testing.T) {
	data, err := json.Marshal(&Invoice{InvoiceNo: "INV-240101-001", Status: InvoiceCompleted})
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["invoiceNo"] != "INV-240101-001" {
		t.Errorf("invoiceNo = %v", out["invoiceNo"])
	}
	next, ok := out["allowedNextStatuses"].([]interface{})
	if !ok || len(next) != 0 {
		t.Errorf("allowedNextStatuses = %v, want empty list", out["allowedNextStatuses"])
	}
}
