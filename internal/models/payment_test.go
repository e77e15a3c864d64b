package models

import (
	"encoding/json"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestPayableAmount(t *testing.T) {
	tests := []struct {
		name    string
		cost    *float64
		charges *float64
		want    float64
	}{
		{"cost minus charges", f(10000), f(500), 9500},
		{"floored at zero", f(100), f(250), 0},
		{"missing cost", nil, f(500), 0},
		{"missing charges", f(10000), nil, 0},
		{"zero charges", f(800), f(0), 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payment{ProjectCost: tt.cost, CalculatedHandlingCharges: tt.charges}
			if got := p.PayableAmount(); got != tt.want {
				t.Errorf("PayableAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentJSONIncludesPayableAmount(t *testing.T) {
	p := &Payment{ID: 7, Status: PaymentPending, ProjectCost: f(10000), CalculatedHandlingCharges: f(500)}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["payableAmount"] != 9500.0 {
		t.Errorf("payableAmount = %v, want 9500", out["payableAmount"])
	}
	if out["_id"] != 7.0 || out["status"] != PaymentPending {
		t.Errorf("base fields missing from %s", data)
	}
}

func TestPaymentCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{PaymentPending, PaymentApproved, true},
		{PaymentPending, PaymentRejected, true},
		{PaymentPending, PaymentPaid, true},
		{PaymentApproved, PaymentPaid, true},
		{PaymentApproved, PaymentRejected, false},
		{PaymentPaid, PaymentPending, false},
		{PaymentRejected, PaymentApproved, false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			p := &Payment{Status: tt.from}
			if got := p.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%q) = %v, want %v", tt.to, got, tt.want)
			}
		})
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, s := range PaymentStatuses {
		if !IsValidPaymentStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "PAID", "cancelled"} {
		if IsValidPaymentStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
