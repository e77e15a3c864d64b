package repositories

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"servicedesk-backend/internal/models"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PO-12", "%PO-12%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := containsPattern(tt.in); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPaymentWhere(t *testing.T) {
	agent := 42
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name     string
		filter   models.PaymentFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "no filter",
			filter:  models.PaymentFilter{},
			wantSQL: "",
		},
		{
			name:     "agent scope only",
			filter:   models.PaymentFilter{CreatedBy: &agent},
			wantSQL:  " WHERE p.created_by = $1",
			wantArgs: []interface{}{42},
		},
		{
			name:     "search reuses one argument",
			filter:   models.PaymentFilter{Search: " inv-7 "},
			wantSQL:  " WHERE (p.po_no ILIKE $1 OR p.invoice_no ILIKE $1)",
			wantArgs: []interface{}{"%inv-7%"},
		},
		{
			name: "everything",
			filter: models.PaymentFilter{
				CreatedBy:       &agent,
				Search:          "PO",
				Status:          models.PaymentPaid,
				TransactionType: models.TransactionAdvance,
				StartDate:       &start,
				EndDate:         &end,
			},
			wantSQL: " WHERE p.created_by = $1 AND (p.po_no ILIKE $2 OR p.invoice_no ILIKE $2)" +
				" AND p.status = $3 AND p.transaction_type = $4 AND p.created_at >= $5 AND p.created_at <= $6",
			wantArgs: []interface{}{42, "%PO%", "paid", "advance", start, end},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := paymentWhere(tt.filter)
			if got := b.sql(); got != tt.wantSQL {
				t.Errorf("sql() = %q\nwant    %q", got, tt.wantSQL)
			}
			if !reflect.DeepEqual(b.args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", b.args, tt.wantArgs)
			}
			if b.next() != len(tt.wantArgs)+1 {
				t.Errorf("next() = %d", b.next())
			}
		})
	}
}

func TestCompanyWhere(t *testing.T) {
	if got := companyWhere(models.CompanyFilter{Search: "  "}).sql(); got != "" {
		t.Errorf("blank search produced %q", got)
	}

	b := companyWhere(models.CompanyFilter{Search: "acme"})
	sql := b.sql()
	for _, col := range []string{"c.name", "l.name", "l.address", "l.email", "l.contact_person", "l.contact_mobile"} {
		if !strings.Contains(sql, col+" ILIKE $1") {
			t.Errorf("search does not cover %s: %s", col, sql)
		}
	}
	if len(b.args) != 1 || b.args[0] != "%acme%" {
		t.Errorf("args = %v", b.args)
	}
}

func TestCompanyOrderBy(t *testing.T) {
	tests := []struct {
		sortBy, sortOrder, want string
	}{
		{"", "", " ORDER BY c.created_at DESC, c.id DESC"},
		{"name", "asc", " ORDER BY c.name ASC, c.id ASC"},
		{"name", "ASC", " ORDER BY c.name ASC, c.id ASC"},
		{"updatedAt", "desc", " ORDER BY c.updated_at DESC, c.id DESC"},
		{"name; DROP TABLE companies", "asc", " ORDER BY c.created_at ASC, c.id ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy+"/"+tt.sortOrder, func(t *testing.T) {
			if got := companyOrderBy(tt.sortBy, tt.sortOrder); got != tt.want {
				t.Errorf("companyOrderBy() = %q, want %q", got, tt.want)
			}
		})
	}
}
