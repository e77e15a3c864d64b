package repositories

import (
	"fmt"
	"strings"

	"servicedesk-backend/internal/models"
)

// whereBuilder collects AND-ed conditions with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition. format receives the argument number, use %[1]d
// to reference it more than once.
func (b *whereBuilder) add(format string, value interface{}) {
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf(format, len(b.args)))
}

func (b *whereBuilder) sql() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

// next returns the placeholder number following the collected args.
func (b *whereBuilder) next() int {
	return len(b.args) + 1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// paymentWhere builds the filter behind payment listings, totals and
// exports. Columns are qualified with the p alias.
func paymentWhere(f models.PaymentFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.CreatedBy != nil {
		b.add("p.created_by = $%d", *f.CreatedBy)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		b.add("(p.po_no ILIKE $%[1]d OR p.invoice_no ILIKE $%[1]d)", containsPattern(s))
	}
	if f.Status != "" {
		b.add("p.status = $%d", f.Status)
	}
	if f.TransactionType != "" {
		b.add("p.transaction_type = $%d", f.TransactionType)
	}
	if f.StartDate != nil {
		b.add("p.created_at >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		b.add("p.created_at <= $%d", *f.EndDate)
	}
	return b
}

// companyWhere matches the company name or any of its locations' text
// fields.
func companyWhere(f models.CompanyFilter) *whereBuilder {
	b := &whereBuilder{}
	if s := strings.TrimSpace(f.Search); s != "" {
		b.add(`(c.name ILIKE $%[1]d OR EXISTS (
			SELECT 1 FROM locations l
			WHERE l.company_id = c.id
			  AND (l.name ILIKE $%[1]d OR l.address ILIKE $%[1]d OR l.email ILIKE $%[1]d
			       OR l.contact_person ILIKE $%[1]d OR l.contact_mobile ILIKE $%[1]d)))`,
			containsPattern(s))
	}
	return b
}

var companySortColumns = map[string]string{
	"name":      "c.name",
	"phone":     "c.phone",
	"email":     "c.email",
	"createdAt": "c.created_at",
	"updatedAt": "c.updated_at",
}

// companyOrderBy returns a safe ORDER BY clause. Unknown sort keys fall
// back to creation time; the direction is descending unless asc is asked.
func companyOrderBy(sortBy, sortOrder string) string {
	column, ok := companySortColumns[sortBy]
	if !ok {
		column = "c.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, c.id %s", column, direction, direction)
}
