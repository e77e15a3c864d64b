package export

import (
	"strconv"
	"time"

	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/timeutil"
)

// CompanyLocationColumns is the header of companies_locations.csv.
var CompanyLocationColumns = []string{
	"Company ID", "Company Name", "Company Phone", "Company Email",
	"Location ID", "Location Name", "Location Address", "Location Email",
	"Contact Person", "Contact Mobile", "Account Manager", "Agent Login Mobile",
}

// CompanyLocationRecords flattens companies with their locations, one line
// per location. A company without locations still gets one line with the
// location columns blank.
func CompanyLocationRecords(rows []*models.CompanyLocationRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		c := row.Company
		record := []string{itoa(c.ID), c.Name, c.Phone, c.Email}
		if l := row.Location; l != nil {
			record = append(record,
				itoa(l.ID), l.Name, l.Address, l.Email,
				l.ContactPerson, l.ContactMobile,
				optInt(l.UserID), l.AgentMobileNo,
			)
		} else {
			record = append(record, "", "", "", "", "", "", "", "")
		}
		records = append(records, record)
	}
	return records
}

// PaymentExportColumns is the header of the payments export.
var PaymentExportColumns = []string{
	"Company Name", "Company ID", "Company Phone", "Company Email",
	"Location Name", "Location ID", "Location Address", "Location Email", "Location City", "Location State",
	"Contact Person Name", "Contact Email", "Contact Mobile",
	"Invoice Number", "Payment ID", "Payment Amount", "Payment Status", "Payment Mode",
	"Transaction Reference", "Payment Date", "Created Date", "Updated Date",
}

// PaymentExportRecords renders one line per payment. Company and location
// come from the creating agent; city and state are not tracked.
func PaymentExportRecords(rows []*models.PaymentExportRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		var company models.Company
		if row.Company != nil {
			company = *row.Company
		}
		var location models.Location
		if row.Location != nil {
			location = *row.Location
		}
		p := row.Payment

		amount := ""
		if p.HandlingCharges() != 0 {
			amount = formatFloat(p.HandlingCharges())
		}

		records = append(records, []string{
			company.Name,
			nonZero(company.ID),
			company.Phone,
			company.Email,
			location.Name,
			nonZero(location.ID),
			location.Address,
			location.Email,
			"",
			"",
			location.ContactPerson,
			location.Email,
			location.ContactMobile,
			p.InvoiceNo,
			itoa(p.ID),
			amount,
			p.Status,
			p.TransactionType,
			p.TransactionID,
			dateOnly(p.PaymentDate),
			dateOnly(&p.CreatedAt),
			dateOnly(&p.UpdatedAt),
		})
	}
	return records
}

// Table is one collection of the database export.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// File renders the table as a CSV archive entry.
func (t Table) File() NamedFile {
	return NamedFile{Name: t.Name + ".csv", Data: SerializeRows(t.Columns, t.Rows)}
}

func CompaniesTable(companies []*models.Company) Table {
	t := Table{Name: "companies", Columns: []string{"_id", "name", "phone", "email", "createdAt", "updatedAt"}}
	for _, c := range companies {
		t.Rows = append(t.Rows, []string{itoa(c.ID), c.Name, c.Phone, c.Email, isoTime(c.CreatedAt), isoTime(c.UpdatedAt)})
	}
	return t
}

func LocationsTable(locations []*models.Location, companyNames map[int]string) Table {
	t := Table{Name: "locations", Columns: []string{
		"_id", "companyId", "companyName", "name", "address", "email", "contactPerson",
		"contactMobile", "userId", "agentMobileNo", "createdAt", "updatedAt",
	}}
	for _, l := range locations {
		t.Rows = append(t.Rows, []string{
			itoa(l.ID), itoa(l.CompanyID), companyNames[l.CompanyID], l.Name, l.Address, l.Email,
			l.ContactPerson, l.ContactMobile, optInt(l.UserID), l.AgentMobileNo,
			isoTime(l.CreatedAt), isoTime(l.UpdatedAt),
		})
	}
	return t
}

// UsersTable never includes password hashes.
func UsersTable(users []*models.User) Table {
	t := Table{Name: "users", Columns: []string{"_id", "role", "mobileNo", "companyId", "locationId", "createdAt", "updatedAt"}}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			itoa(u.ID), u.Role, u.MobileNo, optInt(u.CompanyID), optInt(u.LocationID),
			isoTime(u.CreatedAt), isoTime(u.UpdatedAt),
		})
	}
	return t
}

func InvoicesTable(invoices []*models.Invoice) Table {
	t := Table{Name: "invoices", Columns: []string{
		"_id", "invoiceNo", "companyId", "companyName", "locationId", "locationName",
		"amount", "gstAmount", "description", "status", "createdAt", "updatedAt",
	}}
	for _, inv := range invoices {
		t.Rows = append(t.Rows, []string{
			itoa(inv.ID), inv.InvoiceNo, optInt(inv.CompanyID), inv.CompanyName,
			optInt(inv.LocationID), inv.LocationName, formatFloat(inv.Amount),
			formatFloat(inv.GSTAmount), inv.Description, inv.Status,
			isoTime(inv.CreatedAt), isoTime(inv.UpdatedAt),
		})
	}
	return t
}

func PaymentsTable(payments []*models.Payment) Table {
	t := Table{Name: "payments", Columns: []string{
		"_id", "transactionType", "transactionId", "poNo", "invoiceNo", "projectCost",
		"handlingChargesPercentage", "calculatedHandlingCharges", "instructions", "status",
		"adminRemarks", "screenshotURL", "screenshotFileType", "paymentDate", "createdBy",
		"createdByMobileNo", "createdAt", "updatedAt",
	}}
	for _, p := range payments {
		paymentDate := ""
		if p.PaymentDate != nil {
			paymentDate = isoTime(*p.PaymentDate)
		}
		t.Rows = append(t.Rows, []string{
			itoa(p.ID), p.TransactionType, p.TransactionID, p.PONo, p.InvoiceNo,
			optFloat(p.ProjectCost), optFloat(p.HandlingChargesPercentage),
			optFloat(p.CalculatedHandlingCharges), p.Instructions, p.Status, p.Remarks,
			p.ScreenshotURL, p.ScreenshotFileType, paymentDate, optInt(p.CreatedBy),
			p.CreatedByMobileNo, isoTime(p.CreatedAt), isoTime(p.UpdatedAt),
		})
	}
	return t
}

func JournalsTable(journals []*models.Journal) Table {
	t := Table{Name: "journals", Columns: []string{
		"_id", "name", "amount", "mode", "narration", "screenshotUrl", "createdBy", "createdAt", "updatedAt",
	}}
	for _, j := range journals {
		t.Rows = append(t.Rows, []string{
			itoa(j.ID), j.Name, formatFloat(j.Amount), j.Mode, j.Narration, j.ScreenshotURL,
			optInt(j.CreatedBy), isoTime(j.CreatedAt), isoTime(j.UpdatedAt),
		})
	}
	return t
}

func itoa(n int) string { return strconv.Itoa(n) }

func nonZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func optInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func dateOnly(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return timeutil.ToIST(*t).Format(timeutil.DateLayout)
}
