package services

import (
	"context"
	"io"
	"sort"
	"time"

	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
	"servicedesk-backend/internal/storage"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func admin() *models.User {
	return &models.User{ID: 1, Role: models.RoleAdmin, MobileNo: "9000000001"}
}

func agent(id, locationID int) *models.User {
	return &models.User{ID: id, Role: models.RoleAgent, MobileNo: "9000000099", LocationID: intPtr(locationID), CompanyID: intPtr(1)}
}

type fakePayments struct {
	byID     map[int]*models.Payment
	nextID   int
	takenTx  map[string]bool
	lastList models.PaymentFilter
}

func newFakePayments(existing ...*models.Payment) *fakePayments {
	f := &fakePayments{byID: map[int]*models.Payment{}, takenTx: map[string]bool{}, nextID: 100}
	for _, p := range existing {
		f.byID[p.ID] = p
		f.takenTx[p.TransactionID] = true
	}
	return f
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	if f.takenTx[p.TransactionID] {
		return repositories.ErrDuplicate
	}
	f.nextID++
	p.ID = f.nextID
	f.takenTx[p.TransactionID] = true
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePayments) Get(_ context.Context, id int) (*models.Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) matching(pf models.PaymentFilter) []*models.Payment {
	var out []*models.Payment
	for _, p := range f.byID {
		if pf.CreatedBy != nil && (p.CreatedBy == nil || *p.CreatedBy != *pf.CreatedBy) {
			continue
		}
		if pf.Status != "" && p.Status != pf.Status {
			continue
		}
		if pf.TransactionType != "" && p.TransactionType != pf.TransactionType {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakePayments) List(_ context.Context, pf models.PaymentFilter) ([]*models.Payment, error) {
	f.lastList = pf
	return f.matching(pf), nil
}

func (f *fakePayments) ListAll(_ context.Context) ([]*models.Payment, error) {
	return f.matching(models.PaymentFilter{}), nil
}

func (f *fakePayments) Aggregate(_ context.Context, pf models.PaymentFilter) (models.PaymentAggregate, error) {
	var agg models.PaymentAggregate
	for _, p := range f.matching(pf) {
		agg.Count++
		agg.HandlingCharges += p.HandlingCharges()
		if p.ProjectCost != nil {
			agg.ProjectCost += *p.ProjectCost
		}
	}
	return agg, nil
}

func (f *fakePayments) CreatedSince(_ context.Context, since time.Time, createdBy *int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.matching(models.PaymentFilter{CreatedBy: createdBy}) {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) UpdateStatus(_ context.Context, id int, status string, remarks *string, paymentDate *time.Time, screenshot *models.StoredFile) error {
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Status = status
	if remarks != nil {
		p.Remarks = *remarks
	}
	if paymentDate != nil {
		p.PaymentDate = paymentDate
	}
	if screenshot != nil {
		p.ScreenshotURL, p.ScreenshotFileType = screenshot.URL, screenshot.MimeType
	}
	return nil
}

func (f *fakePayments) DeleteWithStatus(_ context.Context, id int, status string) (bool, error) {
	p, ok := f.byID[id]
	if !ok || p.Status != status {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakePayments) ExportRows(_ context.Context, createdBy *int) ([]*models.PaymentExportRow, error) {
	var rows []*models.PaymentExportRow
	for _, p := range f.matching(models.PaymentFilter{CreatedBy: createdBy}) {
		rows = append(rows, &models.PaymentExportRow{
			Payment:  *p,
			Company:  &models.Company{ID: 1, Name: "Acme & Sons"},
			Location: &models.Location{ID: 2, Name: "North Wing"},
		})
	}
	return rows, nil
}

// fakeFiles records what it was asked to store.
type fakeFiles struct {
	stored []string
}

func (f *fakeFiles) Store(_ context.Context, u *storage.Upload) (*models.StoredFile, error) {
	if _, err := io.ReadAll(u.Body); err != nil {
		return nil, err
	}
	f.stored = append(f.stored, u.Prefix+"/"+u.Filename)
	return &models.StoredFile{URL: "/uploads/" + u.Prefix + "/" + u.Filename, MimeType: "image/png"}, nil
}

type fakeInvoices struct {
	created    []*models.Invoice
	duplicates int
	attempts   int
	byID       map[int]*models.Invoice
}

func (f *fakeInvoices) CreateWithHistory(_ context.Context, inv *models.Invoice, _ models.InvoiceHistoryEntry) error {
	f.attempts++
	if f.duplicates < 0 || f.attempts <= f.duplicates {
		return repositories.ErrDuplicate
	}
	inv.ID = len(f.created) + 1
	f.created = append(f.created, inv)
	return nil
}

func (f *fakeInvoices) AppendStatus(_ context.Context, id int, entry models.InvoiceHistoryEntry) error {
	inv, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	inv.Status = entry.Status
	return nil
}

func (f *fakeInvoices) Get(_ context.Context, id int) (*models.Invoice, error) {
	inv, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoices) List(_ context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, inv := range f.byID {
		if filter.LocationID != nil && (inv.LocationID == nil || *inv.LocationID != *filter.LocationID) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoices) Update(context.Context, int, *models.UpdateInvoiceRequest) error { return nil }

func (f *fakeInvoices) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCompanies struct {
	byID    map[int]*models.Company
	created []time.Time
}

func (f *fakeCompanies) Get(_ context.Context, id int) (*models.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) error {
	c.ID = len(f.byID) + 1
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCompanies) Update(context.Context, int, *models.UpdateCompanyRequest) (*models.Company, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeCompanies) Delete(_ context.Context, id int) (*models.Company, error) {
	return f.Get(context.Background(), id)
}

func (f *fakeCompanies) List(context.Context, models.CompanyFilter) ([]*models.Company, error) {
	return nil, nil
}

func (f *fakeCompanies) Count(context.Context, models.CompanyFilter) (int, error) { return len(f.byID), nil }

func (f *fakeCompanies) ListWithLocations(context.Context) ([]*models.CompanyLocationRow, error) {
	return nil, nil
}

func (f *fakeCompanies) CountAll(context.Context) (int, error) { return len(f.byID), nil }

func (f *fakeCompanies) CreatedSince(_ context.Context, since time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, t := range f.created {
		if !t.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeLocations struct {
	byID       map[int]*models.Location
	takenLogin map[string]bool
	created    int
}

func (f *fakeLocations) Get(_ context.Context, id int) (*models.Location, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return l, nil
}

func (f *fakeLocations) CreateWithAgent(_ context.Context, loc *models.Location, agent *models.User) error {
	if f.takenLogin[agent.MobileNo] {
		return repositories.ErrDuplicate
	}
	f.created++
	loc.ID = 100 + f.created
	agent.ID = 200 + f.created
	agent.Role = models.RoleAgent
	loc.UserID = &agent.ID
	return nil
}

func (f *fakeLocations) ListByCompany(context.Context, int) ([]*models.Location, error) { return nil, nil }

func (f *fakeLocations) Update(context.Context, int, int, *models.UpdateLocationRequest, string) (*models.Location, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeLocations) Delete(context.Context, int, int) (*models.Location, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeLocations) CountAll(context.Context) (int, error) { return len(f.byID), nil }

type fakeJournals struct {
	byID map[int]*models.Journal
}

func (f *fakeJournals) Create(_ context.Context, j *models.Journal) error {
	j.ID = len(f.byID) + 1
	f.byID[j.ID] = j
	return nil
}

func (f *fakeJournals) Get(_ context.Context, id int) (*models.Journal, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return j, nil
}

func (f *fakeJournals) List(context.Context) ([]*models.Journal, error) {
	var out []*models.Journal
	for _, j := range f.byID {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJournals) Update(_ context.Context, id int, p *models.JournalPatch) (*models.Journal, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.Name != nil {
		j.Name = *p.Name
	}
	if p.ScreenshotURL != nil {
		j.ScreenshotURL = *p.ScreenshotURL
	}
	return j, nil
}

func (f *fakeJournals) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeJournals) CountAll(context.Context) (int, error) { return len(f.byID), nil }

func (f *fakeJournals) CreatedSince(_ context.Context, since time.Time) ([]*models.Journal, error) {
	var out []*models.Journal
	for _, j := range f.byID {
		if !j.CreatedAt.Before(since) {
			out = append(out, j)
		}
	}
	return out, nil
}
