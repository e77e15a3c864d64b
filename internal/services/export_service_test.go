package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/models"

	"github.com/klauspost/compress/zip"
)

type companyList []*models.Company

func (c companyList) ListAll(context.Context) ([]*models.Company, error) { return c, nil }

type locationList []*models.Location

func (l locationList) ListAll(context.Context) ([]*models.Location, error) { return l, nil }

type userList struct {
	users []*models.User
	err   error
}

func (u userList) List(context.Context) ([]*models.User, error) { return u.users, u.err }

func exportSources(users userList) ExportSources {
	return ExportSources{
		Companies: companyList{{ID: 1, Name: "Acme"}},
		Locations: locationList{{ID: 4, CompanyID: 1, Name: "Pune"}},
		Users:     users,
		Invoices:  &fakeInvoices{byID: map[int]*models.Invoice{}},
		Payments:  newFakePayments(&models.Payment{ID: 1, TransactionID: "TX-1", Status: models.PaymentPending}),
		Journals:  &fakeJournals{byID: map[int]*models.Journal{}},
	}
}

func TestDatabaseZip(t *testing.T) {
	svc := NewExportService(exportSources(userList{users: []*models.User{
		{ID: 1, Role: models.RoleAdmin, MobileNo: "9000000001", PasswordHash: "$2a$secret"},
	}}))

	data, err := svc.DatabaseZip(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	contents := map[string]string{}
	var names []string
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		contents[f.Name] = string(b)
		names = append(names, f.Name)
	}
	sort.Strings(names)

	want := []string{"companies.csv", "invoices.csv", "journals.csv", "locations.csv", "payments.csv", "users.csv"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("entries = %v, want %v", names, want)
	}
	if !strings.Contains(contents["locations.csv"], `"Acme"`) {
		t.Errorf("locations.csv misses the company name:\n%s", contents["locations.csv"])
	}
	if !strings.Contains(contents["payments.csv"], `"TX-1"`) {
		t.Errorf("payments.csv misses the payment:\n%s", contents["payments.csv"])
	}
	if strings.Contains(contents["users.csv"], "$2a$secret") {
		t.Error("users.csv leaks password hashes")
	}
}

func TestDatabaseZipAbortsOnFailure(t *testing.T) {
	svc := NewExportService(exportSources(userList{err: errors.New("connection reset")}))

	data, err := svc.DatabaseZip(context.Background())
	if data != nil {
		t.Error("partial archive returned")
	}
	if !apperrors.Is(err, apperrors.KindUnexpected) || apperrors.PublicMessage(err) != "Failed to export database" {
		t.Errorf("err = %v", err)
	}
}
