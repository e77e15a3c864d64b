package database

import (
	"reflect"
	"testing"
	"testing/fstest"

	"servicedesk-backend/migrations"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_payments.sql": {Data: []byte("SELECT 2")},
		"001_init.sql":     {Data: []byte("SELECT 1")},
		"003_journal.sql":  {Data: []byte("SELECT 3")},
		"README.md":        {Data: []byte("docs")},
		"archive/000.sql":  {Data: []byte("SELECT 0")},
	}

	tests := []struct {
		name    string
		applied map[string]bool
		want    []string
	}{
		{"fresh database", map[string]bool{}, []string{"001_init.sql", "002_payments.sql", "003_journal.sql"}},
		{"partially applied", map[string]bool{"001_init.sql": true}, []string{"002_payments.sql", "003_journal.sql"}},
		{"up to date", map[string]bool{"001_init.sql": true, "002_payments.sql": true, "003_journal.sql": true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PendingMigrations(fsys, ".", tt.applied)
			if err != nil {
				t.Fatalf("PendingMigrations() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PendingMigrations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	got, err := PendingMigrations(migrations.FS, ".", map[string]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 || got[0] != "001_initial_schema.sql" {
		t.Errorf("embedded migrations = %v", got)
	}
}
