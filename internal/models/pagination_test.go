package models

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name              string
		page, limit, tot  int
		wantPages         int
		wantNext, wantPrv bool
	}{
		{"first of three", 1, 10, 25, 3, true, false},
		{"middle", 2, 10, 25, 3, true, true},
		{"last", 3, 10, 25, 3, false, true},
		{"past the end", 5, 10, 25, 3, false, true},
		{"exact multiple", 2, 5, 10, 2, false, true},
		{"empty", 1, 10, 0, 0, false, false},
		{"defaults applied", 0, 0, 11, 2, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.tot)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.HasNext != tt.wantNext || p.HasPrev != tt.wantPrv {
				t.Errorf("HasNext/HasPrev = %v/%v, want %v/%v", p.HasNext, p.HasPrev, tt.wantNext, tt.wantPrv)
			}
			if p.TotalCount != tt.tot {
				t.Errorf("TotalCount = %d, want %d", p.TotalCount, tt.tot)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(3, 10); got != 20 {
		t.Errorf("Offset(3, 10) = %d, want 20", got)
	}
	if got := Offset(0, 0); got != 0 {
		t.Errorf("Offset(0, 0) = %d, want 0", got)
	}
}
