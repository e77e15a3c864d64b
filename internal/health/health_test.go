package health

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckBasic(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })
	redisUp := func(context.Context) bool { return true }
	redisDown := func(context.Context) bool { return false }

	tests := []struct {
		name      string
		db        Pinger
		redis     func(context.Context) bool
		want      string
		wantRedis string
	}{
		{"all healthy", up, redisUp, "healthy", "healthy"},
		{"redis disabled", up, nil, "healthy", "disabled"},
		{"redis down", up, redisDown, "degraded", "unhealthy"},
		{"database down", down, redisUp, "unhealthy", "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHealthChecker(tt.db, tt.redis).CheckBasic(context.Background())
			if got.Status != tt.want {
				t.Errorf("status = %q, want %q", got.Status, tt.want)
			}
			if got.Redis.Status != tt.wantRedis {
				t.Errorf("redis = %q, want %q", got.Redis.Status, tt.wantRedis)
			}
			if got.Host != nil {
				t.Error("basic check should not collect host stats")
			}
		})
	}
}

func TestCheckDetailedIncludesHost(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	got := NewHealthChecker(up, nil).CheckDetailed(context.Background())
	if got.Host == nil {
		t.Fatal("expected host stats")
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(512 * 1024 * 1024); got != "512.0 MB" {
		t.Errorf("got %q", got)
	}
	if got := formatBytes(3 * 1024 * 1024 * 1024); got != "3.0 GB" {
		t.Errorf("got %q", got)
	}
}
