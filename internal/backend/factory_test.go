package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestFactoryMemoryBackend(t *testing.T) {
	f := NewFactory(core.DefaultRegistry(decimal.NewFromInt(95)), nil)

	result, err := f.CreateBackend(context.Background(), Config{
		Type:          MemoryBackend,
		DataDirectory: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if result.Backend == nil {
		t.Fatal("nil backend")
	}
	if result.Cleanup != nil {
		t.Error("memory backend should need no cleanup")
	}

	snaps, err := result.Backend.LoadSnapshots(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected empty store, got %d snapshots", len(snaps))
	}
}

func TestFactorySQLiteBackend(t *testing.T) {
	f := NewFactory(core.DefaultRegistry(decimal.NewFromInt(95)), nil)

	result, err := f.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend should provide cleanup")
	}
	defer result.Cleanup()

	if _, err := result.Backend.LoadRules(context.Background()); err != nil {
		t.Errorf("LoadRules: %v", err)
	}
}

func TestFactoryRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(core.DefaultRegistry(decimal.NewFromInt(95)), nil)

	tests := []struct {
		name   string
		config Config
	}{
		{"unknown type", Config{Type: "redis"}},
		{"sqlite without path", Config{Type: SQLiteBackend}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.CreateBackend(context.Background(), tt.config); err == nil {
				t.Error("expected error")
			}
		})
	}
}
