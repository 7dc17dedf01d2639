package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"myfinance/internal/config"
	"myfinance/internal/core"
	"myfinance/internal/log"
)

func quiet() *log.Logger {
	return log.New(log.Config{Output: io.Discard})
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	got, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", SeedDir: "seeds"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if got.Type != SQLiteBackend || got.SQLiteDBPath != "x.db" || got.SeedDir != "seeds" {
		t.Fatalf("unexpected config %+v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown", Config{Type: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 2 || got[0] != "sqlite" || got[1] != "memory" {
		t.Fatalf("got %v", got)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(quiet()).CreateBackend(ctx, Config{Type: MemoryBackend, SeedDir: t.TempDir()})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()
	if res.Publisher != nil {
		t.Fatal("memory backend has no change feed")
	}
	if err := res.Ready(ctx); err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if _, err := res.Store.CreateExpense(ctx, "acct", core.Expense{Date: core.NewDate(2024, 1, 1), Amount: 1, ExpenseType: "Food"}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	res, err := NewFactory(quiet()).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if err := res.Ready(ctx); err != nil {
		t.Fatalf("Ready: %v", err)
	}
	list, err := res.Store.ListExpenses(ctx, "acct")
	if err != nil || len(list) != 0 {
		t.Fatalf("ListExpenses: %v %v", list, err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
}
