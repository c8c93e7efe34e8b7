package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.GRPC.Addr != ":50051" || cfg.Storage.Driver != DriverMemory || cfg.Security.BcryptCost != 10 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.MySQL.MaxOpenConns != 100 || cfg.MySQL.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("mysql defaults not applied: %+v", cfg.MySQL)
	}
	if p, _ := cfg.Policy(); p != domain.UnknownFieldPassThrough {
		t.Fatalf("policy = %v, want pass through", p)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
grpc:
  addr: ":6000"
storage:
  driver: mysql
mysql:
  host: db
  user: root
  dbname: ledger
  conn_max_lifetime: 5m
query:
  unknown_field_policy: reject
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GRPC.Addr != ":6000" || cfg.Storage.Driver != DriverMySQL || cfg.MySQL.Host != "db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.MySQL.ConnMaxLifetime != 5*time.Minute || cfg.MySQL.Port != 3306 {
		t.Fatalf("mysql = %+v", cfg.MySQL)
	}
	if p, _ := cfg.Policy(); p != domain.UnknownFieldReject {
		t.Fatalf("policy = %v, want reject", p)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"driver", "storage: {driver: redis}"},
		{"policy", "query: {unknown_field_policy: ignore}"},
		{"postgres without dsn", "storage: {driver: postgres}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
