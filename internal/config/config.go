package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/pkg/mysql"
	"github.com/JoeShih716/go-account-ledger/pkg/postgres"
)

// 儲存層種類
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config 服務設定 (config/config.yaml)
type Config struct {
	GRPC     GRPCConfig      `yaml:"grpc"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Log      LogConfig       `yaml:"log"`
	Storage  StorageConfig   `yaml:"storage"`
	MySQL    mysql.Config    `yaml:"mysql"`
	Postgres postgres.Config `yaml:"postgres"`
	Query    QueryConfig     `yaml:"query"`
	Security SecurityConfig  `yaml:"security"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
	// Reflection 開啟 gRPC reflection (方便 grpcurl 測試)
	Reflection bool `yaml:"reflection"`
}

// MetricsConfig Addr 為空時不啟動 /metrics
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	// WALPath memory driver 的日誌檔，空字串表示不落地
	WALPath string `yaml:"wal_path"`
}

type QueryConfig struct {
	// UnknownFieldPolicy "pass_through" 或 "reject"
	UnknownFieldPolicy string `yaml:"unknown_field_policy"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// Load 讀取 yaml 檔並補上預設值
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse 解析 yaml 內容、補預設值並檢查
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.Query.UnknownFieldPolicy == "" {
		c.Query.UnknownFieldPolicy = "pass_through"
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = 10
	}

	// 補全 MySQL 預設配置 (如果 yaml 沒寫)
	if c.MySQL.Port == 0 {
		c.MySQL.Port = 3306
	}
	if c.MySQL.MaxOpenConns == 0 {
		c.MySQL.MaxOpenConns = 100
	}
	if c.MySQL.MaxIdleConns == 0 {
		c.MySQL.MaxIdleConns = 10
	}
	if c.MySQL.ConnMaxLifetime == 0 {
		c.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
	if c.MySQL.ConnectRetries == 0 {
		c.MySQL.ConnectRetries = 10
	}

	if c.Postgres.MaxOpenConns == 0 {
		c.Postgres.MaxOpenConns = 25
	}
	if c.Postgres.MaxIdleConns == 0 {
		c.Postgres.MaxIdleConns = 5
	}
	if c.Postgres.ConnMaxLifetime == 0 {
		c.Postgres.ConnMaxLifetime = 30 * time.Minute
	}
}

// Validate 檢查列舉值
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Storage.Driver == DriverPostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required for the postgres driver")
	}
	return nil
}

// Policy 解析 query.unknown_field_policy
func (c Config) Policy() (domain.UnknownFieldPolicy, error) {
	switch strings.ToLower(c.Query.UnknownFieldPolicy) {
	case "pass_through", "passthrough":
		return domain.UnknownFieldPassThrough, nil
	case "reject":
		return domain.UnknownFieldReject, nil
	default:
		return 0, fmt.Errorf("unknown query.unknown_field_policy %q", c.Query.UnknownFieldPolicy)
	}
}
