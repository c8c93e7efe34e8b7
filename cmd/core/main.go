package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/hashing"
	memory_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/metrics"
	mysql_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/mysql"
	postgres_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/postgres"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/internal/config"
	"github.com/JoeShih716/go-account-ledger/pkg/mysql"
	"github.com/JoeShih716/go-account-ledger/pkg/observability"
	"github.com/JoeShih716/go-account-ledger/pkg/postgres"
	"github.com/JoeShih716/go-account-ledger/pkg/wal"
)

const serviceName = "account-ledger"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "core",
		Short:        "Account ledger gRPC server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "path to the yaml config file")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	// 1. 載入設定
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(serviceName, cfg.Log.Level)
	slog.SetDefault(logger)

	// 2. 初始化儲存層
	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	// 3. 初始化 UseCase
	policy, _ := cfg.Policy()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	core := usecase.NewCoreUseCase(repo, hashing.NewBcryptHasher(cfg.Security.BcryptCost),
		usecase.WithLogger(logger),
		usecase.WithMetrics(metrics.NewPrometheusMetrics(registry)),
		usecase.WithUnknownFieldPolicy(policy),
	)

	// 4. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPC.Addr, err)
	}
	s := grpc.NewServer()
	grpc_adapter.Register(s, grpc_adapter.NewGrpcServer(core))
	if cfg.GRPC.Reflection {
		reflection.Register(s)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("starting grpc server", "addr", cfg.GRPC.Addr, "storage", cfg.Storage.Driver)
		if err := s.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()

	// 5. 啟動 /metrics
	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics serve: %w", err)
			}
		}()
	}

	// Graceful Shutdown
	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err = <-errCh:
		logger.Error("server failed", "error", err.Error())
	}

	s.GracefulStop()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	logger.Info("server exited")
	return err
}

// openRepository 依 storage.driver 建立儲存層，回傳的 close 函式負責釋放連線/檔案
func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (usecase.AccountRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		client, err := mysql.NewClient(ctx, cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := mysql_adapter.NewAccountRepository(client)
		if err := repo.Migrate(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("migrate mysql: %w", err)
		}
		logger.Info("connected to mysql", "host", cfg.MySQL.Host, "db", cfg.MySQL.DBName)
		return repo, func() { client.Close() }, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres_adapter.NewAccountRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("connected to postgres")
		return repo, func() { db.Close() }, nil

	default:
		if cfg.Storage.WALPath == "" {
			repo, err := memory_adapter.NewAccountRepository(nil, nil)
			return repo, func() {}, err
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.WALPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create wal dir: %w", err)
		}
		journal, err := wal.Open(cfg.Storage.WALPath, wal.FileModePrivate)
		if err != nil {
			return nil, nil, fmt.Errorf("open wal: %w", err)
		}
		repo, err := memory_adapter.NewAccountRepository(nil, journal)
		if err != nil {
			journal.Close()
			return nil, nil, fmt.Errorf("replay wal: %w", err)
		}
		if err := repo.Compact(ctx); err != nil {
			journal.Close()
			return nil, nil, err
		}
		all, _ := repo.FetchAll(ctx)
		logger.Info("memory storage recovered", "wal", cfg.Storage.WALPath, "accounts", len(all))
		return repo, func() { journal.Close() }, nil
	}
}
