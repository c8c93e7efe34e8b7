package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層
//
// 帳務操作 (Deposit / Payment / Transfer)、列表查詢與帳戶生命週期都在這裡，
// 儲存與密碼雜湊交給外部實作。
type CoreUseCase struct {
	repo    AccountRepository
	hasher  PasswordHasher
	locks   *accountLocks
	policy  domain.UnknownFieldPolicy
	logger  *slog.Logger
	metrics Metrics
}

// Option 定義了 CoreUseCase 的配置選項函數
type Option func(*CoreUseCase)

// WithLogger 設定 logger，預設不輸出
func WithLogger(logger *slog.Logger) Option {
	return func(c *CoreUseCase) {
		c.logger = logger
	}
}

// WithMetrics 設定操作統計
func WithMetrics(metrics Metrics) Option {
	return func(c *CoreUseCase) {
		c.metrics = metrics
	}
}

// WithUnknownFieldPolicy 設定查詢遇到未知欄位時的行為
func WithUnknownFieldPolicy(policy domain.UnknownFieldPolicy) Option {
	return func(c *CoreUseCase) {
		c.policy = policy
	}
}

func NewCoreUseCase(repo AccountRepository, hasher PasswordHasher, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		repo:    repo,
		hasher:  hasher,
		locks:   newAccountLocks(),
		policy:  domain.UnknownFieldPassThrough,
		logger:  slog.New(slog.DiscardHandler),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// observe 記錄操作結果，搭配 defer 使用
func (c *CoreUseCase) observe(operation string, start time.Time, err *error) {
	c.metrics.ObserveOperation(operation, outcome(*err), time.Since(start))
}

// outcome 將錯誤轉成統計用的標籤
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrPartialTransfer):
		return "partial_transfer"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return "already_exists"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "persistence_failure"
	}
}

// storageError 統一儲存層錯誤：查無資料保留 ErrAccountNotFound，其餘視為 ErrPersistenceFailure
func storageError(op, id string, err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, domain.ErrAccountNotFound)
	}
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%s %s: %w: %w", op, id, domain.ErrPersistenceFailure, err)
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrAccountAlreadyExists) ||
		errors.Is(err, domain.ErrInsufficientBalance) ||
		errors.Is(err, domain.ErrInvalidArgument) ||
		errors.Is(err, domain.ErrPersistenceFailure) ||
		errors.Is(err, domain.ErrPartialTransfer)
}
