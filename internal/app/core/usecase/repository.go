package usecase

import (
	"context"
	"time"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// AccountRepository 帳戶儲存層介面 (系統唯一的資料來源)
//
// 查無資料時回傳 domain.ErrAccountNotFound。
// 回傳的 domain.Account 皆為複本，呼叫端修改不影響儲存層。
type AccountRepository interface {
	FetchAll(ctx context.Context) ([]domain.Account, error)
	FetchByID(ctx context.Context, id string) (domain.Account, error)
	FetchByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	FetchByEmail(ctx context.Context, email string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) error
	Update(ctx context.Context, id, ownerName, email, accountNumber string) error
	Delete(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, digest string) error
	// SetBalance 唯一的餘額寫入方式
	SetBalance(ctx context.Context, id string, balance int64) error
}

// Transactor 支援交易的儲存層
//
// fn 內拿到的 repo 綁定同一個資料庫交易，讀取會加上 row lock (SELECT ... FOR UPDATE)。
// fn 回傳錯誤時整筆 rollback。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repo AccountRepository) error) error
}

// PasswordHasher 密碼雜湊
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, digest string) bool
}

// Metrics 操作統計
type Metrics interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, string, time.Duration) {}
