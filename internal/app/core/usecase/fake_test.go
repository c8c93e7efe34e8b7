package usecase

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

var errDiskFull = errors.New("disk full")

// fakeRepository 記憶體版儲存層，可透過 setBalanceFn 注入寫入錯誤
type fakeRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	order    []string
	writes   int

	setBalanceFn func(id string, balance int64) error
	fetchAllFn   func() ([]domain.Account, error)
}

func newFakeRepository(accounts ...domain.Account) *fakeRepository {
	r := &fakeRepository{accounts: make(map[string]domain.Account)}
	for _, acc := range accounts {
		r.accounts[acc.ID] = acc
		r.order = append(r.order, acc.ID)
	}
	return r
}

func (r *fakeRepository) balance(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id].Balance
}

func (r *fakeRepository) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *fakeRepository) FetchAll(ctx context.Context) ([]domain.Account, error) {
	if r.fetchAllFn != nil {
		return r.fetchAllFn()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.accounts[id])
	}
	return out, nil
}

func (r *fakeRepository) FetchByID(ctx context.Context, id string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (r *fakeRepository) fetchBy(match func(domain.Account) bool) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if acc := r.accounts[id]; match(acc) {
			return acc, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (r *fakeRepository) FetchByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return r.fetchBy(func(a domain.Account) bool { return a.AccountNumber == accountNumber })
}

func (r *fakeRepository) FetchByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.fetchBy(func(a domain.Account) bool { return email != "" && a.Email == email })
}

func (r *fakeRepository) Create(ctx context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.accounts[account.ID] = account
	r.order = append(r.order, account.ID)
	return nil
}

func (r *fakeRepository) Update(ctx context.Context, id, ownerName, email, accountNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	r.writes++
	acc.OwnerName, acc.Email, acc.AccountNumber = ownerName, email, accountNumber
	r.accounts[id] = acc
	return nil
}

func (r *fakeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	r.writes++
	delete(r.accounts, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepository) SetPassword(ctx context.Context, id, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	r.writes++
	acc.PasswordDigest = digest
	r.accounts[id] = acc
	return nil
}

func (r *fakeRepository) SetBalance(ctx context.Context, id string, balance int64) error {
	if r.setBalanceFn != nil {
		if err := r.setBalanceFn(id, balance); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	r.writes++
	acc.Balance = balance
	r.accounts[id] = acc
	return nil
}

// fakeTransactor fn 失敗時還原快照，模擬資料庫 rollback
type fakeTransactor struct {
	*fakeRepository
	txMu        sync.Mutex
	rollbacks   int
	transaction int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(repo AccountRepository) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	t.transaction++

	t.mu.Lock()
	snapshot := maps.Clone(t.accounts)
	t.mu.Unlock()

	if err := fn(t.fakeRepository); err != nil {
		t.mu.Lock()
		t.accounts = snapshot
		t.mu.Unlock()
		t.rollbacks++
		return err
	}
	return nil
}

// plainHasher 測試用，不做真正的雜湊
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Matches(p, d string) bool     { return "h:"+p == d }

// recordingMetrics 記錄每次 ObserveOperation
type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string][]string
}

func (m *recordingMetrics) ObserveOperation(operation, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string][]string)
	}
	m.outcomes[operation] = append(m.outcomes[operation], outcome)
}
