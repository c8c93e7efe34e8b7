package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/wal"
)

var _ usecase.AccountRepository = (*AccountRepository)(nil)

// 日誌操作種類
const (
	opUpsert = "upsert"
	opDelete = "delete"
)

// journalEntry WAL 中的一筆紀錄，存的是異動後的完整帳戶
type journalEntry struct {
	Op      string         `json:"op"`
	Account domain.Account `json:"account"`
}

// AccountRepository 以記憶體 map 實作的帳戶儲存層
//
// 所有回傳值都是複本；設定 WAL 時每筆異動會先落地再套用。
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	order    []string          // 建立順序，FetchAll 依此回傳
	byNumber map[string]string // accountNumber -> id
	byEmail  map[string]string // email -> id
	journal  *wal.WAL
}

// NewAccountRepository 建立記憶體儲存層
//
// 參數:
//
//	seed: []domain.Account - 初始帳戶
//	journal: *wal.WAL - 可為 nil；不為 nil 時會先重播日誌再開始服務
//
// 回傳:
//
//	*AccountRepository
//	error: seed 重複或日誌損壞時回傳錯誤
func NewAccountRepository(seed []domain.Account, journal *wal.WAL) (*AccountRepository, error) {
	r := &AccountRepository{
		accounts: make(map[string]domain.Account, len(seed)),
		byNumber: make(map[string]string, len(seed)),
		byEmail:  make(map[string]string, len(seed)),
	}
	for _, acc := range seed {
		if err := r.checkUnique(acc); err != nil {
			return nil, err
		}
		r.apply(journalEntry{Op: opUpsert, Account: acc})
	}

	if journal != nil {
		if err := r.recover(journal); err != nil {
			return nil, err
		}
		r.journal = journal
	}
	return r, nil
}

// recover 依序重播日誌
func (r *AccountRepository) recover(journal *wal.WAL) error {
	return journal.ReadAll(func(raw []byte) error {
		var entry journalEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("decode journal entry: %w", err)
		}
		switch entry.Op {
		case opUpsert, opDelete:
			r.apply(entry)
			return nil
		default:
			return fmt.Errorf("unknown journal op %q", entry.Op)
		}
	})
}

func (r *AccountRepository) FetchAll(ctx context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.accounts[id])
	}
	return out, nil
}

func (r *AccountRepository) FetchByID(ctx context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (r *AccountRepository) FetchByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fetchIndexed(r.byNumber, accountNumber)
}

func (r *AccountRepository) FetchByEmail(ctx context.Context, email string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fetchIndexed(r.byEmail, email)
}

func (r *AccountRepository) fetchIndexed(index map[string]string, key string) (domain.Account, error) {
	id, ok := index[key]
	if !ok || key == "" {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return r.accounts[id], nil
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; ok {
		return fmt.Errorf("%w: id %s", domain.ErrAccountAlreadyExists, account.ID)
	}
	if err := r.checkUnique(account); err != nil {
		return err
	}
	return r.commit(journalEntry{Op: opUpsert, Account: account})
}

func (r *AccountRepository) Update(ctx context.Context, id, ownerName, email, accountNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.OwnerName = ownerName
	acc.Email = email
	acc.AccountNumber = accountNumber
	if err := r.checkUnique(acc); err != nil {
		return err
	}
	return r.commit(journalEntry{Op: opUpsert, Account: acc})
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return r.commit(journalEntry{Op: opDelete, Account: acc})
}

func (r *AccountRepository) SetPassword(ctx context.Context, id, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.PasswordDigest = digest
	return r.commit(journalEntry{Op: opUpsert, Account: acc})
}

func (r *AccountRepository) SetBalance(ctx context.Context, id string, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	return r.commit(journalEntry{Op: opUpsert, Account: acc})
}

// Compact 以目前狀態重寫日誌，每個帳戶只留一筆 upsert
func (r *AccountRepository) Compact(ctx context.Context) error {
	if r.journal == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]any, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, journalEntry{Op: opUpsert, Account: r.accounts[id]})
	}
	if err := r.journal.Rewrite(records); err != nil {
		return fmt.Errorf("compact journal: %w", err)
	}
	return nil
}

// checkUnique email / 帳號不可被其他帳戶使用 (需持有鎖)
func (r *AccountRepository) checkUnique(acc domain.Account) error {
	if owner, ok := r.byNumber[acc.AccountNumber]; ok && acc.AccountNumber != "" && owner != acc.ID {
		return fmt.Errorf("%w: account number %s", domain.ErrAccountAlreadyExists, acc.AccountNumber)
	}
	if owner, ok := r.byEmail[acc.Email]; ok && acc.Email != "" && owner != acc.ID {
		return fmt.Errorf("%w: email %s", domain.ErrAccountAlreadyExists, acc.Email)
	}
	return nil
}

// commit 先寫 WAL 再套用到記憶體 (需持有鎖)
func (r *AccountRepository) commit(entry journalEntry) error {
	if r.journal != nil {
		if err := r.journal.Append(entry); err != nil {
			return fmt.Errorf("write journal: %w", err)
		}
	}
	r.apply(entry)
	return nil
}

// apply 更新 map 與索引，不做任何檢查
func (r *AccountRepository) apply(entry journalEntry) {
	acc := entry.Account
	prev, existed := r.accounts[acc.ID]
	if existed {
		delete(r.byNumber, prev.AccountNumber)
		delete(r.byEmail, prev.Email)
	}

	if entry.Op == opDelete {
		if existed {
			delete(r.accounts, acc.ID)
			r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == acc.ID })
		}
		return
	}

	if !existed {
		r.order = append(r.order, acc.ID)
	}
	r.accounts[acc.ID] = acc
	if acc.AccountNumber != "" {
		r.byNumber[acc.AccountNumber] = acc.ID
	}
	if acc.Email != "" {
		r.byEmail[acc.Email] = acc.ID
	}
}
