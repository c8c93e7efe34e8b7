package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/pkg/wal"
)

func seedAccounts() []domain.Account {
	return []domain.Account{
		{ID: "a", OwnerName: "Ann", Email: "ann@x.io", AccountNumber: "001", Bank: "B1", Balance: 100},
		{ID: "b", OwnerName: "Bob", Email: "bob@x.io", AccountNumber: "002", Bank: "B2", Balance: 200},
	}
}

func TestFetchReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo, err := NewAccountRepository(seedAccounts(), nil)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	all, _ := repo.FetchAll(ctx)
	all[0].Balance = 999

	acc, err := repo.FetchByID(ctx, "a")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if acc.Balance != 100 {
		t.Fatalf("balance = %d, snapshot mutation leaked into storage", acc.Balance)
	}
}

func TestFetchAllKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := NewAccountRepository(seedAccounts(), nil)
	if err := repo.Create(ctx, domain.Account{ID: "c", AccountNumber: "003"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	all, _ := repo.FetchAll(ctx)
	if len(all) != 2 || all[0].ID != "b" || all[1].ID != "c" {
		t.Fatalf("got %+v, want [b c]", all)
	}
}

func TestLookupsAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := NewAccountRepository(seedAccounts(), nil)

	if acc, err := repo.FetchByAccountNumber(ctx, "002"); err != nil || acc.ID != "b" {
		t.Fatalf("by number: %+v %v", acc, err)
	}
	if acc, err := repo.FetchByEmail(ctx, "ann@x.io"); err != nil || acc.ID != "a" {
		t.Fatalf("by email: %+v %v", acc, err)
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"fetch id", func() error { _, err := repo.FetchByID(ctx, "zz"); return err }},
		{"fetch number", func() error { _, err := repo.FetchByAccountNumber(ctx, "999"); return err }},
		{"fetch empty email", func() error { _, err := repo.FetchByEmail(ctx, ""); return err }},
		{"set balance", func() error { return repo.SetBalance(ctx, "zz", 1) }},
		{"set password", func() error { return repo.SetPassword(ctx, "zz", "d") }},
		{"update", func() error { return repo.Update(ctx, "zz", "n", "e", "x") }},
		{"delete", func() error { return repo.Delete(ctx, "zz") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, domain.ErrAccountNotFound) {
				t.Fatalf("err = %v, want ErrAccountNotFound", err)
			}
		})
	}
}

func TestUniqueness(t *testing.T) {
	ctx := context.Background()
	repo, _ := NewAccountRepository(seedAccounts(), nil)

	err := repo.Create(ctx, domain.Account{ID: "c", Email: "ann@x.io", AccountNumber: "003"})
	if !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("duplicate email: err = %v", err)
	}
	err = repo.Update(ctx, "b", "Bob", "bob@x.io", "001")
	if !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("duplicate number on update: err = %v", err)
	}
	// 自己的 email / 帳號不算重複
	if err := repo.Update(ctx, "a", "Ann Lee", "ann@x.io", "001"); err != nil {
		t.Fatalf("self update: %v", err)
	}
	if err := repo.Update(ctx, "a", "Ann Lee", "ann@y.io", "101"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := repo.FetchByAccountNumber(ctx, "001"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("stale index entry for old account number: %v", err)
	}
}

func TestJournalReplay(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.wal")

	journal, err := wal.Open(path, wal.FileModePrivate)
	if err != nil {
		t.Fatalf("open wal: %v", err)
	}
	repo, err := NewAccountRepository(nil, journal)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	for _, acc := range seedAccounts() {
		if err := repo.Create(ctx, acc); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.SetBalance(ctx, "a", 40); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	journal.Close()

	reopened, err := wal.Open(path, wal.FileModePrivate)
	if err != nil {
		t.Fatalf("reopen wal: %v", err)
	}
	defer reopened.Close()
	restored, err := NewAccountRepository(nil, reopened)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	all, _ := restored.FetchAll(ctx)
	if len(all) != 1 || all[0].ID != "a" || all[0].Balance != 40 {
		t.Fatalf("restored = %+v, want only a with balance 40", all)
	}

	if err := restored.Compact(ctx); err != nil {
		t.Fatalf("compact: %v", err)
	}
	lines := 0
	if err := reopened.ReadAll(func([]byte) error { lines++; return nil }); err != nil {
		t.Fatalf("read compacted journal: %v", err)
	}
	if lines != 1 {
		t.Fatalf("compacted journal has %d entries, want 1", lines)
	}
}
