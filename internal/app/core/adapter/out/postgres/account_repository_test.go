package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

type stubScanner struct {
	scanFn func(dest ...any) error
}

func (s stubScanner) Scan(dest ...any) error { return s.scanFn(dest...) }

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestScanAccountNullEmail(t *testing.T) {
	s := stubScanner{scanFn: func(dest ...any) error {
		*dest[0].(*string) = "a"
		*dest[1].(*string) = "Ann"
		*dest[2].(*sql.NullString) = sql.NullString{}
		*dest[3].(*string) = "001"
		*dest[4].(*string) = "B1"
		*dest[5].(*int64) = 42
		*dest[6].(*string) = "digest"
		return nil
	}}
	acc, err := scanAccount(s)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := domain.Account{ID: "a", OwnerName: "Ann", AccountNumber: "001", Bank: "B1", Balance: 42, PasswordDigest: "digest"}
	if acc != want {
		t.Fatalf("got %+v, want %+v", acc, want)
	}
}

func TestRequireRow(t *testing.T) {
	if err := requireRow(stubResult{rows: 1}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := requireRow(stubResult{rows: 0}, nil); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
	boom := errors.New("boom")
	if err := requireRow(nil, boom); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want exec error", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})) {
		t.Fatal("expected unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23514"}) {
		t.Fatal("check violation is not a unique violation")
	}
	if isUniqueViolation(nil) {
		t.Fatal("nil is not a unique violation")
	}
}
