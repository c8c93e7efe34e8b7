package mysql

import (
	"testing"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

func TestRowMapping(t *testing.T) {
	tests := []domain.Account{
		{ID: "a", OwnerName: "Ann", Email: "ann@x.io", AccountNumber: "001", Bank: "B1", Balance: 10, PasswordDigest: "d"},
		{ID: "b", OwnerName: "Bob", AccountNumber: "002", Balance: 0},
	}
	for _, acc := range tests {
		row := toRow(acc)
		if acc.Email == "" && row.Email != nil {
			t.Fatalf("empty email must be stored as NULL, got %q", *row.Email)
		}
		if got := row.toDomain(); got != acc {
			t.Fatalf("round trip = %+v, want %+v", got, acc)
		}
	}
	if (&sqlAccount{}).TableName() != "accounts" {
		t.Fatal("unexpected table name")
	}
}
