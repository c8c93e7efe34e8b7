package hashing

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

func TestHashAndMatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "s3cret" {
		t.Fatal("digest equals plaintext")
	}
	if !h.Matches("s3cret", digest) {
		t.Fatal("expected match")
	}
	if h.Matches("wrong", digest) {
		t.Fatal("expected mismatch")
	}
	if h.Matches("s3cret", "not-a-digest") {
		t.Fatal("malformed digest must not match")
	}
}

func TestHashTooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", 73))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCostOutOfRangeFallsBack(t *testing.T) {
	if got := NewBcryptHasher(99).cost; got != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", got, bcrypt.DefaultCost)
	}
}
