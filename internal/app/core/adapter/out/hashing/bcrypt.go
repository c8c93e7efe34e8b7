package hashing

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

var _ usecase.PasswordHasher = (*BcryptHasher)(nil)

// BcryptHasher 以 bcrypt 雜湊密碼
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cost 超出範圍時使用 bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Matches(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
