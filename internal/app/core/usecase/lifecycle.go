package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// CreateAccount 開戶
//
// 檢查 email / 帳號是否重複 -> 密碼雜湊 -> 分配 ID -> 寫入
func (c *CoreUseCase) CreateAccount(ctx context.Context, req domain.NewAccount) (detail domain.AccountDetail, err error) {
	defer c.observe("create_account", time.Now(), &err)

	if req.OpeningBalance < 0 {
		return domain.AccountDetail{}, domain.ErrNegativeOpeningBalance
	}
	email := strings.TrimSpace(req.Email)
	accountNumber := strings.TrimSpace(req.AccountNumber)

	if err = c.ensureUnique(ctx, "", email, accountNumber); err != nil {
		return domain.AccountDetail{}, err
	}

	digest, err := c.hasher.Hash(req.Password)
	if err != nil {
		return domain.AccountDetail{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:             uuid.NewString(),
		OwnerName:      strings.TrimSpace(req.OwnerName),
		Email:          email,
		AccountNumber:  accountNumber,
		Bank:           strings.TrimSpace(req.Bank),
		Balance:        req.OpeningBalance,
		PasswordDigest: digest,
	}
	if err = c.repo.Create(ctx, account); err != nil {
		c.logger.ErrorContext(ctx, "create account failed",
			"accountNumber", account.AccountNumber,
			"error", err.Error(),
		)
		return domain.AccountDetail{}, storageError("create account", account.AccountNumber, err)
	}

	c.logger.InfoContext(ctx, "account created",
		"accountId", account.ID,
		"accountNumber", account.AccountNumber,
	)
	return account.Detail(), nil
}

// UpdateAccount 修改戶名 / email / 帳號
func (c *CoreUseCase) UpdateAccount(ctx context.Context, id, ownerName, email, accountNumber string) (err error) {
	defer c.observe("update_account", time.Now(), &err)

	if _, err = c.repo.FetchByID(ctx, id); err != nil {
		return storageError("fetch account", id, err)
	}
	email = strings.TrimSpace(email)
	accountNumber = strings.TrimSpace(accountNumber)
	if err = c.ensureUnique(ctx, id, email, accountNumber); err != nil {
		return err
	}
	if err = c.repo.Update(ctx, id, strings.TrimSpace(ownerName), email, accountNumber); err != nil {
		return storageError("update account", id, err)
	}
	return nil
}

// DeleteAccount 刪除帳戶，不存在時回傳 ErrAccountNotFound
func (c *CoreUseCase) DeleteAccount(ctx context.Context, id string) (err error) {
	defer c.observe("delete_account", time.Now(), &err)

	if _, err = c.repo.FetchByID(ctx, id); err != nil {
		return storageError("fetch account", id, err)
	}
	if err = c.repo.Delete(ctx, id); err != nil {
		return storageError("delete account", id, err)
	}
	c.logger.InfoContext(ctx, "account deleted", "accountId", id)
	return nil
}

// ChangePassword 變更密碼
func (c *CoreUseCase) ChangePassword(ctx context.Context, id, newPassword string) (err error) {
	defer c.observe("change_password", time.Now(), &err)

	if _, err = c.repo.FetchByID(ctx, id); err != nil {
		return storageError("fetch account", id, err)
	}
	digest, err := c.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err = c.repo.SetPassword(ctx, id, digest); err != nil {
		return storageError("set password", id, err)
	}
	return nil
}

// CheckPassword 驗證密碼，帳戶不存在時回傳 ErrAccountNotFound
func (c *CoreUseCase) CheckPassword(ctx context.Context, id, plaintext string) (bool, error) {
	account, err := c.repo.FetchByID(ctx, id)
	if err != nil {
		return false, storageError("fetch account", id, err)
	}
	return c.hasher.Matches(plaintext, account.PasswordDigest), nil
}

// EmailIsRegistered email 是否已被使用
func (c *CoreUseCase) EmailIsRegistered(ctx context.Context, email string) (bool, error) {
	_, found, err := c.lookup(ctx, c.repo.FetchByEmail, strings.TrimSpace(email))
	return found, err
}

// AccountNumberIsRegistered 帳號是否已被使用
func (c *CoreUseCase) AccountNumberIsRegistered(ctx context.Context, accountNumber string) (bool, error) {
	_, found, err := c.lookup(ctx, c.repo.FetchByAccountNumber, strings.TrimSpace(accountNumber))
	return found, err
}

// ensureUnique email 與帳號不可屬於 selfID 以外的帳戶
func (c *CoreUseCase) ensureUnique(ctx context.Context, selfID, email, accountNumber string) error {
	probes := []struct {
		name  string
		key   string
		fetch func(context.Context, string) (domain.Account, error)
	}{
		{"email", email, c.repo.FetchByEmail},
		{"account number", accountNumber, c.repo.FetchByAccountNumber},
	}
	for _, p := range probes {
		if p.key == "" {
			continue
		}
		owner, err := p.fetch(ctx, p.key)
		if errors.Is(err, domain.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return storageError("fetch account", p.key, err)
		}
		if owner.ID != selfID {
			return fmt.Errorf("%w: %s %q is registered", domain.ErrAccountAlreadyExists, p.name, p.key)
		}
	}
	return nil
}
