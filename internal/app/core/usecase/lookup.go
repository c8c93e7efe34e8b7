package usecase

import (
	"context"
	"errors"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// GetByID 依帳戶 ID 查詢，查無資料時 found 為 false 且 err 為 nil
func (c *CoreUseCase) GetByID(ctx context.Context, id string) (domain.AccountDetail, bool, error) {
	account, found, err := c.lookup(ctx, c.repo.FetchByID, id)
	if !found {
		return domain.AccountDetail{}, false, err
	}
	return account.Detail(), true, nil
}

// GetByAccountNumber 依帳號查詢
func (c *CoreUseCase) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.AccountDetail, bool, error) {
	account, found, err := c.lookup(ctx, c.repo.FetchByAccountNumber, accountNumber)
	if !found {
		return domain.AccountDetail{}, false, err
	}
	return account.Detail(), true, nil
}

// GetBalance 依帳號查詢餘額 (只含戶名、email、餘額)
func (c *CoreUseCase) GetBalance(ctx context.Context, accountNumber string) (domain.BalanceView, bool, error) {
	account, found, err := c.lookup(ctx, c.repo.FetchByAccountNumber, accountNumber)
	if !found {
		return domain.BalanceView{}, false, err
	}
	return account.BalanceView(), true, nil
}

func (c *CoreUseCase) lookup(ctx context.Context, fetch func(context.Context, string) (domain.Account, error), key string) (domain.Account, bool, error) {
	account, err := fetch(ctx, key)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.Account{}, false, nil
	}
	if err != nil {
		return domain.Account{}, false, storageError("fetch account", key, err)
	}
	return account, true, nil
}
