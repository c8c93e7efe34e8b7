package usecase

import (
	"context"
	"math"
	"time"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// Deposit 存款
//
// 參數:
//
//	ctx: 上下文
//	accountID: 入帳帳戶 ID
//	amount: 金額 (最小單位，必須為正數)
//
// 回傳:
//
//	domain.Receipt: 交易結果，ToBalance 為存款後餘額
//	error: ErrAccountNotFound / ErrInvalidArgument / ErrPersistenceFailure
func (c *CoreUseCase) Deposit(ctx context.Context, accountID string, amount int64) (domain.Receipt, error) {
	return c.PostTransaction(ctx, domain.NewTransaction(domain.TransactionTypeDeposit, "", accountID, amount))
}

// Payment 付款 (提款)
//
// 回傳:
//
//	domain.Receipt: FromBalance 為付款後餘額
//	error: 另外可能為 ErrInsufficientBalance，此時餘額不變
func (c *CoreUseCase) Payment(ctx context.Context, accountID string, amount int64) (domain.Receipt, error) {
	return c.PostTransaction(ctx, domain.NewTransaction(domain.TransactionTypePayment, accountID, "", amount))
}

// Transfer 轉帳
//
// 先扣款後入帳。入帳失敗時會把來源帳戶回補，並回傳 *domain.PartialTransferError。
func (c *CoreUseCase) Transfer(ctx context.Context, sourceID, targetID string, amount int64) (domain.Receipt, error) {
	return c.PostTransaction(ctx, domain.NewTransaction(domain.TransactionTypeTransfer, sourceID, targetID, amount))
}

// PostTransaction 處理交易
//
// Validate -> Lock (依 LockIDs 順序) -> Fetch -> Compute -> SetBalance
// 儲存層若實作 Transactor，整個讀寫包在同一個資料庫交易內。
func (c *CoreUseCase) PostTransaction(ctx context.Context, tran domain.Transaction) (receipt domain.Receipt, err error) {
	defer c.observe(tran.Type.String(), time.Now(), &err)

	if err = tran.Validate(); err != nil {
		return domain.Receipt{}, err
	}
	if err = ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}

	unlock, err := c.locks.Lock(ctx, tran.LockIDs()...)
	if err != nil {
		return domain.Receipt{}, err
	}
	defer unlock()

	transactor, transactional := c.repo.(Transactor)
	apply := func(repo AccountRepository) error {
		var applyErr error
		switch tran.Type {
		case domain.TransactionTypeDeposit:
			receipt, applyErr = c.handleDeposit(ctx, repo, tran)
		case domain.TransactionTypePayment:
			receipt, applyErr = c.handlePayment(ctx, repo, tran)
		case domain.TransactionTypeTransfer:
			receipt, applyErr = c.handleTransfer(ctx, repo, tran, transactional)
		default:
			applyErr = domain.ErrInvalidArgument
		}
		return applyErr
	}

	if transactional {
		err = transactor.WithinTransaction(ctx, apply)
		if err != nil && !isDomainError(err) {
			// commit 失敗等
			err = storageError("commit", tran.TransactionID.String(), err)
		}
	} else {
		err = apply(c.repo)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "ledger transaction failed",
			"transactionId", tran.TransactionID.String(),
			"type", tran.Type.String(),
			"from", tran.From,
			"to", tran.To,
			"amount", tran.Amount,
			"error", err.Error(),
		)
		return domain.Receipt{}, err
	}
	return receipt, nil
}

// handleDeposit 處理存款邏輯
func (c *CoreUseCase) handleDeposit(ctx context.Context, repo AccountRepository, tran domain.Transaction) (domain.Receipt, error) {
	account, err := repo.FetchByID(ctx, tran.To)
	if err != nil {
		return domain.Receipt{}, storageError("fetch account", tran.To, err)
	}
	if account.Balance > math.MaxInt64-tran.Amount {
		return domain.Receipt{}, domain.ErrBalanceOverflow
	}
	newBalance := account.Balance + tran.Amount

	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}
	if err := repo.SetBalance(ctx, account.ID, newBalance); err != nil {
		return domain.Receipt{}, storageError("set balance", account.ID, err)
	}
	return domain.Receipt{Transaction: tran, ToBalance: newBalance}, nil
}

// handlePayment 處理付款邏輯，扣款前檢查餘額
func (c *CoreUseCase) handlePayment(ctx context.Context, repo AccountRepository, tran domain.Transaction) (domain.Receipt, error) {
	account, err := repo.FetchByID(ctx, tran.From)
	if err != nil {
		return domain.Receipt{}, storageError("fetch account", tran.From, err)
	}
	if account.Balance < tran.Amount {
		return domain.Receipt{}, domain.ErrInsufficientBalance
	}
	newBalance := account.Balance - tran.Amount

	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}
	if err := repo.SetBalance(ctx, account.ID, newBalance); err != nil {
		return domain.Receipt{}, storageError("set balance", account.ID, err)
	}
	return domain.Receipt{Transaction: tran, FromBalance: newBalance}, nil
}

// handleTransfer 處理轉帳邏輯
//
// 兩個帳戶依 LockIDs 順序讀取 (交易模式下即 row lock 順序)。
// 扣款失敗: 不入帳，直接回傳。
// 入帳失敗: 回補來源帳戶後回傳 PartialTransferError。
func (c *CoreUseCase) handleTransfer(ctx context.Context, repo AccountRepository, tran domain.Transaction, transactional bool) (domain.Receipt, error) {
	accounts := make(map[string]domain.Account, 2)
	for _, id := range tran.LockIDs() {
		account, err := repo.FetchByID(ctx, id)
		if err != nil {
			return domain.Receipt{}, storageError("fetch account", id, err)
		}
		accounts[id] = account
	}
	source, target := accounts[tran.From], accounts[tran.To]

	if source.Balance < tran.Amount {
		return domain.Receipt{}, domain.ErrInsufficientBalance
	}
	if target.Balance > math.MaxInt64-tran.Amount {
		return domain.Receipt{}, domain.ErrBalanceOverflow
	}
	sourceNew := source.Balance - tran.Amount
	targetNew := target.Balance + tran.Amount

	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}
	if err := repo.SetBalance(ctx, source.ID, sourceNew); err != nil {
		return domain.Receipt{}, storageError("debit account", source.ID, err)
	}
	if err := repo.SetBalance(ctx, target.ID, targetNew); err != nil {
		creditErr := storageError("credit account", target.ID, err)
		return domain.Receipt{}, c.compensateTransfer(ctx, repo, tran, source.Balance, creditErr, transactional)
	}
	return domain.Receipt{Transaction: tran, FromBalance: sourceNew, ToBalance: targetNew}, nil
}

// compensateTransfer 入帳失敗後把來源帳戶回補為扣款前餘額
//
// 交易模式下由資料庫 rollback 回補，這裡不再寫入。
// 回補不受 ctx 取消影響，避免留下只扣款未入帳的狀態。
func (c *CoreUseCase) compensateTransfer(ctx context.Context, repo AccountRepository, tran domain.Transaction, sourceBefore int64, cause error, transactional bool) error {
	partial := &domain.PartialTransferError{Transaction: tran, Cause: cause}
	if transactional {
		partial.Compensated = true
		return partial
	}

	if err := repo.SetBalance(context.WithoutCancel(ctx), tran.From, sourceBefore); err != nil {
		partial.CompensationErr = err
		c.logger.ErrorContext(ctx, "transfer compensation failed, ledger unbalanced",
			"transactionId", tran.TransactionID.String(),
			"from", tran.From,
			"to", tran.To,
			"amount", tran.Amount,
			"restoreBalance", sourceBefore,
			"error", err.Error(),
		)
		return partial
	}
	partial.Compensated = true
	c.logger.WarnContext(ctx, "transfer credit failed, debit rolled back",
		"transactionId", tran.TransactionID.String(),
		"from", tran.From,
		"to", tran.To,
		"amount", tran.Amount,
	)
	return partial
}
