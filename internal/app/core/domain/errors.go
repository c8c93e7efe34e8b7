package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在 (email 或帳號重複)
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrPersistenceFailure 寫入儲存層失敗
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrInvalidArgument 參數錯誤
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPartialTransfer 轉帳扣款成功但入帳失敗
	ErrPartialTransfer = errors.New("partial transfer failure")
)

// 以下皆為 ErrInvalidArgument 的細分，可用 errors.Is(err, ErrInvalidArgument) 判斷
var (
	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)

	// ErrBalanceOverflow 入帳後餘額超出上限
	ErrBalanceOverflow = fmt.Errorf("%w: balance overflow", ErrInvalidArgument)

	// ErrNegativeOpeningBalance 開戶金額不可為負
	ErrNegativeOpeningBalance = fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidArgument)

	// ErrSameAccount 轉出與轉入帳戶相同
	ErrSameAccount = fmt.Errorf("%w: source and target account are the same", ErrInvalidArgument)

	// ErrInvalidPageSize 每頁筆數必須大於 0
	ErrInvalidPageSize = fmt.Errorf("%w: page size must be greater than zero", ErrInvalidArgument)

	// ErrInvalidPageNumber 頁碼從 1 開始
	ErrInvalidPageNumber = fmt.Errorf("%w: page number must be at least 1", ErrInvalidArgument)

	// ErrUnknownField 搜尋/排序欄位不存在 (UnknownFieldReject 時)
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrInvalidArgument)

	// ErrInvalidAmount 金額格式錯誤
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrInvalidArgument)
)

// PartialTransferError 轉帳扣款已寫入，但入帳失敗
//
// Compensated 表示來源帳戶是否已回補成功。
// 若為 false，帳本處於不平衡狀態，需要人工處理。
type PartialTransferError struct {
	Transaction     Transaction
	Cause           error
	Compensated     bool
	CompensationErr error
}

func (e *PartialTransferError) Error() string {
	if e.Compensated {
		return fmt.Sprintf("%s: credit to %s failed, debit of %s rolled back: %v",
			ErrPartialTransfer, e.Transaction.To, e.Transaction.From, e.Cause)
	}
	return fmt.Sprintf("%s: credit to %s failed, rollback of %s failed: %v (rollback: %v)",
		ErrPartialTransfer, e.Transaction.To, e.Transaction.From, e.Cause, e.CompensationErr)
}

// Is 讓 errors.Is(err, ErrPartialTransfer) 成立
func (e *PartialTransferError) Is(target error) bool {
	return target == ErrPartialTransfer
}

func (e *PartialTransferError) Unwrap() error {
	return e.Cause
}
