package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TransactionType 交易類型
// 為了極致節省記憶體，使用 uint8
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 付款/提款
	TransactionTypePayment TransactionType = 2
	// 轉帳
	TransactionTypeTransfer TransactionType = 3
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypePayment:
		return "payment"
	case TransactionTypeTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Transaction 一筆帳務操作
//
// 存款只有 To，付款只有 From，轉帳兩者皆有。
type Transaction struct {
	// TransactionID: 外部追蹤號 (UUID)
	TransactionID uuid.UUID
	// From, To: 帳戶 ID
	From string
	To   string
	// Amount: 金額 (最小單位，見 CurrencyScale)
	Amount int64
	// CreatedAt: 交易時間 (unix milli)
	CreatedAt int64
	Type      TransactionType
}

// NewTransaction 建立交易並分配 TransactionID
func NewTransaction(txType TransactionType, from, to string, amount int64) Transaction {
	return Transaction{
		TransactionID: uuid.New(),
		From:          from,
		To:            to,
		Amount:        amount,
		CreatedAt:     time.Now().UnixMilli(),
		Type:          txType,
	}
}

// Validate 檢查金額與帳戶組合
func (t *Transaction) Validate() error {
	if t.Type < TransactionTypeDeposit || t.Type > TransactionTypeTransfer {
		return fmt.Errorf("%w: transaction type %d", ErrInvalidArgument, t.Type)
	}
	if t.Amount <= 0 {
		return ErrAmountMustBePositive
	}
	if t.Type == TransactionTypeTransfer && t.From == t.To {
		return ErrSameAccount
	}
	return nil
}

// LockIDs 回傳需要鎖定的帳號 ID，並確保順序以避免死鎖
func (t *Transaction) LockIDs() []string {
	// 預先宣告一個容量為 2 的 slice，避免多次分配
	ids := make([]string, 0, 2)
	switch t.Type {
	case TransactionTypeTransfer:
		ids = append(ids, t.From, t.To)
		sort.Strings(ids)
	case TransactionTypeDeposit:
		ids = append(ids, t.To)
	case TransactionTypePayment:
		ids = append(ids, t.From)
	}
	return ids
}

// Receipt 交易完成後的結果
//
// FromBalance / ToBalance 為交易後餘額，未涉及的一方為 0。
type Receipt struct {
	Transaction Transaction
	FromBalance int64
	ToBalance   int64
}
