package domain

// Account 帳戶
//
// ID 與 AccountNumber 建立後不再改變；Balance 只由帳務操作修改；
// PasswordDigest 只由密碼變更修改。
type Account struct {
	ID             string
	OwnerName      string
	Email          string
	AccountNumber  string
	Bank           string
	Balance        int64
	PasswordDigest string
}

// AccountSummary 列表用的精簡資料 (不含 email)
type AccountSummary struct {
	ID            string
	OwnerName     string
	AccountNumber string
	Bank          string
	Balance       int64
}

// AccountDetail 單筆查詢/分頁查詢用的資料 (含 email，不含密碼)
type AccountDetail struct {
	ID            string
	OwnerName     string
	Email         string
	AccountNumber string
	Bank          string
	Balance       int64
}

// BalanceView 餘額查詢
type BalanceView struct {
	OwnerName string
	Email     string
	Balance   int64
}

// NewAccount 開戶請求
type NewAccount struct {
	OwnerName      string
	Email          string
	AccountNumber  string
	Bank           string
	OpeningBalance int64
	Password       string
}

// Summary 投影為 AccountSummary
func (a Account) Summary() AccountSummary {
	return AccountSummary{
		ID:            a.ID,
		OwnerName:     a.OwnerName,
		AccountNumber: a.AccountNumber,
		Bank:          a.Bank,
		Balance:       a.Balance,
	}
}

// Detail 投影為 AccountDetail
func (a Account) Detail() AccountDetail {
	return AccountDetail{
		ID:            a.ID,
		OwnerName:     a.OwnerName,
		Email:         a.Email,
		AccountNumber: a.AccountNumber,
		Bank:          a.Bank,
		Balance:       a.Balance,
	}
}

// BalanceView 投影為 BalanceView
func (a Account) BalanceView() BalanceView {
	return BalanceView{
		OwnerName: a.OwnerName,
		Email:     a.Email,
		Balance:   a.Balance,
	}
}
