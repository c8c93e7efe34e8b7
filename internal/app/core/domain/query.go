package domain

import "strings"

// 可搜尋/排序的欄位名稱
const (
	FieldID            = "id"
	FieldOwnerName     = "ownerName"
	FieldEmail         = "email"
	FieldAccountNumber = "accountNumber"
	FieldBank          = "bank"
	FieldBalance       = "balance"
)

// SortDirection 排序方向
type SortDirection uint8

const (
	SortAsc SortDirection = iota
	SortDesc
)

// ParseSortDirection "" 或 "asc" (不分大小寫) 為升冪，其餘皆為降冪
func ParseSortDirection(raw string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "asc":
		return SortAsc
	default:
		return SortDesc
	}
}

func (d SortDirection) String() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

// UnknownFieldPolicy 遇到未知欄位時的處理方式
type UnknownFieldPolicy uint8

const (
	// UnknownFieldPassThrough 不過濾、不排序 (預設)
	UnknownFieldPassThrough UnknownFieldPolicy = iota
	// UnknownFieldReject 回傳 ErrUnknownField
	UnknownFieldReject
)

// SearchSpec 欄位 + 子字串 (不分大小寫)
// Field 為空時使用 ownerName
type SearchSpec struct {
	Field string
	Value string
}

// SortSpec 欄位 + 方向
// Field 為空時使用 ownerName
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// ListQuery 列表查詢條件
type ListQuery struct {
	Search SearchSpec
	Sort   SortSpec
}

// PageRequest 分頁參數，PageNumber 從 1 開始
type PageRequest struct {
	PageNumber int
	PageSize   int
}

// Validate 檢查分頁參數
func (p PageRequest) Validate() error {
	if p.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if p.PageNumber < 1 {
		return ErrInvalidPageNumber
	}
	return nil
}

// PageSummary 分頁摘要模式：回傳完整結果 + 分頁資訊
type PageSummary struct {
	Accounts         []AccountSummary
	TotalCount       int
	TotalPages       int
	PageNumber       int
	PageSize         int
	HasPreviousPages bool
	HasNextPages     bool
}

// Page 切片模式：只回傳該頁資料
type Page struct {
	Accounts   []AccountDetail
	TotalCount int
	PageNumber int
	PageSize   int
}
