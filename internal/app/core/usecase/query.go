package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// stringFields 可搜尋的文字欄位 (key 為小寫欄位名)
var stringFields = map[string]func(domain.Account) string{
	strings.ToLower(domain.FieldID):            func(a domain.Account) string { return a.ID },
	strings.ToLower(domain.FieldOwnerName):     func(a domain.Account) string { return a.OwnerName },
	strings.ToLower(domain.FieldEmail):         func(a domain.Account) string { return a.Email },
	strings.ToLower(domain.FieldAccountNumber): func(a domain.Account) string { return a.AccountNumber },
	strings.ToLower(domain.FieldBank):          func(a domain.Account) string { return a.Bank },
}

// ListAccounts 搜尋 + 排序，不分頁
func (c *CoreUseCase) ListAccounts(ctx context.Context, query domain.ListQuery) (accounts []domain.AccountDetail, err error) {
	defer c.observe("list", time.Now(), &err)

	selected, err := c.selectAccounts(ctx, query)
	if err != nil {
		return nil, err
	}
	accounts = make([]domain.AccountDetail, 0, len(selected))
	for _, account := range selected {
		accounts = append(accounts, account.Detail())
	}
	return accounts, nil
}

// ListPageSummary 分頁摘要模式
//
// 回傳完整的搜尋結果 (不切頁) 與分頁資訊:
//
//	TotalPages = ceil(count / PageSize)
//	HasPreviousPages = PageNumber > 1
//	HasNextPages = PageNumber < TotalPages
func (c *CoreUseCase) ListPageSummary(ctx context.Context, query domain.ListQuery, page domain.PageRequest) (summary domain.PageSummary, err error) {
	defer c.observe("list_page_summary", time.Now(), &err)

	if err = page.Validate(); err != nil {
		return domain.PageSummary{}, err
	}
	selected, err := c.selectAccounts(ctx, query)
	if err != nil {
		return domain.PageSummary{}, err
	}

	total := len(selected)
	totalPages := 0
	if total > 0 {
		totalPages = (total-1)/page.PageSize + 1
	}
	accounts := make([]domain.AccountSummary, 0, total)
	for _, account := range selected {
		accounts = append(accounts, account.Summary())
	}
	return domain.PageSummary{
		Accounts:         accounts,
		TotalCount:       total,
		TotalPages:       totalPages,
		PageNumber:       page.PageNumber,
		PageSize:         page.PageSize,
		HasPreviousPages: page.PageNumber > 1,
		HasNextPages:     page.PageNumber < totalPages,
	}, nil
}

// ListPage 切片模式：只回傳 [(n-1)*size, n*size) 範圍內的資料
func (c *CoreUseCase) ListPage(ctx context.Context, query domain.ListQuery, page domain.PageRequest) (result domain.Page, err error) {
	defer c.observe("list_page", time.Now(), &err)

	if err = page.Validate(); err != nil {
		return domain.Page{}, err
	}
	selected, err := c.selectAccounts(ctx, query)
	if err != nil {
		return domain.Page{}, err
	}

	total := len(selected)
	start := total
	// 先比較頁數，避免 (n-1)*size 溢位
	if page.PageNumber-1 <= total/page.PageSize {
		start = min((page.PageNumber-1)*page.PageSize, total)
	}
	end := start + min(page.PageSize, total-start)

	accounts := make([]domain.AccountDetail, 0, end-start)
	for _, account := range selected[start:end] {
		accounts = append(accounts, account.Detail())
	}
	return domain.Page{
		Accounts:   accounts,
		TotalCount: total,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

// selectAccounts 取快照 -> 過濾 -> 穩定排序
// 快照本身不會被修改，過濾結果是新的 slice
func (c *CoreUseCase) selectAccounts(ctx context.Context, query domain.ListQuery) ([]domain.Account, error) {
	match, err := c.searchPredicate(query.Search)
	if err != nil {
		return nil, err
	}
	compare, err := c.sortComparator(query.Sort)
	if err != nil {
		return nil, err
	}

	snapshot, err := c.repo.FetchAll(ctx)
	if err != nil {
		return nil, storageError("fetch", "all accounts", err)
	}

	selected := make([]domain.Account, 0, len(snapshot))
	for _, account := range snapshot {
		if match(account) {
			selected = append(selected, account)
		}
	}
	if compare != nil {
		slices.SortStableFunc(selected, compare)
	}
	return selected, nil
}

// searchPredicate 不分大小寫的子字串比對
func (c *CoreUseCase) searchPredicate(spec domain.SearchSpec) (func(domain.Account) bool, error) {
	field := spec.Field
	if field == "" {
		field = domain.FieldOwnerName
	}
	get, ok := stringFields[strings.ToLower(field)]
	if !ok {
		if c.policy == domain.UnknownFieldReject {
			return nil, fmt.Errorf("%w: search field %q", domain.ErrUnknownField, spec.Field)
		}
		return func(domain.Account) bool { return true }, nil
	}
	needle := strings.ToLower(spec.Value)
	return func(a domain.Account) bool {
		return strings.Contains(strings.ToLower(get(a)), needle)
	}, nil
}

// sortComparator 回傳 nil 表示維持原順序
func (c *CoreUseCase) sortComparator(spec domain.SortSpec) (func(a, b domain.Account) int, error) {
	field := spec.Field
	if field == "" {
		field = domain.FieldOwnerName
	}

	var compare func(a, b domain.Account) int
	if strings.EqualFold(field, domain.FieldBalance) {
		compare = func(a, b domain.Account) int { return cmp.Compare(a.Balance, b.Balance) }
	} else if get, ok := stringFields[strings.ToLower(field)]; ok {
		compare = func(a, b domain.Account) int { return strings.Compare(get(a), get(b)) }
	} else {
		if c.policy == domain.UnknownFieldReject {
			return nil, fmt.Errorf("%w: sort field %q", domain.ErrUnknownField, spec.Field)
		}
		return nil, nil
	}

	if spec.Direction == domain.SortDesc {
		asc := compare
		compare = func(a, b domain.Account) int { return asc(b, a) }
	}
	return compare, nil
}
