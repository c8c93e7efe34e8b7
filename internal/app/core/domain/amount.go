package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// amount 使用int64，並定義精度：小數點後 4 位
const (
	CurrencyScale  = 10000
	currencyDigits = 4
)

// ParseAmount 將十進位字串 (例如 "12.50") 轉成最小單位
// 超過 4 位小數或超出 int64 範圍皆視為錯誤
func ParseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	scaled := d.Shift(currencyDigits)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, raw, currencyDigits)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, raw)
	}
	return scaled.IntPart(), nil
}

// FormatAmount 將最小單位轉回十進位字串，固定 2 位以上小數
func FormatAmount(amount int64) string {
	d := decimal.New(amount, -currencyDigits)
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
