package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger 建立 JSON 格式的 slog.Logger，每筆紀錄帶上 service 欄位
//
// 參數:
//
//	serviceName: string - 服務名稱
//	level: string - "debug" / "info" / "warn" / "error"，其他值視為 info
func NewLogger(serviceName, level string) *slog.Logger {
	return newLogger(os.Stdout, serviceName, level)
}

func newLogger(w io.Writer, serviceName, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler).With("service", serviceName)
}

// ParseLevel 將字串轉成 slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
