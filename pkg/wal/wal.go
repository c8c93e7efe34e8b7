package wal

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeReadOnly fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// WAL 以 JSON Lines 格式追加寫入的日誌檔
type WAL struct {
	path string
	perm fs.FileMode
	file *os.File
	mu   sync.Mutex
}

// Open 開啟或建立一個 WAL 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string, perm fs.FileMode) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return nil, err
	}
	return &WAL{path: path, perm: perm, file: file}, nil
}

// Append 寫入一筆資料並刷入硬碟，回傳 nil 才代表資料已落地
func (w *WAL) Append(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return err
	}
	return w.file.Sync()
}

// Rewrite 以 records 取代整個日誌 (compaction)
//
// 先寫到暫存檔並 fsync，再 rename 覆蓋原檔，過程中失敗時原檔不受影響。
func (w *WAL) Rewrite(records []any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tmpPath := w.path + ".compact"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, w.perm)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// 舊的 fd 指向已被取代的檔案，重新開啟
	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_RDWR, w.perm)
	if err != nil {
		return err
	}
	_ = w.file.Close()
	w.file = file
	return nil
}

// Close 關閉檔案
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// ReadAll 依寫入順序讀取所有資料
// callback 是一個函式，接收一個 json.RawMessage
// 這樣可以避免一次將所有資料載入記憶體
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// 確保從頭讀取 (O_APPEND 只影響寫入位置)
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
}
