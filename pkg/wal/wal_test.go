package wal

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

type entry struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func TestAppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := Open(path, FileModePrivate)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := w.Append(entry{Seq: i, Note: "n"}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, FileModePrivate)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var got []int
	err = reopened.ReadAll(func(raw []byte) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		got = append(got, e.Seq)
		return nil
	})
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestReadAllEmptyFile(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "wal.log"), FileModePrivate)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	calls := 0
	if err := w.ReadAll(func([]byte) error { calls++; return nil }); err != nil {
		t.Fatalf("read all: %v", err)
	}
	if calls != 0 {
		t.Fatalf("callback called %d times on empty log", calls)
	}
}

func TestRewriteCompactsLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := Open(path, FileModePrivate)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	for i := 1; i <= 5; i++ {
		if err := w.Append(entry{Seq: i}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Rewrite([]any{entry{Seq: 5, Note: "snapshot"}}); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	// 之後的寫入接在壓縮後的檔案
	if err := w.Append(entry{Seq: 6}); err != nil {
		t.Fatalf("append after rewrite: %v", err)
	}

	var got []entry
	err = w.ReadAll(func(raw []byte) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 2 || got[0].Note != "snapshot" || got[1].Seq != 6 {
		t.Fatalf("got %+v, want snapshot then 6", got)
	}
}
