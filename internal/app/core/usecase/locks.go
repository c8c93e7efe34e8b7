package usecase

import (
	"context"
	"sync"
)

// accountLocks 以帳戶 ID 為單位的鎖表
//
// 每個帳戶一個容量 1 的 channel，等待時可被 ctx 取消。
// 沒人持有也沒人等待的 slot 會被移除，鎖表不會無限成長。
type accountLocks struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{slots: make(map[string]*lockSlot)}
}

// Lock 依傳入順序取得多個帳戶的鎖
//
// ids 必須已排序 (見 domain.Transaction.LockIDs)，否則兩筆反向轉帳可能互相等待。
// 回傳的 unlock 以相反順序釋放。
func (l *accountLocks) Lock(ctx context.Context, ids ...string) (func(), error) {
	held := make([]*lockSlot, 0, len(ids))
	heldIDs := make([]string, 0, len(ids))
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		slot := l.ref(id)
		select {
		case slot.ch <- struct{}{}:
			held = append(held, slot)
			heldIDs = append(heldIDs, id)
		case <-ctx.Done():
			l.unref(id)
			l.release(heldIDs, held)
			return nil, ctx.Err()
		}
	}
	var once sync.Once
	return func() {
		once.Do(func() { l.release(heldIDs, held) })
	}, nil
}

func (l *accountLocks) release(ids []string, slots []*lockSlot) {
	for i := len(slots) - 1; i >= 0; i-- {
		<-slots[i].ch
		l.unref(ids[i])
	}
}

func (l *accountLocks) ref(id string) *lockSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[id]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[id] = slot
	}
	slot.refs++
	return slot
}

func (l *accountLocks) unref(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[id]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, id)
	}
}

// size 目前鎖表中的 slot 數 (測試用)
func (l *accountLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
