package repository

import (
	"context"
	"sync"

	"github.com/Amoako419/PhotoShare/internal/audit"
)

// MemoryAuditEventsRepository 内存安全事件Repository
// DB 未就绪时的联测实现；事件按写入顺序保存
type MemoryAuditEventsRepository struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewMemoryAuditEventsRepository() *MemoryAuditEventsRepository {
	return &MemoryAuditEventsRepository{}
}

var _ AuditEventsRepository = (*MemoryAuditEventsRepository)(nil)

func (r *MemoryAuditEventsRepository) InsertEvent(_ context.Context, ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
	return nil
}

func (r *MemoryAuditEventsRepository) ListEvents(_ context.Context, f EventFilters, page, size int) ([]audit.Event, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// 倒序（最新事件在前）
	matched := make([]audit.Event, 0, len(r.events))
	for i := len(r.events) - 1; i >= 0; i-- {
		ev := r.events[i]
		if f.Outcome != "" && string(ev.Outcome) != f.Outcome {
			continue
		}
		if f.Action != "" && ev.Action != f.Action {
			continue
		}
		if f.TenantID != "" && ev.TenantID != f.TenantID {
			continue
		}
		if f.PrincipalID != "" && ev.PrincipalID != f.PrincipalID {
			continue
		}
		if !f.Since.IsZero() && ev.Timestamp.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && ev.Timestamp.After(f.Until) {
			continue
		}
		matched = append(matched, ev)
	}

	total := len(matched)
	start, end := pageBounds(total, page, size)
	return matched[start:end], total, nil
}
