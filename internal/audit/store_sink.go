package audit

import "context"

// EventStore 安全事件持久化接口（由 repository 层实现）
type EventStore interface {
	InsertEvent(ctx context.Context, ev Event) error
}

// StoreSink 将安全事件写入持久化存储（security_events 表）
// 平台管理界面从该表读取审计记录
type StoreSink struct {
	store EventStore
}

// NewStoreSink 创建持久化 sink
func NewStoreSink(store EventStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Name() string { return "event-store" }

func (s *StoreSink) Emit(ctx context.Context, ev Event) error {
	return s.store.InsertEvent(ctx, ev)
}
