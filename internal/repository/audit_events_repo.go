package repository

import (
	"context"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
)

// AuditEventsRepository 安全事件Repository接口（platform surface 专用）
// 写入端由 Recorder 的 StoreSink 使用（实现 audit.EventStore），
// 读取端供平台管理页查询审计记录
type AuditEventsRepository interface {
	// InsertEvent 持久化一个安全事件
	InsertEvent(ctx context.Context, ev audit.Event) error

	// ListEvents 查询安全事件（支持分页、过滤）
	// 倒序返回（最新事件在前）
	ListEvents(ctx context.Context, f EventFilters, page, size int) ([]audit.Event, int, error)
}

// EventFilters 安全事件查询过滤器
type EventFilters struct {
	Outcome     string    // 可选，ALLOW/DENY/ERROR
	Action      string    // 可选，精确匹配
	TenantID    string    // 可选
	PrincipalID string    // 可选
	Since       time.Time // 可选，起始时间
	Until       time.Time // 可选，截止时间
}
