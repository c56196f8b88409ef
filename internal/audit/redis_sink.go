package audit

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisStreamSink 将安全事件发布到 Redis Streams（XADD）
// 下游监控通过消费者组消费该 stream 并对 DENY 事件报警
type RedisStreamSink struct {
	client *redis.Client
	stream string
}

// NewRedisStreamSink 创建 Redis Streams sink
func NewRedisStreamSink(client *redis.Client, stream string) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream}
}

func (s *RedisStreamSink) Name() string { return "redis-stream" }

func (s *RedisStreamSink) Emit(ctx context.Context, ev Event) error {
	// Streams 的值只支持标量，统一转为字符串
	values := map[string]interface{}{
		"timestamp":      ev.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		"request_id":     ev.RequestID,
		"principal_id":   ev.PrincipalID,
		"tenant_id":      ev.TenantID,
		"action":         ev.Action,
		"resource_class": ev.ResourceClass,
		"resource_id":    ev.ResourceID,
		"outcome":        string(ev.Outcome),
		"severity":       string(ev.Severity),
		"detail":         ev.Detail,
	}

	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}).Err()
}
