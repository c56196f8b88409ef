package audit

import (
	"context"
	"sync"
	"time"

	"github.com/Amoako419/PhotoShare/internal/metrics"

	"go.uber.org/zap"
)

// Sink 安全事件下游（日志流、Redis Streams、数据库、webhook 等）
type Sink interface {
	Name() string
	Emit(ctx context.Context, ev Event) error
}

// fallbackRingSize 本地降级缓冲大小（进程内，尽力而为）
const fallbackRingSize = 256

// emitTimeout 单个 sink 的写入超时
const emitTimeout = 5 * time.Second

// Recorder 安全事件记录器
// Record 永不阻塞请求路径：事件进入缓冲通道，由单独的 goroutine 逐个
// 写入各 sink；通道满或 sink 失败时事件进入本地环形缓冲，绝不把错误
// 传播给调用方
type Recorder struct {
	logger *zap.Logger
	m      *metrics.IsolationMetrics
	sinks  []Sink

	ch        chan Event
	wg        sync.WaitGroup
	closeOnce sync.Once

	mu       sync.Mutex
	fallback []Event
	next     int
	wrapped  bool
}

// NewRecorder 创建 Recorder 并启动后台写入 goroutine
// m 可为 nil（测试场景）
func NewRecorder(logger *zap.Logger, m *metrics.IsolationMetrics, bufferSize int, sinks ...Sink) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	r := &Recorder{
		logger:   logger,
		m:        m,
		sinks:    sinks,
		ch:       make(chan Event, bufferSize),
		fallback: make([]Event, 0, fallbackRingSize),
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

// Record 记录一个安全事件，永不阻塞、永不返回错误
func (r *Recorder) Record(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if ev.Severity == "" {
		ev.Severity = SeverityInfo
	}

	select {
	case r.ch <- ev:
		r.m.SetQueueDepth(len(r.ch))
	default:
		// 队列满：降级到本地缓冲，请求路径不受影响
		r.m.RecordDropped()
		r.pushFallback(ev)
		r.logEvent(ev)
		r.logger.Warn("audit queue full, event kept in local fallback buffer",
			zap.String("action", ev.Action),
			zap.String("outcome", string(ev.Outcome)),
		)
	}
}

// Close 停止后台 goroutine 并尽量写完剩余事件
func (r *Recorder) Close(ctx context.Context) error {
	r.closeOnce.Do(func() {
		close(r.ch)
	})

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fallback 返回本地降级缓冲中的事件快照（按写入顺序）
func (r *Recorder) Fallback() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.wrapped {
		out := make([]Event, len(r.fallback))
		copy(out, r.fallback)
		return out
	}
	out := make([]Event, 0, fallbackRingSize)
	out = append(out, r.fallback[r.next:]...)
	out = append(out, r.fallback[:r.next]...)
	return out
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for ev := range r.ch {
		r.m.SetQueueDepth(len(r.ch))
		r.logEvent(ev)
		r.emit(ev)
	}
}

func (r *Recorder) emit(ev Event) {
	for _, s := range r.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		err := s.Emit(ctx, ev)
		cancel()
		if err != nil {
			// sink 不可用：记日志 + 降级缓冲，不影响请求路径
			r.m.RecordSinkError(s.Name())
			r.pushFallback(ev)
			r.logger.Warn("audit sink unavailable, event kept in local fallback buffer",
				zap.String("sink", s.Name()),
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

// logEvent 审计日志流（始终启用的 sink）
func (r *Recorder) logEvent(ev Event) {
	fields := []zap.Field{
		zap.Time("event_time", ev.Timestamp),
		zap.String("request_id", ev.RequestID),
		zap.String("principal_id", ev.PrincipalID),
		zap.String("tenant_id", ev.TenantID),
		zap.String("action", ev.Action),
		zap.String("resource_class", ev.ResourceClass),
		zap.String("resource_id", ev.ResourceID),
		zap.String("outcome", string(ev.Outcome)),
		zap.String("detail", ev.Detail),
	}
	switch ev.Severity {
	case SeverityError:
		r.logger.Error("security event", fields...)
	case SeverityWarning:
		r.logger.Warn("security event", fields...)
	default:
		r.logger.Info("security event", fields...)
	}
}

func (r *Recorder) pushFallback(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.fallback) < fallbackRingSize {
		r.fallback = append(r.fallback, ev)
		r.next = len(r.fallback) % fallbackRingSize
		return
	}
	r.fallback[r.next] = ev
	r.next = (r.next + 1) % fallbackRingSize
	r.wrapped = true
}
