package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// IsolationMetrics 租户隔离层指标
// decisions/denials 按资源类型和结果分类，recorder 指标用于审计链路健康监控
type IsolationMetrics struct {
	decisionTotal       *prometheus.CounterVec
	crossTenantDenials  *prometheus.CounterVec
	missingTenantTotal  prometheus.Counter
	recorderDropped     prometheus.Counter
	recorderSinkErrors  *prometheus.CounterVec
	recorderQueueDepth  prometheus.Gauge
}

// NewIsolationMetrics 创建并注册隔离层指标
func NewIsolationMetrics(serviceName string, reg prometheus.Registerer) *IsolationMetrics {
	m := &IsolationMetrics{
		decisionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Subsystem: "isolation",
				Name:      "decision_total",
				Help:      "Total number of access decisions",
			},
			[]string{"resource", "action", "outcome"},
		),
		crossTenantDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Subsystem: "isolation",
				Name:      "cross_tenant_denials_total",
				Help:      "Total number of cross-tenant access attempts denied",
			},
			[]string{"resource"},
		),
		missingTenantTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Subsystem: "isolation",
				Name:      "missing_tenant_context_total",
				Help:      "Total number of requests rejected for missing tenant context",
			},
		),
		recorderDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Subsystem: "audit",
				Name:      "recorder_dropped_total",
				Help:      "Total number of security events diverted to the local fallback buffer",
			},
		),
		recorderSinkErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Subsystem: "audit",
				Name:      "recorder_sink_errors_total",
				Help:      "Total number of sink emit failures",
			},
			[]string{"sink"},
		),
		recorderQueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: serviceName,
				Subsystem: "audit",
				Name:      "recorder_queue_depth",
				Help:      "Current depth of the security event queue",
			},
		),
	}

	reg.MustRegister(
		m.decisionTotal,
		m.crossTenantDenials,
		m.missingTenantTotal,
		m.recorderDropped,
		m.recorderSinkErrors,
		m.recorderQueueDepth,
	)
	return m
}

// RecordDecision 记录一次访问决策
func (m *IsolationMetrics) RecordDecision(resource, action, outcome string) {
	if m == nil {
		return
	}
	m.decisionTotal.WithLabelValues(resource, action, outcome).Inc()
}

// RecordCrossTenantDenial 记录一次跨租户访问拒绝
func (m *IsolationMetrics) RecordCrossTenantDenial(resource string) {
	if m == nil {
		return
	}
	m.crossTenantDenials.WithLabelValues(resource).Inc()
}

// RecordMissingTenant 记录一次缺失租户上下文的拒绝
func (m *IsolationMetrics) RecordMissingTenant() {
	if m == nil {
		return
	}
	m.missingTenantTotal.Inc()
}

// RecordDropped 记录一次事件降级（队列满）
func (m *IsolationMetrics) RecordDropped() {
	if m == nil {
		return
	}
	m.recorderDropped.Inc()
}

// RecordSinkError 记录一次 sink 写入失败
func (m *IsolationMetrics) RecordSinkError(sink string) {
	if m == nil {
		return
	}
	m.recorderSinkErrors.WithLabelValues(sink).Inc()
}

// SetQueueDepth 更新事件队列深度
func (m *IsolationMetrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.recorderQueueDepth.Set(float64(n))
}
