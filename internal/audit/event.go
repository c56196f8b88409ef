package audit

import "time"

// Outcome 访问决策结果
type Outcome string

const (
	OutcomeAllow Outcome = "ALLOW"
	OutcomeDeny  Outcome = "DENY"
	OutcomeError Outcome = "ERROR"
)

// Severity 事件严重级别（DENY 事件至少为 warning）
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event 结构化安全事件
// 由 Resolver / Decision Engine / Scoped Accessor 发出，Recorder 持久化
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	RequestID     string    `json:"request_id,omitempty"`
	PrincipalID   string    `json:"principal_id,omitempty"`
	TenantID      string    `json:"tenant_id,omitempty"` // 主体所属租户（superadmin 为空）
	Action        string    `json:"action"`
	ResourceClass string    `json:"resource_class,omitempty"`
	ResourceID    string    `json:"resource_id,omitempty"`
	Outcome       Outcome   `json:"outcome"`
	Severity      Severity  `json:"severity"`
	Detail        string    `json:"detail,omitempty"`
}
