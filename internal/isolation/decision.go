package isolation

import (
	"fmt"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/metrics"

	"go.uber.org/zap"
)

// Action 访问动作
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAttach Action = "attach"
)

// ResourceTenantScope 作用域构造本身作为被审计的资源类
const ResourceTenantScope = "tenant_scope"

// Engine 访问决策引擎
// 决策规则（全部 fail closed）：
//   - 集合级：上下文必须携带租户。superadmin 的平台上下文在租户级集合上
//     一律 DENY，不存在任何绕过开关；平台级列表是 platform surface 上
//     另一组独立命名的操作，与租户级资源类无关
//   - 对象级：resource.tenant == context.tenant，与角色无关。
//     superadmin 经租户级路径访问对象同样 DENY
//   - 任何一侧租户无法确定 → DENY
//
// 每次决策（ALLOW 与 DENY）都会发出事件；DENY 事件至少为 warning 级别
type Engine struct {
	recorder *audit.Recorder
	m        *metrics.IsolationMetrics
	logger   *zap.Logger
}

// NewEngine 创建决策引擎
func NewEngine(recorder *audit.Recorder, m *metrics.IsolationMetrics, logger *zap.Logger) *Engine {
	return &Engine{recorder: recorder, m: m, logger: logger}
}

// DecideScope 作用域构造检查（数据访问入口，尚未绑定具体资源类）
// superadmin 的平台上下文到达租户级数据路径属于绕过尝试，在此记录
// DENY 事件；集合与对象路径都必须先经过这里
func (e *Engine) DecideScope(rc *RequestContext) error {
	if rc == nil {
		return ErrMissingTenantContext
	}
	if rc.Tenant() != nil {
		return nil
	}
	if rc.Principal().Role == domain.RoleSuperAdmin {
		e.deny(rc, ActionAttach, ResourceTenantScope, "", "superadmin context reached the tenant data scope")
		return ErrSuperuserBypassDenied
	}
	e.deny(rc, ActionAttach, ResourceTenantScope, "", "context has no tenant")
	return ErrMissingTenantContext
}

// DecideCollection 集合级检查（尚无具体对象，如 "list albums"）
// 返回 nil 表示 ALLOW，否则返回对应的拒绝错误
func (e *Engine) DecideCollection(rc *RequestContext, action Action, resourceClass string) error {
	if rc == nil {
		return ErrMissingTenantContext
	}
	if rc.Tenant() == nil {
		if rc.Principal().Role == domain.RoleSuperAdmin {
			e.deny(rc, action, resourceClass, "", "superadmin context reached a tenant-scoped collection")
			return ErrSuperuserBypassDenied
		}
		e.deny(rc, action, resourceClass, "", "context has no tenant")
		return ErrMissingTenantContext
	}

	e.allow(rc, action, resourceClass, "")
	return nil
}

// DecideObject 对象级检查（对象已知，ownerTenantID 为对象的归属租户）
// ownerTenantID 为空表示对象不存在：记录普通 not found，与跨租户
// 拒绝在审计日志中区分，但对调用方二者不可区分
func (e *Engine) DecideObject(rc *RequestContext, action Action, resourceClass, resourceID, ownerTenantID string) error {
	if rc == nil {
		return ErrMissingTenantContext
	}
	if rc.Tenant() == nil {
		if rc.Principal().Role == domain.RoleSuperAdmin {
			e.deny(rc, action, resourceClass, resourceID, "superadmin context reached a tenant-scoped object")
			return ErrSuperuserBypassDenied
		}
		e.deny(rc, action, resourceClass, resourceID, "context has no tenant")
		return ErrMissingTenantContext
	}

	if ownerTenantID == "" {
		// 对象不存在：普通 not found，info 级别
		e.recorder.Record(audit.Event{
			RequestID:     rc.RequestID(),
			PrincipalID:   rc.Principal().UserID,
			TenantID:      rc.TenantID(),
			Action:        actionName(action, resourceClass),
			ResourceClass: resourceClass,
			ResourceID:    resourceID,
			Outcome:       audit.OutcomeDeny,
			Severity:      audit.SeverityInfo,
			Detail:        "no such resource",
		})
		e.m.RecordDecision(resourceClass, string(action), string(audit.OutcomeDeny))
		return ErrNotFound
	}

	if ownerTenantID != rc.TenantID() {
		// 跨租户访问：安全相关事件，对外仍表现为 not found
		e.m.RecordCrossTenantDenial(resourceClass)
		e.deny(rc, action, resourceClass, resourceID,
			fmt.Sprintf("cross-tenant object access attempt, owner_tenant=%s", ownerTenantID))
		return ErrCrossTenantDenied
	}

	e.allow(rc, action, resourceClass, resourceID)
	return nil
}

func (e *Engine) allow(rc *RequestContext, action Action, resourceClass, resourceID string) {
	e.m.RecordDecision(resourceClass, string(action), string(audit.OutcomeAllow))
	e.recorder.Record(audit.Event{
		RequestID:     rc.RequestID(),
		PrincipalID:   rc.Principal().UserID,
		TenantID:      rc.TenantID(),
		Action:        actionName(action, resourceClass),
		ResourceClass: resourceClass,
		ResourceID:    resourceID,
		Outcome:       audit.OutcomeAllow,
		Severity:      audit.SeverityInfo,
	})
}

func (e *Engine) deny(rc *RequestContext, action Action, resourceClass, resourceID, detail string) {
	e.m.RecordDecision(resourceClass, string(action), string(audit.OutcomeDeny))
	e.recorder.Record(audit.Event{
		RequestID:     rc.RequestID(),
		PrincipalID:   rc.Principal().UserID,
		TenantID:      rc.TenantID(),
		Action:        actionName(action, resourceClass),
		ResourceClass: resourceClass,
		ResourceID:    resourceID,
		Outcome:       audit.OutcomeDeny,
		Severity:      audit.SeverityWarning,
		Detail:        detail,
	})
	e.logger.Warn("access denied",
		zap.String("request_id", rc.RequestID()),
		zap.String("principal_id", rc.Principal().UserID),
		zap.String("resource_class", resourceClass),
		zap.String("resource_id", resourceID),
		zap.String("action", string(action)),
		zap.String("reason", detail),
	)
}

func actionName(action Action, resourceClass string) string {
	return fmt.Sprintf("%s.%s", resourceClass, action)
}
