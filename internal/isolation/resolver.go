package isolation

import (
	"context"
	"fmt"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 租户上下文事件 action 名称
const (
	ActionContextEstablished = "tenant_context.established"
	ActionContextMissing     = "tenant_context.missing"
)

// TenantLookup Resolver 所需的租户查询接口
// 由 repository.TenantsRepository 实现
type TenantLookup interface {
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// Resolver 租户上下文解析器
// 每个请求运行一次：从已认证主体推导出本请求的租户上下文，
// member/admin 无可用租户时直接拒绝，superadmin 得到平台上下文（tenant=nil）
// 对数据存储无副作用，可重复执行
type Resolver struct {
	tenants  TenantLookup
	recorder *audit.Recorder
	m        *metrics.IsolationMetrics
	logger   *zap.Logger
}

// NewResolver 创建 Resolver
func NewResolver(tenants TenantLookup, recorder *audit.Recorder, m *metrics.IsolationMetrics, logger *zap.Logger) *Resolver {
	return &Resolver{
		tenants:  tenants,
		recorder: recorder,
		m:        m,
		logger:   logger,
	}
}

// Resolve 从已认证主体推导 RequestContext
// path 仅用于审计日志
func (r *Resolver) Resolve(ctx context.Context, p Principal, path string) (*RequestContext, error) {
	requestID := uuid.NewString()

	if p.UserID == "" || !p.Role.Valid() {
		return nil, r.reject(requestID, p, path, "principal malformed")
	}

	switch p.Role {
	case domain.RoleSuperAdmin:
		// superadmin 无所属租户；带租户引用的 superadmin 视为异常主体，拒绝
		if p.TenantID != "" {
			return nil, r.reject(requestID, p, path, "superadmin principal carries a tenant reference")
		}
		rc := &RequestContext{principal: p, tenant: nil, requestID: requestID}
		r.recorder.Record(audit.Event{
			RequestID:   requestID,
			PrincipalID: p.UserID,
			Action:      ActionContextEstablished,
			Outcome:     audit.OutcomeAllow,
			Severity:    audit.SeverityInfo,
			Detail:      fmt.Sprintf("platform context established, path=%s", path),
		})
		return rc, nil

	case domain.RoleMember, domain.RoleAdmin:
		if p.TenantID == "" {
			return nil, r.reject(requestID, p, path, "principal has no tenant reference")
		}
		tenant, err := r.tenants.GetTenant(ctx, p.TenantID)
		if err != nil {
			// 查不到租户与查询失败同样 fail closed
			return nil, r.reject(requestID, p, path, fmt.Sprintf("tenant lookup failed: %v", err))
		}
		if !tenant.IsActive() {
			return nil, r.reject(requestID, p, path, fmt.Sprintf("tenant %s is %s", tenant.TenantID, tenant.Status))
		}
		rc := &RequestContext{principal: p, tenant: tenant, requestID: requestID}
		r.recorder.Record(audit.Event{
			RequestID:   requestID,
			PrincipalID: p.UserID,
			TenantID:    tenant.TenantID,
			Action:      ActionContextEstablished,
			Outcome:     audit.OutcomeAllow,
			Severity:    audit.SeverityInfo,
			Detail:      fmt.Sprintf("path=%s", path),
		})
		return rc, nil

	default:
		return nil, r.reject(requestID, p, path, fmt.Sprintf("unknown role %q", p.Role))
	}
}

// reject 记录 TenantContextMissing 事件并返回 ErrMissingTenantContext
func (r *Resolver) reject(requestID string, p Principal, path, detail string) error {
	r.m.RecordMissingTenant()
	r.recorder.Record(audit.Event{
		RequestID:   requestID,
		PrincipalID: p.UserID,
		TenantID:    p.TenantID,
		Action:      ActionContextMissing,
		Outcome:     audit.OutcomeDeny,
		Severity:    audit.SeverityWarning,
		Detail:      fmt.Sprintf("%s, path=%s", detail, path),
	})
	r.logger.Warn("tenant context missing, request rejected",
		zap.String("request_id", requestID),
		zap.String("principal_id", p.UserID),
		zap.String("role", string(p.Role)),
		zap.String("path", path),
		zap.String("reason", detail),
	)
	return ErrMissingTenantContext
}
