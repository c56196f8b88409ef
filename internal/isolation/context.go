package isolation

import (
	"context"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// Principal 已认证的请求主体
// 由外部凭证层（JWT 验证等）在请求进入本层之前附加，本层完全信任它，
// 不做任何签名/令牌校验
type Principal struct {
	UserID   string
	Role     domain.Role
	TenantID string // 所属租户；superadmin 为空
}

// RequestContext 每请求一份的租户上下文
// 由 Resolver 在请求入口创建一次，之后不可变；随请求结束丢弃，
// 绝不缓存、绝不跨请求复用（租户 active 状态可能在请求间变化）
type RequestContext struct {
	principal Principal
	tenant    *domain.Tenant // superadmin 平台上下文为 nil
	requestID string
}

// Principal 请求主体
func (rc *RequestContext) Principal() Principal { return rc.principal }

// Tenant 解析后的租户（平台上下文为 nil）
func (rc *RequestContext) Tenant() *domain.Tenant { return rc.tenant }

// TenantID 租户 ID（平台上下文为空字符串）
func (rc *RequestContext) TenantID() string {
	if rc.tenant == nil {
		return ""
	}
	return rc.tenant.TenantID
}

// RequestID 请求 ID（审计日志关联用）
func (rc *RequestContext) RequestID() string { return rc.requestID }

// IsPlatform 是否为平台（superadmin）上下文
func (rc *RequestContext) IsPlatform() bool {
	return rc.tenant == nil && rc.principal.Role == domain.RoleSuperAdmin
}

type ctxKey struct{}

// WithRequestContext 将 RequestContext 放入 context.Context
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext 从 context.Context 取出 RequestContext
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(ctxKey{}).(*RequestContext)
	return rc, ok
}
