package httpapi

import (
	"net/http"

	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"

	"go.uber.org/zap"
)

// 上游认证网关写入的可信身份头
// 凭证校验（JWT 验签等）发生在本服务之前，这里只消费结果
const (
	headerUserID   = "X-Auth-User-Id"
	headerRole     = "X-Auth-Role"
	headerTenantID = "X-Auth-Tenant-Id"
)

// principalFromRequest 从可信身份头还原请求主体
func principalFromRequest(r *http.Request) (isolation.Principal, bool) {
	userID := r.Header.Get(headerUserID)
	roleRaw := r.Header.Get(headerRole)
	if userID == "" || roleRaw == "" {
		return isolation.Principal{}, false
	}
	role, err := domain.ParseRole(roleRaw)
	if err != nil {
		return isolation.Principal{}, false
	}
	return isolation.Principal{
		UserID:   userID,
		Role:     role,
		TenantID: r.Header.Get(headerTenantID),
	}, true
}

// TenantContextMiddleware 租户上下文中间件
// 每个请求恰好解析一次：成功则把 RequestContext 放进 request context，
// 失败（无主体、角色非法、租户缺失/停用）整个请求被拒绝，handler 不会执行
type TenantContextMiddleware struct {
	resolver *isolation.Resolver
	logger   *zap.Logger
}

func NewTenantContextMiddleware(resolver *isolation.Resolver, logger *zap.Logger) *TenantContextMiddleware {
	return &TenantContextMiddleware{resolver: resolver, logger: logger}
}

// Wrap 包装一个需要租户上下文的 handler
func (m *TenantContextMiddleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromRequest(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, Fail("not authenticated"))
			return
		}

		rc, err := m.resolver.Resolve(r.Context(), p, r.URL.Path)
		if err != nil {
			writeJSON(w, http.StatusForbidden, Fail("no tenant context"))
			return
		}

		next(w, r.WithContext(isolation.WithRequestContext(r.Context(), rc)))
	}
}

// requestContext 从请求里取 RequestContext（中间件保证存在）
func requestContext(r *http.Request) (*isolation.RequestContext, bool) {
	return isolation.FromContext(r.Context())
}
