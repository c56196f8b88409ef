package isolation

import "errors"

// 隔离层错误分类：所有租户级拒绝对外统一为 not found 语义，
// 细节只进审计日志，绝不向调用方确认资源存在性
var (
	// ErrNotFound 资源不存在（或调用方无权得知其存在）
	ErrNotFound = errors.New("resource not found")

	// ErrMissingTenantContext 主体已认证但无可用租户（无租户引用 / 租户非激活）
	// 在 Resolver 阶段拒绝请求，handler 不会执行
	ErrMissingTenantContext = errors.New("missing tenant context")

	// ErrCrossTenantDenied 对象级租户不匹配，对外表现为 not found
	ErrCrossTenantDenied = errors.New("cross-tenant access denied")

	// ErrSuperuserBypassDenied superadmin 上下文进入了租户级路径
	// 对外与 ErrCrossTenantDenied 一致，审计日志中单独标记
	ErrSuperuserBypassDenied = errors.New("superadmin bypass denied")
)

// IsDenied 判断错误是否为隔离层拒绝（含 not found）
func IsDenied(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMissingTenantContext) ||
		errors.Is(err, ErrCrossTenantDenied) ||
		errors.Is(err, ErrSuperuserBypassDenied)
}

// IsNotFoundVisible 判断错误对调用方是否应表现为 not found
// 跨租户与 superadmin 越权都归入此类，避免泄露资源存在性
func IsNotFoundVisible(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCrossTenantDenied) ||
		errors.Is(err, ErrSuperuserBypassDenied)
}
