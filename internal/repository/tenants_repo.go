package repository

import (
	"context"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// TenantsRepository 租户Repository接口（platform surface 专用）
// 有意跨租户：只有平台管理代码路径可以使用，永远不经过 Scope。
// 租户级 handler 无法通过任何开关参数获得这里的能力
type TenantsRepository interface {
	// ========== 查询（单个）==========
	// GetTenant 根据tenant_id获取租户信息
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// GetTenantByCode 根据加入代码获取租户（成员加入流程用）
	// 注意：tenant_code有唯一索引，支持此查询
	GetTenantByCode(ctx context.Context, code string) (*domain.Tenant, error)

	// ========== 查询（列表）==========
	// ListTenants 查询租户列表（支持分页、过滤、搜索）
	// 非激活租户对平台管理员仍然可见
	ListTenants(ctx context.Context, f TenantFilters, page, size int) ([]*domain.Tenant, int, error)

	// ========== 创建 ==========
	// CreateTenant 创建新租户
	// 注意：tenant_code唯一性约束由数据库保证
	CreateTenant(ctx context.Context, tenant *domain.Tenant) error

	// ========== 更新 ==========
	// UpdateTenant 更新租户信息（名称、品牌配置）
	UpdateTenant(ctx context.Context, tenantID string, upd TenantUpdate) error

	// SetTenantStatus 更新租户状态（active/suspended/deleted）
	SetTenantStatus(ctx context.Context, tenantID string, status string) error

	// RotateCode 轮换加入代码（旧代码立即失效）
	RotateCode(ctx context.Context, tenantID string, newCode string) error

	// ========== 删除 ==========
	// DeleteTenant 删除租户（软删除：设置status='deleted'）
	DeleteTenant(ctx context.Context, tenantID string) error
}

// TenantFilters 租户查询过滤器
type TenantFilters struct {
	Status string // 可选，按status过滤（active/suspended/deleted）
	Search string // 可选，按tenant_name搜索（模糊匹配）
}

// TenantUpdate 租户更新载荷（nil 字段不更新）
type TenantUpdate struct {
	TenantName      *string `json:"tenant_name"`
	LogoURL         *string `json:"logo_url"`
	LoginCoverImage *string `json:"login_cover_image"`
}
