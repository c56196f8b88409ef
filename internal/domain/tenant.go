package domain

import "time"

// 租户状态
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusDeleted   = "deleted"
)

// Tenant 租户领域模型（对应 tenants 表）
// 每个租户是一个独立的教会组织，共享同一应用实例和数据库
type Tenant struct {
	// 主键
	TenantID string `db:"tenant_id"` // UUID, PRIMARY KEY

	// 基本信息
	TenantName string `db:"tenant_name"` // VARCHAR(255), NOT NULL
	TenantCode string `db:"tenant_code"` // VARCHAR(50), UNIQUE，成员加入用的短代码（可轮换）

	// 状态
	Status string `db:"status"` // VARCHAR(50), DEFAULT 'active' (active/suspended/deleted)

	// 品牌配置（对象存储路径，本服务只保存元数据）
	LogoURL         string `db:"logo_url"`          // nullable
	LoginCoverImage string `db:"login_cover_image"` // nullable

	// 时间戳
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsActive 租户是否处于激活状态
// 非激活租户的成员在 Resolver 阶段即被拒绝；平台管理员仍可见该租户
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
