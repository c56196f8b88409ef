package domain

import (
	"database/sql"
	"time"
)

// User 用户领域模型（对应 users 表）
// member/admin 必须归属一个租户；superadmin 无所属租户（TenantID 为 NULL）
type User struct {
	// 主键和租户
	UserID   string         `db:"user_id"`
	TenantID sql.NullString `db:"tenant_id"` // superadmin 为 NULL

	// 账号信息
	Email     string `db:"email"` // NOT NULL, UNIQUE
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`

	// 角色和状态
	Role   Role   `db:"role"`   // NOT NULL
	Status string `db:"status"` // default 'active'

	// 时间戳
	DateJoined  time.Time    `db:"date_joined"`
	LastLoginAt sql.NullTime `db:"last_login_at"`
}

// FullName 用户全名（为空时回退到邮箱）
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
