package domain

import "fmt"

// Role 用户角色（封闭集合，所有分支处判定必须穷举）
// - member: 租户内普通成员
// - admin: 租户管理员（仅限本租户）
// - superadmin: 平台管理员（无所属租户，只能走 platform surface）
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole 解析角色字符串
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember:
		return RoleMember, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Valid 检查角色是否属于封闭集合
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}
