package repository

import (
	"context"
	"errors"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// ErrAlreadyAssigned 用户已归属某个租户（加入代码只能使用一次）
var ErrAlreadyAssigned = errors.New("user is already assigned to a tenant")

// UsersRepository 用户Repository接口
// 加入流程（tenant_code 换取租户归属）与平台统计使用；
// 用户不走 Scope：归属租户的建立恰恰发生在用户还没有租户的时候
type UsersRepository interface {
	// GetUser 根据user_id获取用户
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// AssignTenant 把用户归属到租户
	// 仅当用户当前无租户归属时成功；已归属时返回 ErrAlreadyAssigned
	// （一次性约束在查询层生效，并发下同样安全）
	AssignTenant(ctx context.Context, userID, tenantID string) error

	// CountByTenant 统计租户内用户数（平台管理页展示用）
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}
