package repository

import (
	"context"
	"time"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// AlbumsStore 相册底层存储接口
// 每个方法都带显式 tenantID，租户谓词在查询构造层生效（不做取回后过滤）。
// 业务代码不得直接使用本接口：唯一合法入口是 Scope（见 scope.go）
type AlbumsStore interface {
	// ListAlbums 查询租户内相册列表（支持分页、过滤、搜索）
	ListAlbums(ctx context.Context, tenantID string, f AlbumFilters, page, size int) ([]*domain.Album, int, error)

	// GetAlbum 按主键+租户谓词取单个相册；租户内不存在时返回 (nil, nil)
	GetAlbum(ctx context.Context, tenantID, albumID string) (*domain.Album, error)

	// CreateAlbum 插入相册（album.TenantID 已由 Scope 从上下文注入）
	CreateAlbum(ctx context.Context, album *domain.Album) error

	// UpdateAlbum 按主键+租户谓词更新；不允许触碰 tenant_id
	UpdateAlbum(ctx context.Context, tenantID, albumID string, upd AlbumUpdate) error

	// DeleteAlbum 按主键+租户谓词删除
	DeleteAlbum(ctx context.Context, tenantID, albumID string) error
}

// AlbumFilters 相册查询过滤器
type AlbumFilters struct {
	IsPublic   *bool  // 可选，按可见性过滤
	IsFeatured *bool  // 可选，按置顶过滤
	Search     string // 可选，按标题搜索（模糊匹配）
}

// AlbumCreate 创建相册的载荷
// TenantID 字段仅用于接收客户端输入，Scope 创建时一律以上下文租户覆盖
// （防止 tenant 字段篡改）
type AlbumCreate struct {
	TenantID    string     `json:"tenant_id"` // 忽略：以 RequestContext 为准
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsPublic    bool       `json:"is_public"`
	IsFeatured  bool       `json:"is_featured"`
	EventDate   *time.Time `json:"event_date"`
}

// AlbumUpdate 更新相册的载荷（nil 字段不更新）
// 不含 tenant 字段：本层永不允许通过 update 重新归属租户
type AlbumUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	IsPublic    *bool      `json:"is_public"`
	IsFeatured  *bool      `json:"is_featured"`
	EventDate   *time.Time `json:"event_date"`
}
