package repository

import (
	"context"
	"time"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// PhotosStore 照片底层存储接口
// 约定同 AlbumsStore：显式 tenantID、查询构造层谓词、只经 Scope 访问
type PhotosStore interface {
	ListPhotos(ctx context.Context, tenantID string, f PhotoFilters, page, size int) ([]*domain.Photo, int, error)
	GetPhoto(ctx context.Context, tenantID, photoID string) (*domain.Photo, error)
	CreatePhoto(ctx context.Context, photo *domain.Photo) error
	UpdatePhoto(ctx context.Context, tenantID, photoID string, upd PhotoUpdate) error
	DeletePhoto(ctx context.Context, tenantID, photoID string) error
}

// PhotoFilters 照片查询过滤器
type PhotoFilters struct {
	AlbumID    string // 可选，按相册过滤
	IsPublic   *bool
	IsFeatured *bool
	Search     string // 可选，按标题搜索（模糊匹配）
}

// PhotoCreate 创建照片的载荷
// TenantID 仅用于接收客户端输入，一律以上下文租户覆盖
type PhotoCreate struct {
	TenantID    string     `json:"tenant_id"` // 忽略：以 RequestContext 为准
	AlbumID     string     `json:"album_id"`  // 可选；必须属于同一租户
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Filename    string     `json:"filename"`
	StorageKey  string     `json:"storage_key"`
	FileSize    int64      `json:"file_size"`
	ContentType string     `json:"content_type"`
	Width       int64      `json:"width"`
	Height      int64      `json:"height"`
	IsPublic    bool       `json:"is_public"`
	IsFeatured  bool       `json:"is_featured"`
	TakenAt     *time.Time `json:"taken_at"`
	CameraModel string     `json:"camera_model"`
	Location    string     `json:"location"`
}

// PhotoUpdate 更新照片的载荷（nil 字段不更新，不含 tenant 字段）
type PhotoUpdate struct {
	AlbumID     *string    `json:"album_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	IsPublic    *bool      `json:"is_public"`
	IsFeatured  *bool      `json:"is_featured"`
	TakenAt     *time.Time `json:"taken_at"`
	CameraModel *string    `json:"camera_model"`
	Location    *string    `json:"location"`
}
