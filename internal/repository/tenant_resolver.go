package repository

import (
	"context"
	"database/sql"
)

// TenantResolver 资源归属租户解析
// 仅用于审计：租户谓词查询落空后，区分"对象不存在"与"对象属于其他租户"。
// 解析结果只进审计日志，绝不回传给调用方
type TenantResolver interface {
	// TenantIDByAlbumID 查询相册归属租户；不存在时返回 ("", nil)
	TenantIDByAlbumID(ctx context.Context, albumID string) (string, error)
	// TenantIDByPhotoID 查询照片归属租户；不存在时返回 ("", nil)
	TenantIDByPhotoID(ctx context.Context, photoID string) (string, error)
}

type PostgresTenantResolver struct {
	db *sql.DB
}

func NewPostgresTenantResolver(db *sql.DB) *PostgresTenantResolver {
	return &PostgresTenantResolver{db: db}
}

func (r *PostgresTenantResolver) TenantIDByAlbumID(ctx context.Context, albumID string) (string, error) {
	var tenantID string
	err := r.db.QueryRowContext(ctx, "SELECT tenant_id::text FROM albums WHERE album_id = $1", albumID).Scan(&tenantID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return tenantID, err
}

func (r *PostgresTenantResolver) TenantIDByPhotoID(ctx context.Context, photoID string) (string, error) {
	var tenantID string
	err := r.db.QueryRowContext(ctx, "SELECT tenant_id::text FROM photos WHERE photo_id = $1", photoID).Scan(&tenantID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return tenantID, err
}
