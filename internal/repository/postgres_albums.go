package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// PostgresAlbumsStore 相册存储实现
// 每个查询的 WHERE 子句都以 tenant_id 谓词开头，配合 (tenant_id, ...)
// 复合索引保证租户内查询与总数据量无关
type PostgresAlbumsStore struct {
	db *sql.DB
}

// NewPostgresAlbumsStore 创建相册存储
func NewPostgresAlbumsStore(db *sql.DB) *PostgresAlbumsStore {
	return &PostgresAlbumsStore{db: db}
}

// 确保实现了接口
var _ AlbumsStore = (*PostgresAlbumsStore)(nil)

const albumColumns = `
	album_id::text,
	tenant_id::text,
	title,
	COALESCE(description, '') as description,
	created_by::text,
	is_public,
	is_featured,
	event_date,
	created_at,
	updated_at
`

func scanAlbum(row interface{ Scan(...any) error }) (*domain.Album, error) {
	var a domain.Album
	err := row.Scan(
		&a.AlbumID,
		&a.TenantID,
		&a.Title,
		&a.Description,
		&a.CreatedBy,
		&a.IsPublic,
		&a.IsFeatured,
		&a.EventDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAlbums 查询租户内相册列表
func (r *PostgresAlbumsStore) ListAlbums(ctx context.Context, tenantID string, f AlbumFilters, page, size int) ([]*domain.Album, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	// 租户谓词永远是第一个条件，调用方无法移除
	where := []string{"tenant_id = $1::uuid"}
	args := []any{tenantID}
	argIdx := 2

	if f.IsPublic != nil {
		where = append(where, fmt.Sprintf("is_public = $%d", argIdx))
		args = append(args, *f.IsPublic)
		argIdx++
	}
	if f.IsFeatured != nil {
		where = append(where, fmt.Sprintf("is_featured = $%d", argIdx))
		args = append(args, *f.IsFeatured)
		argIdx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("title ILIKE $%d", argIdx))
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM albums " + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count albums: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM albums
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, albumColumns, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	albums := make([]*domain.Album, 0)
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return albums, total, nil
}

// GetAlbum 按主键+租户谓词取单个相册（一次查询完成两个条件）
func (r *PostgresAlbumsStore) GetAlbum(ctx context.Context, tenantID, albumID string) (*domain.Album, error) {
	query := fmt.Sprintf(`SELECT %s FROM albums WHERE tenant_id = $1::uuid AND album_id = $2::uuid`, albumColumns)
	a, err := scanAlbum(r.db.QueryRowContext(ctx, query, tenantID, albumID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return a, nil
}

// CreateAlbum 插入相册
func (r *PostgresAlbumsStore) CreateAlbum(ctx context.Context, album *domain.Album) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO albums (
			album_id, tenant_id, title, description, created_by,
			is_public, is_featured, event_date, created_at, updated_at
		) VALUES ($1::uuid, $2::uuid, $3, $4, $5::uuid, $6, $7, $8, $9, $10)
	`,
		album.AlbumID,
		album.TenantID,
		album.Title,
		album.Description,
		album.CreatedBy,
		album.IsPublic,
		album.IsFeatured,
		album.EventDate,
		album.CreatedAt,
		album.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}
	return nil
}

// UpdateAlbum 按主键+租户谓词更新
// SET 列表由非 nil 字段构建，tenant_id 永远不在其中
func (r *PostgresAlbumsStore) UpdateAlbum(ctx context.Context, tenantID, albumID string, upd AlbumUpdate) error {
	set := []string{"updated_at = NOW()"}
	args := []any{}
	argIdx := 1

	if upd.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *upd.Title)
		argIdx++
	}
	if upd.Description != nil {
		set = append(set, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *upd.Description)
		argIdx++
	}
	if upd.IsPublic != nil {
		set = append(set, fmt.Sprintf("is_public = $%d", argIdx))
		args = append(args, *upd.IsPublic)
		argIdx++
	}
	if upd.IsFeatured != nil {
		set = append(set, fmt.Sprintf("is_featured = $%d", argIdx))
		args = append(args, *upd.IsFeatured)
		argIdx++
	}
	if upd.EventDate != nil {
		set = append(set, fmt.Sprintf("event_date = $%d", argIdx))
		args = append(args, *upd.EventDate)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE albums SET %s
		WHERE tenant_id = $%d::uuid AND album_id = $%d::uuid
	`, strings.Join(set, ", "), argIdx, argIdx+1)
	args = append(args, tenantID, albumID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	return nil
}

// DeleteAlbum 按主键+租户谓词删除
func (r *PostgresAlbumsStore) DeleteAlbum(ctx context.Context, tenantID, albumID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM albums WHERE tenant_id = $1::uuid AND album_id = $2::uuid`,
		tenantID, albumID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return nil
}
