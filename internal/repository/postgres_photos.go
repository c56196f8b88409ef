package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// PostgresPhotosStore 照片存储实现（约定同 PostgresAlbumsStore）
type PostgresPhotosStore struct {
	db *sql.DB
}

// NewPostgresPhotosStore 创建照片存储
func NewPostgresPhotosStore(db *sql.DB) *PostgresPhotosStore {
	return &PostgresPhotosStore{db: db}
}

var _ PhotosStore = (*PostgresPhotosStore)(nil)

const photoColumns = `
	photo_id::text,
	tenant_id::text,
	album_id::text,
	title,
	COALESCE(description, '') as description,
	filename,
	COALESCE(storage_key, '') as storage_key,
	file_size,
	COALESCE(content_type, 'image/jpeg') as content_type,
	width,
	height,
	uploaded_by::text,
	is_public,
	is_featured,
	taken_at,
	COALESCE(camera_model, '') as camera_model,
	COALESCE(location, '') as location,
	created_at,
	updated_at
`

func scanPhoto(row interface{ Scan(...any) error }) (*domain.Photo, error) {
	var p domain.Photo
	err := row.Scan(
		&p.PhotoID,
		&p.TenantID,
		&p.AlbumID,
		&p.Title,
		&p.Description,
		&p.Filename,
		&p.StorageKey,
		&p.FileSize,
		&p.ContentType,
		&p.Width,
		&p.Height,
		&p.UploadedBy,
		&p.IsPublic,
		&p.IsFeatured,
		&p.TakenAt,
		&p.CameraModel,
		&p.Location,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPhotos 查询租户内照片列表
func (r *PostgresPhotosStore) ListPhotos(ctx context.Context, tenantID string, f PhotoFilters, page, size int) ([]*domain.Photo, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	// 租户谓词永远是第一个条件
	where := []string{"tenant_id = $1::uuid"}
	args := []any{tenantID}
	argIdx := 2

	if f.AlbumID != "" {
		where = append(where, fmt.Sprintf("album_id = $%d::uuid", argIdx))
		args = append(args, f.AlbumID)
		argIdx++
	}
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
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM photos "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count photos: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM photos
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, photoColumns, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]*domain.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

// GetPhoto 按主键+租户谓词取单张照片
func (r *PostgresPhotosStore) GetPhoto(ctx context.Context, tenantID, photoID string) (*domain.Photo, error) {
	query := fmt.Sprintf(`SELECT %s FROM photos WHERE tenant_id = $1::uuid AND photo_id = $2::uuid`, photoColumns)
	p, err := scanPhoto(r.db.QueryRowContext(ctx, query, tenantID, photoID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

// CreatePhoto 插入照片
func (r *PostgresPhotosStore) CreatePhoto(ctx context.Context, photo *domain.Photo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO photos (
			photo_id, tenant_id, album_id, title, description,
			filename, storage_key, file_size, content_type, width, height,
			uploaded_by, is_public, is_featured, taken_at, camera_model, location,
			created_at, updated_at
		) VALUES (
			$1::uuid, $2::uuid, $3::uuid, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12::uuid, $13, $14, $15, $16, $17,
			$18, $19
		)
	`,
		photo.PhotoID,
		photo.TenantID,
		photo.AlbumID,
		photo.Title,
		photo.Description,
		photo.Filename,
		photo.StorageKey,
		photo.FileSize,
		photo.ContentType,
		photo.Width,
		photo.Height,
		photo.UploadedBy,
		photo.IsPublic,
		photo.IsFeatured,
		photo.TakenAt,
		photo.CameraModel,
		photo.Location,
		photo.CreatedAt,
		photo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

// UpdatePhoto 按主键+租户谓词更新（tenant_id 永不在 SET 列表中）
func (r *PostgresPhotosStore) UpdatePhoto(ctx context.Context, tenantID, photoID string, upd PhotoUpdate) error {
	set := []string{"updated_at = NOW()"}
	args := []any{}
	argIdx := 1

	if upd.AlbumID != nil {
		if *upd.AlbumID == "" {
			set = append(set, "album_id = NULL")
		} else {
			set = append(set, fmt.Sprintf("album_id = $%d::uuid", argIdx))
			args = append(args, *upd.AlbumID)
			argIdx++
		}
	}
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
	if upd.TakenAt != nil {
		set = append(set, fmt.Sprintf("taken_at = $%d", argIdx))
		args = append(args, *upd.TakenAt)
		argIdx++
	}
	if upd.CameraModel != nil {
		set = append(set, fmt.Sprintf("camera_model = $%d", argIdx))
		args = append(args, *upd.CameraModel)
		argIdx++
	}
	if upd.Location != nil {
		set = append(set, fmt.Sprintf("location = $%d", argIdx))
		args = append(args, *upd.Location)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE photos SET %s
		WHERE tenant_id = $%d::uuid AND photo_id = $%d::uuid
	`, strings.Join(set, ", "), argIdx, argIdx+1)
	args = append(args, tenantID, photoID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	return nil
}

// DeletePhoto 按主键+租户谓词删除
func (r *PostgresPhotosStore) DeletePhoto(ctx context.Context, tenantID, photoID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM photos WHERE tenant_id = $1::uuid AND photo_id = $2::uuid`,
		tenantID, photoID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
