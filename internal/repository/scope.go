package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"

	"github.com/google/uuid"
)

// Store 租户级资源的底层存储集合
// Postgres 与内存两套实现按 DB_ENABLED 选择（见 cmd/photoshare/main.go）
type Store struct {
	Albums AlbumsStore
	Photos PhotosStore
	Owners TenantResolver
}

// Scope 租户级数据访问的唯一合法入口
// 构造必须提供 RequestContext（类型层面消灭"忘记按租户过滤"这类缺陷），
// 所有查询自动合取 tenant_id = context.tenant 谓词，调用方无法覆盖或省略。
// superadmin 的平台上下文无法构造 Scope：跨租户操作必须走 platform surface
// 的独立代码路径（TenantsRepository / AuditEventsRepository），
// 绝不以开关参数的形式出现在本类型上
type Scope struct {
	rc     *isolation.RequestContext
	store  *Store
	engine *isolation.Engine
}

// NewScope 以请求上下文构造数据访问范围
// 上下文缺失或无租户（含 superadmin 平台上下文）时构造失败，
// 拒绝经 Engine.DecideScope 记录为审计事件
func NewScope(rc *isolation.RequestContext, store *Store, engine *isolation.Engine) (*Scope, error) {
	if err := engine.DecideScope(rc); err != nil {
		return nil, err
	}
	return &Scope{rc: rc, store: store, engine: engine}, nil
}

// Albums 相册访问器
func (s *Scope) Albums() *ScopedAlbums { return &ScopedAlbums{s: s} }

// Photos 照片访问器
func (s *Scope) Photos() *ScopedPhotos { return &ScopedPhotos{s: s} }

// ScopedAlbums 带租户谓词的相册访问器
type ScopedAlbums struct {
	s *Scope
}

// List 列出本租户的相册
// 结果只包含 tenant == context.tenant 的行；谓词在 SQL 构造层合取
func (a *ScopedAlbums) List(ctx context.Context, f AlbumFilters, page, size int) ([]*domain.Album, int, error) {
	return a.s.store.Albums.ListAlbums(ctx, a.s.rc.TenantID(), f, page, size)
}

// GetOrFail 按主键+租户谓词取相册
// 行存在但属于其他租户时，返回与"行不存在"完全一致的 not found 结果
func (a *ScopedAlbums) GetOrFail(ctx context.Context, albumID string) (*domain.Album, error) {
	return a.getOrFail(ctx, isolation.ActionRead, albumID)
}

func (a *ScopedAlbums) getOrFail(ctx context.Context, action isolation.Action, albumID string) (*domain.Album, error) {
	album, err := a.s.store.Albums.GetAlbum(ctx, a.s.rc.TenantID(), albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	if album == nil {
		// 谓词查询落空：解析实际归属仅用于审计分类（cross-tenant vs missing）
		owner, rerr := a.s.store.Owners.TenantIDByAlbumID(ctx, albumID)
		if rerr != nil {
			owner = ""
		}
		if derr := a.s.engine.DecideObject(a.s.rc, action, ResourceAlbums, albumID, owner); derr != nil {
			return nil, derr
		}
		return nil, isolation.ErrNotFound
	}
	if derr := a.s.engine.DecideObject(a.s.rc, action, ResourceAlbums, albumID, album.TenantID); derr != nil {
		return nil, derr
	}
	return album, nil
}

// Create 创建相册
// tenant 字段一律取自上下文，载荷中的 tenant_id 被覆盖（防篡改）
func (a *ScopedAlbums) Create(ctx context.Context, p AlbumCreate) (*domain.Album, error) {
	now := time.Now().UTC()
	album := &domain.Album{
		AlbumID:     uuid.NewString(),
		TenantID:    a.s.rc.TenantID(), // 覆盖 p.TenantID
		Title:       p.Title,
		Description: p.Description,
		CreatedBy:   a.s.rc.Principal().UserID,
		IsPublic:    p.IsPublic,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.EventDate != nil {
		album.EventDate = sql.NullTime{Time: *p.EventDate, Valid: true}
	}
	if err := a.s.store.Albums.CreateAlbum(ctx, album); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}
	return album, nil
}

// Update 更新相册
// 先经 getOrFail 重解析（跨租户更新与跨租户读取以同样方式失败），
// 载荷不含 tenant 字段，租户重新归属在本层永不可能
func (a *ScopedAlbums) Update(ctx context.Context, albumID string, upd AlbumUpdate) (*domain.Album, error) {
	if _, err := a.getOrFail(ctx, isolation.ActionUpdate, albumID); err != nil {
		return nil, err
	}
	if err := a.s.store.Albums.UpdateAlbum(ctx, a.s.rc.TenantID(), albumID, upd); err != nil {
		return nil, fmt.Errorf("failed to update album: %w", err)
	}
	return a.s.store.Albums.GetAlbum(ctx, a.s.rc.TenantID(), albumID)
}

// Delete 删除相册（重解析模式同 Update）
func (a *ScopedAlbums) Delete(ctx context.Context, albumID string) error {
	if _, err := a.getOrFail(ctx, isolation.ActionDelete, albumID); err != nil {
		return err
	}
	if err := a.s.store.Albums.DeleteAlbum(ctx, a.s.rc.TenantID(), albumID); err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return nil
}

// ScopedPhotos 带租户谓词的照片访问器
type ScopedPhotos struct {
	s *Scope
}

// List 列出本租户的照片
func (p *ScopedPhotos) List(ctx context.Context, f PhotoFilters, page, size int) ([]*domain.Photo, int, error) {
	return p.s.store.Photos.ListPhotos(ctx, p.s.rc.TenantID(), f, page, size)
}

// GetOrFail 按主键+租户谓词取照片
func (p *ScopedPhotos) GetOrFail(ctx context.Context, photoID string) (*domain.Photo, error) {
	return p.getOrFail(ctx, isolation.ActionRead, photoID)
}

func (p *ScopedPhotos) getOrFail(ctx context.Context, action isolation.Action, photoID string) (*domain.Photo, error) {
	photo, err := p.s.store.Photos.GetPhoto(ctx, p.s.rc.TenantID(), photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if photo == nil {
		owner, rerr := p.s.store.Owners.TenantIDByPhotoID(ctx, photoID)
		if rerr != nil {
			owner = ""
		}
		if derr := p.s.engine.DecideObject(p.s.rc, action, ResourcePhotos, photoID, owner); derr != nil {
			return nil, derr
		}
		return nil, isolation.ErrNotFound
	}
	if derr := p.s.engine.DecideObject(p.s.rc, action, ResourcePhotos, photoID, photo.TenantID); derr != nil {
		return nil, derr
	}
	return photo, nil
}

// Create 创建照片
// tenant 字段取自上下文；album_id 非空时必须先在本租户内解析成功
func (p *ScopedPhotos) Create(ctx context.Context, pc PhotoCreate) (*domain.Photo, error) {
	now := time.Now().UTC()
	photo := &domain.Photo{
		PhotoID:     uuid.NewString(),
		TenantID:    p.s.rc.TenantID(), // 覆盖 pc.TenantID
		Title:       pc.Title,
		Description: pc.Description,
		Filename:    pc.Filename,
		StorageKey:  pc.StorageKey,
		ContentType: pc.ContentType,
		UploadedBy:  p.s.rc.Principal().UserID,
		IsPublic:    pc.IsPublic,
		IsFeatured:  pc.IsFeatured,
		CameraModel: pc.CameraModel,
		Location:    pc.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if photo.ContentType == "" {
		photo.ContentType = "image/jpeg"
	}
	if pc.AlbumID != "" {
		// 相册必须属于同一租户；跨租户相册与不存在的相册同样 not found
		if _, err := p.s.Albums().GetOrFail(ctx, pc.AlbumID); err != nil {
			return nil, err
		}
		photo.AlbumID = sql.NullString{String: pc.AlbumID, Valid: true}
	}
	if pc.FileSize > 0 {
		photo.FileSize = sql.NullInt64{Int64: pc.FileSize, Valid: true}
	}
	if pc.Width > 0 {
		photo.Width = sql.NullInt64{Int64: pc.Width, Valid: true}
	}
	if pc.Height > 0 {
		photo.Height = sql.NullInt64{Int64: pc.Height, Valid: true}
	}
	if pc.TakenAt != nil {
		photo.TakenAt = sql.NullTime{Time: *pc.TakenAt, Valid: true}
	}
	if err := p.s.store.Photos.CreatePhoto(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}
	return photo, nil
}

// Update 更新照片（重解析 + 禁止租户重新归属，约定同相册）
func (p *ScopedPhotos) Update(ctx context.Context, photoID string, upd PhotoUpdate) (*domain.Photo, error) {
	if _, err := p.getOrFail(ctx, isolation.ActionUpdate, photoID); err != nil {
		return nil, err
	}
	if upd.AlbumID != nil && *upd.AlbumID != "" {
		// 迁移目标相册同样必须在本租户内解析成功
		if _, err := p.s.Albums().GetOrFail(ctx, *upd.AlbumID); err != nil {
			return nil, err
		}
	}
	if err := p.s.store.Photos.UpdatePhoto(ctx, p.s.rc.TenantID(), photoID, upd); err != nil {
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return p.s.store.Photos.GetPhoto(ctx, p.s.rc.TenantID(), photoID)
}

// Delete 删除照片
func (p *ScopedPhotos) Delete(ctx context.Context, photoID string) error {
	if _, err := p.getOrFail(ctx, isolation.ActionDelete, photoID); err != nil {
		return err
	}
	if err := p.s.store.Photos.DeletePhoto(ctx, p.s.rc.TenantID(), photoID); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
