package service

import (
	"context"
	"errors"

	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"go.uber.org/zap"
)

// ErrForbidden 租户内角色不足（与隔离层拒绝不同：会以 403 返回）
var ErrForbidden = errors.New("forbidden")

// AlbumWithStats 相册条目（附照片数与封面）
// 封面取相册内最新一张照片的 storage_key
type AlbumWithStats struct {
	*domain.Album
	PhotoCount      int
	CoverStorageKey string
}

// AlbumService 相册服务接口
// 所有操作先经 Decision Engine 授权，再经 Scope 访问数据；
// 任何租户级拒绝对调用方都表现为 not found
type AlbumService interface {
	ListAlbums(ctx context.Context, rc *isolation.RequestContext, f repository.AlbumFilters, page, size int) ([]*AlbumWithStats, int, error)
	GetAlbum(ctx context.Context, rc *isolation.RequestContext, albumID string) (*AlbumWithStats, error)
	CreateAlbum(ctx context.Context, rc *isolation.RequestContext, p repository.AlbumCreate) (*domain.Album, error)
	UpdateAlbum(ctx context.Context, rc *isolation.RequestContext, albumID string, upd repository.AlbumUpdate) (*domain.Album, error)
	DeleteAlbum(ctx context.Context, rc *isolation.RequestContext, albumID string) error
}

// albumService 实现
type albumService struct {
	store  *repository.Store
	engine *isolation.Engine
	logger *zap.Logger
}

// NewAlbumService 创建 AlbumService 实例
func NewAlbumService(store *repository.Store, engine *isolation.Engine, logger *zap.Logger) AlbumService {
	return &albumService{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// canManageAlbums 相册管理权限（创建/更新/删除仅限租户管理员）
// 角色集合封闭，穷举判定
func canManageAlbums(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleMember, domain.RoleSuperAdmin:
		return false
	default:
		return false
	}
}

func (s *albumService) scope(rc *isolation.RequestContext) (*repository.Scope, error) {
	return repository.NewScope(rc, s.store, s.engine)
}

// withStats 填充相册的照片数与封面（封面为相册内最新照片）
func (s *albumService) withStats(ctx context.Context, scope *repository.Scope, album *domain.Album) (*AlbumWithStats, error) {
	photos, total, err := scope.Photos().List(ctx, repository.PhotoFilters{AlbumID: album.AlbumID}, 1, 1)
	if err != nil {
		return nil, err
	}
	out := &AlbumWithStats{Album: album, PhotoCount: total}
	if len(photos) > 0 {
		out.CoverStorageKey = photos[0].StorageKey
	}
	return out, nil
}

// ListAlbums 列出本租户相册
func (s *albumService) ListAlbums(ctx context.Context, rc *isolation.RequestContext, f repository.AlbumFilters, page, size int) ([]*AlbumWithStats, int, error) {
	if err := s.engine.DecideCollection(rc, isolation.ActionList, repository.ResourceAlbums); err != nil {
		return nil, 0, err
	}
	scope, err := s.scope(rc)
	if err != nil {
		return nil, 0, err
	}
	albums, total, err := scope.Albums().List(ctx, f, page, size)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*AlbumWithStats, 0, len(albums))
	for _, album := range albums {
		item, err := s.withStats(ctx, scope, album)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

// GetAlbum 取单个相册
func (s *albumService) GetAlbum(ctx context.Context, rc *isolation.RequestContext, albumID string) (*AlbumWithStats, error) {
	scope, err := s.scope(rc)
	if err != nil {
		return nil, err
	}
	album, err := scope.Albums().GetOrFail(ctx, albumID)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, scope, album)
}

// CreateAlbum 创建相册（仅限租户管理员）
func (s *albumService) CreateAlbum(ctx context.Context, rc *isolation.RequestContext, p repository.AlbumCreate) (*domain.Album, error) {
	if err := s.engine.DecideCollection(rc, isolation.ActionCreate, repository.ResourceAlbums); err != nil {
		return nil, err
	}
	if !canManageAlbums(rc.Principal().Role) {
		return nil, ErrForbidden
	}
	scope, err := s.scope(rc)
	if err != nil {
		return nil, err
	}
	album, err := scope.Albums().Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("album created",
		zap.String("request_id", rc.RequestID()),
		zap.String("tenant_id", rc.TenantID()),
		zap.String("album_id", album.AlbumID),
	)
	return album, nil
}

// UpdateAlbum 更新相册（仅限租户管理员）
// 先做租户内取回：跨租户相册在此处即表现为 not found，不会走到角色判定
func (s *albumService) UpdateAlbum(ctx context.Context, rc *isolation.RequestContext, albumID string, upd repository.AlbumUpdate) (*domain.Album, error) {
	scope, err := s.scope(rc)
	if err != nil {
		return nil, err
	}
	if _, err := scope.Albums().GetOrFail(ctx, albumID); err != nil {
		return nil, err
	}
	if !canManageAlbums(rc.Principal().Role) {
		return nil, ErrForbidden
	}
	return scope.Albums().Update(ctx, albumID, upd)
}

// DeleteAlbum 删除相册（取回顺序同 UpdateAlbum）
func (s *albumService) DeleteAlbum(ctx context.Context, rc *isolation.RequestContext, albumID string) error {
	scope, err := s.scope(rc)
	if err != nil {
		return err
	}
	if _, err := scope.Albums().GetOrFail(ctx, albumID); err != nil {
		return err
	}
	if !canManageAlbums(rc.Principal().Role) {
		return ErrForbidden
	}
	if err := scope.Albums().Delete(ctx, albumID); err != nil {
		return err
	}
	s.logger.Info("album deleted",
		zap.String("request_id", rc.RequestID()),
		zap.String("tenant_id", rc.TenantID()),
		zap.String("album_id", albumID),
	)
	return nil
}
