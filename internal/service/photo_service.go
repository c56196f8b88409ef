package service

import (
	"context"

	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"go.uber.org/zap"
)

// PhotoService 照片服务接口
// 普通成员可上传；更新/删除仅限上传者本人或租户管理员
type PhotoService interface {
	ListPhotos(ctx context.Context, rc *isolation.RequestContext, f repository.PhotoFilters, page, size int) ([]*domain.Photo, int, error)
	GetPhoto(ctx context.Context, rc *isolation.RequestContext, photoID string) (*domain.Photo, error)
	CreatePhoto(ctx context.Context, rc *isolation.RequestContext, p repository.PhotoCreate) (*domain.Photo, error)
	UpdatePhoto(ctx context.Context, rc *isolation.RequestContext, photoID string, upd repository.PhotoUpdate) (*domain.Photo, error)
	DeletePhoto(ctx context.Context, rc *isolation.RequestContext, photoID string) error
}

type photoService struct {
	store  *repository.Store
	engine *isolation.Engine
	logger *zap.Logger
}

// NewPhotoService 创建 PhotoService 实例
func NewPhotoService(store *repository.Store, engine *isolation.Engine, logger *zap.Logger) PhotoService {
	return &photoService{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

func (s *photoService) scope(rc *isolation.RequestContext) (*repository.Scope, error) {
	return repository.NewScope(rc, s.store, s.engine)
}

// canMutatePhoto 照片修改权限：上传者本人或租户管理员
func canMutatePhoto(rc *isolation.RequestContext, photo *domain.Photo) bool {
	p := rc.Principal()
	if p.Role == domain.RoleAdmin {
		return true
	}
	return photo.UploadedBy == p.UserID
}

// ListPhotos 列出本租户照片
func (s *photoService) ListPhotos(ctx context.Context, rc *isolation.RequestContext, f repository.PhotoFilters, page, size int) ([]*domain.Photo, int, error) {
	if err := s.engine.DecideCollection(rc, isolation.ActionList, repository.ResourcePhotos); err != nil {
		return nil, 0, err
	}
	scope, err := s.scope(rc)
	if err != nil {
		return nil, 0, err
	}
	return scope.Photos().List(ctx, f, page, size)
}

// GetPhoto 取单张照片
func (s *photoService) GetPhoto(ctx context.Context, rc *isolation.RequestContext, photoID string) (*domain.Photo, error) {
	scope, err := s.scope(rc)
	if err != nil {
		return nil, err
	}
	return scope.Photos().GetOrFail(ctx, photoID)
}

// CreatePhoto 上传照片（任何租户成员）
// 照片归属租户由请求上下文决定，载荷中的 tenant_id 不可信
func (s *photoService) CreatePhoto(ctx context.Context, rc *isolation.RequestContext, p repository.PhotoCreate) (*domain.Photo, error) {
	if err := s.engine.DecideCollection(rc, isolation.ActionCreate, repository.ResourcePhotos); err != nil {
		return nil, err
	}
	scope, err := s.scope(rc)
	if err != nil {
		return nil, err
	}
	photo, err := scope.Photos().Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("photo uploaded",
		zap.String("request_id", rc.RequestID()),
		zap.String("tenant_id", rc.TenantID()),
		zap.String("photo_id", photo.PhotoID),
	)
	return photo, nil
}

// UpdatePhoto 更新照片元数据
// 先做租户内取回：跨租户照片在此处即表现为 not found，不会走到角色判定
func (s *photoService) UpdatePhoto(ctx context.Context, rc *isolation.RequestContext, photoID string, upd repository.PhotoUpdate) (*domain.Photo, error) {
	scope, err := s.scope(rc)
	if err != nil {
		return nil, err
	}
	photo, err := scope.Photos().GetOrFail(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if !canMutatePhoto(rc, photo) {
		return nil, ErrForbidden
	}
	return scope.Photos().Update(ctx, photoID, upd)
}

// DeletePhoto 删除照片
func (s *photoService) DeletePhoto(ctx context.Context, rc *isolation.RequestContext, photoID string) error {
	scope, err := s.scope(rc)
	if err != nil {
		return err
	}
	photo, err := scope.Photos().GetOrFail(ctx, photoID)
	if err != nil {
		return err
	}
	if !canMutatePhoto(rc, photo) {
		return ErrForbidden
	}
	if err := scope.Photos().Delete(ctx, photoID); err != nil {
		return err
	}
	s.logger.Info("photo deleted",
		zap.String("request_id", rc.RequestID()),
		zap.String("tenant_id", rc.TenantID()),
		zap.String("photo_id", photoID),
	)
	return nil
}
