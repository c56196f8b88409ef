package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// MemoryPhotosStore 内存照片存储（约定同 MemoryAlbumsStore）
type MemoryPhotosStore struct {
	mu     sync.RWMutex
	photos map[string]map[string]*domain.Photo // tenantID -> photoID -> Photo
}

func NewMemoryPhotosStore() *MemoryPhotosStore {
	return &MemoryPhotosStore{
		photos: map[string]map[string]*domain.Photo{},
	}
}

var _ PhotosStore = (*MemoryPhotosStore)(nil)

func (r *MemoryPhotosStore) ListPhotos(_ context.Context, tenantID string, f PhotoFilters, page, size int) ([]*domain.Photo, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Photo, 0, len(r.photos[tenantID]))
	for _, p := range r.photos[tenantID] {
		if f.AlbumID != "" && (!p.AlbumID.Valid || p.AlbumID.String != f.AlbumID) {
			continue
		}
		if f.IsPublic != nil && p.IsPublic != *f.IsPublic {
			continue
		}
		if f.IsFeatured != nil && p.IsFeatured != *f.IsFeatured {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start, end := pageBounds(total, page, size)
	return all[start:end], total, nil
}

func (r *MemoryPhotosStore) GetPhoto(_ context.Context, tenantID, photoID string) (*domain.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.photos[tenantID][photoID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryPhotosStore) CreatePhoto(_ context.Context, photo *domain.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.photos[photo.TenantID] == nil {
		r.photos[photo.TenantID] = map[string]*domain.Photo{}
	}
	cp := *photo
	r.photos[photo.TenantID][photo.PhotoID] = &cp
	return nil
}

func (r *MemoryPhotosStore) UpdatePhoto(_ context.Context, tenantID, photoID string, upd PhotoUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[tenantID][photoID]
	if !ok {
		return nil
	}
	if upd.AlbumID != nil {
		if *upd.AlbumID == "" {
			p.AlbumID.Valid = false
			p.AlbumID.String = ""
		} else {
			p.AlbumID.String = *upd.AlbumID
			p.AlbumID.Valid = true
		}
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.IsPublic != nil {
		p.IsPublic = *upd.IsPublic
	}
	if upd.IsFeatured != nil {
		p.IsFeatured = *upd.IsFeatured
	}
	if upd.TakenAt != nil {
		p.TakenAt.Time = *upd.TakenAt
		p.TakenAt.Valid = true
	}
	if upd.CameraModel != nil {
		p.CameraModel = *upd.CameraModel
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	return nil
}

func (r *MemoryPhotosStore) DeletePhoto(_ context.Context, tenantID, photoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.photos[tenantID], photoID)
	return nil
}

// ownerOf 查询照片归属租户（供 MemoryTenantResolver 使用）
func (r *MemoryPhotosStore) ownerOf(photoID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for tenantID, bucket := range r.photos {
		if _, ok := bucket[photoID]; ok {
			return tenantID
		}
	}
	return ""
}

// MemoryTenantResolver 内存版资源归属解析
type MemoryTenantResolver struct {
	albums *MemoryAlbumsStore
	photos *MemoryPhotosStore
}

func NewMemoryTenantResolver(albums *MemoryAlbumsStore, photos *MemoryPhotosStore) *MemoryTenantResolver {
	return &MemoryTenantResolver{albums: albums, photos: photos}
}

var _ TenantResolver = (*MemoryTenantResolver)(nil)

func (r *MemoryTenantResolver) TenantIDByAlbumID(_ context.Context, albumID string) (string, error) {
	return r.albums.ownerOf(albumID), nil
}

func (r *MemoryTenantResolver) TenantIDByPhotoID(_ context.Context, photoID string) (string, error) {
	return r.photos.ownerOf(photoID), nil
}
