package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// MemoryAlbumsStore 内存相册存储
// DB 未就绪时的本地联测实现；租户谓词体现在按 tenantID 分桶的存储结构上
type MemoryAlbumsStore struct {
	mu     sync.RWMutex
	albums map[string]map[string]*domain.Album // tenantID -> albumID -> Album
}

func NewMemoryAlbumsStore() *MemoryAlbumsStore {
	return &MemoryAlbumsStore{
		albums: map[string]map[string]*domain.Album{},
	}
}

var _ AlbumsStore = (*MemoryAlbumsStore)(nil)

func (r *MemoryAlbumsStore) ListAlbums(_ context.Context, tenantID string, f AlbumFilters, page, size int) ([]*domain.Album, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Album, 0, len(r.albums[tenantID]))
	for _, a := range r.albums[tenantID] {
		if f.IsPublic != nil && a.IsPublic != *f.IsPublic {
			continue
		}
		if f.IsFeatured != nil && a.IsFeatured != *f.IsFeatured {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.Search)) {
			continue
		}
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start, end := pageBounds(total, page, size)
	return all[start:end], total, nil
}

func (r *MemoryAlbumsStore) GetAlbum(_ context.Context, tenantID, albumID string) (*domain.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.albums[tenantID][albumID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryAlbumsStore) CreateAlbum(_ context.Context, album *domain.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.albums[album.TenantID] == nil {
		r.albums[album.TenantID] = map[string]*domain.Album{}
	}
	cp := *album
	r.albums[album.TenantID][album.AlbumID] = &cp
	return nil
}

func (r *MemoryAlbumsStore) UpdateAlbum(_ context.Context, tenantID, albumID string, upd AlbumUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.albums[tenantID][albumID]
	if !ok {
		return nil
	}
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.IsPublic != nil {
		a.IsPublic = *upd.IsPublic
	}
	if upd.IsFeatured != nil {
		a.IsFeatured = *upd.IsFeatured
	}
	if upd.EventDate != nil {
		a.EventDate.Time = *upd.EventDate
		a.EventDate.Valid = true
	}
	return nil
}

func (r *MemoryAlbumsStore) DeleteAlbum(_ context.Context, tenantID, albumID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.albums[tenantID], albumID)
	return nil
}

// ownerOf 查询相册归属租户（供 MemoryTenantResolver 使用）
func (r *MemoryAlbumsStore) ownerOf(albumID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for tenantID, bucket := range r.albums {
		if _, ok := bucket[albumID]; ok {
			return tenantID
		}
	}
	return ""
}

func pageBounds(total, page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}
