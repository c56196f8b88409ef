package httpapi

import (
	"time"

	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/service"
)

// 响应字段统一 snake_case（与前端模型对齐），领域模型不直接出现在响应里

func albumJSON(a *domain.Album) map[string]any {
	out := map[string]any{
		"album_id":    a.AlbumID,
		"tenant_id":   a.TenantID,
		"title":       a.Title,
		"description": a.Description,
		"created_by":  a.CreatedBy,
		"is_public":   a.IsPublic,
		"is_featured": a.IsFeatured,
		"created_at":  a.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":  a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.EventDate.Valid {
		out["event_date"] = a.EventDate.Time.UTC().Format(time.RFC3339)
	}
	return out
}

func albumStatsJSON(a *service.AlbumWithStats) map[string]any {
	out := albumJSON(a.Album)
	out["photo_count"] = a.PhotoCount
	if a.CoverStorageKey != "" {
		out["cover_storage_key"] = a.CoverStorageKey
	}
	return out
}

func albumStatsListJSON(items []*service.AlbumWithStats) []any {
	out := make([]any, 0, len(items))
	for _, a := range items {
		out = append(out, albumStatsJSON(a))
	}
	return out
}

func photoJSON(p *domain.Photo) map[string]any {
	out := map[string]any{
		"photo_id":     p.PhotoID,
		"tenant_id":    p.TenantID,
		"title":        p.Title,
		"description":  p.Description,
		"filename":     p.Filename,
		"storage_key":  p.StorageKey,
		"content_type": p.ContentType,
		"uploaded_by":  p.UploadedBy,
		"is_public":    p.IsPublic,
		"is_featured":  p.IsFeatured,
		"camera_model": p.CameraModel,
		"location":     p.Location,
		"created_at":   p.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.AlbumID.Valid {
		out["album_id"] = p.AlbumID.String
	}
	if p.FileSize.Valid {
		out["file_size"] = p.FileSize.Int64
	}
	if p.Width.Valid {
		out["width"] = p.Width.Int64
	}
	if p.Height.Valid {
		out["height"] = p.Height.Int64
	}
	if p.TakenAt.Valid {
		out["taken_at"] = p.TakenAt.Time.UTC().Format(time.RFC3339)
	}
	return out
}

func photoListJSON(items []*domain.Photo) []any {
	out := make([]any, 0, len(items))
	for _, p := range items {
		out = append(out, photoJSON(p))
	}
	return out
}

func tenantJSON(t *domain.Tenant) map[string]any {
	return map[string]any{
		"tenant_id":         t.TenantID,
		"tenant_name":       t.TenantName,
		"tenant_code":       t.TenantCode,
		"status":            t.Status,
		"logo_url":          t.LogoURL,
		"login_cover_image": t.LoginCoverImage,
		"created_at":        t.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":        t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func tenantWithStatsJSON(t *service.TenantWithStats) map[string]any {
	out := tenantJSON(t.Tenant)
	out["user_count"] = t.UserCount
	return out
}

func tenantWithStatsListJSON(items []*service.TenantWithStats) []any {
	out := make([]any, 0, len(items))
	for _, t := range items {
		out = append(out, tenantWithStatsJSON(t))
	}
	return out
}
