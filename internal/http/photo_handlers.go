package httpapi

import (
	"net/http"
	"strings"

	"github.com/Amoako419/PhotoShare/internal/repository"
	"github.com/Amoako419/PhotoShare/internal/service"
)

// PhotosHandler 照片接口
// 路由：
//
//	GET/POST       /api/v1/photos
//	GET/PUT/DELETE /api/v1/photos/{id}
type PhotosHandler struct {
	svc service.PhotoService
}

func NewPhotosHandler(svc service.PhotoService) *PhotosHandler {
	return &PhotosHandler{svc: svc}
}

func (h *PhotosHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := requestContext(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, Fail("no tenant context"))
		return
	}

	switch {
	case r.URL.Path == "/api/v1/photos":
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			f := repository.PhotoFilters{
				AlbumID: q.Get("album_id"),
				Search:  q.Get("search"),
			}
			if v := q.Get("is_public"); v != "" {
				b := v == "true"
				f.IsPublic = &b
			}
			if v := q.Get("is_featured"); v != "" {
				b := v == "true"
				f.IsFeatured = &b
			}
			page := parseInt(q.Get("page"), 1)
			size := parseInt(q.Get("size"), 50)
			items, total, err := h.svc.ListPhotos(r.Context(), rc, f, page, size)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"items": photoListJSON(items), "total": total, "page": page, "size": size}))
		case http.MethodPost:
			var payload repository.PhotoCreate
			if err := readBodyJSON(r, 1<<20, &payload); err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
				return
			}
			if payload.Filename == "" || payload.StorageKey == "" {
				writeJSON(w, http.StatusBadRequest, Fail("filename and storage_key are required"))
				return
			}
			photo, err := h.svc.CreatePhoto(r.Context(), rc, payload)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, Ok(photoJSON(photo)))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/api/v1/photos/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/photos/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			photo, err := h.svc.GetPhoto(r.Context(), rc, id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(photoJSON(photo)))
		case http.MethodPut:
			var upd repository.PhotoUpdate
			if err := readBodyJSON(r, 1<<20, &upd); err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
				return
			}
			photo, err := h.svc.UpdatePhoto(r.Context(), rc, id, upd)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(photoJSON(photo)))
		case http.MethodDelete:
			if err := h.svc.DeletePhoto(r.Context(), rc, id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": id}))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
