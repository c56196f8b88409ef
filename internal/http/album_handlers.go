package httpapi

import (
	"net/http"
	"strings"

	"github.com/Amoako419/PhotoShare/internal/repository"
	"github.com/Amoako419/PhotoShare/internal/service"
)

// AlbumsHandler 相册接口
// 路由：
//
//	GET/POST       /api/v1/albums
//	GET/PUT/DELETE /api/v1/albums/{id}
type AlbumsHandler struct {
	svc service.AlbumService
}

func NewAlbumsHandler(svc service.AlbumService) *AlbumsHandler {
	return &AlbumsHandler{svc: svc}
}

func (h *AlbumsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := requestContext(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, Fail("no tenant context"))
		return
	}

	switch {
	case r.URL.Path == "/api/v1/albums":
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			f := repository.AlbumFilters{Search: q.Get("search")}
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
			items, total, err := h.svc.ListAlbums(r.Context(), rc, f, page, size)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"items": albumStatsListJSON(items), "total": total, "page": page, "size": size}))
		case http.MethodPost:
			var payload repository.AlbumCreate
			if err := readBodyJSON(r, 1<<20, &payload); err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
				return
			}
			if payload.Title == "" {
				writeJSON(w, http.StatusBadRequest, Fail("title is required"))
				return
			}
			album, err := h.svc.CreateAlbum(r.Context(), rc, payload)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, Ok(albumJSON(album)))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/api/v1/albums/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/albums/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			album, err := h.svc.GetAlbum(r.Context(), rc, id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(albumStatsJSON(album)))
		case http.MethodPut:
			var upd repository.AlbumUpdate
			if err := readBodyJSON(r, 1<<20, &upd); err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
				return
			}
			album, err := h.svc.UpdateAlbum(r.Context(), rc, id, upd)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(albumJSON(album)))
		case http.MethodDelete:
			if err := h.svc.DeleteAlbum(r.Context(), rc, id); err != nil {
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
