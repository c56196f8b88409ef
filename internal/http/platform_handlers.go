package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Amoako419/PhotoShare/internal/repository"
	"github.com/Amoako419/PhotoShare/internal/service"
)

// PlatformHandler 平台管理接口（仅 superadmin）
// 路由：
//
//	GET/POST   /platform/api/v1/tenants
//	GET/PUT/DELETE /platform/api/v1/tenants/{id}
//	PUT        /platform/api/v1/tenants/{id}/status
//	POST       /platform/api/v1/tenants/{id}/rotate-code
//	GET        /platform/api/v1/security-events
//	GET        /platform/api/v1/security-events/export
//
// 非平台上下文触达任何一条路由都得到 404
type PlatformHandler struct {
	svc service.PlatformService
}

func NewPlatformHandler(svc service.PlatformService) *PlatformHandler {
	return &PlatformHandler{svc: svc}
}

func (h *PlatformHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := requestContext(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, Fail("no tenant context"))
		return
	}

	switch {
	case r.URL.Path == "/platform/api/v1/tenants":
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			f := repository.TenantFilters{
				Status: q.Get("status"),
				Search: q.Get("search"),
			}
			page := parseInt(q.Get("page"), 1)
			size := parseInt(q.Get("size"), 50)
			items, total, err := h.svc.ListTenants(r.Context(), rc, f, page, size)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"items": tenantWithStatsListJSON(items), "total": total, "page": page, "size": size}))
		case http.MethodPost:
			var payload struct {
				TenantName string `json:"tenant_name"`
			}
			if err := readBodyJSON(r, 1<<20, &payload); err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
				return
			}
			tenant, err := h.svc.CreateTenant(r.Context(), rc, payload.TenantName)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, Ok(tenantJSON(tenant)))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/platform/api/v1/tenants/"):
		h.serveTenantByID(w, r)

	case r.URL.Path == "/platform/api/v1/security-events":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		f, page, size := eventFiltersFromQuery(r)
		items, total, err := h.svc.ListSecurityEvents(r.Context(), rc, f, page, size)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": total, "page": page, "size": size}))

	case r.URL.Path == "/platform/api/v1/security-events/export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		f, _, _ := eventFiltersFromQuery(r)
		data, filename, err := h.svc.ExportSecurityEvents(r.Context(), rc, f)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *PlatformHandler) serveTenantByID(w http.ResponseWriter, r *http.Request) {
	rc, _ := requestContext(r)

	rest := strings.TrimPrefix(r.URL.Path, "/platform/api/v1/tenants/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// 子资源操作
	if len(parts) == 2 {
		switch parts[1] {
		case "status":
			if r.Method != http.MethodPut {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			var payload struct {
				Status string `json:"status"`
			}
			if err := readBodyJSON(r, 1<<20, &payload); err != nil {
				writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
				return
			}
			if err := h.svc.SetTenantStatus(r.Context(), rc, id, payload.Status); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"tenant_id": id, "status": payload.Status}))
			return
		case "rotate-code":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			code, err := h.svc.RotateTenantCode(r.Context(), rc, id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok(map[string]any{"tenant_id": id, "tenant_code": code}))
			return
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
	}
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		tenant, err := h.svc.GetTenant(r.Context(), rc, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(tenantWithStatsJSON(tenant)))
	case http.MethodPut:
		var upd repository.TenantUpdate
		if err := readBodyJSON(r, 1<<20, &upd); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		tenant, err := h.svc.UpdateTenant(r.Context(), rc, id, upd)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(tenantJSON(tenant)))
	case http.MethodDelete:
		if err := h.svc.DeleteTenant(r.Context(), rc, id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": id}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func eventFiltersFromQuery(r *http.Request) (repository.EventFilters, int, int) {
	q := r.URL.Query()
	f := repository.EventFilters{
		Outcome:     q.Get("outcome"),
		Action:      q.Get("action"),
		TenantID:    q.Get("tenant_id"),
		PrincipalID: q.Get("principal_id"),
	}
	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.Since = t
		}
	}
	if v := q.Get("until"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.Until = t
		}
	}
	return f, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 50)
}
