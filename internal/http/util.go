package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"
	"github.com/Amoako419/PhotoShare/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeServiceError 服务层错误到 HTTP 响应的统一映射
// 隔离层的所有租户级拒绝（跨租户、superadmin 走租户路径、对象不存在）
// 对外一律 404，绝不确认资源存在；租户上下文缺失为 403
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case isolation.IsNotFoundVisible(err):
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	case errors.Is(err, isolation.ErrMissingTenantContext):
		writeJSON(w, http.StatusForbidden, Fail("no tenant context"))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Fail("forbidden"))
	case errors.Is(err, service.ErrInvalidJoinCode):
		writeJSON(w, http.StatusBadRequest, Fail("invalid join code"))
	case errors.Is(err, service.ErrJoinRateLimited):
		writeJSON(w, http.StatusTooManyRequests, Fail("too many attempts"))
	case errors.Is(err, repository.ErrAlreadyAssigned):
		writeJSON(w, http.StatusConflict, Fail("already a member of a tenant"))
	default:
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}
