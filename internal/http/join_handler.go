package httpapi

import (
	"net/http"

	"github.com/Amoako419/PhotoShare/internal/service"
)

// JoinHandler 成员加入接口
// POST /api/v1/join
// 不走租户上下文中间件：调用者此刻恰恰还没有租户归属，
// 只需要上游认证网关给出的用户身份
type JoinHandler struct {
	svc service.JoinService
}

func NewJoinHandler(svc service.JoinService) *JoinHandler {
	return &JoinHandler{svc: svc}
}

func (h *JoinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p, ok := principalFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Fail("not authenticated"))
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	tenant, err := h.svc.JoinByCode(r.Context(), p.UserID, payload.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"tenant_id":   tenant.TenantID,
		"tenant_name": tenant.TenantName,
	}))
}
