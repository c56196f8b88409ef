package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"
	"github.com/Amoako419/PhotoShare/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testStack 完整内存栈：中间件 + 路由 + 服务 + 隔离层
type testStack struct {
	router   *Router
	recorder *audit.Recorder
	events   *repository.MemoryAuditEventsRepository
	tenants  *repository.MemoryTenantsRepository
	users    *repository.MemoryUsersRepository
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	log := zap.NewNop()

	albums := repository.NewMemoryAlbumsStore()
	photos := repository.NewMemoryPhotosStore()
	store := &repository.Store{
		Albums: albums,
		Photos: photos,
		Owners: repository.NewMemoryTenantResolver(albums, photos),
	}

	tenants := repository.NewMemoryTenantsRepository()
	now := time.Now().UTC()
	for _, tn := range []struct{ id, name, code string }{
		{"tenant-a", "First Church", "CODEAAAA"},
		{"tenant-b", "Second Church", "CODEBBBB"},
	} {
		require.NoError(t, tenants.CreateTenant(context.Background(), &domain.Tenant{
			TenantID:   tn.id,
			TenantName: tn.name,
			TenantCode: tn.code,
			Status:     domain.TenantStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}))
	}
	users := repository.NewMemoryUsersRepository()
	events := repository.NewMemoryAuditEventsRepository()

	recorder := audit.NewRecorder(log, nil, 256, audit.NewStoreSink(events))
	engine := isolation.NewEngine(recorder, nil, log)
	resolver := isolation.NewResolver(tenants, recorder, nil, log)

	albumSvc := service.NewAlbumService(store, engine, log)
	photoSvc := service.NewPhotoService(store, engine, log)
	platformSvc := service.NewPlatformService(tenants, users, events, recorder, log)
	joinSvc := service.NewJoinService(tenants, users, recorder, log)

	mw := NewTenantContextMiddleware(resolver, log)
	router := NewRouter(log)
	router.RegisterTenantRoutes(mw, NewAlbumsHandler(albumSvc), NewPhotosHandler(photoSvc))
	router.RegisterPlatformRoutes(mw, NewPlatformHandler(platformSvc))
	router.RegisterJoinRoutes(NewJoinHandler(joinSvc))
	router.RegisterHealthRoutes()

	return &testStack{router: router, recorder: recorder, events: events, tenants: tenants, users: users}
}

func (s *testStack) do(method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func memberA() map[string]string {
	return map[string]string{
		headerUserID:   "user-a2",
		headerRole:     string(domain.RoleMember),
		headerTenantID: "tenant-a",
	}
}

func adminA() map[string]string {
	return map[string]string{
		headerUserID:   "user-a1",
		headerRole:     string(domain.RoleAdmin),
		headerTenantID: "tenant-a",
	}
}

func adminB() map[string]string {
	return map[string]string{
		headerUserID:   "user-b1",
		headerRole:     string(domain.RoleAdmin),
		headerTenantID: "tenant-b",
	}
}

func superadmin() map[string]string {
	return map[string]string{
		headerUserID: "root-1",
		headerRole:   string(domain.RoleSuperAdmin),
	}
}

func resultOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Code   int            `json:"code"`
		Result map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, ResultSuccess, envelope.Code)
	return envelope.Result
}

func TestAlbums_NoAuthHeadersIsUnauthorized(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodGet, "/api/v1/albums", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAlbums_UnknownTenantIsForbidden(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodGet, "/api/v1/albums", "", map[string]string{
		headerUserID:   "user-x",
		headerRole:     string(domain.RoleMember),
		headerTenantID: "no-such-tenant",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAlbums_MemberCannotCreate(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodPost, "/api/v1/albums", `{"title":"Nope"}`, memberA())
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAlbums_CreateStampsContextTenant(t *testing.T) {
	s := newTestStack(t)

	// 载荷声称属于 tenant-b：必须被忽略
	w := s.do(http.MethodPost, "/api/v1/albums", `{"title":"Easter","tenant_id":"tenant-b"}`, adminA())
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"tenant_id":"tenant-a"`)
}

func TestAlbums_CrossTenantReadIs404(t *testing.T) {
	s := newTestStack(t)

	w := s.do(http.MethodPost, "/api/v1/albums", `{"title":"Private"}`, adminA())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Result struct {
			AlbumID string `json:"album_id"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	albumID := created.Result.AlbumID
	require.NotEmpty(t, albumID)

	// tenant-b 管理员拿到 404，与访问不存在的 id 相同
	w = s.do(http.MethodGet, "/api/v1/albums/"+albumID, "", adminB())
	require.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, "/api/v1/albums/"+albumID, "", adminB())
	require.Equal(t, http.StatusNotFound, w.Code)

	// 本租户访问不受影响
	w = s.do(http.MethodGet, "/api/v1/albums/"+albumID, "", adminA())
	require.Equal(t, http.StatusOK, w.Code)

	// 跨租户尝试留下了 DENY 审计记录
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.recorder.Close(ctx))
	events, _, err := s.events.ListEvents(context.Background(), repository.EventFilters{
		Outcome:     string(audit.OutcomeDeny),
		PrincipalID: "user-b1",
	}, 1, 50)
	require.NoError(t, err)
	require.NotEmpty(t, events)
}

func TestAlbums_SuperadminIs404OnTenantRoutes(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodGet, "/api/v1/albums", "", superadmin())
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlatform_TenantAdminIs404(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodGet, "/platform/api/v1/tenants", "", adminA())
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlatform_SuperadminListsTenants(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodGet, "/platform/api/v1/tenants", "", superadmin())
	require.Equal(t, http.StatusOK, w.Code)

	result := resultOf(t, w)
	require.EqualValues(t, 2, result["total"])
}

func TestPlatform_SuperadminManagesTenantLifecycle(t *testing.T) {
	s := newTestStack(t)

	w := s.do(http.MethodPost, "/platform/api/v1/tenants", `{"tenant_name":"Third Church"}`, superadmin())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Result struct {
			TenantID string `json:"tenant_id"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	tenantID := created.Result.TenantID
	require.NotEmpty(t, tenantID)

	w = s.do(http.MethodPut, "/platform/api/v1/tenants/"+tenantID+"/status", `{"status":"suspended"}`, superadmin())
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/platform/api/v1/tenants/"+tenantID+"/rotate-code", "", superadmin())
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPhotos_MemberUploadsAndReads(t *testing.T) {
	s := newTestStack(t)

	w := s.do(http.MethodPost, "/api/v1/photos", `{"filename":"a.jpg","storage_key":"photos/a.jpg"}`, memberA())
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"tenant_id":"tenant-a"`)

	w = s.do(http.MethodGet, "/api/v1/photos", "", memberA())
	require.Equal(t, http.StatusOK, w.Code)
	result := resultOf(t, w)
	require.EqualValues(t, 1, result["total"])

	// 另一个租户看不到任何照片
	w = s.do(http.MethodGet, "/api/v1/photos", "", adminB())
	require.Equal(t, http.StatusOK, w.Code)
	result = resultOf(t, w)
	require.EqualValues(t, 0, result["total"])
}

func TestJoin_FlowAssignsTenant(t *testing.T) {
	s := newTestStack(t)
	s.users.PutUser(&domain.User{UserID: "newcomer-1", Role: domain.RoleMember, Status: "active"})

	w := s.do(http.MethodPost, "/api/v1/join", `{"code":"CODEAAAA"}`, map[string]string{
		headerUserID: "newcomer-1",
		headerRole:   string(domain.RoleMember),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"tenant_id":"tenant-a"`)

	w = s.do(http.MethodPost, "/api/v1/join", `{"code":"CODEBBBB"}`, map[string]string{
		headerUserID: "newcomer-1",
		headerRole:   string(domain.RoleMember),
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestJoin_InvalidCodeIsBadRequest(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodPost, "/api/v1/join", `{"code":"WRONGCOD"}`, map[string]string{
		headerUserID: "newcomer-2",
		headerRole:   string(domain.RoleMember),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestStack(t)
	w := s.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
