package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 promhttp 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterTenantRoutes 注册租户级资源路由（全部经过租户上下文中间件）
func (r *Router) RegisterTenantRoutes(mw *TenantContextMiddleware, albums *AlbumsHandler, photos *PhotosHandler) {
	r.Handle("/api/v1/albums", mw.Wrap(albums.ServeHTTP))
	r.Handle("/api/v1/albums/", mw.Wrap(albums.ServeHTTP))

	r.Handle("/api/v1/photos", mw.Wrap(photos.ServeHTTP))
	r.Handle("/api/v1/photos/", mw.Wrap(photos.ServeHTTP))
}

// RegisterPlatformRoutes 注册平台管理路由
// 同样经过中间件：superadmin 在这里得到平台上下文，租户主体
// 会拿到自己的租户上下文、随后在服务层以 not found 被拒
func (r *Router) RegisterPlatformRoutes(mw *TenantContextMiddleware, platform *PlatformHandler) {
	r.Handle("/platform/api/v1/tenants", mw.Wrap(platform.ServeHTTP))
	r.Handle("/platform/api/v1/tenants/", mw.Wrap(platform.ServeHTTP))
	r.Handle("/platform/api/v1/security-events", mw.Wrap(platform.ServeHTTP))
	r.Handle("/platform/api/v1/security-events/export", mw.Wrap(platform.ServeHTTP))
}

// RegisterJoinRoutes 注册加入路由（不需要租户上下文）
func (r *Router) RegisterJoinRoutes(join *JoinHandler) {
	r.Handle("/api/v1/join", join.ServeHTTP)
}

// RegisterHealthRoutes 健康检查
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]any{"status": "ok"}))
	})
}
