package isolation

import (
	"testing"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine() *Engine {
	recorder := audit.NewRecorder(zap.NewNop(), nil, 64)
	return NewEngine(recorder, nil, zap.NewNop())
}

func tenantContext(userID, tenantID string, role domain.Role) *RequestContext {
	return &RequestContext{
		principal: Principal{UserID: userID, Role: role, TenantID: tenantID},
		tenant:    activeTenant(tenantID),
		requestID: "req-1",
	}
}

func platformContext(userID string) *RequestContext {
	return &RequestContext{
		principal: Principal{UserID: userID, Role: domain.RoleSuperAdmin},
		tenant:    nil,
		requestID: "req-1",
	}
}

func TestDecideCollection_TenantContextAllowed(t *testing.T) {
	e := newTestEngine()
	rc := tenantContext("user-1", "tenant-a", domain.RoleMember)

	require.NoError(t, e.DecideCollection(rc, ActionList, "albums"))
}

func TestDecideCollection_PlatformContextDenied(t *testing.T) {
	e := newTestEngine()
	rc := platformContext("root-1")

	err := e.DecideCollection(rc, ActionList, "albums")
	require.ErrorIs(t, err, ErrSuperuserBypassDenied)
	require.True(t, IsNotFoundVisible(err))
}

func TestDecideCollection_NilContextDenied(t *testing.T) {
	e := newTestEngine()
	require.ErrorIs(t, e.DecideCollection(nil, ActionList, "albums"), ErrMissingTenantContext)
}

func TestDecideObject_SameTenantAllowed(t *testing.T) {
	e := newTestEngine()
	rc := tenantContext("user-1", "tenant-a", domain.RoleMember)

	require.NoError(t, e.DecideObject(rc, ActionRead, "albums", "album-1", "tenant-a"))
}

func TestDecideObject_CrossTenantDenied(t *testing.T) {
	e := newTestEngine()
	rc := tenantContext("user-1", "tenant-b", domain.RoleAdmin)

	err := e.DecideObject(rc, ActionRead, "albums", "album-1", "tenant-a")
	require.ErrorIs(t, err, ErrCrossTenantDenied)
	// 跨租户拒绝对调用方必须与 not found 不可区分
	require.True(t, IsNotFoundVisible(err))
}

func TestDecideObject_MissingObjectIsNotFound(t *testing.T) {
	e := newTestEngine()
	rc := tenantContext("user-1", "tenant-a", domain.RoleMember)

	err := e.DecideObject(rc, ActionRead, "albums", "album-404", "")
	require.ErrorIs(t, err, ErrNotFound)
	require.True(t, IsNotFoundVisible(err))
}

func TestDecideObject_PlatformContextDenied(t *testing.T) {
	e := newTestEngine()
	rc := platformContext("root-1")

	err := e.DecideObject(rc, ActionDelete, "photos", "photo-1", "tenant-a")
	require.ErrorIs(t, err, ErrSuperuserBypassDenied)
	require.True(t, IsNotFoundVisible(err))
}

func TestDecideObject_RoleDoesNotOverrideTenantBoundary(t *testing.T) {
	e := newTestEngine()

	for _, role := range []domain.Role{domain.RoleMember, domain.RoleAdmin} {
		rc := tenantContext("user-1", "tenant-b", role)
		err := e.DecideObject(rc, ActionUpdate, "albums", "album-1", "tenant-a")
		require.ErrorIs(t, err, ErrCrossTenantDenied, "role %s must not cross tenants", role)
	}
}
