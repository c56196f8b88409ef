package isolation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTenantLookup struct {
	tenants map[string]*domain.Tenant
}

func (f *fakeTenantLookup) GetTenant(_ context.Context, tenantID string) (*domain.Tenant, error) {
	t, ok := f.tenants[tenantID]
	if !ok {
		return nil, errors.New("tenant not found")
	}
	return t, nil
}

func newTestResolver(tenants ...*domain.Tenant) (*Resolver, *audit.Recorder) {
	lookup := &fakeTenantLookup{tenants: map[string]*domain.Tenant{}}
	for _, t := range tenants {
		lookup.tenants[t.TenantID] = t
	}
	recorder := audit.NewRecorder(zap.NewNop(), nil, 64)
	return NewResolver(lookup, recorder, nil, zap.NewNop()), recorder
}

func activeTenant(id string) *domain.Tenant {
	return &domain.Tenant{
		TenantID:   id,
		TenantName: "Test Church",
		TenantCode: "TESTCODE",
		Status:     domain.TenantStatusActive,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestResolve_MemberGetsTenantContext(t *testing.T) {
	r, _ := newTestResolver(activeTenant("tenant-a"))

	rc, err := r.Resolve(context.Background(), Principal{
		UserID:   "user-1",
		Role:     domain.RoleMember,
		TenantID: "tenant-a",
	}, "/api/v1/albums")
	require.NoError(t, err)
	require.NotNil(t, rc.Tenant())
	require.Equal(t, "tenant-a", rc.TenantID())
	require.False(t, rc.IsPlatform())
	require.NotEmpty(t, rc.RequestID())
}

func TestResolve_MemberWithoutTenantIsRejected(t *testing.T) {
	r, _ := newTestResolver(activeTenant("tenant-a"))

	_, err := r.Resolve(context.Background(), Principal{
		UserID: "user-1",
		Role:   domain.RoleMember,
	}, "/api/v1/albums")
	require.ErrorIs(t, err, ErrMissingTenantContext)
}

func TestResolve_UnknownTenantIsRejected(t *testing.T) {
	r, _ := newTestResolver()

	_, err := r.Resolve(context.Background(), Principal{
		UserID:   "user-1",
		Role:     domain.RoleAdmin,
		TenantID: "no-such-tenant",
	}, "/api/v1/albums")
	require.ErrorIs(t, err, ErrMissingTenantContext)
}

func TestResolve_SuspendedTenantIsRejected(t *testing.T) {
	suspended := activeTenant("tenant-a")
	suspended.Status = domain.TenantStatusSuspended
	r, _ := newTestResolver(suspended)

	_, err := r.Resolve(context.Background(), Principal{
		UserID:   "user-1",
		Role:     domain.RoleMember,
		TenantID: "tenant-a",
	}, "/api/v1/albums")
	require.ErrorIs(t, err, ErrMissingTenantContext)
}

func TestResolve_SuperadminGetsPlatformContext(t *testing.T) {
	r, _ := newTestResolver()

	rc, err := r.Resolve(context.Background(), Principal{
		UserID: "root-1",
		Role:   domain.RoleSuperAdmin,
	}, "/platform/api/v1/tenants")
	require.NoError(t, err)
	require.Nil(t, rc.Tenant())
	require.Equal(t, "", rc.TenantID())
	require.True(t, rc.IsPlatform())
}

func TestResolve_SuperadminWithTenantReferenceIsRejected(t *testing.T) {
	r, _ := newTestResolver(activeTenant("tenant-a"))

	_, err := r.Resolve(context.Background(), Principal{
		UserID:   "root-1",
		Role:     domain.RoleSuperAdmin,
		TenantID: "tenant-a",
	}, "/platform/api/v1/tenants")
	require.ErrorIs(t, err, ErrMissingTenantContext)
}

func TestResolve_MalformedPrincipalIsRejected(t *testing.T) {
	r, _ := newTestResolver(activeTenant("tenant-a"))

	_, err := r.Resolve(context.Background(), Principal{
		UserID:   "",
		Role:     domain.RoleMember,
		TenantID: "tenant-a",
	}, "/api/v1/albums")
	require.ErrorIs(t, err, ErrMissingTenantContext)

	_, err = r.Resolve(context.Background(), Principal{
		UserID:   "user-1",
		Role:     domain.Role("owner"),
		TenantID: "tenant-a",
	}, "/api/v1/albums")
	require.ErrorIs(t, err, ErrMissingTenantContext)
}
