package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"github.com/stretchr/testify/require"
)

func newPlatformService(env *serviceEnv) PlatformService {
	return NewPlatformService(env.tenants, env.users, env.events, env.recorder, env.logger)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func TestPlatformService_TenantPrincipalSeesNotFound(t *testing.T) {
	env := newServiceEnv(t)
	svc := newPlatformService(env)
	rc := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)

	_, _, err := svc.ListTenants(context.Background(), rc, repository.TenantFilters{}, 1, 50)
	require.ErrorIs(t, err, isolation.ErrNotFound)

	_, err = svc.CreateTenant(context.Background(), rc, "Rogue Church")
	require.ErrorIs(t, err, isolation.ErrNotFound)

	err = svc.SetTenantStatus(context.Background(), rc, "tenant-b", domain.TenantStatusSuspended)
	require.ErrorIs(t, err, isolation.ErrNotFound)
}

func TestPlatformService_ListTenantsWithCounts(t *testing.T) {
	env := newServiceEnv(t)
	svc := newPlatformService(env)
	rc := env.rcFor(t, "root-1", "", domain.RoleSuperAdmin)

	env.users.PutUser(&domain.User{
		UserID:   "user-a1",
		TenantID: nullString("tenant-a"),
		Role:     domain.RoleAdmin,
		Status:   "active",
	})
	env.users.PutUser(&domain.User{
		UserID:   "user-a2",
		TenantID: nullString("tenant-a"),
		Role:     domain.RoleMember,
		Status:   "active",
	})

	items, total, err := svc.ListTenants(context.Background(), rc, repository.TenantFilters{}, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	for _, item := range items {
		if item.TenantID == "tenant-a" {
			require.Equal(t, 2, item.UserCount)
		}
	}
}

func TestPlatformService_CreateTenantGeneratesJoinCode(t *testing.T) {
	env := newServiceEnv(t)
	svc := newPlatformService(env)
	rc := env.rcFor(t, "root-1", "", domain.RoleSuperAdmin)

	tenant, err := svc.CreateTenant(context.Background(), rc, "Third Church")
	require.NoError(t, err)
	require.Equal(t, domain.TenantStatusActive, tenant.Status)
	require.Len(t, tenant.TenantCode, joinCodeLength)
	for _, c := range tenant.TenantCode {
		require.Contains(t, joinCodeAlphabet, string(c))
	}
}

func TestPlatformService_SetTenantStatusValidation(t *testing.T) {
	env := newServiceEnv(t)
	svc := newPlatformService(env)
	rc := env.rcFor(t, "root-1", "", domain.RoleSuperAdmin)

	require.Error(t, svc.SetTenantStatus(context.Background(), rc, "tenant-a", "frozen"))
	require.NoError(t, svc.SetTenantStatus(context.Background(), rc, "tenant-a", domain.TenantStatusSuspended))

	got, err := env.tenants.GetTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	require.Equal(t, domain.TenantStatusSuspended, got.Status)
}

func TestPlatformService_RotateCodeInvalidatesOldCode(t *testing.T) {
	env := newServiceEnv(t)
	svc := newPlatformService(env)
	rc := env.rcFor(t, "root-1", "", domain.RoleSuperAdmin)

	newCode, err := svc.RotateTenantCode(context.Background(), rc, "tenant-a")
	require.NoError(t, err)
	require.Len(t, newCode, joinCodeLength)
	require.NotEqual(t, "CODEAAAA", newCode)

	_, err = env.tenants.GetTenantByCode(context.Background(), "CODEAAAA")
	require.Error(t, err)

	got, err := env.tenants.GetTenantByCode(context.Background(), newCode)
	require.NoError(t, err)
	require.Equal(t, "tenant-a", got.TenantID)
}

func TestPlatformService_SecurityEventsListAndExport(t *testing.T) {
	env := newServiceEnv(t)
	svc := newPlatformService(env)
	rc := env.rcFor(t, "root-1", "", domain.RoleSuperAdmin)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.events.InsertEvent(context.Background(), audit.Event{
			Timestamp:     time.Now().UTC(),
			PrincipalID:   "user-b1",
			TenantID:      "tenant-b",
			Action:        "albums.read",
			ResourceClass: "albums",
			Outcome:       audit.OutcomeDeny,
			Severity:      audit.SeverityWarning,
			Detail:        "cross-tenant object access attempt",
		}))
	}

	events, total, err := svc.ListSecurityEvents(context.Background(), rc, repository.EventFilters{Outcome: string(audit.OutcomeDeny)}, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, events, 3)

	data, filename, err := svc.ExportSecurityEvents(context.Background(), rc, repository.EventFilters{})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(filename, ".xlsx"))
	// xlsx 是 zip 容器，以 PK 开头
	require.True(t, len(data) > 2 && data[0] == 'P' && data[1] == 'K')
}

func TestPlatformService_ExportDeniedForTenantPrincipal(t *testing.T) {
	env := newServiceEnv(t)
	svc := newPlatformService(env)
	rc := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)

	_, _, err := svc.ExportSecurityEvents(context.Background(), rc, repository.EventFilters{})
	require.ErrorIs(t, err, isolation.ErrNotFound)
}
