package service

import (
	"context"
	"testing"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceEnv struct {
	store    *repository.Store
	tenants  *repository.MemoryTenantsRepository
	users    *repository.MemoryUsersRepository
	events   *repository.MemoryAuditEventsRepository
	recorder *audit.Recorder
	engine   *isolation.Engine
	resolver *isolation.Resolver
	logger   *zap.Logger
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

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

	events := repository.NewMemoryAuditEventsRepository()
	recorder := audit.NewRecorder(zap.NewNop(), nil, 256, audit.NewStoreSink(events))
	engine := isolation.NewEngine(recorder, nil, zap.NewNop())
	resolver := isolation.NewResolver(tenants, recorder, nil, zap.NewNop())

	return &serviceEnv{
		store:    store,
		tenants:  tenants,
		users:    repository.NewMemoryUsersRepository(),
		events:   events,
		recorder: recorder,
		engine:   engine,
		resolver: resolver,
		logger:   zap.NewNop(),
	}
}

func (e *serviceEnv) rcFor(t *testing.T, userID, tenantID string, role domain.Role) *isolation.RequestContext {
	t.Helper()
	rc, err := e.resolver.Resolve(context.Background(), isolation.Principal{
		UserID:   userID,
		Role:     role,
		TenantID: tenantID,
	}, "/test")
	require.NoError(t, err)
	return rc
}

func TestAlbumService_MemberCannotCreate(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	rc := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)

	_, err := svc.CreateAlbum(context.Background(), rc, repository.AlbumCreate{Title: "Nope"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAlbumService_AdminCreatesAndLists(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	rc := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)

	album, err := svc.CreateAlbum(context.Background(), rc, repository.AlbumCreate{Title: "Easter"})
	require.NoError(t, err)
	require.Equal(t, "tenant-a", album.TenantID)

	items, total, err := svc.ListAlbums(context.Background(), rc, repository.AlbumFilters{}, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, album.AlbumID, items[0].AlbumID)
}

func TestAlbumService_MemberCanRead(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	admin := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)
	member := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)

	album, err := svc.CreateAlbum(context.Background(), admin, repository.AlbumCreate{Title: "Shared"})
	require.NoError(t, err)

	got, err := svc.GetAlbum(context.Background(), member, album.AlbumID)
	require.NoError(t, err)
	require.Equal(t, "Shared", got.Title)
}

func TestAlbumService_CrossTenantAdminSeesNotFound(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	adminA := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)
	adminB := env.rcFor(t, "user-b1", "tenant-b", domain.RoleAdmin)

	album, err := svc.CreateAlbum(context.Background(), adminA, repository.AlbumCreate{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.GetAlbum(context.Background(), adminB, album.AlbumID)
	require.True(t, isolation.IsNotFoundVisible(err))

	err = svc.DeleteAlbum(context.Background(), adminB, album.AlbumID)
	require.True(t, isolation.IsNotFoundVisible(err))
}

func TestAlbumService_SuperadminIsDeniedOnTenantCollections(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	rc := env.rcFor(t, "root-1", "", domain.RoleSuperAdmin)

	_, _, err := svc.ListAlbums(context.Background(), rc, repository.AlbumFilters{}, 1, 50)
	require.ErrorIs(t, err, isolation.ErrSuperuserBypassDenied)
	require.True(t, isolation.IsNotFoundVisible(err))
}

func TestAlbumService_ListIncludesPhotoStats(t *testing.T) {
	env := newServiceEnv(t)
	albums := NewAlbumService(env.store, env.engine, env.logger)
	photos := NewPhotoService(env.store, env.engine, env.logger)
	admin := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)

	album, err := albums.CreateAlbum(context.Background(), admin, repository.AlbumCreate{Title: "Picnic"})
	require.NoError(t, err)

	_, err = photos.CreatePhoto(context.Background(), admin, repository.PhotoCreate{AlbumID: album.AlbumID, Filename: "a.jpg", StorageKey: "keys/a.jpg"})
	require.NoError(t, err)
	_, err = photos.CreatePhoto(context.Background(), admin, repository.PhotoCreate{AlbumID: album.AlbumID, Filename: "b.jpg", StorageKey: "keys/b.jpg"})
	require.NoError(t, err)

	got, err := albums.GetAlbum(context.Background(), admin, album.AlbumID)
	require.NoError(t, err)
	require.Equal(t, 2, got.PhotoCount)
	require.NotEmpty(t, got.CoverStorageKey)

	items, _, err := albums.ListAlbums(context.Background(), admin, repository.AlbumFilters{}, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 2, items[0].PhotoCount)
}

func TestAlbumService_CrossTenantMemberMutationIsNotFound(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	adminA := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)
	memberB := env.rcFor(t, "user-b2", "tenant-b", domain.RoleMember)

	album, err := svc.CreateAlbum(context.Background(), adminA, repository.AlbumCreate{Title: "Retreat"})
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.UpdateAlbum(context.Background(), memberB, album.AlbumID, repository.AlbumUpdate{Title: &title})
	require.True(t, isolation.IsNotFoundVisible(err))
	require.NotErrorIs(t, err, ErrForbidden)

	err = svc.DeleteAlbum(context.Background(), memberB, album.AlbumID)
	require.True(t, isolation.IsNotFoundVisible(err))
	require.NotErrorIs(t, err, ErrForbidden)

	got, err := svc.GetAlbum(context.Background(), adminA, album.AlbumID)
	require.NoError(t, err)
	require.Equal(t, "Retreat", got.Title)
}

func TestAlbumService_SameTenantMemberMutationIsForbidden(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	admin := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)
	member := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)

	album, err := svc.CreateAlbum(context.Background(), admin, repository.AlbumCreate{Title: "Choir"})
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.UpdateAlbum(context.Background(), member, album.AlbumID, repository.AlbumUpdate{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteAlbum(context.Background(), member, album.AlbumID)
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetAlbum(context.Background(), admin, album.AlbumID)
	require.NoError(t, err)
	require.Equal(t, "Choir", got.Title)
}

func TestAlbumService_SuperadminObjectAccessIsAuditedDeny(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewAlbumService(env.store, env.engine, env.logger)
	adminA := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)
	root := env.rcFor(t, "root-1", "", domain.RoleSuperAdmin)

	album, err := svc.CreateAlbum(context.Background(), adminA, repository.AlbumCreate{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.GetAlbum(context.Background(), root, album.AlbumID)
	require.ErrorIs(t, err, isolation.ErrSuperuserBypassDenied)
	require.True(t, isolation.IsNotFoundVisible(err))

	err = svc.DeleteAlbum(context.Background(), root, album.AlbumID)
	require.ErrorIs(t, err, isolation.ErrSuperuserBypassDenied)

	require.NoError(t, env.recorder.Close(context.Background()))
	evs, total, err := env.events.ListEvents(context.Background(), repository.EventFilters{
		Outcome:     string(audit.OutcomeDeny),
		Action:      "tenant_scope.attach",
		PrincipalID: "root-1",
	}, 1, 50)
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, 2)
	for _, ev := range evs {
		require.Equal(t, audit.SeverityWarning, ev.Severity)
	}
}
