package service

import (
	"context"
	"testing"

	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestPhotoService_MemberCanUpload(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPhotoService(env.store, env.engine, env.logger)
	rc := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)

	photo, err := svc.CreatePhoto(context.Background(), rc, repository.PhotoCreate{
		Filename:   "sunday.jpg",
		StorageKey: "photos/sunday.jpg",
	})
	require.NoError(t, err)
	require.Equal(t, "tenant-a", photo.TenantID)
	require.Equal(t, "user-a2", photo.UploadedBy)
}

func TestPhotoService_UploaderCanUpdateOwnPhoto(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPhotoService(env.store, env.engine, env.logger)
	rc := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)

	photo, err := svc.CreatePhoto(context.Background(), rc, repository.PhotoCreate{
		Filename:   "a.jpg",
		StorageKey: "photos/a.jpg",
	})
	require.NoError(t, err)

	title := "Baptism"
	updated, err := svc.UpdatePhoto(context.Background(), rc, photo.PhotoID, repository.PhotoUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Baptism", updated.Title)
}

func TestPhotoService_OtherMemberCannotMutate(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPhotoService(env.store, env.engine, env.logger)
	uploader := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)
	other := env.rcFor(t, "user-a3", "tenant-a", domain.RoleMember)

	photo, err := svc.CreatePhoto(context.Background(), uploader, repository.PhotoCreate{
		Filename:   "b.jpg",
		StorageKey: "photos/b.jpg",
	})
	require.NoError(t, err)

	title := "Mine now"
	_, err = svc.UpdatePhoto(context.Background(), other, photo.PhotoID, repository.PhotoUpdate{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.DeletePhoto(context.Background(), other, photo.PhotoID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestPhotoService_TenantAdminCanMutateAnyPhoto(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPhotoService(env.store, env.engine, env.logger)
	uploader := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)
	admin := env.rcFor(t, "user-a1", "tenant-a", domain.RoleAdmin)

	photo, err := svc.CreatePhoto(context.Background(), uploader, repository.PhotoCreate{
		Filename:   "c.jpg",
		StorageKey: "photos/c.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePhoto(context.Background(), admin, photo.PhotoID))

	_, err = svc.GetPhoto(context.Background(), admin, photo.PhotoID)
	require.True(t, isolation.IsNotFoundVisible(err))
}

func TestPhotoService_CrossTenantMutationIsNotFoundBeforeRoleCheck(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPhotoService(env.store, env.engine, env.logger)
	uploaderA := env.rcFor(t, "user-a2", "tenant-a", domain.RoleMember)
	adminB := env.rcFor(t, "user-b1", "tenant-b", domain.RoleAdmin)

	photo, err := svc.CreatePhoto(context.Background(), uploaderA, repository.PhotoCreate{
		Filename:   "d.jpg",
		StorageKey: "photos/d.jpg",
	})
	require.NoError(t, err)

	// tenant-b 管理员：角色在这里无关紧要，结果是 not found 而非 forbidden
	err = svc.DeletePhoto(context.Background(), adminB, photo.PhotoID)
	require.True(t, isolation.IsNotFoundVisible(err))
	require.NotErrorIs(t, err, ErrForbidden)
}
