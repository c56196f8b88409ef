package service

import (
	"context"
	"testing"

	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"github.com/stretchr/testify/require"
)

func newJoinService(env *serviceEnv) JoinService {
	return NewJoinService(env.tenants, env.users, env.recorder, env.logger)
}

func TestJoinService_ValidCodeAssignsTenant(t *testing.T) {
	env := newServiceEnv(t)
	svc := newJoinService(env)
	env.users.PutUser(&domain.User{UserID: "newcomer-1", Role: domain.RoleMember, Status: "active"})

	tenant, err := svc.JoinByCode(context.Background(), "newcomer-1", "CODEAAAA")
	require.NoError(t, err)
	require.Equal(t, "tenant-a", tenant.TenantID)

	user, err := env.users.GetUser(context.Background(), "newcomer-1")
	require.NoError(t, err)
	require.True(t, user.TenantID.Valid)
	require.Equal(t, "tenant-a", user.TenantID.String)
}

func TestJoinService_CodeIsCaseInsensitive(t *testing.T) {
	env := newServiceEnv(t)
	svc := newJoinService(env)
	env.users.PutUser(&domain.User{UserID: "newcomer-2", Role: domain.RoleMember, Status: "active"})

	tenant, err := svc.JoinByCode(context.Background(), "newcomer-2", "  codeaaaa ")
	require.NoError(t, err)
	require.Equal(t, "tenant-a", tenant.TenantID)
}

func TestJoinService_UnknownCodeIsRejected(t *testing.T) {
	env := newServiceEnv(t)
	svc := newJoinService(env)

	_, err := svc.JoinByCode(context.Background(), "newcomer-1", "WRONGCOD")
	require.ErrorIs(t, err, ErrInvalidJoinCode)
}

func TestJoinService_SuspendedTenantCodeLooksInvalid(t *testing.T) {
	env := newServiceEnv(t)
	svc := newJoinService(env)
	require.NoError(t, env.tenants.SetTenantStatus(context.Background(), "tenant-a", domain.TenantStatusSuspended))

	// 停用租户的代码与不存在的代码不可区分
	_, err := svc.JoinByCode(context.Background(), "newcomer-1", "CODEAAAA")
	require.ErrorIs(t, err, ErrInvalidJoinCode)
}

func TestJoinService_SecondJoinIsRejected(t *testing.T) {
	env := newServiceEnv(t)
	svc := newJoinService(env)
	env.users.PutUser(&domain.User{UserID: "newcomer-3", Role: domain.RoleMember, Status: "active"})

	_, err := svc.JoinByCode(context.Background(), "newcomer-3", "CODEAAAA")
	require.NoError(t, err)

	// 加入代码只能建立一次归属，换一个租户的代码也不行
	_, err = svc.JoinByCode(context.Background(), "newcomer-3", "CODEBBBB")
	require.ErrorIs(t, err, repository.ErrAlreadyAssigned)
}

func TestJoinService_RateLimitsRepeatedAttempts(t *testing.T) {
	env := newServiceEnv(t)
	svc := newJoinService(env)

	for i := 0; i < joinAttemptLimit; i++ {
		_, err := svc.JoinByCode(context.Background(), "guesser-1", "WRONGCOD")
		require.ErrorIs(t, err, ErrInvalidJoinCode)
	}

	_, err := svc.JoinByCode(context.Background(), "guesser-1", "WRONGCOD")
	require.ErrorIs(t, err, ErrJoinRateLimited)

	// 其他用户不受影响
	_, err = svc.JoinByCode(context.Background(), "guesser-2", "WRONGCOD")
	require.ErrorIs(t, err, ErrInvalidJoinCode)
}
