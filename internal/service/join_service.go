package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"go.uber.org/zap"
)

// ErrInvalidJoinCode 加入代码无效（不存在或租户非 active，对外不区分）
var ErrInvalidJoinCode = errors.New("invalid join code")

// ErrJoinRateLimited 加入尝试过于频繁
var ErrJoinRateLimited = errors.New("too many join attempts")

// joinAttemptWindow 加入尝试限流窗口
const joinAttemptWindow = 10 * time.Minute

// joinAttemptLimit 窗口内允许的尝试次数
const joinAttemptLimit = 5

// JoinService 成员加入服务接口
// 这是用户唯一获得租户归属的途径：凭加入代码一次性绑定租户。
// 加入流程发生在用户还没有租户的时候，因此不走 Scope
type JoinService interface {
	// JoinByCode 凭加入代码把用户绑定到租户
	// 代码不存在、租户非 active 统一返回 ErrInvalidJoinCode，
	// 不向未加入的用户确认任何租户的存在
	JoinByCode(ctx context.Context, userID, code string) (*domain.Tenant, error)
}

type joinService struct {
	tenants  repository.TenantsRepository
	users    repository.UsersRepository
	recorder *audit.Recorder
	logger   *zap.Logger

	mu       sync.Mutex
	attempts map[string][]time.Time
}

// NewJoinService 创建 JoinService 实例
func NewJoinService(
	tenants repository.TenantsRepository,
	users repository.UsersRepository,
	recorder *audit.Recorder,
	logger *zap.Logger,
) JoinService {
	return &joinService{
		tenants:  tenants,
		users:    users,
		recorder: recorder,
		logger:   logger,
		attempts: make(map[string][]time.Time),
	}
}

// JoinByCode 凭加入代码把用户绑定到租户
func (s *joinService) JoinByCode(ctx context.Context, userID, code string) (*domain.Tenant, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if userID == "" || code == "" {
		return nil, ErrInvalidJoinCode
	}

	if !s.allowAttempt(userID) {
		// 限流触发也是安全相关事件（可能在暴力猜测代码）
		s.recorder.Record(audit.Event{
			PrincipalID: userID,
			Action:      "tenant_join.rate_limited",
			Outcome:     audit.OutcomeDeny,
			Severity:    audit.SeverityWarning,
			Detail:      "join attempts exceeded rate limit",
		})
		return nil, ErrJoinRateLimited
	}

	tenant, err := s.tenants.GetTenantByCode(ctx, code)
	if err != nil || tenant == nil || !tenant.IsActive() {
		// 代码无效与租户停用对外不可区分
		s.recorder.Record(audit.Event{
			PrincipalID: userID,
			Action:      "tenant_join.rejected",
			Outcome:     audit.OutcomeDeny,
			Severity:    audit.SeverityInfo,
			Detail:      "join code not valid for any active tenant",
		})
		return nil, ErrInvalidJoinCode
	}

	if err := s.users.AssignTenant(ctx, userID, tenant.TenantID); err != nil {
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			s.recorder.Record(audit.Event{
				PrincipalID: userID,
				TenantID:    tenant.TenantID,
				Action:      "tenant_join.rejected",
				Outcome:     audit.OutcomeDeny,
				Severity:    audit.SeverityWarning,
				Detail:      "user already belongs to a tenant",
			})
			return nil, repository.ErrAlreadyAssigned
		}
		return nil, err
	}

	s.logger.Info("user joined tenant",
		zap.String("user_id", userID),
		zap.String("tenant_id", tenant.TenantID),
	)
	s.recorder.Record(audit.Event{
		PrincipalID: userID,
		TenantID:    tenant.TenantID,
		Action:      "tenant_join.completed",
		Outcome:     audit.OutcomeAllow,
		Severity:    audit.SeverityInfo,
	})
	return tenant, nil
}

// allowAttempt 滑动窗口限流（进程内，按用户）
func (s *joinService) allowAttempt(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-joinAttemptWindow)

	kept := s.attempts[userID][:0]
	for _, t := range s.attempts[userID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= joinAttemptLimit {
		s.attempts[userID] = kept
		return false
	}
	s.attempts[userID] = append(kept, now)
	return true
}
