package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// MemoryUsersRepository 内存用户Repository（DB 未就绪时的联测实现）
type MemoryUsersRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // userID -> User
}

func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{
		users: map[string]*domain.User{},
	}
}

var _ UsersRepository = (*MemoryUsersRepository)(nil)

// PutUser 写入用户（测试与 dev seeding 用）
func (r *MemoryUsersRepository) PutUser(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *u
	r.users[u.UserID] = &cp
}

func (r *MemoryUsersRepository) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %s", userID)
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUsersRepository) AssignTenant(_ context.Context, userID, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	if u.TenantID.Valid {
		return ErrAlreadyAssigned
	}
	u.TenantID = sql.NullString{String: tenantID, Valid: true}
	return nil
}

func (r *MemoryUsersRepository) CountByTenant(_ context.Context, tenantID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if u.TenantID.Valid && u.TenantID.String == tenantID {
			n++
		}
	}
	return n, nil
}
