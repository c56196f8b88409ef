package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// PostgresUsersRepository 用户Repository实现
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

// GetUser 根据user_id获取用户
func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	var u domain.User
	err := r.db.QueryRowContext(ctx, `
		SELECT
			user_id::text,
			tenant_id::text,
			email,
			COALESCE(first_name, '') as first_name,
			COALESCE(last_name, '') as last_name,
			role,
			COALESCE(status, 'active') as status,
			date_joined,
			last_login_at
		FROM users
		WHERE user_id = $1::uuid
	`, userID).Scan(
		&u.UserID,
		&u.TenantID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.Status,
		&u.DateJoined,
		&u.LastLoginAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// AssignTenant 把用户归属到租户
// tenant_id IS NULL 谓词保证一次性约束在并发下依然成立
func (r *PostgresUsersRepository) AssignTenant(ctx context.Context, userID, tenantID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET tenant_id = $1::uuid
		WHERE user_id = $2::uuid AND tenant_id IS NULL
	`, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to assign tenant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to assign tenant: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyAssigned
	}
	return nil
}

// CountByTenant 统计租户内用户数
func (r *PostgresUsersRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE tenant_id = $1::uuid`,
		tenantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
