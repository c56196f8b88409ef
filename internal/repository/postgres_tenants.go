package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// PostgresTenantsRepository 租户Repository实现（强类型版本）
// 实现TenantsRepository接口，使用domain.Tenant领域模型
type PostgresTenantsRepository struct {
	db *sql.DB
}

// NewPostgresTenantsRepository 创建租户Repository
func NewPostgresTenantsRepository(db *sql.DB) *PostgresTenantsRepository {
	return &PostgresTenantsRepository{db: db}
}

// 确保实现了接口
var _ TenantsRepository = (*PostgresTenantsRepository)(nil)

const tenantColumns = `
	tenant_id::text,
	tenant_name,
	tenant_code,
	COALESCE(status, 'active') as status,
	COALESCE(logo_url, '') as logo_url,
	COALESCE(login_cover_image, '') as login_cover_image,
	created_at,
	updated_at
`

func scanTenant(row interface{ Scan(...any) error }) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(
		&t.TenantID,
		&t.TenantName,
		&t.TenantCode,
		&t.Status,
		&t.LogoURL,
		&t.LoginCoverImage,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenant 根据tenant_id获取租户信息
func (r *PostgresTenantsRepository) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE tenant_id = $1::uuid`, tenantColumns)
	t, err := scanTenant(r.db.QueryRowContext(ctx, query, tenantID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// GetTenantByCode 根据加入代码获取租户
func (r *PostgresTenantsRepository) GetTenantByCode(ctx context.Context, code string) (*domain.Tenant, error) {
	if code == "" {
		return nil, fmt.Errorf("tenant_code is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE tenant_code = $1`, tenantColumns)
	t, err := scanTenant(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get tenant by code: %w", err)
	}
	return t, nil
}

// ListTenants 查询租户列表（支持分页、过滤、搜索）
func (r *PostgresTenantsRepository) ListTenants(ctx context.Context, f TenantFilters, page, size int) ([]*domain.Tenant, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	// 构建WHERE条件
	where := []string{}
	args := []any{}
	argIdx := 1

	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, f.Status)
		argIdx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("tenant_name ILIKE $%d", argIdx))
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tenants "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM tenants
		%s
		ORDER BY tenant_name
		LIMIT $%d OFFSET $%d
	`, tenantColumns, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]*domain.Tenant, 0)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

// CreateTenant 创建新租户
func (r *PostgresTenantsRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (
			tenant_id, tenant_name, tenant_code, status,
			logo_url, login_cover_image, created_at, updated_at
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
	`,
		tenant.TenantID,
		tenant.TenantName,
		tenant.TenantCode,
		tenant.Status,
		tenant.LogoURL,
		tenant.LoginCoverImage,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}
	return nil
}

// UpdateTenant 更新租户信息
func (r *PostgresTenantsRepository) UpdateTenant(ctx context.Context, tenantID string, upd TenantUpdate) error {
	set := []string{"updated_at = NOW()"}
	args := []any{}
	argIdx := 1

	if upd.TenantName != nil {
		set = append(set, fmt.Sprintf("tenant_name = $%d", argIdx))
		args = append(args, *upd.TenantName)
		argIdx++
	}
	if upd.LogoURL != nil {
		set = append(set, fmt.Sprintf("logo_url = $%d", argIdx))
		args = append(args, *upd.LogoURL)
		argIdx++
	}
	if upd.LoginCoverImage != nil {
		set = append(set, fmt.Sprintf("login_cover_image = $%d", argIdx))
		args = append(args, *upd.LoginCoverImage)
		argIdx++
	}

	query := fmt.Sprintf(`UPDATE tenants SET %s WHERE tenant_id = $%d::uuid`, strings.Join(set, ", "), argIdx)
	args = append(args, tenantID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return nil
}

// SetTenantStatus 更新租户状态
func (r *PostgresTenantsRepository) SetTenantStatus(ctx context.Context, tenantID string, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET status = $1, updated_at = NOW() WHERE tenant_id = $2::uuid`,
		status, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to set tenant status: %w", err)
	}
	return nil
}

// RotateCode 轮换加入代码
func (r *PostgresTenantsRepository) RotateCode(ctx context.Context, tenantID string, newCode string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET tenant_code = $1, updated_at = NOW() WHERE tenant_id = $2::uuid`,
		newCode, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to rotate tenant code: %w", err)
	}
	return nil
}

// DeleteTenant 删除租户（软删除）
func (r *PostgresTenantsRepository) DeleteTenant(ctx context.Context, tenantID string) error {
	return r.SetTenantStatus(ctx, tenantID, domain.TenantStatusDeleted)
}
