package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Amoako419/PhotoShare/internal/domain"
)

// MemoryTenantsRepository supports platform tenant management when DB is disabled.
// NOTE: This is "platform-level" data (not per-tenant).
type MemoryTenantsRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant // tenantID -> Tenant
}

func NewMemoryTenantsRepository() *MemoryTenantsRepository {
	return &MemoryTenantsRepository{
		tenants: map[string]*domain.Tenant{},
	}
}

var _ TenantsRepository = (*MemoryTenantsRepository)(nil)

func (r *MemoryTenantsRepository) GetTenant(_ context.Context, tenantID string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("tenant not found: %s", tenantID)
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryTenantsRepository) GetTenantByCode(_ context.Context, code string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tenants {
		if t.TenantCode == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("tenant not found for code %q", code)
}

func (r *MemoryTenantsRepository) ListTenants(_ context.Context, f TenantFilters, page, size int) ([]*domain.Tenant, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(t.TenantName), strings.ToLower(f.Search)) {
			continue
		}
		cp := *t
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].TenantName < all[j].TenantName
	})

	total := len(all)
	start, end := pageBounds(total, page, size)
	return all[start:end], total, nil
}

func (r *MemoryTenantsRepository) CreateTenant(_ context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tenants {
		if t.TenantCode == tenant.TenantCode {
			return fmt.Errorf("tenant_code %q already exists", tenant.TenantCode)
		}
	}
	cp := *tenant
	r.tenants[tenant.TenantID] = &cp
	return nil
}

func (r *MemoryTenantsRepository) UpdateTenant(_ context.Context, tenantID string, upd TenantUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return fmt.Errorf("tenant not found: %s", tenantID)
	}
	if upd.TenantName != nil {
		t.TenantName = *upd.TenantName
	}
	if upd.LogoURL != nil {
		t.LogoURL = *upd.LogoURL
	}
	if upd.LoginCoverImage != nil {
		t.LoginCoverImage = *upd.LoginCoverImage
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryTenantsRepository) SetTenantStatus(_ context.Context, tenantID string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return fmt.Errorf("tenant not found: %s", tenantID)
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryTenantsRepository) RotateCode(_ context.Context, tenantID string, newCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return fmt.Errorf("tenant not found: %s", tenantID)
	}
	t.TenantCode = newCode
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryTenantsRepository) DeleteTenant(ctx context.Context, tenantID string) error {
	return r.SetTenantStatus(ctx, tenantID, domain.TenantStatusDeleted)
}
