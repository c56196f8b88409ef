package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/domain"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// joinCodeLength 加入代码长度
const joinCodeLength = 8

// joinCodeAlphabet 加入代码字符集（大写字母+数字，去掉易混淆的 0/O/1/I）
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TenantWithStats 平台管理页的租户条目（附带成员统计）
type TenantWithStats struct {
	*domain.Tenant
	UserCount int `json:"user_count"`
}

// PlatformService 平台管理服务接口（仅 superadmin 平台上下文可用）
// 这是与租户级资源类完全独立的一组操作；非平台上下文的调用
// 一律表现为 not found，不暴露平台接口的存在
type PlatformService interface {
	// ========== 租户管理 ==========
	ListTenants(ctx context.Context, rc *isolation.RequestContext, f repository.TenantFilters, page, size int) ([]*TenantWithStats, int, error)
	GetTenant(ctx context.Context, rc *isolation.RequestContext, tenantID string) (*TenantWithStats, error)
	CreateTenant(ctx context.Context, rc *isolation.RequestContext, tenantName string) (*domain.Tenant, error)
	UpdateTenant(ctx context.Context, rc *isolation.RequestContext, tenantID string, upd repository.TenantUpdate) (*domain.Tenant, error)
	SetTenantStatus(ctx context.Context, rc *isolation.RequestContext, tenantID string, status string) error
	RotateTenantCode(ctx context.Context, rc *isolation.RequestContext, tenantID string) (string, error)
	DeleteTenant(ctx context.Context, rc *isolation.RequestContext, tenantID string) error

	// ========== 审计查询 ==========
	ListSecurityEvents(ctx context.Context, rc *isolation.RequestContext, f repository.EventFilters, page, size int) ([]audit.Event, int, error)
	ExportSecurityEvents(ctx context.Context, rc *isolation.RequestContext, f repository.EventFilters) ([]byte, string, error)
}

type platformService struct {
	tenants  repository.TenantsRepository
	users    repository.UsersRepository
	events   repository.AuditEventsRepository
	recorder *audit.Recorder
	logger   *zap.Logger
}

// NewPlatformService 创建 PlatformService 实例
func NewPlatformService(
	tenants repository.TenantsRepository,
	users repository.UsersRepository,
	events repository.AuditEventsRepository,
	recorder *audit.Recorder,
	logger *zap.Logger,
) PlatformService {
	return &platformService{
		tenants:  tenants,
		users:    users,
		events:   events,
		recorder: recorder,
		logger:   logger,
	}
}

// requirePlatform 平台上下文门禁
// 租户级主体触达平台接口属于安全相关事件：记录 DENY（warning），
// 对调用方表现为 not found
func (s *platformService) requirePlatform(rc *isolation.RequestContext, action string) error {
	if rc == nil {
		return isolation.ErrNotFound
	}
	if !rc.IsPlatform() {
		s.recorder.Record(audit.Event{
			RequestID:     rc.RequestID(),
			PrincipalID:   rc.Principal().UserID,
			TenantID:      rc.TenantID(),
			Action:        action,
			ResourceClass: repository.ResourceTenants,
			Outcome:       audit.OutcomeDeny,
			Severity:      audit.SeverityWarning,
			Detail:        "tenant principal reached platform surface",
		})
		return isolation.ErrNotFound
	}
	return nil
}

// record 平台操作的审计事件（ALLOW）
func (s *platformService) record(rc *isolation.RequestContext, action, resourceClass, resourceID string) {
	s.recorder.Record(audit.Event{
		RequestID:     rc.RequestID(),
		PrincipalID:   rc.Principal().UserID,
		Action:        action,
		ResourceClass: resourceClass,
		ResourceID:    resourceID,
		Outcome:       audit.OutcomeAllow,
		Severity:      audit.SeverityInfo,
	})
}

// ListTenants 查询租户列表（附成员数统计）
func (s *platformService) ListTenants(ctx context.Context, rc *isolation.RequestContext, f repository.TenantFilters, page, size int) ([]*TenantWithStats, int, error) {
	if err := s.requirePlatform(rc, "platform.tenants.list"); err != nil {
		return nil, 0, err
	}

	tenants, total, err := s.tenants.ListTenants(ctx, f, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	out := make([]*TenantWithStats, 0, len(tenants))
	for _, t := range tenants {
		count, err := s.users.CountByTenant(ctx, t.TenantID)
		if err != nil {
			// 统计失败不影响列表本身
			s.logger.Warn("failed to count tenant users",
				zap.String("tenant_id", t.TenantID),
				zap.Error(err),
			)
			count = 0
		}
		out = append(out, &TenantWithStats{Tenant: t, UserCount: count})
	}

	s.record(rc, "platform.tenants.list", repository.ResourceTenants, "")
	return out, total, nil
}

// GetTenant 查询单个租户
func (s *platformService) GetTenant(ctx context.Context, rc *isolation.RequestContext, tenantID string) (*TenantWithStats, error) {
	if err := s.requirePlatform(rc, "platform.tenants.read"); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, isolation.ErrNotFound
	}
	count, err := s.users.CountByTenant(ctx, tenant.TenantID)
	if err != nil {
		count = 0
	}

	s.record(rc, "platform.tenants.read", repository.ResourceTenants, tenantID)
	return &TenantWithStats{Tenant: tenant, UserCount: count}, nil
}

// CreateTenant 创建租户（新租户总是 active 状态，代码随机生成）
func (s *platformService) CreateTenant(ctx context.Context, rc *isolation.RequestContext, tenantName string) (*domain.Tenant, error) {
	if err := s.requirePlatform(rc, "platform.tenants.create"); err != nil {
		return nil, err
	}
	if tenantName == "" {
		return nil, fmt.Errorf("tenant_name is required")
	}

	code, err := generateJoinCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant code: %w", err)
	}

	now := time.Now().UTC()
	tenant := &domain.Tenant{
		TenantID:   uuid.NewString(),
		TenantName: tenantName,
		TenantCode: code,
		Status:     domain.TenantStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.tenants.CreateTenant(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.logger.Info("tenant created",
		zap.String("tenant_id", tenant.TenantID),
		zap.String("tenant_name", tenant.TenantName),
	)
	s.record(rc, "platform.tenants.create", repository.ResourceTenants, tenant.TenantID)
	return tenant, nil
}

// UpdateTenant 更新租户信息（名称、品牌配置）
func (s *platformService) UpdateTenant(ctx context.Context, rc *isolation.RequestContext, tenantID string, upd repository.TenantUpdate) (*domain.Tenant, error) {
	if err := s.requirePlatform(rc, "platform.tenants.update"); err != nil {
		return nil, err
	}

	if _, err := s.tenants.GetTenant(ctx, tenantID); err != nil {
		return nil, isolation.ErrNotFound
	}
	if err := s.tenants.UpdateTenant(ctx, tenantID, upd); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}
	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tenant: %w", err)
	}

	s.record(rc, "platform.tenants.update", repository.ResourceTenants, tenantID)
	return tenant, nil
}

// SetTenantStatus 更新租户状态（停用的租户成员立即失去访问）
func (s *platformService) SetTenantStatus(ctx context.Context, rc *isolation.RequestContext, tenantID string, status string) error {
	if err := s.requirePlatform(rc, "platform.tenants.set_status"); err != nil {
		return err
	}

	switch status {
	case domain.TenantStatusActive, domain.TenantStatusSuspended, domain.TenantStatusDeleted:
	default:
		return fmt.Errorf("invalid tenant status: %s", status)
	}

	if _, err := s.tenants.GetTenant(ctx, tenantID); err != nil {
		return isolation.ErrNotFound
	}
	if err := s.tenants.SetTenantStatus(ctx, tenantID, status); err != nil {
		return fmt.Errorf("failed to set tenant status: %w", err)
	}

	s.logger.Info("tenant status changed",
		zap.String("tenant_id", tenantID),
		zap.String("status", status),
	)
	s.record(rc, "platform.tenants.set_status", repository.ResourceTenants, tenantID)
	return nil
}

// RotateTenantCode 轮换加入代码（旧代码立即失效）
func (s *platformService) RotateTenantCode(ctx context.Context, rc *isolation.RequestContext, tenantID string) (string, error) {
	if err := s.requirePlatform(rc, "platform.tenants.rotate_code"); err != nil {
		return "", err
	}

	if _, err := s.tenants.GetTenant(ctx, tenantID); err != nil {
		return "", isolation.ErrNotFound
	}
	code, err := generateJoinCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate tenant code: %w", err)
	}
	if err := s.tenants.RotateCode(ctx, tenantID, code); err != nil {
		return "", fmt.Errorf("failed to rotate tenant code: %w", err)
	}

	s.logger.Info("tenant code rotated", zap.String("tenant_id", tenantID))
	s.record(rc, "platform.tenants.rotate_code", repository.ResourceTenants, tenantID)
	return code, nil
}

// DeleteTenant 删除租户（软删除）
func (s *platformService) DeleteTenant(ctx context.Context, rc *isolation.RequestContext, tenantID string) error {
	if err := s.requirePlatform(rc, "platform.tenants.delete"); err != nil {
		return err
	}

	if _, err := s.tenants.GetTenant(ctx, tenantID); err != nil {
		return isolation.ErrNotFound
	}
	if err := s.tenants.DeleteTenant(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.logger.Info("tenant deleted", zap.String("tenant_id", tenantID))
	s.record(rc, "platform.tenants.delete", repository.ResourceTenants, tenantID)
	return nil
}

// ListSecurityEvents 查询安全事件（平台审计页）
func (s *platformService) ListSecurityEvents(ctx context.Context, rc *isolation.RequestContext, f repository.EventFilters, page, size int) ([]audit.Event, int, error) {
	if err := s.requirePlatform(rc, "platform.security_events.list"); err != nil {
		return nil, 0, err
	}

	events, total, err := s.events.ListEvents(ctx, f, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list security events: %w", err)
	}

	s.record(rc, "platform.security_events.list", repository.ResourceSecurityEvents, "")
	return events, total, nil
}

// exportEventHeaders 导出表头
var exportEventHeaders = []string{
	"Timestamp", "Request ID", "Principal ID", "Tenant ID",
	"Action", "Resource Class", "Resource ID", "Outcome", "Severity", "Detail",
}

// exportPageSize 导出时的分页步长
const exportPageSize = 500

// exportMaxEvents 单次导出上限
const exportMaxEvents = 10000

// ExportSecurityEvents 导出安全事件为Excel文件
func (s *platformService) ExportSecurityEvents(ctx context.Context, rc *isolation.RequestContext, f repository.EventFilters) ([]byte, string, error) {
	if err := s.requirePlatform(rc, "platform.security_events.export"); err != nil {
		return nil, "", err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheetName := "Security Events"
	index, err := file.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	// 写入表头
	for i, header := range exportEventHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheetName, cell, header)
	}

	// 分页拉取并逐行写入
	row := 2
	for page := 1; ; page++ {
		events, total, err := s.events.ListEvents(ctx, f, page, exportPageSize)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load security events: %w", err)
		}
		for _, ev := range events {
			values := []interface{}{
				ev.Timestamp.UTC().Format(time.RFC3339),
				ev.RequestID,
				ev.PrincipalID,
				ev.TenantID,
				ev.Action,
				ev.ResourceClass,
				ev.ResourceID,
				string(ev.Outcome),
				string(ev.Severity),
				ev.Detail,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				file.SetCellValue(sheetName, cell, v)
			}
			row++
		}
		if len(events) < exportPageSize || row-2 >= exportMaxEvents || (page*exportPageSize) >= total {
			break
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to generate excel file: %w", err)
	}

	filename := fmt.Sprintf("security_events_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	s.record(rc, "platform.security_events.export", repository.ResourceSecurityEvents, "")
	return buf.Bytes(), filename, nil
}

// generateJoinCode 生成随机加入代码
func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, joinCodeLength)
	for i, b := range buf {
		out[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(out), nil
}
