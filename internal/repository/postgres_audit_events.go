package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Amoako419/PhotoShare/internal/audit"
)

// PostgresAuditEventsRepository 安全事件Repository实现（security_events 表）
type PostgresAuditEventsRepository struct {
	db *sql.DB
}

func NewPostgresAuditEventsRepository(db *sql.DB) *PostgresAuditEventsRepository {
	return &PostgresAuditEventsRepository{db: db}
}

var _ AuditEventsRepository = (*PostgresAuditEventsRepository)(nil)

// InsertEvent 持久化一个安全事件
func (r *PostgresAuditEventsRepository) InsertEvent(ctx context.Context, ev audit.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_events (
			event_time, request_id, principal_id, tenant_id,
			action, resource_class, resource_id, outcome, severity, detail
		) VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10)
	`,
		ev.Timestamp,
		ev.RequestID,
		ev.PrincipalID,
		ev.TenantID,
		ev.Action,
		ev.ResourceClass,
		ev.ResourceID,
		string(ev.Outcome),
		string(ev.Severity),
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to insert security event: %w", err)
	}
	return nil
}

// ListEvents 查询安全事件
func (r *PostgresAuditEventsRepository) ListEvents(ctx context.Context, f EventFilters, page, size int) ([]audit.Event, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{}
	args := []any{}
	argIdx := 1

	if f.Outcome != "" {
		where = append(where, fmt.Sprintf("outcome = $%d", argIdx))
		args = append(args, f.Outcome)
		argIdx++
	}
	if f.Action != "" {
		where = append(where, fmt.Sprintf("action = $%d", argIdx))
		args = append(args, f.Action)
		argIdx++
	}
	if f.TenantID != "" {
		where = append(where, fmt.Sprintf("tenant_id = $%d::uuid", argIdx))
		args = append(args, f.TenantID)
		argIdx++
	}
	if f.PrincipalID != "" {
		where = append(where, fmt.Sprintf("principal_id = $%d", argIdx))
		args = append(args, f.PrincipalID)
		argIdx++
	}
	if !f.Since.IsZero() {
		where = append(where, fmt.Sprintf("event_time >= $%d", argIdx))
		args = append(args, f.Since)
		argIdx++
	}
	if !f.Until.IsZero() {
		where = append(where, fmt.Sprintf("event_time <= $%d", argIdx))
		args = append(args, f.Until)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM security_events "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count security events: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			event_time,
			COALESCE(request_id, '') as request_id,
			COALESCE(principal_id, '') as principal_id,
			COALESCE(tenant_id::text, '') as tenant_id,
			action,
			COALESCE(resource_class, '') as resource_class,
			COALESCE(resource_id, '') as resource_id,
			outcome,
			severity,
			COALESCE(detail, '') as detail
		FROM security_events
		%s
		ORDER BY event_time DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list security events: %w", err)
	}
	defer rows.Close()

	events := make([]audit.Event, 0)
	for rows.Next() {
		var ev audit.Event
		var outcome, severity string
		if err := rows.Scan(
			&ev.Timestamp,
			&ev.RequestID,
			&ev.PrincipalID,
			&ev.TenantID,
			&ev.Action,
			&ev.ResourceClass,
			&ev.ResourceID,
			&outcome,
			&severity,
			&ev.Detail,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan security event: %w", err)
		}
		ev.Outcome = audit.Outcome(outcome)
		ev.Severity = audit.Severity(severity)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
