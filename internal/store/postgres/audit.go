package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tably/tably/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, tenant_id, actor_id, action, entity, entity_id, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.TenantID, a.ActorID, a.Action, a.Entity, a.EntityID, a.Detail, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Create: %w", err)
	}

	return nil
}

func (r *AuditRepo) ListByEntity(ctx context.Context, tenantID uuid.UUID, entity string, entityID uuid.UUID) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, actor_id, action, entity, entity_id, detail, created_at
		 FROM audit_logs
		 WHERE tenant_id = $1 AND entity = $2 AND entity_id = $3
		 ORDER BY created_at DESC
		 LIMIT 200`,
		tenantID, entity, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByEntity: %w", err)
	}
	defer rows.Close()

	return collectAuditLogs(rows, "auditRepo.ListByEntity")
}

func (r *AuditRepo) ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, actor_id, action, entity, entity_id, detail, created_at
		 FROM audit_logs
		 WHERE tenant_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		tenantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListRecent: %w", err)
	}
	defer rows.Close()

	return collectAuditLogs(rows, "auditRepo.ListRecent")
}

func collectAuditLogs(rows pgx.Rows, op string) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog

		err := rows.Scan(&a.ID, &a.TenantID, &a.ActorID, &a.Action, &a.Entity, &a.EntityID, &a.Detail, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		logs = append(logs, &a)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return logs, nil
}
