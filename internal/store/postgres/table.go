package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tably/tably/internal/domain"
)

type TableRepo struct {
	pool *pgxpool.Pool
}

func NewTableRepo(pool *pgxpool.Pool) *TableRepo {
	return &TableRepo{pool: pool}
}

func (r *TableRepo) Create(ctx context.Context, t *domain.Table) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tables (id, tenant_id, number, zone, seats, qr_token, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.TenantID, t.Number, t.Zone, t.Seats, t.QRToken, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("tableRepo.Create: %w", err)
	}

	return nil
}

func (r *TableRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Table, error) {
	var t domain.Table

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, number, zone, seats, qr_token, active, created_at, updated_at
		 FROM tables WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&t.ID, &t.TenantID, &t.Number, &t.Zone, &t.Seats, &t.QRToken, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tableRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tableRepo.GetByID: %w", err)
	}

	return &t, nil
}

func (r *TableRepo) GetByQRToken(ctx context.Context, tenantID uuid.UUID, token string) (*domain.Table, error) {
	var t domain.Table

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, number, zone, seats, qr_token, active, created_at, updated_at
		 FROM tables WHERE tenant_id = $1 AND qr_token = $2`,
		tenantID, token,
	).Scan(&t.ID, &t.TenantID, &t.Number, &t.Zone, &t.Seats, &t.QRToken, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tableRepo.GetByQRToken: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tableRepo.GetByQRToken: %w", err)
	}

	return &t, nil
}

func (r *TableRepo) Update(ctx context.Context, t *domain.Table) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tables SET number = $1, zone = $2, seats = $3, active = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		t.Number, t.Zone, t.Seats, t.Active, t.TenantID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("tableRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tableRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// RotateQRToken replaces a table's QR token, invalidating previously printed
// codes for that table.
func (r *TableRepo) RotateQRToken(ctx context.Context, tenantID, id uuid.UUID, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tables SET qr_token = $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = $3`,
		token, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("tableRepo.RotateQRToken: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tableRepo.RotateQRToken: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TableRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Table, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, number, zone, seats, qr_token, active, created_at, updated_at
		 FROM tables WHERE tenant_id = $1 ORDER BY number`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("tableRepo.List: %w", err)
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		var t domain.Table

		err = rows.Scan(&t.ID, &t.TenantID, &t.Number, &t.Zone, &t.Seats, &t.QRToken, &t.Active, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("tableRepo.List: scan: %w", err)
		}

		tables = append(tables, &t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("tableRepo.List: rows: %w", err)
	}

	return tables, nil
}

func (r *TableRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tables WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("tableRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tableRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
