package v1

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

// newQRToken generates the opaque token embedded in a table's printed QR code.
func newQRToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("v1.newQRToken: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

type CreateTableInput struct {
	Body struct {
		Number int    `json:"number" minimum:"1" doc:"Table number"`
		Zone   string `json:"zone,omitempty" maxLength:"100" doc:"Zone name"`
		Seats  int    `json:"seats,omitempty" minimum:"0" doc:"Seat count"`
	}
}

type CreateTableOutput struct {
	Body *domain.Table
}

type GetTableInput struct {
	ID uuid.UUID `path:"id" doc:"Table ID"`
}

type GetTableOutput struct {
	Body *domain.Table
}

type ListTablesOutput struct {
	Body []*domain.Table
}

type UpdateTableInput struct {
	ID   uuid.UUID `path:"id" doc:"Table ID"`
	Body struct {
		Number *int   `json:"number,omitempty" minimum:"1" doc:"Table number"`
		Zone   string `json:"zone,omitempty" maxLength:"100" doc:"Zone name"`
		Seats  *int   `json:"seats,omitempty" minimum:"0" doc:"Seat count"`
		Active *bool  `json:"active,omitempty" doc:"Whether the table is in service"`
	}
}

type UpdateTableOutput struct {
	Body *domain.Table
}

type RotateQRTokenInput struct {
	ID uuid.UUID `path:"id" doc:"Table ID"`
}

type RotateQRTokenOutput struct {
	Body struct {
		QRToken string `json:"qr_token"`
	}
}

type DeleteTableInput struct {
	ID uuid.UUID `path:"id" doc:"Table ID"`
}

func RegisterTableRoutes(api huma.API, store DataStore, pub Publisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-table",
		Method:      http.MethodPost,
		Path:        "/tables",
		Summary:     "Create a table",
		Tags:        []string{"Tables"},
	}, func(ctx context.Context, input *CreateTableInput) (*CreateTableOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		token, err := newQRToken()
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to generate QR token", err)
		}

		now := time.Now()
		t := &domain.Table{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Number:    input.Body.Number,
			Zone:      input.Body.Zone,
			Seats:     input.Body.Seats,
			QRToken:   token,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Tables().Create(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to create table", err)
		}

		return &CreateTableOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tables",
		Method:      http.MethodGet,
		Path:        "/tables",
		Summary:     "List tables",
		Tags:        []string{"Tables"},
	}, func(ctx context.Context, _ *struct{}) (*ListTablesOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		tables, err := store.Tables().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tables", err)
		}

		return &ListTablesOutput{Body: tables}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-table",
		Method:      http.MethodGet,
		Path:        "/tables/{id}",
		Summary:     "Get a table by ID",
		Tags:        []string{"Tables"},
	}, func(ctx context.Context, input *GetTableInput) (*GetTableOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		t, err := store.Tables().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("table not found")
			}
			return nil, huma.Error500InternalServerError("failed to get table", err)
		}

		return &GetTableOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-table",
		Method:      http.MethodPut,
		Path:        "/tables/{id}",
		Summary:     "Update a table",
		Tags:        []string{"Tables"},
	}, func(ctx context.Context, input *UpdateTableInput) (*UpdateTableOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.Tables().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("table not found")
			}
			return nil, huma.Error500InternalServerError("failed to get table", err)
		}

		if input.Body.Number != nil {
			existing.Number = *input.Body.Number
		}
		if input.Body.Zone != "" {
			existing.Zone = input.Body.Zone
		}
		if input.Body.Seats != nil {
			existing.Seats = *input.Body.Seats
		}
		if input.Body.Active != nil {
			existing.Active = *input.Body.Active
		}
		existing.UpdatedAt = time.Now()

		if err := store.Tables().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update table", err)
		}

		publishTableEvent(ctx, pub, existing, "table.updated")

		return &UpdateTableOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rotate-table-qr-token",
		Method:      http.MethodPost,
		Path:        "/tables/{id}/rotate-qr",
		Summary:     "Rotate a table's QR token",
		Description: "Invalidates the printed QR code and issues a new token.",
		Tags:        []string{"Tables"},
	}, func(ctx context.Context, input *RotateQRTokenInput) (*RotateQRTokenOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		token, err := newQRToken()
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to generate QR token", err)
		}

		if err := store.Tables().RotateQRToken(ctx, tenantID, input.ID, token); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("table not found")
			}
			return nil, huma.Error500InternalServerError("failed to rotate QR token", err)
		}

		// Old printed codes are dead from this point, so tell the panel.
		if t, err := store.Tables().GetByID(ctx, tenantID, input.ID); err == nil {
			publishTableEvent(ctx, pub, t, "table.qr_rotated")
		}

		out := &RotateQRTokenOutput{}
		out.Body.QRToken = token
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-table",
		Method:      http.MethodDelete,
		Path:        "/tables/{id}",
		Summary:     "Delete a table",
		Tags:        []string{"Tables"},
	}, func(ctx context.Context, input *DeleteTableInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Tables().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("table not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete table", err)
		}

		return nil, nil
	})
}
