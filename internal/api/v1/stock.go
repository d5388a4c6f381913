package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

type CreateStockItemInput struct {
	Body struct {
		Name         string  `json:"name" minLength:"1" maxLength:"255" doc:"Item name"`
		Unit         string  `json:"unit" minLength:"1" maxLength:"16" doc:"Unit of measure, e.g. kg"`
		Quantity     float64 `json:"quantity,omitempty" minimum:"0" doc:"Starting quantity"`
		LowThreshold float64 `json:"low_threshold,omitempty" minimum:"0" doc:"Alert threshold, 0 disables alerts"`
	}
}

type StockItemOutput struct {
	Body *domain.StockItem
}

type ListStockItemsOutput struct {
	Body []*domain.StockItem
}

type GetStockItemInput struct {
	ID uuid.UUID `path:"id" doc:"Stock item ID"`
}

type UpdateStockItemInput struct {
	ID   uuid.UUID `path:"id" doc:"Stock item ID"`
	Body struct {
		Name         string   `json:"name,omitempty" maxLength:"255" doc:"Item name"`
		Unit         string   `json:"unit,omitempty" maxLength:"16" doc:"Unit of measure"`
		LowThreshold *float64 `json:"low_threshold,omitempty" minimum:"0" doc:"Alert threshold"`
	}
}

type AdjustStockInput struct {
	ID   uuid.UUID `path:"id" doc:"Stock item ID"`
	Body struct {
		Delta float64 `json:"delta" doc:"Quantity change, negative to consume"`
	}
}

type DeleteStockItemInput struct {
	ID uuid.UUID `path:"id" doc:"Stock item ID"`
}

// alertLowStock pushes a low-stock message to every staff member of the
// tenant. Best effort: delivery failures are logged, never surfaced.
func alertLowStock(ctx context.Context, store DataStore, notifier StaffNotifier, s *domain.StockItem) {
	if notifier == nil {
		return
	}

	users, err := store.Users().List(ctx, s.TenantID)
	if err != nil {
		log.Warn().Err(err).Str("stock_item_id", s.ID.String()).Msg("low stock alert: list staff")
		return
	}

	msg := fmt.Sprintf("Low stock: %s is down to %.2f %s (threshold %.2f)", s.Name, s.Quantity, s.Unit, s.LowThreshold)
	for _, u := range users {
		if err := notifier.Notify(ctx, u.ID, msg); err != nil {
			log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("low stock alert: notify")
		}
	}
}

func RegisterStockRoutes(api huma.API, store DataStore, pub Publisher, notifier StaffNotifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-stock-item",
		Method:      http.MethodPost,
		Path:        "/stock",
		Summary:     "Create a stock item",
		Tags:        []string{"Stock"},
	}, func(ctx context.Context, input *CreateStockItemInput) (*StockItemOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		now := time.Now()
		s := &domain.StockItem{
			ID:           uuid.New(),
			TenantID:     tenantID,
			Name:         input.Body.Name,
			Unit:         input.Body.Unit,
			Quantity:     input.Body.Quantity,
			LowThreshold: input.Body.LowThreshold,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Stock().Create(ctx, s); err != nil {
			return nil, huma.Error500InternalServerError("failed to create stock item", err)
		}

		return &StockItemOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-stock-items",
		Method:      http.MethodGet,
		Path:        "/stock",
		Summary:     "List stock items",
		Tags:        []string{"Stock"},
	}, func(ctx context.Context, _ *struct{}) (*ListStockItemsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		items, err := store.Stock().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list stock items", err)
		}

		return &ListStockItemsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-low-stock-items",
		Method:      http.MethodGet,
		Path:        "/stock/low",
		Summary:     "List items at or below their low threshold",
		Tags:        []string{"Stock"},
	}, func(ctx context.Context, _ *struct{}) (*ListStockItemsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		items, err := store.Stock().ListLow(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list low stock items", err)
		}

		return &ListStockItemsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-stock-item",
		Method:      http.MethodGet,
		Path:        "/stock/{id}",
		Summary:     "Get a stock item by ID",
		Tags:        []string{"Stock"},
	}, func(ctx context.Context, input *GetStockItemInput) (*StockItemOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		s, err := store.Stock().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("stock item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get stock item", err)
		}

		return &StockItemOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-stock-item",
		Method:      http.MethodPut,
		Path:        "/stock/{id}",
		Summary:     "Update a stock item",
		Tags:        []string{"Stock"},
	}, func(ctx context.Context, input *UpdateStockItemInput) (*StockItemOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.Stock().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("stock item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get stock item", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Unit != "" {
			existing.Unit = input.Body.Unit
		}
		if input.Body.LowThreshold != nil {
			existing.LowThreshold = *input.Body.LowThreshold
		}
		existing.UpdatedAt = time.Now()

		if err := store.Stock().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update stock item", err)
		}

		return &StockItemOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "adjust-stock",
		Method:      http.MethodPost,
		Path:        "/stock/{id}/adjust",
		Summary:     "Adjust a stock item's quantity",
		Description: "Applies a delta to the quantity, clamped at zero. Crossing the low threshold publishes a low-stock alert.",
		Tags:        []string{"Stock"},
	}, func(ctx context.Context, input *AdjustStockInput) (*StockItemOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		s, err := store.Stock().Adjust(ctx, tenantID, input.ID, input.Body.Delta)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("stock item not found")
			}
			return nil, huma.Error500InternalServerError("failed to adjust stock", err)
		}

		if s.Low() {
			publishStockEvent(ctx, pub, s)
			alertLowStock(ctx, store, notifier, s)
		}

		return &StockItemOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-stock-item",
		Method:      http.MethodDelete,
		Path:        "/stock/{id}",
		Summary:     "Delete a stock item",
		Tags:        []string{"Stock"},
	}, func(ctx context.Context, input *DeleteStockItemInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Stock().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("stock item not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete stock item", err)
		}

		return nil, nil
	})
}
