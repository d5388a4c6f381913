package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

type CreateCategoryInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Category name"`
		Description string `json:"description,omitempty" doc:"Category description"`
		SortOrder   int    `json:"sort_order,omitempty" doc:"Display order"`
	}
}

type CreateCategoryOutput struct {
	Body *domain.Category
}

type ListCategoriesOutput struct {
	Body []*domain.Category
}

type UpdateCategoryInput struct {
	ID   uuid.UUID `path:"id" doc:"Category ID"`
	Body struct {
		Name        string `json:"name,omitempty" maxLength:"255" doc:"Category name"`
		Description string `json:"description,omitempty" doc:"Category description"`
		SortOrder   *int   `json:"sort_order,omitempty" doc:"Display order"`
		Active      *bool  `json:"active,omitempty" doc:"Whether the category is shown"`
	}
}

type UpdateCategoryOutput struct {
	Body *domain.Category
}

type DeleteCategoryInput struct {
	ID uuid.UUID `path:"id" doc:"Category ID"`
}

type CreateMenuItemInput struct {
	Body struct {
		CategoryID  uuid.UUID  `json:"category_id" doc:"Category ID"`
		Name        string     `json:"name" minLength:"1" maxLength:"255" doc:"Item name"`
		Description string     `json:"description,omitempty" doc:"Item description"`
		Price       float64    `json:"price" minimum:"0" doc:"Item price"`
		ImageURL    string     `json:"image_url,omitempty" doc:"Item image URL"`
		StockItemID *uuid.UUID `json:"stock_item_id,omitempty" doc:"Linked stock item"`
		SortOrder   int        `json:"sort_order,omitempty" doc:"Display order"`
	}
}

type CreateMenuItemOutput struct {
	Body *domain.MenuItem
}

type ListMenuItemsInput struct {
	CategoryID uuid.UUID `query:"category_id" doc:"Filter by category"`
}

type ListMenuItemsOutput struct {
	Body []*domain.MenuItem
}

type UpdateMenuItemInput struct {
	ID   uuid.UUID `path:"id" doc:"Menu item ID"`
	Body struct {
		CategoryID  *uuid.UUID `json:"category_id,omitempty" doc:"Category ID"`
		Name        string     `json:"name,omitempty" maxLength:"255" doc:"Item name"`
		Description string     `json:"description,omitempty" doc:"Item description"`
		Price       *float64   `json:"price,omitempty" minimum:"0" doc:"Item price"`
		ImageURL    string     `json:"image_url,omitempty" doc:"Item image URL"`
		StockItemID *uuid.UUID `json:"stock_item_id,omitempty" doc:"Linked stock item"`
		SortOrder   *int       `json:"sort_order,omitempty" doc:"Display order"`
	}
}

type UpdateMenuItemOutput struct {
	Body *domain.MenuItem
}

type SetMenuItemAvailableInput struct {
	ID   uuid.UUID `path:"id" doc:"Menu item ID"`
	Body struct {
		Available bool `json:"available" doc:"Whether the item can be ordered"`
	}
}

type DeleteMenuItemInput struct {
	ID uuid.UUID `path:"id" doc:"Menu item ID"`
}

func RegisterMenuRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-category",
		Method:      http.MethodPost,
		Path:        "/categories",
		Summary:     "Create a menu category",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *CreateCategoryInput) (*CreateCategoryOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		now := time.Now()
		c := &domain.Category{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			SortOrder:   input.Body.SortOrder,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Categories().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create category", err)
		}

		return &CreateCategoryOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/categories",
		Summary:     "List menu categories",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		categories, err := store.Categories().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list categories", err)
		}

		return &ListCategoriesOutput{Body: categories}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-category",
		Method:      http.MethodPut,
		Path:        "/categories/{id}",
		Summary:     "Update a menu category",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *UpdateCategoryInput) (*UpdateCategoryOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.Categories().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("category not found")
			}
			return nil, huma.Error500InternalServerError("failed to get category", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.SortOrder != nil {
			existing.SortOrder = *input.Body.SortOrder
		}
		if input.Body.Active != nil {
			existing.Active = *input.Body.Active
		}
		existing.UpdatedAt = time.Now()

		if err := store.Categories().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update category", err)
		}

		return &UpdateCategoryOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-category",
		Method:      http.MethodDelete,
		Path:        "/categories/{id}",
		Summary:     "Delete a menu category",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *DeleteCategoryInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Categories().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("category not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete category", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-menu-item",
		Method:      http.MethodPost,
		Path:        "/menu-items",
		Summary:     "Create a menu item",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *CreateMenuItemInput) (*CreateMenuItemOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if _, err := store.Categories().GetByID(ctx, tenantID, input.Body.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("category not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate category", err)
		}

		now := time.Now()
		m := &domain.MenuItem{
			ID:          uuid.New(),
			TenantID:    tenantID,
			CategoryID:  input.Body.CategoryID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Price:       input.Body.Price,
			ImageURL:    input.Body.ImageURL,
			Available:   true,
			StockItemID: input.Body.StockItemID,
			SortOrder:   input.Body.SortOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.MenuItems().Create(ctx, m); err != nil {
			return nil, huma.Error500InternalServerError("failed to create menu item", err)
		}

		return &CreateMenuItemOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-menu-items",
		Method:      http.MethodGet,
		Path:        "/menu-items",
		Summary:     "List menu items",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *ListMenuItemsInput) (*ListMenuItemsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if input.CategoryID != uuid.Nil {
			items, err := store.MenuItems().ListByCategory(ctx, tenantID, input.CategoryID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list menu items", err)
			}
			return &ListMenuItemsOutput{Body: items}, nil
		}

		items, err := store.MenuItems().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list menu items", err)
		}

		return &ListMenuItemsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-menu-item",
		Method:      http.MethodPut,
		Path:        "/menu-items/{id}",
		Summary:     "Update a menu item",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *UpdateMenuItemInput) (*UpdateMenuItemOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.MenuItems().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("menu item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get menu item", err)
		}

		if input.Body.CategoryID != nil {
			existing.CategoryID = *input.Body.CategoryID
		}
		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.Price != nil {
			existing.Price = *input.Body.Price
		}
		if input.Body.ImageURL != "" {
			existing.ImageURL = input.Body.ImageURL
		}
		if input.Body.StockItemID != nil {
			existing.StockItemID = input.Body.StockItemID
		}
		if input.Body.SortOrder != nil {
			existing.SortOrder = *input.Body.SortOrder
		}
		existing.UpdatedAt = time.Now()

		if err := store.MenuItems().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update menu item", err)
		}

		return &UpdateMenuItemOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-menu-item-available",
		Method:      http.MethodPatch,
		Path:        "/menu-items/{id}/available",
		Summary:     "Toggle menu item availability",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *SetMenuItemAvailableInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.MenuItems().SetAvailable(ctx, tenantID, input.ID, input.Body.Available); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("menu item not found")
			}
			return nil, huma.Error500InternalServerError("failed to update menu item", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-menu-item",
		Method:      http.MethodDelete,
		Path:        "/menu-items/{id}",
		Summary:     "Delete a menu item",
		Tags:        []string{"Menu"},
	}, func(ctx context.Context, input *DeleteMenuItemInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.MenuItems().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("menu item not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete menu item", err)
		}

		return nil, nil
	})
}
