package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tably/tably/internal/auth"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

type CreateAPIKeyInput struct {
	Body struct {
		Name   string   `json:"name" minLength:"1" maxLength:"255" doc:"Key name, e.g. pos-terminal-1"`
		Scopes []string `json:"scopes,omitempty" doc:"Optional scope restrictions"`
	}
}

type CreateAPIKeyOutput struct {
	Body struct {
		APIKey string         `json:"api_key" doc:"Raw key, shown only once"`
		Key    *domain.APIKey `json:"key"`
	}
}

type ListAPIKeysOutput struct {
	Body []*domain.APIKey
}

type DeleteAPIKeyInput struct {
	ID uuid.UUID `path:"id" doc:"API key ID"`
}

type ListMessengerLinksOutput struct {
	Body []*domain.UserMessengerLink
}

// OAuthLinkView omits the stored provider tokens.
type OAuthLinkView struct {
	ID        uuid.UUID `json:"id"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

type ListOAuthLinksOutput struct {
	Body []OAuthLinkView
}

type DeleteOAuthLinkInput struct {
	ID uuid.UUID `path:"id" doc:"OAuth link ID"`
}

type CreateLinkTokenInput struct {
	Body struct {
		Platform   string `json:"platform" enum:"slack,telegram" doc:"Messenger platform"`
		ExternalID string `json:"external_id" minLength:"1" maxLength:"255" doc:"Platform-side user or chat ID"`
	}
}

type CreateLinkTokenOutput struct {
	Body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
}

type VerifyLinkTokenInput struct {
	Body struct {
		Token string `json:"token" minLength:"1" doc:"Pairing token"`
	}
}

type DeleteMessengerLinkInput struct {
	ID uuid.UUID `path:"id" doc:"Messenger link ID"`
}

// RegisterAccountRoutes exposes the signed-in user's credential management:
// API keys for POS integrations and messenger pairing for alerts.
func RegisterAccountRoutes(api huma.API, store DataStore, accountSvc AccountService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-api-key",
		Method:      http.MethodPost,
		Path:        "/account/api-keys",
		Summary:     "Create an API key",
		Description: "The raw key is returned once and never stored in clear.",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, input *CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		rawKey, key, err := accountSvc.GenerateAPIKey(ctx, tenantID, userID, input.Body.Name, input.Body.Scopes)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create api key", err)
		}

		out := &CreateAPIKeyOutput{}
		out.Body.APIKey = rawKey
		out.Body.Key = key
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-api-keys",
		Method:      http.MethodGet,
		Path:        "/account/api-keys",
		Summary:     "List the user's API keys",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, _ *struct{}) (*ListAPIKeysOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		keys, err := store.Users().ListAPIKeys(ctx, tenantID, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list api keys", err)
		}

		return &ListAPIKeysOutput{Body: keys}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-api-key",
		Method:      http.MethodDelete,
		Path:        "/account/api-keys/{id}",
		Summary:     "Delete an API key",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, input *DeleteAPIKeyInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		// Only the owner's keys are deletable.
		keys, err := store.Users().ListAPIKeys(ctx, tenantID, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list api keys", err)
		}
		if !containsAPIKey(keys, input.ID) {
			return nil, huma.Error404NotFound("api key not found")
		}

		if err := store.Users().DeleteAPIKey(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete api key", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-oauth-links",
		Method:      http.MethodGet,
		Path:        "/account/oauth-links",
		Summary:     "List the user's OAuth sign-in links",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, _ *struct{}) (*ListOAuthLinksOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		links, err := store.Users().ListOAuthLinks(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list oauth links", err)
		}

		views := make([]OAuthLinkView, 0, len(links))
		for _, l := range links {
			views = append(views, OAuthLinkView{ID: l.ID, Provider: l.Provider, CreatedAt: l.CreatedAt})
		}
		return &ListOAuthLinksOutput{Body: views}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-oauth-link",
		Method:      http.MethodDelete,
		Path:        "/account/oauth-links/{id}",
		Summary:     "Unlink an OAuth provider",
		Description: "The account must keep a password or another provider to sign in with.",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, input *DeleteOAuthLinkInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		links, err := store.Users().ListOAuthLinks(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list oauth links", err)
		}
		if !containsOAuthLink(links, input.ID) {
			return nil, huma.Error404NotFound("oauth link not found")
		}

		if err := store.Users().DeleteOAuthLink(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete oauth link", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-messenger-links",
		Method:      http.MethodGet,
		Path:        "/account/messenger-links",
		Summary:     "List the user's messenger links",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, _ *struct{}) (*ListMessengerLinksOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		links, err := store.Users().ListMessengerLinks(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list messenger links", err)
		}

		return &ListMessengerLinksOutput{Body: links}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-messenger-link-token",
		Method:      http.MethodPost,
		Path:        "/account/messenger-links/token",
		Summary:     "Create a messenger pairing token",
		Description: "The token is sent to the platform bot, which confirms the pairing via the verify endpoint.",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, input *CreateLinkTokenInput) (*CreateLinkTokenOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		lt, err := accountSvc.GenerateLinkToken(tenantID, input.Body.Platform, input.Body.ExternalID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create pairing token", err)
		}

		out := &CreateLinkTokenOutput{}
		out.Body.Token = lt.Token
		out.Body.ExpiresAt = lt.ExpiresAt
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "verify-messenger-link",
		Method:      http.MethodPost,
		Path:        "/account/messenger-links/verify",
		Summary:     "Confirm a messenger pairing token",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, input *VerifyLinkTokenInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		if err := accountSvc.VerifyAndLink(ctx, input.Body.Token, userID); err != nil {
			if errors.Is(err, auth.ErrLinkTokenExpired) {
				return nil, huma.Error400BadRequest("pairing token expired or not found")
			}
			return nil, huma.Error500InternalServerError("failed to confirm pairing", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-messenger-link",
		Method:      http.MethodDelete,
		Path:        "/account/messenger-links/{id}",
		Summary:     "Delete a messenger link",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, input *DeleteMessengerLinkInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		links, err := store.Users().ListMessengerLinks(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list messenger links", err)
		}
		if !containsMessengerLink(links, input.ID) {
			return nil, huma.Error404NotFound("messenger link not found")
		}

		if err := store.Users().DeleteMessengerLink(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete messenger link", err)
		}

		return nil, nil
	})
}

func containsAPIKey(keys []*domain.APIKey, id uuid.UUID) bool {
	for _, k := range keys {
		if k.ID == id {
			return true
		}
	}
	return false
}

func containsOAuthLink(links []*domain.UserOAuthLink, id uuid.UUID) bool {
	for _, l := range links {
		if l.ID == id {
			return true
		}
	}
	return false
}

func containsMessengerLink(links []*domain.UserMessengerLink, id uuid.UUID) bool {
	for _, l := range links {
		if l.ID == id {
			return true
		}
	}
	return false
}
