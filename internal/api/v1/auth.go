package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tably/tably/internal/auth"
	"github.com/tably/tably/internal/domain"
)

type RegisterInput struct {
	Body struct {
		TenantSlug string `json:"tenant_slug" minLength:"1" maxLength:"63" doc:"Restaurant slug"`
		Email      string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password   string `json:"password" minLength:"8" maxLength:"128" doc:"Password"`
		Name       string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
	}
}

type RegisterOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`
		RefreshToken string       `json:"refresh_token"`
	}
}

type LoginInput struct {
	Body struct {
		TenantSlug string `json:"tenant_slug" minLength:"1" maxLength:"63" doc:"Restaurant slug"`
		Email      string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password   string `json:"password" minLength:"1" maxLength:"128" doc:"Password"`
	}
}

type LoginOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token"`
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"`
	}
}

type OAuthAuthorizeInput struct {
	Provider string `path:"provider" doc:"OAuth2 provider, e.g. google or github"`
	State    string `query:"state" doc:"Opaque state echoed back on the callback"`
}

type OAuthAuthorizeOutput struct {
	Body struct {
		AuthURL string `json:"auth_url"`
	}
}

type OAuthCallbackInput struct {
	Provider string `path:"provider" doc:"OAuth2 provider, e.g. google or github"`
	Body     struct {
		TenantSlug string `json:"tenant_slug" minLength:"1" maxLength:"63" doc:"Restaurant slug"`
		Code       string `json:"code" minLength:"1" doc:"Authorization code from the provider"`
	}
}

func RegisterAuthRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new staff user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		tenant, err := store.Tenants().GetBySlug(ctx, input.Body.TenantSlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("restaurant not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up restaurant", err)
		}

		// Self-service registration always yields the lowest role; owners
		// promote staff from the panel.
		user, err := authSvc.Register(ctx, tenant.ID, input.Body.Email, input.Body.Password, input.Body.Name, "staff")
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, tenant.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		user.PasswordHash = ""

		out := &RegisterOutput{}
		out.Body.User = user
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		tenant, err := store.Tenants().GetBySlug(ctx, input.Body.TenantSlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("restaurant not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up restaurant", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, tenant.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Exchange a refresh token for a new access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})
}

// RegisterOAuthRoutes exposes the OAuth2 sign-in flow for staff accounts.
func RegisterOAuthRoutes(api huma.API, store DataStore, oauthSvc OAuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "oauth-authorize",
		Method:      http.MethodGet,
		Path:        "/auth/oauth/{provider}",
		Summary:     "Get the provider's OAuth2 authorization URL",
		Tags:        []string{"Auth"},
	}, func(_ context.Context, input *OAuthAuthorizeInput) (*OAuthAuthorizeOutput, error) {
		url, err := oauthSvc.OAuthAuthorizationURL(input.Provider, input.State)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownProvider) {
				return nil, huma.Error404NotFound("unknown provider")
			}
			return nil, huma.Error500InternalServerError("failed to build authorization URL", err)
		}

		out := &OAuthAuthorizeOutput{}
		out.Body.AuthURL = url
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-callback",
		Method:      http.MethodPost,
		Path:        "/auth/oauth/{provider}/callback",
		Summary:     "Complete OAuth2 sign-in with an authorization code",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *OAuthCallbackInput) (*LoginOutput, error) {
		tenant, err := store.Tenants().GetBySlug(ctx, input.Body.TenantSlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("restaurant not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up restaurant", err)
		}

		accessToken, refreshToken, err := oauthSvc.LoginOAuth(ctx, tenant.ID, input.Provider, input.Body.Code)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownProvider) {
				return nil, huma.Error404NotFound("unknown provider")
			}
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("sign-in rejected")
			}
			return nil, huma.Error500InternalServerError("oauth sign-in failed", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})
}
