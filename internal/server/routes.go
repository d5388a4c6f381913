package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	v1 "github.com/tably/tably/internal/api/v1"
	"github.com/tably/tably/internal/api/ws"
	"github.com/tably/tably/internal/auth"
	"github.com/tably/tably/internal/notify"
	"github.com/tably/tably/internal/store/postgres"
	redisstore "github.com/tably/tably/internal/store/redis"
)

func apiConfig(title, basePath string) huma.Config {
	cfg := huma.DefaultConfig(title, "1.0.0")
	cfg.Servers = []*huma.Server{
		{URL: basePath},
	}
	return cfg
}

func registerAuthRoutes(r chi.Router, store *postgres.Store, authSvc *auth.Service) {
	api := humachi.New(r, apiConfig("Tably Auth API", "/api/v1"))
	v1.RegisterAuthRoutes(api, store, authSvc)
	v1.RegisterOAuthRoutes(api, store, authSvc)
}

func registerConsoleRoutes(r chi.Router, store *postgres.Store) {
	api := humachi.New(r, apiConfig("Tably Console API", "/api/v1"))
	v1.RegisterTenantRoutes(api, store)
}

func registerPanelRoutes(r chi.Router, store *postgres.Store, pubsub *redisstore.PubSub, authSvc *auth.Service, notifier *notify.Notifier) {
	api := humachi.New(r, apiConfig("Tably API", "/api/v1"))
	v1.RegisterAccountRoutes(api, store, authSvc)
	v1.RegisterMenuRoutes(api, store)
	v1.RegisterTableRoutes(api, store, pubsub)
	v1.RegisterCustomerRoutes(api, store)
	v1.RegisterOrderRoutes(api, store, pubsub)
	v1.RegisterLoyaltyRoutes(api, store)
	v1.RegisterPromoRoutes(api, store)
	v1.RegisterStockRoutes(api, store, pubsub, notifier)
}

func registerPublicRoutes(r chi.Router, store *postgres.Store, pubsub *redisstore.PubSub, notifier *notify.Notifier) {
	api := humachi.New(r, apiConfig("Tably Storefront API", "/api/public"))
	v1.RegisterPublicRoutes(api, store, pubsub, notifier)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/orders", hub.ServeOrders)
	r.Get("/tables", hub.ServeTables)
	r.Get("/stock", hub.ServeStock)
}
