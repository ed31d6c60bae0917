package handler

import (
	"net/http"

	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/api/handler/router"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/scheduler"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
	"github.com/joshaeeee/klyq-backend/internal/usecases/account"
	"github.com/joshaeeee/klyq-backend/internal/usecases/acting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/authenticating"
	"github.com/joshaeeee/klyq-backend/internal/usecases/ingesting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/suggesting"
	"github.com/joshaeeee/klyq-backend/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Webhooks são autenticados pela assinatura HMAC da plataforma, não por JWT.
func Webhooks(cfg *config.Config, service ingesting.Ingestor) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/webhooks/shopify",
			Method:  http.MethodPost,
			Handler: ShopifyWebhook(service),
		},
		{
			Path:    "/v1/webhooks/meta",
			Method:  http.MethodPost,
			Handler: MetaWebhook(service),
		},
		{
			Path:    "/v1/webhooks/meta",
			Method:  http.MethodGet,
			Handler: MetaWebhookVerify(cfg),
		},
	}
}

func Accounts(service account.Manager) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/auth/shopify/callback",
			Method:  http.MethodGet,
			Handler: ShopifyOAuthCallback(service),
		},
		{
			Path:        "/v1/stores/:id/connect/meta",
			Method:      http.MethodPost,
			Handler:     ConnectMetaAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/needing-reauth",
			Method:      http.MethodGet,
			Handler:     ListAccountsNeedingReauth(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Stores(service account.Manager, periodic *scheduler.PeriodicScheduler, readers MirrorReaders) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stores",
			Method:      http.MethodGet,
			Handler:     ListStores(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id",
			Method:      http.MethodGet,
			Handler:     GetStore(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/sync",
			Method:      http.MethodPost,
			Handler:     TriggerStoreSync(periodic),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/products",
			Method:      http.MethodGet,
			Handler:     ListStoreProducts(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/orders",
			Method:      http.MethodGet,
			Handler:     ListStoreOrders(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/campaigns",
			Method:      http.MethodGet,
			Handler:     ListStoreCampaigns(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/ads",
			Method:      http.MethodGet,
			Handler:     ListStoreAds(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/suggestions",
			Method:      http.MethodGet,
			Handler:     ListStoreSuggestions(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/attributions",
			Method:      http.MethodGet,
			Handler:     ListStoreAttributions(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/trends",
			Method:      http.MethodGet,
			Handler:     ListStoreTrends(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/metrics",
			Method:      http.MethodGet,
			Handler:     ListStoreMetrics(readers),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Actions(actor acting.Actor, suggester suggesting.Suggester) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stores/:id/actions/pause-ad",
			Method:      http.MethodPost,
			Handler:     PauseAd(actor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/actions/create-bundle",
			Method:      http.MethodPost,
			Handler:     CreateBundle(actor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/actions/update-price",
			Method:      http.MethodPost,
			Handler:     UpdatePrice(actor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/ads/:adID/insights",
			Method:      http.MethodGet,
			Handler:     GetAdInsights(actor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/suggestions/:id/status",
			Method:      http.MethodPut,
			Handler:     UpdateSuggestionStatus(suggester),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Jobs(repo repository.SyncJobRepository, dispatcher *taskqueue.Dispatcher) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/jobs",
			Method:      http.MethodGet,
			Handler:     ListJobs(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/jobs",
			Method:      http.MethodPost,
			Handler:     SubmitJob(dispatcher),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		// Rota própria: httprouter não aceita segmento estático junto do
		// curinga /v1/jobs/:id.
		{
			Path:        "/v1/job-failures",
			Method:      http.MethodGet,
			Handler:     ListJobFailures(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/jobs/:id",
			Method:      http.MethodGet,
			Handler:     GetJob(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/jobs/:id/requeue",
			Method:      http.MethodPost,
			Handler:     RequeueJob(dispatcher),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func CronJobs(periodic *scheduler.PeriodicScheduler) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(periodic),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/:kind/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(periodic),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
