package jobs

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
	"github.com/joshaeeee/klyq-backend/internal/usecases/attributing"
	"github.com/joshaeeee/klyq-backend/internal/usecases/reconciling"
	"github.com/joshaeeee/klyq-backend/internal/usecases/reporting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/suggesting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/trending"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Registry liga cada kind de job à sua fila e handler. O registro completo
// acontece uma única vez, na subida do processo.
type Registry struct {
	cfg        *config.Config
	reconciler reconciling.Reconciler
	suggester  suggesting.Suggester
	attributor attributing.Attributor
	trender    trending.Trender
	reporter   reporting.Reporter
	storeRepo  repository.StoreRepository
	orderRepo  repository.OrderRepository
	trendRepo  repository.TrendRepository
}

func NewRegistry(
	cfg *config.Config,
	reconciler reconciling.Reconciler,
	suggester suggesting.Suggester,
	attributor attributing.Attributor,
	trender trending.Trender,
	reporter reporting.Reporter,
	storeRepo repository.StoreRepository,
	orderRepo repository.OrderRepository,
	trendRepo repository.TrendRepository,
) *Registry {
	return &Registry{
		cfg:        cfg,
		reconciler: reconciler,
		suggester:  suggester,
		attributor: attributor,
		trender:    trender,
		reporter:   reporter,
		storeRepo:  storeRepo,
		orderRepo:  orderRepo,
		trendRepo:  trendRepo,
	}
}

// RegisterAll associa todos os kinds conhecidos às suas filas.
func (r *Registry) RegisterAll(dispatcher *taskqueue.Dispatcher) {
	dispatcher.Register(domain.JobKindInitialSetup, taskqueue.QueueSetup, r.handleInitialSetup)

	dispatcher.Register(domain.JobKindSyncProducts, taskqueue.QueueSync, r.handleSyncProducts)
	dispatcher.Register(domain.JobKindSyncOrders, taskqueue.QueueSync, r.handleSyncOrders)
	dispatcher.Register(domain.JobKindSyncCampaigns, taskqueue.QueueSync, r.handleSyncCampaigns)
	dispatcher.Register(domain.JobKindSyncAds, taskqueue.QueueSync, r.handleSyncAds)

	dispatcher.Register(domain.JobKindProcessShopifyWebhook, taskqueue.QueueWebhooks, r.handleShopifyWebhook)
	dispatcher.Register(domain.JobKindProcessMetaWebhook, taskqueue.QueueWebhooks, r.handleMetaWebhook)

	dispatcher.Register(domain.JobKindDetectTrends, taskqueue.QueueTrends, r.handleDetectTrends)
	dispatcher.Register(domain.JobKindRunDiagnostics, taskqueue.QueueAnalysis, r.handleRunDiagnostics)
	dispatcher.Register(domain.JobKindTrainAIModels, taskqueue.QueueAI, r.handleTrainAIModels)
	dispatcher.Register(domain.JobKindCleanupOldData, taskqueue.QueueMaintenance, r.handleCleanupOldData)
}

// forEachStore resolve o alvo do job: store_id preenchido roda para uma
// loja; vazio roda para todas.
func (r *Registry) forEachStore(ctx context.Context, job *domain.SyncJob, fn func(storeID string) error) error {
	if job.StoreID != "" {
		return fn(job.StoreID)
	}

	stores, err := r.storeRepo.List(ctx)
	if err != nil {
		return err
	}

	var lastErr error
	for _, store := range stores {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(store.ID); err != nil {
			lastErr = err
			logrus.WithFields(logrus.Fields{
				"job_id":   job.ID,
				"kind":     job.Kind,
				"store_id": store.ID,
			}).WithError(err).Error("jobs: falha para a loja, seguindo para a próxima")
		}
	}

	return lastErr
}
