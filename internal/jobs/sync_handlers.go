package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/usecases/reconciling"
)

// handleInitialSetup faz a varredura completa da loja recém-conectada:
// catálogo e pedidos da Shopify, e campanhas e anúncios do Meta quando a
// conta já estiver vinculada.
func (r *Registry) handleInitialSetup(ctx context.Context, job *domain.SyncJob) error {
	steps := []func(context.Context, string) error{
		func(ctx context.Context, storeID string) error {
			_, err := r.reconciler.ReconcileProducts(ctx, storeID)
			return err
		},
		func(ctx context.Context, storeID string) error {
			_, err := r.reconciler.ReconcileOrders(ctx, storeID, nil)
			return err
		},
		func(ctx context.Context, storeID string) error {
			_, err := r.reconciler.ReconcileCampaigns(ctx, storeID)
			return err
		},
		func(ctx context.Context, storeID string) error {
			_, err := r.reconciler.ReconcileAds(ctx, storeID)
			return err
		},
	}

	for _, step := range steps {
		if err := step(ctx, job.StoreID); err != nil {
			// Meta ainda não conectado não invalida o setup da Shopify.
			if errors.Is(err, reconciling.ErrAccountNotConnected) {
				logrus.WithField("store_id", job.StoreID).
					Debug("jobs: plataforma sem conta no setup inicial, etapa pulada")
				continue
			}
			return err
		}
	}

	return nil
}

func (r *Registry) handleSyncProducts(ctx context.Context, job *domain.SyncJob) error {
	return r.forEachStore(ctx, job, func(storeID string) error {
		_, err := r.reconciler.ReconcileProducts(ctx, storeID)
		return err
	})
}

func (r *Registry) handleSyncOrders(ctx context.Context, job *domain.SyncJob) error {
	var payload SyncOrdersPayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
	}

	var since *time.Time
	if payload.SinceHours > 0 {
		cutoff := time.Now().Add(-time.Duration(payload.SinceHours) * time.Hour)
		since = &cutoff
	}

	return r.forEachStore(ctx, job, func(storeID string) error {
		_, err := r.reconciler.ReconcileOrders(ctx, storeID, since)
		return err
	})
}

func (r *Registry) handleSyncCampaigns(ctx context.Context, job *domain.SyncJob) error {
	return r.forEachStore(ctx, job, func(storeID string) error {
		_, err := r.reconciler.ReconcileCampaigns(ctx, storeID)
		return err
	})
}

func (r *Registry) handleSyncAds(ctx context.Context, job *domain.SyncJob) error {
	return r.forEachStore(ctx, job, func(storeID string) error {
		_, err := r.reconciler.ReconcileAds(ctx, storeID)
		return err
	})
}
