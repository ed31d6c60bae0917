package jobs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	shopifydomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/domain"
	"github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/usecases/ingesting"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

// handleShopifyWebhook aplica ao espelho o evento já validado pelo
// ingestor. Eventos repetidos são inofensivos: o upsert é idempotente e a
// última escrita vence.
func (r *Registry) handleShopifyWebhook(ctx context.Context, job *domain.SyncJob) error {
	var event ingesting.WebhookEvent
	if err := json.Unmarshal(job.Payload, &event); err != nil {
		return &syncErrors.UpstreamFormatError{Platform: "shopify", Err: err}
	}

	switch event.Topic {
	case "products/create", "products/update":
		var raw shopifydomain.Product
		if err := json.Unmarshal(event.Body, &raw); err != nil {
			return &syncErrors.UpstreamFormatError{Platform: "shopify", Err: err}
		}

		product := shopify.FactoryProduct(job.StoreID, &raw)
		if product == nil {
			return &syncErrors.UpstreamFormatError{
				Platform: "shopify",
				Err:      fmt.Errorf("payload de produto sem id no tópico %s", event.Topic),
			}
		}
		return r.reconciler.ApplyProduct(ctx, product)

	case "products/delete":
		var raw struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(event.Body, &raw); err != nil {
			return &syncErrors.UpstreamFormatError{Platform: "shopify", Err: err}
		}
		if raw.ID == 0 {
			return &syncErrors.UpstreamFormatError{
				Platform: "shopify",
				Err:      fmt.Errorf("payload de remoção sem id"),
			}
		}
		return r.reconciler.ApplyProductDeletion(ctx, job.StoreID, strconv.FormatInt(raw.ID, 10))

	case "orders/create", "orders/updated":
		var raw shopifydomain.Order
		if err := json.Unmarshal(event.Body, &raw); err != nil {
			return &syncErrors.UpstreamFormatError{Platform: "shopify", Err: err}
		}

		order := shopify.FactoryOrder(job.StoreID, &raw)
		if order == nil {
			return &syncErrors.UpstreamFormatError{
				Platform: "shopify",
				Err:      fmt.Errorf("payload de pedido sem id no tópico %s", event.Topic),
			}
		}
		return r.reconciler.ApplyOrder(ctx, order)

	case "inventory_levels/update":
		// O payload traz inventory_item_id, que o espelho não indexa. A
		// varredura do catálogo resolve o nível correto.
		_, err := r.reconciler.ReconcileProducts(ctx, job.StoreID)
		return err

	default:
		// O ingestor só enfileira tópicos conhecidos; chegar aqui indica
		// divergência entre as duas listas.
		return fmt.Errorf("tópico sem handler: %s", event.Topic)
	}
}

// handleMetaWebhook trata notificações de mudança da Graph API. O corpo não
// carrega o objeto completo, então a resposta é uma varredura de campanhas
// e anúncios da loja.
func (r *Registry) handleMetaWebhook(ctx context.Context, job *domain.SyncJob) error {
	var event ingesting.WebhookEvent
	if err := json.Unmarshal(job.Payload, &event); err != nil {
		return &syncErrors.UpstreamFormatError{Platform: "meta", Err: err}
	}

	logrus.WithField("store_id", job.StoreID).Debug("jobs: webhook do Meta disparou varredura de campanhas e anúncios")

	if _, err := r.reconciler.ReconcileCampaigns(ctx, job.StoreID); err != nil {
		return err
	}

	_, err := r.reconciler.ReconcileAds(ctx, job.StoreID)
	return err
}
