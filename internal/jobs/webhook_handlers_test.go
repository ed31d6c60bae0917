package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/usecases/ingesting"
	reconcilermocks "github.com/joshaeeee/klyq-backend/internal/jobs/mocks"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
	gomock "go.uber.org/mock/gomock"
)

func newWebhookJob(t *testing.T, platform, topic, body string) *domain.SyncJob {
	t.Helper()

	payload, err := json.Marshal(ingesting.WebhookEvent{
		Platform: platform,
		Topic:    topic,
		Body:     []byte(body),
	})
	assert.NoError(t, err)

	return &domain.SyncJob{
		ID:      "job-1",
		StoreID: "store-1",
		Kind:    domain.JobKindProcessShopifyWebhook,
		Payload: payload,
	}
}

func TestRegistry_HandleShopifyWebhook(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		body     string
		setup    func(reconciler *reconcilermocks.MockReconciler)
		validate func(t *testing.T, err error)
	}{
		{
			name:  "Produto criado é aplicado ao espelho",
			topic: "products/create",
			body:  `{"id":88,"title":"Camiseta Básica","product_type":"camisetas","status":"active","variants":[{"id":1,"price":"59.90","sku":"CB-01","inventory_quantity":12}]}`,
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				reconciler.EXPECT().
					ApplyProduct(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, product *domain.Product) error {
						assert.Equal(t, "store-1", product.StoreID)
						assert.Equal(t, "88", product.ExternalID)
						assert.Equal(t, "Camiseta Básica", product.Title)
						assert.Equal(t, 12, product.InventoryQuantity)
						assert.Equal(t, "59.9", product.Price.String())
						return nil
					})
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Produto sem id no corpo vira erro de formato",
			topic: "products/update",
			body:  `{"title":"sem id"}`,
			setup: func(reconciler *reconcilermocks.MockReconciler) {},
			validate: func(t *testing.T, err error) {
				var formatErr *syncErrors.UpstreamFormatError
				assert.ErrorAs(t, err, &formatErr)
				assert.Equal(t, "shopify", formatErr.Platform)
			},
		},
		{
			name:  "Remoção de produto marca o espelho como deleted",
			topic: "products/delete",
			body:  `{"id":88}`,
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				reconciler.EXPECT().
					ApplyProductDeletion(gomock.Any(), "store-1", "88").
					Return(nil)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Remoção sem id vira erro de formato",
			topic: "products/delete",
			body:  `{}`,
			setup: func(reconciler *reconcilermocks.MockReconciler) {},
			validate: func(t *testing.T, err error) {
				var formatErr *syncErrors.UpstreamFormatError
				assert.ErrorAs(t, err, &formatErr)
			},
		},
		{
			name:  "Pedido atualizado é aplicado ao espelho",
			topic: "orders/updated",
			body:  `{"id":900,"order_number":1001,"email":"cliente@loja.com","total_price":"199.90","currency":"BRL","processed_at":"2026-08-20T10:00:00-03:00"}`,
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				reconciler.EXPECT().
					ApplyOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order) error {
						assert.Equal(t, "900", order.ExternalID)
						assert.Equal(t, "1001", order.OrderNumber)
						assert.NotNil(t, order.ProcessedAt)
						return nil
					})
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Atualização de estoque dispara varredura do catálogo",
			topic: "inventory_levels/update",
			body:  `{"inventory_item_id":42,"available":3}`,
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				reconciler.EXPECT().
					ReconcileProducts(gomock.Any(), "store-1").
					Return(nil, nil)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Tópico desconhecido é rejeitado",
			topic: "fulfillments/create",
			body:  `{}`,
			setup: func(reconciler *reconcilermocks.MockReconciler) {},
			validate: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "tópico sem handler")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reconciler := reconcilermocks.NewMockReconciler(ctrl)
			tt.setup(reconciler)

			registry := &Registry{reconciler: reconciler}
			err := registry.handleShopifyWebhook(context.Background(), newWebhookJob(t, "shopify", tt.topic, tt.body))
			tt.validate(t, err)
		})
	}
}

func TestRegistry_HandleShopifyWebhook_PayloadCorrompido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := &Registry{reconciler: reconcilermocks.NewMockReconciler(ctrl)}
	err := registry.handleShopifyWebhook(context.Background(), &domain.SyncJob{
		StoreID: "store-1",
		Payload: []byte("{corrompido"),
	})

	var formatErr *syncErrors.UpstreamFormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "shopify", formatErr.Platform)
}

func TestRegistry_HandleMetaWebhook(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(reconciler *reconcilermocks.MockReconciler)
		validate func(t *testing.T, err error)
	}{
		{
			name: "Notificação varre campanhas e depois anúncios",
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				gomock.InOrder(
					reconciler.EXPECT().
						ReconcileCampaigns(gomock.Any(), "store-1").
						Return(nil, nil),
					reconciler.EXPECT().
						ReconcileAds(gomock.Any(), "store-1").
						Return(nil, nil),
				)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Falha nas campanhas interrompe antes dos anúncios",
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				reconciler.EXPECT().
					ReconcileCampaigns(gomock.Any(), "store-1").
					Return(nil, fmt.Errorf("graph fora do ar"))
			},
			validate: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "graph fora do ar")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reconciler := reconcilermocks.NewMockReconciler(ctrl)
			tt.setup(reconciler)

			registry := &Registry{reconciler: reconciler}
			job := newWebhookJob(t, "meta", "ad_account", `{"entry":[]}`)
			job.Kind = domain.JobKindProcessMetaWebhook

			err := registry.handleMetaWebhook(context.Background(), job)
			tt.validate(t, err)
		})
	}
}

func TestRegistry_HandleMetaWebhook_PayloadCorrompido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := &Registry{reconciler: reconcilermocks.NewMockReconciler(ctrl)}
	err := registry.handleMetaWebhook(context.Background(), &domain.SyncJob{
		StoreID: "store-1",
		Payload: []byte("nem json"),
	})

	var formatErr *syncErrors.UpstreamFormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "meta", formatErr.Platform)
}
