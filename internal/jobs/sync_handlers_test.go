package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	repomocks "github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/usecases/reconciling"
	reconcilermocks "github.com/joshaeeee/klyq-backend/internal/jobs/mocks"
	gomock "go.uber.org/mock/gomock"
)

func TestRegistry_HandleInitialSetup(t *testing.T) {
	storeID := "store-1"

	tests := []struct {
		name     string
		setup    func(reconciler *reconcilermocks.MockReconciler)
		validate func(t *testing.T, err error)
	}{
		{
			name: "Setup completo varre catálogo, pedidos, campanhas e anúncios",
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				gomock.InOrder(
					reconciler.EXPECT().ReconcileProducts(gomock.Any(), storeID).Return(&reconciling.Summary{Entity: "products"}, nil),
					reconciler.EXPECT().ReconcileOrders(gomock.Any(), storeID, gomock.Nil()).Return(&reconciling.Summary{Entity: "orders"}, nil),
					reconciler.EXPECT().ReconcileCampaigns(gomock.Any(), storeID).Return(&reconciling.Summary{Entity: "campaigns"}, nil),
					reconciler.EXPECT().ReconcileAds(gomock.Any(), storeID).Return(&reconciling.Summary{Entity: "ads"}, nil),
				)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Meta sem conta conectada não invalida o setup da Shopify",
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				notConnected := fmt.Errorf("%w: loja %s, plataforma meta", reconciling.ErrAccountNotConnected, storeID)
				gomock.InOrder(
					reconciler.EXPECT().ReconcileProducts(gomock.Any(), storeID).Return(&reconciling.Summary{}, nil),
					reconciler.EXPECT().ReconcileOrders(gomock.Any(), storeID, gomock.Nil()).Return(&reconciling.Summary{}, nil),
					reconciler.EXPECT().ReconcileCampaigns(gomock.Any(), storeID).Return(nil, notConnected),
					reconciler.EXPECT().ReconcileAds(gomock.Any(), storeID).Return(nil, notConnected),
				)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Falha dura nos pedidos interrompe o setup",
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				gomock.InOrder(
					reconciler.EXPECT().ReconcileProducts(gomock.Any(), storeID).Return(&reconciling.Summary{}, nil),
					reconciler.EXPECT().ReconcileOrders(gomock.Any(), storeID, gomock.Nil()).Return(nil, fmt.Errorf("api fora do ar")),
				)
			},
			validate: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "api fora do ar")
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
			err := registry.handleInitialSetup(context.Background(), &domain.SyncJob{
				StoreID: storeID,
				Kind:    domain.JobKindInitialSetup,
			})
			tt.validate(t, err)
		})
	}
}

func TestRegistry_HandleSyncProducts_TodasAsLojas(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeRepo := repomocks.NewMockStoreRepository(ctrl)
	storeRepo.EXPECT().
		List(gomock.Any()).
		Return([]*domain.Store{{ID: "store-1"}, {ID: "store-2"}}, nil)

	reconciler := reconcilermocks.NewMockReconciler(ctrl)
	reconciler.EXPECT().
		ReconcileProducts(gomock.Any(), "store-1").
		Return(nil, fmt.Errorf("credencial recusada"))
	reconciler.EXPECT().
		ReconcileProducts(gomock.Any(), "store-2").
		Return(&reconciling.Summary{Entity: "products"}, nil)

	registry := &Registry{reconciler: reconciler, storeRepo: storeRepo}
	err := registry.handleSyncProducts(context.Background(), &domain.SyncJob{
		Kind: domain.JobKindSyncProducts,
	})

	// A falha de uma loja não impede as demais, mas sobe para o retry.
	assert.ErrorContains(t, err, "credencial recusada")
}

func TestRegistry_HandleSyncProducts_LojaUnica(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reconciler := reconcilermocks.NewMockReconciler(ctrl)
	reconciler.EXPECT().
		ReconcileProducts(gomock.Any(), "store-1").
		Return(&reconciling.Summary{Entity: "products"}, nil)

	registry := &Registry{reconciler: reconciler}
	err := registry.handleSyncProducts(context.Background(), &domain.SyncJob{
		StoreID: "store-1",
		Kind:    domain.JobKindSyncProducts,
	})

	assert.NoError(t, err)
}

func TestRegistry_HandleSyncOrders(t *testing.T) {
	storeID := "store-1"

	tests := []struct {
		name    string
		payload []byte
		setup   func(reconciler *reconcilermocks.MockReconciler)
	}{
		{
			name:    "Janela de horas limita a varredura",
			payload: []byte(`{"since_hours":24}`),
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				reconciler.EXPECT().
					ReconcileOrders(gomock.Any(), storeID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, since *time.Time) (*reconciling.Summary, error) {
						assert.NotNil(t, since)
						assert.WithinDuration(t, time.Now().Add(-24*time.Hour), *since, time.Minute)
						return &reconciling.Summary{Entity: "orders"}, nil
					})
			},
		},
		{
			name:    "Sem payload a varredura é completa",
			payload: nil,
			setup: func(reconciler *reconcilermocks.MockReconciler) {
				reconciler.EXPECT().
					ReconcileOrders(gomock.Any(), storeID, gomock.Nil()).
					Return(&reconciling.Summary{Entity: "orders"}, nil)
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
			err := registry.handleSyncOrders(context.Background(), &domain.SyncJob{
				StoreID: storeID,
				Kind:    domain.JobKindSyncOrders,
				Payload: tt.payload,
			})

			assert.NoError(t, err)
		})
	}
}

func TestRegistry_HandleSyncCampaignsEAds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reconciler := reconcilermocks.NewMockReconciler(ctrl)
	reconciler.EXPECT().
		ReconcileCampaigns(gomock.Any(), "store-1").
		Return(&reconciling.Summary{Entity: "campaigns"}, nil)
	reconciler.EXPECT().
		ReconcileAds(gomock.Any(), "store-1").
		Return(&reconciling.Summary{Entity: "ads"}, nil)

	registry := &Registry{reconciler: reconciler}
	job := &domain.SyncJob{StoreID: "store-1"}

	assert.NoError(t, registry.handleSyncCampaigns(context.Background(), job))
	assert.NoError(t, registry.handleSyncAds(context.Background(), job))
}
