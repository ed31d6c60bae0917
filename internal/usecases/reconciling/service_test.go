package reconciling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	repomocks "github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	sourcemocks "github.com/joshaeeee/klyq-backend/internal/usecases/reconciling/mocks"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

func activeShopifyAccount(storeID string) *domain.ConnectedAccount {
	return &domain.ConnectedAccount{
		ID:          "acc-1",
		StoreID:     storeID,
		Platform:    domain.PlatformShopify,
		ExternalID:  "loja.myshopify.com",
		AccessToken: "shpat_xxx",
		Status:      domain.AccountStatusActive,
	}
}

func activeMetaAccount(storeID string) *domain.ConnectedAccount {
	return &domain.ConnectedAccount{
		ID:         "acc-2",
		StoreID:    storeID,
		Platform:   domain.PlatformMeta,
		ExternalID: "act_123",
		Status:     domain.AccountStatusActive,
	}
}

func TestService_ReconcileProducts(t *testing.T) {
	storeID := "store-1"

	tests := []struct {
		name     string
		setup    func(account *repomocks.MockAccountRepository, products *repomocks.MockProductRepository, shopify *sourcemocks.MockShopifySource)
		validate func(t *testing.T, summary *Summary, err error)
	}{
		{
			name: "Primeira passada cria todos os produtos",
			setup: func(account *repomocks.MockAccountRepository, products *repomocks.MockProductRepository, shopify *sourcemocks.MockShopifySource) {
				account.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
					Return(activeShopifyAccount(storeID), nil)
				shopify.EXPECT().
					FetchProducts(gomock.Any(), gomock.Any()).
					Return([]*domain.Product{
						{StoreID: storeID, ExternalID: "p-1", Title: "Camiseta", Price: decimal.NewFromInt(59)},
						{StoreID: storeID, ExternalID: "p-2", Title: "Caneca", Price: decimal.NewFromInt(29)},
					}, nil)
				products.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
			},
			validate: func(t *testing.T, summary *Summary, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 2, summary.Created)
				assert.Equal(t, 0, summary.Updated)
				assert.Equal(t, 0, summary.Failed)
			},
		},
		{
			name: "Segunda passada com os mesmos produtos só atualiza",
			setup: func(account *repomocks.MockAccountRepository, products *repomocks.MockProductRepository, shopify *sourcemocks.MockShopifySource) {
				account.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
					Return(activeShopifyAccount(storeID), nil)
				shopify.EXPECT().
					FetchProducts(gomock.Any(), gomock.Any()).
					Return([]*domain.Product{
						{StoreID: storeID, ExternalID: "p-1"},
						{StoreID: storeID, ExternalID: "p-2"},
					}, nil)
				products.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
			},
			validate: func(t *testing.T, summary *Summary, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 0, summary.Created)
				assert.Equal(t, 2, summary.Updated)
				assert.Equal(t, 0, summary.Failed)
			},
		},
		{
			name: "Falha parcial não interrompe a passada",
			setup: func(account *repomocks.MockAccountRepository, products *repomocks.MockProductRepository, shopify *sourcemocks.MockShopifySource) {
				account.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
					Return(activeShopifyAccount(storeID), nil)
				shopify.EXPECT().
					FetchProducts(gomock.Any(), gomock.Any()).
					Return([]*domain.Product{
						{StoreID: storeID, ExternalID: "p-1"},
						{StoreID: storeID, ExternalID: "p-2"},
						{StoreID: storeID, ExternalID: "p-3"},
					}, nil)
				gomock.InOrder(
					products.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(true, nil),
					products.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(false, errors.New("deadlock detected")),
					products.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(false, nil),
				)
			},
			validate: func(t *testing.T, summary *Summary, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 1, summary.Created)
				assert.Equal(t, 1, summary.Updated)
				assert.Equal(t, 1, summary.Failed)
			},
		},
		{
			name: "Loja sem conta conectada retorna ErrAccountNotConnected",
			setup: func(account *repomocks.MockAccountRepository, products *repomocks.MockProductRepository, shopify *sourcemocks.MockShopifySource) {
				account.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
					Return(nil, nil)
			},
			validate: func(t *testing.T, summary *Summary, err error) {
				assert.Nil(t, summary)
				assert.ErrorIs(t, err, ErrAccountNotConnected)
			},
		},
		{
			name: "Conta aguardando reautorização retorna erro de credencial",
			setup: func(account *repomocks.MockAccountRepository, products *repomocks.MockProductRepository, shopify *sourcemocks.MockShopifySource) {
				pending := activeShopifyAccount(storeID)
				pending.Status = domain.AccountStatusNeedsReauth
				account.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
					Return(pending, nil)
			},
			validate: func(t *testing.T, summary *Summary, err error) {
				assert.Nil(t, summary)
				assert.True(t, syncErrors.IsCredentialInvalid(err))
			},
		},
		{
			name: "Credencial revogada no fetch marca conta para reautorização",
			setup: func(account *repomocks.MockAccountRepository, products *repomocks.MockProductRepository, shopify *sourcemocks.MockShopifySource) {
				acc := activeShopifyAccount(storeID)
				account.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
					Return(acc, nil)
				shopify.EXPECT().
					FetchProducts(gomock.Any(), gomock.Any()).
					Return(nil, &syncErrors.CredentialInvalidError{
						Platform:  "shopify",
						AccountID: acc.ID,
						Err:       errors.New("401 unauthorized"),
					})
				account.EXPECT().MarkNeedsReauth(gomock.Any(), acc.ID).Return(nil)
			},
			validate: func(t *testing.T, summary *Summary, err error) {
				assert.Nil(t, summary)
				assert.True(t, syncErrors.IsCredentialInvalid(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountRepo := repomocks.NewMockAccountRepository(ctrl)
			productRepo := repomocks.NewMockProductRepository(ctrl)
			orderRepo := repomocks.NewMockOrderRepository(ctrl)
			campaignRepo := repomocks.NewMockCampaignRepository(ctrl)
			adRepo := repomocks.NewMockAdRepository(ctrl)
			shopify := sourcemocks.NewMockShopifySource(ctrl)
			meta := sourcemocks.NewMockMetaSource(ctrl)

			tt.setup(accountRepo, productRepo, shopify)

			service := NewService(accountRepo, productRepo, orderRepo, campaignRepo, adRepo, shopify, meta)
			summary, err := service.ReconcileProducts(context.Background(), storeID)
			tt.validate(t, summary, err)
		})
	}
}

func TestService_ReconcileOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeID := "store-1"
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	accountRepo := repomocks.NewMockAccountRepository(ctrl)
	orderRepo := repomocks.NewMockOrderRepository(ctrl)
	shopify := sourcemocks.NewMockShopifySource(ctrl)

	accountRepo.EXPECT().
		GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
		Return(activeShopifyAccount(storeID), nil)
	shopify.EXPECT().
		FetchOrders(gomock.Any(), gomock.Any(), &since).
		Return([]*domain.Order{
			{StoreID: storeID, ExternalID: "o-1", TotalPrice: decimal.NewFromInt(150)},
			{StoreID: storeID, ExternalID: "o-2", TotalPrice: decimal.NewFromInt(80)},
		}, nil)
	gomock.InOrder(
		orderRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(true, nil),
		orderRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(false, nil),
	)

	service := NewService(accountRepo, nil, orderRepo, nil, nil, shopify, nil)
	summary, err := service.ReconcileOrders(context.Background(), storeID, &since)

	assert.NoError(t, err)
	assert.Equal(t, "orders", summary.Entity)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
}

func TestService_ReconcileCampaignsAndAds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeID := "store-1"

	accountRepo := repomocks.NewMockAccountRepository(ctrl)
	campaignRepo := repomocks.NewMockCampaignRepository(ctrl)
	adRepo := repomocks.NewMockAdRepository(ctrl)
	meta := sourcemocks.NewMockMetaSource(ctrl)

	accountRepo.EXPECT().
		GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
		Return(activeMetaAccount(storeID), nil).
		Times(2)
	meta.EXPECT().
		FetchCampaigns(gomock.Any(), gomock.Any()).
		Return([]*domain.Campaign{{StoreID: storeID, ExternalID: "c-1"}}, nil)
	meta.EXPECT().
		FetchAds(gomock.Any(), gomock.Any()).
		Return([]*domain.Ad{{StoreID: storeID, ExternalID: "a-1", CampaignExternalID: "c-1"}}, nil)
	campaignRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(true, nil)
	adRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(true, nil)

	service := NewService(accountRepo, nil, nil, campaignRepo, adRepo, nil, meta)

	campaigns, err := service.ReconcileCampaigns(context.Background(), storeID)
	assert.NoError(t, err)
	assert.Equal(t, 1, campaigns.Created)

	ads, err := service.ReconcileAds(context.Background(), storeID)
	assert.NoError(t, err)
	assert.Equal(t, 1, ads.Created)
}

func TestService_ApplyProductDeletion(t *testing.T) {
	storeID := "store-1"

	tests := []struct {
		name  string
		setup func(products *repomocks.MockProductRepository)
	}{
		{
			name: "Produto espelhado é marcado como deleted",
			setup: func(products *repomocks.MockProductRepository) {
				products.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "p-1").
					Return(&domain.Product{StoreID: storeID, ExternalID: "p-1", Status: "active"}, nil)
				products.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, product *domain.Product) (bool, error) {
						assert.Equal(t, "deleted", product.Status)
						return false, nil
					})
			},
		},
		{
			name: "Produto nunca espelhado é ignorado",
			setup: func(products *repomocks.MockProductRepository) {
				products.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "p-1").
					Return(nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			productRepo := repomocks.NewMockProductRepository(ctrl)
			tt.setup(productRepo)

			service := NewService(nil, productRepo, nil, nil, nil, nil, nil)
			err := service.ApplyProductDeletion(context.Background(), storeID, "p-1")
			assert.NoError(t, err)
		})
	}
}

func TestService_ApplyRejectsRecordsWithoutExternalID(t *testing.T) {
	service := NewService(nil, nil, nil, nil, nil, nil, nil)
	ctx := context.Background()

	assert.Error(t, service.ApplyProduct(ctx, &domain.Product{}))
	assert.Error(t, service.ApplyOrder(ctx, nil))
	assert.Error(t, service.ApplyCampaign(ctx, &domain.Campaign{}))
	assert.Error(t, service.ApplyAd(ctx, nil))
}
