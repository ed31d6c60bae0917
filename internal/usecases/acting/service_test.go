package acting

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	repomocks "github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	actmocks "github.com/joshaeeee/klyq-backend/internal/usecases/acting/mocks"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
	gomock "go.uber.org/mock/gomock"
)

func activeMetaAccount(storeID string) *domain.ConnectedAccount {
	return &domain.ConnectedAccount{
		ID:          "acc-meta",
		StoreID:     storeID,
		Platform:    domain.PlatformMeta,
		ExternalID:  "act_123",
		AccessToken: "token-meta",
		Status:      domain.AccountStatusActive,
	}
}

func activeShopifyAccount(storeID string) *domain.ConnectedAccount {
	return &domain.ConnectedAccount{
		ID:          "acc-shopify",
		StoreID:     storeID,
		Platform:    domain.PlatformShopify,
		ExternalID:  "minha-loja.myshopify.com",
		AccessToken: "token-shopify",
		Status:      domain.AccountStatusActive,
	}
}

func TestService_PauseAd(t *testing.T) {
	storeID := "store-1"

	tests := []struct {
		name     string
		setup    func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter)
		validate func(t *testing.T, err error)
	}{
		{
			name: "Pausa na plataforma e espelha o novo status",
			setup: func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter) {
				accounts.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
					Return(activeMetaAccount(storeID), nil)
				ads.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "ad-1").
					Return(&domain.Ad{StoreID: storeID, ExternalID: "ad-1", Status: "ACTIVE"}, nil)
				meta.EXPECT().
					PauseAd(gomock.Any(), gomock.Any(), "ad-1").
					Return(nil)
				ads.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ad *domain.Ad) (bool, error) {
						assert.Equal(t, "PAUSED", ad.Status)
						return false, nil
					})
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Anúncio fora do espelho é rejeitado",
			setup: func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter) {
				accounts.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
					Return(activeMetaAccount(storeID), nil)
				ads.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "ad-1").
					Return(nil, nil)
			},
			validate: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAdNotFound)
			},
		},
		{
			name: "Loja sem conta Meta é rejeitada",
			setup: func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter) {
				accounts.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
					Return(nil, nil)
			},
			validate: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAccountNotConnected)
			},
		},
		{
			name: "Credencial revogada marca a conta para reautorização",
			setup: func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter) {
				account := activeMetaAccount(storeID)
				accounts.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
					Return(account, nil)
				ads.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "ad-1").
					Return(&domain.Ad{StoreID: storeID, ExternalID: "ad-1"}, nil)
				meta.EXPECT().
					PauseAd(gomock.Any(), gomock.Any(), "ad-1").
					Return(&syncErrors.CredentialInvalidError{Platform: "meta", AccountID: account.ID})
				accounts.EXPECT().
					MarkNeedsReauth(gomock.Any(), account.ID).
					Return(nil)
			},
			validate: func(t *testing.T, err error) {
				assert.True(t, syncErrors.IsCredentialInvalid(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accounts := repomocks.NewMockAccountRepository(ctrl)
			products := repomocks.NewMockProductRepository(ctrl)
			ads := repomocks.NewMockAdRepository(ctrl)
			shopify := actmocks.NewMockShopifyWriter(ctrl)
			meta := actmocks.NewMockMetaWriter(ctrl)
			tt.setup(accounts, ads, meta)

			service := NewService(accounts, products, ads, shopify, meta)
			err := service.PauseAd(context.Background(), storeID, "ad-1")
			tt.validate(t, err)
		})
	}
}

func TestService_CreateBundle(t *testing.T) {
	storeID := "store-1"

	t.Run("Bundle criado na plataforma é espelhado na hora", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		accounts := repomocks.NewMockAccountRepository(ctrl)
		accounts.EXPECT().
			GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
			Return(activeShopifyAccount(storeID), nil)

		bundle := &domain.Product{
			StoreID:    storeID,
			ExternalID: "p-bundle",
			Title:      "Kit Verão",
			Status:     "draft",
		}

		shopify := actmocks.NewMockShopifyWriter(ctrl)
		shopify.EXPECT().
			CreateBundle(gomock.Any(), gomock.Any(), "Kit Verão", "149.90").
			Return(bundle, nil)

		products := repomocks.NewMockProductRepository(ctrl)
		products.EXPECT().
			Upsert(gomock.Any(), bundle).
			Return(true, nil)

		service := NewService(accounts, products, repomocks.NewMockAdRepository(ctrl), shopify, actmocks.NewMockMetaWriter(ctrl))
		created, err := service.CreateBundle(context.Background(), storeID, "Kit Verão", "149.90")

		assert.NoError(t, err)
		assert.Equal(t, "p-bundle", created.ExternalID)
	})

	t.Run("Título e preço são obrigatórios", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(
			repomocks.NewMockAccountRepository(ctrl),
			repomocks.NewMockProductRepository(ctrl),
			repomocks.NewMockAdRepository(ctrl),
			actmocks.NewMockShopifyWriter(ctrl),
			actmocks.NewMockMetaWriter(ctrl),
		)

		_, err := service.CreateBundle(context.Background(), storeID, "", "149.90")
		assert.Error(t, err)

		_, err = service.CreateBundle(context.Background(), storeID, "Kit Verão", "")
		assert.Error(t, err)
	})
}

func TestService_UpdatePrice(t *testing.T) {
	storeID := "store-1"

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := repomocks.NewMockAccountRepository(ctrl)
	accounts.EXPECT().
		GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformShopify).
		Return(activeShopifyAccount(storeID), nil)

	shopify := actmocks.NewMockShopifyWriter(ctrl)
	shopify.EXPECT().
		UpdatePrice(gomock.Any(), gomock.Any(), int64(777), "53.91").
		Return(nil)

	service := NewService(accounts, repomocks.NewMockProductRepository(ctrl), repomocks.NewMockAdRepository(ctrl), shopify, actmocks.NewMockMetaWriter(ctrl))
	err := service.UpdatePrice(context.Background(), storeID, 777, "53.91")

	assert.NoError(t, err)
}

func TestService_AdInsights(t *testing.T) {
	storeID := "store-1"

	tests := []struct {
		name     string
		setup    func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter)
		validate func(t *testing.T, insights []*domain.AdInsight, err error)
	}{
		{
			name: "Desempenho ao vivo vem direto da plataforma",
			setup: func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter) {
				accounts.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
					Return(activeMetaAccount(storeID), nil)
				ads.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "ad-1").
					Return(&domain.Ad{StoreID: storeID, ExternalID: "ad-1"}, nil)
				meta.EXPECT().
					FetchAdInsights(gomock.Any(), gomock.Any(), "ad-1").
					Return([]*domain.AdInsight{
						{
							AdExternalID: "ad-1",
							Impressions:  10000,
							Clicks:       80,
							Spend:        decimal.RequireFromString("120.50"),
							CTR:          0.008,
						},
					}, nil)
			},
			validate: func(t *testing.T, insights []*domain.AdInsight, err error) {
				assert.NoError(t, err)
				assert.Len(t, insights, 1)
				assert.Equal(t, int64(10000), insights[0].Impressions)
				assert.InDelta(t, 0.008, insights[0].CTR, 0.0001)
			},
		},
		{
			name: "Anúncio fora do espelho não consulta a plataforma",
			setup: func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter) {
				accounts.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
					Return(activeMetaAccount(storeID), nil)
				ads.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "ad-1").
					Return(nil, nil)
			},
			validate: func(t *testing.T, insights []*domain.AdInsight, err error) {
				assert.ErrorIs(t, err, ErrAdNotFound)
				assert.Nil(t, insights)
			},
		},
		{
			name: "Falha transitória da Graph API sobe sem marcar a conta",
			setup: func(accounts *repomocks.MockAccountRepository, ads *repomocks.MockAdRepository, meta *actmocks.MockMetaWriter) {
				accounts.EXPECT().
					GetByStoreAndPlatform(gomock.Any(), storeID, domain.PlatformMeta).
					Return(activeMetaAccount(storeID), nil)
				ads.EXPECT().
					GetByExternalID(gomock.Any(), storeID, "ad-1").
					Return(&domain.Ad{StoreID: storeID, ExternalID: "ad-1"}, nil)
				meta.EXPECT().
					FetchAdInsights(gomock.Any(), gomock.Any(), "ad-1").
					Return(nil, fmt.Errorf("graph fora do ar"))
			},
			validate: func(t *testing.T, insights []*domain.AdInsight, err error) {
				assert.ErrorContains(t, err, "graph fora do ar")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accounts := repomocks.NewMockAccountRepository(ctrl)
			ads := repomocks.NewMockAdRepository(ctrl)
			meta := actmocks.NewMockMetaWriter(ctrl)
			tt.setup(accounts, ads, meta)

			service := NewService(accounts, repomocks.NewMockProductRepository(ctrl), ads, actmocks.NewMockShopifyWriter(ctrl), meta)
			insights, err := service.AdInsights(context.Background(), storeID, "ad-1")
			tt.validate(t, insights, err)
		})
	}
}
