package account

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	repomocks "github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	gomock "go.uber.org/mock/gomock"
)

// stubExchanger evita o integrador real na troca do código OAuth.
type stubExchanger struct {
	token  string
	scopes string
	err    error
}

func (s *stubExchanger) ExchangeToken(_ context.Context, _, _ string) (string, string, error) {
	return s.token, s.scopes, s.err
}

// stubEnqueuer captura o enfileiramento sem subir o despachador real.
type stubEnqueuer struct {
	kinds    []string
	storeIDs []string
	err      error
}

func (s *stubEnqueuer) Enqueue(_ context.Context, kind, storeID string, _ any) (*domain.SyncJob, error) {
	s.kinds = append(s.kinds, kind)
	s.storeIDs = append(s.storeIDs, storeID)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SyncJob{ID: "job-1", StoreID: storeID, Kind: kind}, nil
}

func TestService_HandleShopifyCallback(t *testing.T) {
	shopURL := "minha-loja.myshopify.com"

	tests := []struct {
		name     string
		shopURL  string
		code     string
		setup    func(stores *repomocks.MockStoreRepository, accounts *repomocks.MockAccountRepository)
		validate func(t *testing.T, enq *stubEnqueuer, store *domain.Store, err error)
	}{
		{
			name:    "Primeira conexão cria a loja e dispara o setup inicial",
			shopURL: shopURL,
			code:    "code-123",
			setup: func(stores *repomocks.MockStoreRepository, accounts *repomocks.MockAccountRepository) {
				stores.EXPECT().
					GetByShopURL(gomock.Any(), shopURL).
					Return(nil, nil)
				stores.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, store *domain.Store) (*domain.Store, error) {
						assert.Equal(t, shopURL, store.ShopURL)
						created := *store
						created.ID = "store-1"
						return &created, nil
					})
				accounts.EXPECT().
					SaveOrUpdate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, account *domain.ConnectedAccount) error {
						assert.Equal(t, "store-1", account.StoreID)
						assert.Equal(t, domain.PlatformShopify, account.Platform)
						assert.Equal(t, "token-permanente", account.AccessToken)
						assert.Equal(t, domain.AccountStatusActive, account.Status)
						return nil
					})
			},
			validate: func(t *testing.T, enq *stubEnqueuer, store *domain.Store, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "store-1", store.ID)
				assert.Equal(t, []string{domain.JobKindInitialSetup}, enq.kinds)
				assert.Equal(t, []string{"store-1"}, enq.storeIDs)
			},
		},
		{
			name:    "Reconexão rotaciona o token sem recriar a loja nem reenfileirar",
			shopURL: shopURL,
			code:    "code-456",
			setup: func(stores *repomocks.MockStoreRepository, accounts *repomocks.MockAccountRepository) {
				stores.EXPECT().
					GetByShopURL(gomock.Any(), shopURL).
					Return(&domain.Store{ID: "store-1", ShopURL: shopURL, Name: "Minha Loja"}, nil)
				accounts.EXPECT().
					SaveOrUpdate(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, enq *stubEnqueuer, store *domain.Store, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "store-1", store.ID)
				assert.Empty(t, enq.kinds)
			},
		},
		{
			name:    "Falha ao criar a loja interrompe o callback",
			shopURL: shopURL,
			code:    "code-789",
			setup: func(stores *repomocks.MockStoreRepository, accounts *repomocks.MockAccountRepository) {
				stores.EXPECT().
					GetByShopURL(gomock.Any(), shopURL).
					Return(nil, nil)
				stores.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("banco indisponível"))
			},
			validate: func(t *testing.T, enq *stubEnqueuer, store *domain.Store, err error) {
				assert.ErrorContains(t, err, "banco indisponível")
				assert.Nil(t, store)
				assert.Empty(t, enq.kinds)
			},
		},
		{
			name:    "Callback sem code é rejeitado",
			shopURL: shopURL,
			code:    "",
			setup:   func(stores *repomocks.MockStoreRepository, accounts *repomocks.MockAccountRepository) {},
			validate: func(t *testing.T, enq *stubEnqueuer, store *domain.Store, err error) {
				assert.ErrorIs(t, err, ErrMissingOAuthData)
				assert.Nil(t, store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			stores := repomocks.NewMockStoreRepository(ctrl)
			accounts := repomocks.NewMockAccountRepository(ctrl)
			tt.setup(stores, accounts)

			enq := &stubEnqueuer{}
			service := NewService(stores, accounts, &stubExchanger{token: "token-permanente", scopes: "read_products"}, enq)

			store, err := service.HandleShopifyCallback(context.Background(), tt.shopURL, "Minha Loja", tt.code)
			tt.validate(t, enq, store, err)
		})
	}
}
