package account

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/domain"
)

var (
	// ErrStoreNotFound indica loja inexistente.
	ErrStoreNotFound = errors.New("loja não encontrada")

	// ErrMissingOAuthData indica callback sem shop ou code.
	ErrMissingOAuthData = errors.New("parâmetros shop e code são obrigatórios")
)

// TokenExchanger é a visão deste serviço sobre o integrador da Shopify.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, shopURL, code string) (accessToken, scopes string, err error)
}

// Enqueuer dispara o job de setup inicial após a conexão.
type Enqueuer interface {
	Enqueue(ctx context.Context, kind, storeID string, payload any) (*domain.SyncJob, error)
}

type Manager interface {
	HandleShopifyCallback(ctx context.Context, shopURL, shopName, code string) (*domain.Store, error)
	ConnectMetaAccount(ctx context.Context, storeID, adAccountID, accessToken string) (*domain.ConnectedAccount, error)
	GetStore(ctx context.Context, storeID string) (*domain.Store, error)
	ListStores(ctx context.Context) ([]*domain.Store, error)
	ListAccountsNeedingReauth(ctx context.Context) ([]*domain.ConnectedAccount, error)
}

// Service gerencia lojas e contas conectadas. Contas nunca são removidas;
// reconectar rotaciona o token e reativa a conta.
type Service struct {
	storeRepo   repository.StoreRepository
	accountRepo repository.AccountRepository
	shopify     TokenExchanger
	dispatcher  Enqueuer
}

func NewService(
	storeRepo repository.StoreRepository,
	accountRepo repository.AccountRepository,
	shopify TokenExchanger,
	dispatcher Enqueuer,
) Manager {
	return &Service{
		storeRepo:   storeRepo,
		accountRepo: accountRepo,
		shopify:     shopify,
		dispatcher:  dispatcher,
	}
}

// HandleShopifyCallback troca o código OAuth pelo token permanente, cria a
// loja se for a primeira conexão e dispara o setup inicial na fila de setup.
func (s *Service) HandleShopifyCallback(ctx context.Context, shopURL, shopName, code string) (*domain.Store, error) {
	if shopURL == "" || code == "" {
		return nil, ErrMissingOAuthData
	}

	accessToken, scopes, err := s.shopify.ExchangeToken(ctx, shopURL, code)
	if err != nil {
		return nil, err
	}

	store, err := s.storeRepo.GetByShopURL(ctx, shopURL)
	if err != nil {
		return nil, err
	}

	firstConnection := store == nil
	if firstConnection {
		if shopName == "" {
			shopName = shopURL
		}
		store, err = s.storeRepo.Create(ctx, &domain.Store{ShopURL: shopURL, Name: shopName})
		if err != nil {
			return nil, err
		}
	}

	account := &domain.ConnectedAccount{
		StoreID:     store.ID,
		Platform:    domain.PlatformShopify,
		ExternalID:  shopURL,
		AccessToken: accessToken,
		Scopes:      scopes,
		Status:      domain.AccountStatusActive,
	}
	if err := s.accountRepo.SaveOrUpdate(ctx, account); err != nil {
		return nil, err
	}

	// Primeira conexão dispara a varredura completa; reconexão só rotaciona
	// o token.
	if firstConnection {
		if _, err := s.dispatcher.Enqueue(ctx, domain.JobKindInitialSetup, store.ID, nil); err != nil {
			logrus.WithField("store_id", store.ID).WithError(err).
				Error("account: falha ao enfileirar setup inicial")
		}
	}

	logrus.WithFields(logrus.Fields{
		"store_id": store.ID,
		"shop_url": shopURL,
		"first":    firstConnection,
	}).Info("account: loja conectada via OAuth da Shopify")

	return store, nil
}

// ConnectMetaAccount vincula (ou rotaciona) a conta de anúncios do Meta da
// loja e dispara a sincronização de campanhas e anúncios.
func (s *Service) ConnectMetaAccount(ctx context.Context, storeID, adAccountID, accessToken string) (*domain.ConnectedAccount, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	account := &domain.ConnectedAccount{
		StoreID:     storeID,
		Platform:    domain.PlatformMeta,
		ExternalID:  adAccountID,
		AccessToken: accessToken,
		Status:      domain.AccountStatusActive,
	}
	if err := s.accountRepo.SaveOrUpdate(ctx, account); err != nil {
		return nil, err
	}

	for _, kind := range []string{domain.JobKindSyncCampaigns, domain.JobKindSyncAds} {
		if _, err := s.dispatcher.Enqueue(ctx, kind, storeID, nil); err != nil {
			logrus.WithFields(logrus.Fields{
				"store_id": storeID,
				"kind":     kind,
			}).WithError(err).Error("account: falha ao enfileirar sincronização do Meta")
		}
	}

	return account, nil
}

func (s *Service) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	return s.storeRepo.GetByID(ctx, storeID)
}

func (s *Service) ListStores(ctx context.Context) ([]*domain.Store, error) {
	return s.storeRepo.List(ctx)
}

// ListAccountsNeedingReauth lista contas com credencial revogada, para a
// tela de reconexão.
func (s *Service) ListAccountsNeedingReauth(ctx context.Context) ([]*domain.ConnectedAccount, error) {
	shopify, err := s.accountRepo.ListByStatus(ctx, domain.AccountStatusNeedsReauth)
	if err != nil {
		return nil, err
	}
	return shopify, nil
}
