package reconciling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

// ErrAccountNotConnected indica que a loja não tem conta conectada na
// plataforma pedida. Jobs de sincronização tratam como skip, não como falha.
var ErrAccountNotConnected = errors.New("loja sem conta conectada na plataforma")

// Summary é o resultado de uma passada de reconciliação. Falhas parciais
// não interrompem a passada: cada registro é aplicado isoladamente.
type Summary struct {
	Entity  string `json:"entity"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
}

type Reconciler interface {
	ReconcileProducts(ctx context.Context, storeID string) (*Summary, error)
	ReconcileOrders(ctx context.Context, storeID string, since *time.Time) (*Summary, error)
	ReconcileCampaigns(ctx context.Context, storeID string) (*Summary, error)
	ReconcileAds(ctx context.Context, storeID string) (*Summary, error)
	ApplyProduct(ctx context.Context, product *domain.Product) error
	ApplyProductDeletion(ctx context.Context, storeID, externalID string) error
	ApplyOrder(ctx context.Context, order *domain.Order) error
	ApplyCampaign(ctx context.Context, campaign *domain.Campaign) error
	ApplyAd(ctx context.Context, ad *domain.Ad) error
}

type Service struct {
	accountRepo  repository.AccountRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	campaignRepo repository.CampaignRepository
	adRepo       repository.AdRepository
	shopify      ShopifySource
	meta         MetaSource
}

func NewService(
	accountRepo repository.AccountRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	campaignRepo repository.CampaignRepository,
	adRepo repository.AdRepository,
	shopify ShopifySource,
	meta MetaSource,
) Reconciler {
	return &Service{
		accountRepo:  accountRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		campaignRepo: campaignRepo,
		adRepo:       adRepo,
		shopify:      shopify,
		meta:         meta,
	}
}

// ReconcileProducts varre o catálogo completo da loja na Shopify e aplica
// cada produto por upsert chaveado em (store_id, external_id).
func (s *Service) ReconcileProducts(ctx context.Context, storeID string) (*Summary, error) {
	account, err := s.activeAccount(ctx, storeID, domain.PlatformShopify)
	if err != nil {
		return nil, err
	}

	products, err := s.shopify.FetchProducts(ctx, account)
	if err != nil {
		return nil, s.handleFetchError(ctx, account, err)
	}

	summary := &Summary{Entity: "products"}
	for _, product := range products {
		created, err := s.productRepo.Upsert(ctx, product)
		if err != nil {
			summary.Failed++
			logrus.WithFields(logrus.Fields{
				"store_id":    storeID,
				"external_id": product.ExternalID,
			}).WithError(err).Error("reconciling: falha ao aplicar produto")
			continue
		}
		s.count(summary, created)
	}

	s.logSummary(storeID, summary)
	return summary, nil
}

// ReconcileOrders varre os pedidos atualizados desde o corte. Corte nulo
// significa varredura completa.
func (s *Service) ReconcileOrders(ctx context.Context, storeID string, since *time.Time) (*Summary, error) {
	account, err := s.activeAccount(ctx, storeID, domain.PlatformShopify)
	if err != nil {
		return nil, err
	}

	orders, err := s.shopify.FetchOrders(ctx, account, since)
	if err != nil {
		return nil, s.handleFetchError(ctx, account, err)
	}

	summary := &Summary{Entity: "orders"}
	for _, order := range orders {
		created, err := s.orderRepo.Upsert(ctx, order)
		if err != nil {
			summary.Failed++
			logrus.WithFields(logrus.Fields{
				"store_id":    storeID,
				"external_id": order.ExternalID,
			}).WithError(err).Error("reconciling: falha ao aplicar pedido")
			continue
		}
		s.count(summary, created)
	}

	s.logSummary(storeID, summary)
	return summary, nil
}

// ReconcileCampaigns varre as campanhas da conta de anúncios do Meta.
func (s *Service) ReconcileCampaigns(ctx context.Context, storeID string) (*Summary, error) {
	account, err := s.activeAccount(ctx, storeID, domain.PlatformMeta)
	if err != nil {
		return nil, err
	}

	campaigns, err := s.meta.FetchCampaigns(ctx, account)
	if err != nil {
		return nil, s.handleFetchError(ctx, account, err)
	}

	summary := &Summary{Entity: "campaigns"}
	for _, campaign := range campaigns {
		created, err := s.campaignRepo.Upsert(ctx, campaign)
		if err != nil {
			summary.Failed++
			logrus.WithFields(logrus.Fields{
				"store_id":    storeID,
				"external_id": campaign.ExternalID,
			}).WithError(err).Error("reconciling: falha ao aplicar campanha")
			continue
		}
		s.count(summary, created)
	}

	s.logSummary(storeID, summary)
	return summary, nil
}

// ReconcileAds varre os anúncios da conta de anúncios do Meta.
func (s *Service) ReconcileAds(ctx context.Context, storeID string) (*Summary, error) {
	account, err := s.activeAccount(ctx, storeID, domain.PlatformMeta)
	if err != nil {
		return nil, err
	}

	ads, err := s.meta.FetchAds(ctx, account)
	if err != nil {
		return nil, s.handleFetchError(ctx, account, err)
	}

	summary := &Summary{Entity: "ads"}
	for _, ad := range ads {
		created, err := s.adRepo.Upsert(ctx, ad)
		if err != nil {
			summary.Failed++
			logrus.WithFields(logrus.Fields{
				"store_id":    storeID,
				"external_id": ad.ExternalID,
			}).WithError(err).Error("reconciling: falha ao aplicar anúncio")
			continue
		}
		s.count(summary, created)
	}

	s.logSummary(storeID, summary)
	return summary, nil
}

// ApplyProduct aplica um único produto vindo de webhook. A última escrita
// vence: o upsert sobrescreve os campos reportados pela plataforma.
func (s *Service) ApplyProduct(ctx context.Context, product *domain.Product) error {
	if product == nil || product.ExternalID == "" {
		return fmt.Errorf("produto sem external_id")
	}
	_, err := s.productRepo.Upsert(ctx, product)
	return err
}

// ApplyProductDeletion marca o produto como removido na plataforma. A linha
// do espelho fica, para que sugestões e métricas antigas continuem
// resolvendo a referência.
func (s *Service) ApplyProductDeletion(ctx context.Context, storeID, externalID string) error {
	product, err := s.productRepo.GetByExternalID(ctx, storeID, externalID)
	if err != nil {
		return err
	}
	if product == nil {
		// Nunca espelhado; nada a marcar.
		return nil
	}

	product.Status = "deleted"
	_, err = s.productRepo.Upsert(ctx, product)
	return err
}

// ApplyOrder aplica um único pedido vindo de webhook.
func (s *Service) ApplyOrder(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ExternalID == "" {
		return fmt.Errorf("pedido sem external_id")
	}
	_, err := s.orderRepo.Upsert(ctx, order)
	return err
}

// ApplyCampaign aplica uma única campanha vinda de webhook.
func (s *Service) ApplyCampaign(ctx context.Context, campaign *domain.Campaign) error {
	if campaign == nil || campaign.ExternalID == "" {
		return fmt.Errorf("campanha sem external_id")
	}
	_, err := s.campaignRepo.Upsert(ctx, campaign)
	return err
}

// ApplyAd aplica um único anúncio vindo de webhook.
func (s *Service) ApplyAd(ctx context.Context, ad *domain.Ad) error {
	if ad == nil || ad.ExternalID == "" {
		return fmt.Errorf("anúncio sem external_id")
	}
	_, err := s.adRepo.Upsert(ctx, ad)
	return err
}

func (s *Service) activeAccount(ctx context.Context, storeID string, platform domain.Platform) (*domain.ConnectedAccount, error) {
	account, err := s.accountRepo.GetByStoreAndPlatform(ctx, storeID, platform)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: loja %s, plataforma %s", ErrAccountNotConnected, storeID, platform)
	}
	if account.Status != domain.AccountStatusActive {
		return nil, &syncErrors.CredentialInvalidError{
			Platform:  string(platform),
			AccountID: account.ID,
			Err:       fmt.Errorf("conta aguardando reautorização"),
		}
	}
	return account, nil
}

// handleFetchError marca a conta para reautorização quando a plataforma
// sinaliza credencial inválida, antes de propagar o erro.
func (s *Service) handleFetchError(ctx context.Context, account *domain.ConnectedAccount, err error) error {
	if syncErrors.IsCredentialInvalid(err) {
		if markErr := s.accountRepo.MarkNeedsReauth(ctx, account.ID); markErr != nil {
			logrus.WithField("account_id", account.ID).WithError(markErr).
				Error("reconciling: falha ao marcar conta para reautorização")
		}
	}
	return err
}

func (s *Service) count(summary *Summary, created bool) {
	if created {
		summary.Created++
	} else {
		summary.Updated++
	}
}

func (s *Service) logSummary(storeID string, summary *Summary) {
	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"entity":   summary.Entity,
		"created":  summary.Created,
		"updated":  summary.Updated,
		"failed":   summary.Failed,
	}).Info("reconciling: passada concluída")
}
