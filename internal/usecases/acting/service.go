package acting

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

var (
	// ErrAccountNotConnected indica ação sem conta conectada na plataforma.
	ErrAccountNotConnected = errors.New("loja sem conta conectada na plataforma da ação")

	// ErrAdNotFound indica anúncio inexistente no espelho.
	ErrAdNotFound = errors.New("anúncio não encontrado")
)

// ShopifyWriter é a visão deste serviço sobre as escritas na Shopify.
type ShopifyWriter interface {
	CreateBundle(ctx context.Context, account *domain.ConnectedAccount, title, price string) (*domain.Product, error)
	UpdatePrice(ctx context.Context, account *domain.ConnectedAccount, variantID int64, price string) error
}

// MetaWriter é a visão deste serviço sobre a Graph API: as escritas de
// ação e a leitura de desempenho ao vivo de um anúncio.
type MetaWriter interface {
	PauseAd(ctx context.Context, account *domain.ConnectedAccount, adExternalID string) error
	FetchAdInsights(ctx context.Context, account *domain.ConnectedAccount, adExternalID string) ([]*domain.AdInsight, error)
}

type Actor interface {
	PauseAd(ctx context.Context, storeID, adExternalID string) error
	CreateBundle(ctx context.Context, storeID, title, price string) (*domain.Product, error)
	UpdatePrice(ctx context.Context, storeID string, variantID int64, price string) error
	AdInsights(ctx context.Context, storeID, adExternalID string) ([]*domain.AdInsight, error)
}

// Service executa as ações de plataforma disparadas pelo usuário. As ações
// escrevem na plataforma e refletem o resultado no espelho na hora, sem
// esperar a próxima reconciliação.
type Service struct {
	accountRepo repository.AccountRepository
	productRepo repository.ProductRepository
	adRepo      repository.AdRepository
	shopify     ShopifyWriter
	meta        MetaWriter
}

func NewService(
	accountRepo repository.AccountRepository,
	productRepo repository.ProductRepository,
	adRepo repository.AdRepository,
	shopify ShopifyWriter,
	meta MetaWriter,
) Actor {
	return &Service{
		accountRepo: accountRepo,
		productRepo: productRepo,
		adRepo:      adRepo,
		shopify:     shopify,
		meta:        meta,
	}
}

// PauseAd pausa o anúncio no Meta e espelha o novo status localmente.
func (s *Service) PauseAd(ctx context.Context, storeID, adExternalID string) error {
	account, err := s.platformAccount(ctx, storeID, domain.PlatformMeta)
	if err != nil {
		return err
	}

	ad, err := s.adRepo.GetByExternalID(ctx, storeID, adExternalID)
	if err != nil {
		return err
	}
	if ad == nil {
		return ErrAdNotFound
	}

	if err := s.meta.PauseAd(ctx, account, adExternalID); err != nil {
		return s.handleWriteError(ctx, account, err)
	}

	ad.Status = "PAUSED"
	if _, err := s.adRepo.Upsert(ctx, ad); err != nil {
		logrus.WithFields(logrus.Fields{
			"store_id": storeID,
			"ad_id":    adExternalID,
		}).WithError(err).Error("acting: anúncio pausado na plataforma mas não no espelho")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"ad_id":    adExternalID,
	}).Info("acting: anúncio pausado")

	return nil
}

// CreateBundle cria o produto de bundle na Shopify e o espelha localmente.
func (s *Service) CreateBundle(ctx context.Context, storeID, title, price string) (*domain.Product, error) {
	if title == "" || price == "" {
		return nil, fmt.Errorf("título e preço do bundle são obrigatórios")
	}

	account, err := s.platformAccount(ctx, storeID, domain.PlatformShopify)
	if err != nil {
		return nil, err
	}

	product, err := s.shopify.CreateBundle(ctx, account, title, price)
	if err != nil {
		return nil, s.handleWriteError(ctx, account, err)
	}

	if _, err := s.productRepo.Upsert(ctx, product); err != nil {
		logrus.WithFields(logrus.Fields{
			"store_id":    storeID,
			"external_id": product.ExternalID,
		}).WithError(err).Error("acting: bundle criado na plataforma mas não no espelho")
		return nil, err
	}

	return product, nil
}

// UpdatePrice altera o preço da variante na Shopify. O espelho é atualizado
// pela reconciliação seguinte ou pelo webhook products/update.
func (s *Service) UpdatePrice(ctx context.Context, storeID string, variantID int64, price string) error {
	if variantID == 0 || price == "" {
		return fmt.Errorf("variante e preço são obrigatórios")
	}

	account, err := s.platformAccount(ctx, storeID, domain.PlatformShopify)
	if err != nil {
		return err
	}

	if err := s.shopify.UpdatePrice(ctx, account, variantID, price); err != nil {
		return s.handleWriteError(ctx, account, err)
	}

	logrus.WithFields(logrus.Fields{
		"store_id":   storeID,
		"variant_id": variantID,
	}).Info("acting: preço da variante atualizado")

	return nil
}

// AdInsights busca o desempenho recente do anúncio direto na plataforma.
// É a única leitura que não vem do espelho: quem revisa uma sugestão de
// pausa quer os números de agora, não os da última reconciliação.
func (s *Service) AdInsights(ctx context.Context, storeID, adExternalID string) ([]*domain.AdInsight, error) {
	account, err := s.platformAccount(ctx, storeID, domain.PlatformMeta)
	if err != nil {
		return nil, err
	}

	ad, err := s.adRepo.GetByExternalID(ctx, storeID, adExternalID)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, ErrAdNotFound
	}

	insights, err := s.meta.FetchAdInsights(ctx, account, adExternalID)
	if err != nil {
		return nil, s.handleWriteError(ctx, account, err)
	}

	return insights, nil
}

func (s *Service) platformAccount(ctx context.Context, storeID string, platform domain.Platform) (*domain.ConnectedAccount, error) {
	account, err := s.accountRepo.GetByStoreAndPlatform(ctx, storeID, platform)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotConnected
	}
	if account.Status != domain.AccountStatusActive {
		return nil, &syncErrors.CredentialInvalidError{
			Platform:  string(platform),
			AccountID: account.ID,
			Err:       errors.New("conta aguardando reautorização"),
		}
	}
	return account, nil
}

func (s *Service) handleWriteError(ctx context.Context, account *domain.ConnectedAccount, err error) error {
	if syncErrors.IsCredentialInvalid(err) {
		if markErr := s.accountRepo.MarkNeedsReauth(ctx, account.ID); markErr != nil {
			logrus.WithField("account_id", account.ID).WithError(markErr).
				Error("acting: falha ao marcar conta para reautorização")
		}
	}
	return err
}
