package attributing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/domain"
)

// Janela de pedidos considerada na atribuição.
const attributionWindowDays = 30

// Pontuação aplicada quando existe ao menos um anúncio anterior ao pedido.
const (
	baseAttributionScore = 0.8
	baseConfidence       = 0.85
)

// TrainingReport resume uma rodada de treino do modelo de atribuição.
type TrainingReport struct {
	StoreID         string  `json:"store_id"`
	ModelAccuracy   float64 `json:"model_accuracy"`
	TrainingSamples int     `json:"training_samples"`
}

type Attributor interface {
	ComputeAttribution(ctx context.Context, storeID string) (int, error)
	TrainModel(ctx context.Context, storeID string) (*TrainingReport, error)
	ListAttributions(ctx context.Context, storeID string) ([]*domain.Attribution, error)
}

// Service recomputa a relação pedido/anúncio a partir do espelho local. O
// conjunto inteiro da loja é trocado a cada execução.
type Service struct {
	orderRepo       repository.OrderRepository
	adRepo          repository.AdRepository
	attributionRepo repository.AttributionRepository
}

func NewService(
	orderRepo repository.OrderRepository,
	adRepo repository.AdRepository,
	attributionRepo repository.AttributionRepository,
) Attributor {
	return &Service{
		orderRepo:       orderRepo,
		adRepo:          adRepo,
		attributionRepo: attributionRepo,
	}
}

// ComputeAttribution atribui a cada pedido recente os anúncios criados
// antes dele, com crédito dividido igualmente. Devolve o total de linhas
// geradas.
func (s *Service) ComputeAttribution(ctx context.Context, storeID string) (int, error) {
	since := time.Now().AddDate(0, 0, -attributionWindowDays)

	orders, err := s.orderRepo.ListSince(ctx, storeID, since)
	if err != nil {
		return 0, err
	}

	ads, err := s.adRepo.ListByStore(ctx, storeID)
	if err != nil {
		return 0, err
	}

	attributions := make([]*domain.Attribution, 0)
	for _, order := range orders {
		if order.ProcessedAt == nil {
			continue
		}

		relevant := make([]*domain.Ad, 0)
		for _, ad := range ads {
			if ad.CreatedAt.Before(*order.ProcessedAt) {
				relevant = append(relevant, ad)
			}
		}

		if len(relevant) == 0 {
			continue
		}

		// Crédito do pedido dividido igualmente entre os anúncios anteriores.
		share := baseAttributionScore / float64(len(relevant))
		for _, ad := range relevant {
			attributions = append(attributions, &domain.Attribution{
				StoreID:          storeID,
				OrderExternalID:  order.ExternalID,
				AdExternalID:     ad.ExternalID,
				AttributionScore: share,
				RevenueLift:      order.TotalPrice.Mul(decimal.NewFromFloat(share)),
				Confidence:       baseConfidence,
			})
		}
	}

	if err := s.attributionRepo.ReplaceForStore(ctx, storeID, attributions); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"total":    len(attributions),
	}).Info("attributing: atribuição recomputada")

	return len(attributions), nil
}

// TrainModel agrega o volume de amostras disponível e devolve a acurácia
// estimada. A acurácia cresce com o volume até um teto, sem modelo real por
// trás ainda.
func (s *Service) TrainModel(ctx context.Context, storeID string) (*TrainingReport, error) {
	orders, err := s.orderRepo.ListByStore(ctx, storeID, true)
	if err != nil {
		return nil, err
	}

	ads, err := s.adRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	samples := len(orders) + len(ads)
	accuracy := 0.5 + float64(samples)*0.001
	if accuracy > 0.85 {
		accuracy = 0.85
	}

	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"samples":  samples,
		"accuracy": accuracy,
	}).Info("attributing: treino do modelo concluído")

	return &TrainingReport{
		StoreID:         storeID,
		ModelAccuracy:   accuracy,
		TrainingSamples: samples,
	}, nil
}

func (s *Service) ListAttributions(ctx context.Context, storeID string) ([]*domain.Attribution, error) {
	return s.attributionRepo.ListByStore(ctx, storeID)
}
