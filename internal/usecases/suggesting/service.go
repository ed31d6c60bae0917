package suggesting

import (
	"context"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Suggester interface {
	RunDiagnostics(ctx context.Context, storeID string) (int, error)
	ListSuggestions(ctx context.Context, storeID string, status domain.SuggestionStatus) ([]*domain.Suggestion, error)
	UpdateStatus(ctx context.Context, id string, status domain.SuggestionStatus) (*domain.Suggestion, error)
}

// Service gera sugestões por recomputação idempotente sobre o espelho
// local. Só o conjunto pendente é trocado; sugestões aplicadas ou
// descartadas pelo usuário nunca são tocadas.
type Service struct {
	cfg            *config.Config
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	adRepo         repository.AdRepository
	suggestionRepo repository.SuggestionRepository
}

func NewService(
	cfg *config.Config,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	adRepo repository.AdRepository,
	suggestionRepo repository.SuggestionRepository,
) Suggester {
	return &Service{
		cfg:            cfg,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		adRepo:         adRepo,
		suggestionRepo: suggestionRepo,
	}
}

// RunDiagnostics recomputa o conjunto de sugestões pendentes da loja e
// devolve quantas foram geradas.
func (s *Service) RunDiagnostics(ctx context.Context, storeID string) (int, error) {
	products, err := s.productRepo.ListByStore(ctx, storeID)
	if err != nil {
		return 0, err
	}

	ads, err := s.adRepo.ListByStore(ctx, storeID)
	if err != nil {
		return 0, err
	}

	suggestions := make([]*domain.Suggestion, 0)
	highInventoryIDs := make([]string, 0)

	// Produtos com estoque alto: candidatos a promoção.
	for _, product := range products {
		if product.InventoryQuantity <= s.cfg.Analytics.HighInventoryMinimum {
			continue
		}

		highInventoryIDs = append(highInventoryIDs, product.ExternalID)

		actionData, _ := json.Marshal(map[string]string{
			"product_id": product.ExternalID,
			"action":     "create_ad",
		})

		suggestions = append(suggestions, &domain.Suggestion{
			StoreID:        storeID,
			Type:           domain.SuggestionTypePromote,
			Title:          fmt.Sprintf("Promover %s", product.Title),
			Description:    fmt.Sprintf("Estoque alto (%d unidades), considere promover", product.InventoryQuantity),
			Reasoning:      "Nível de estoque elevado indica potencial de aumento de vendas",
			ExpectedImpact: "Aumento de giro do estoque parado",
			ActionData:     string(actionData),
			Priority:       3,
		})
	}

	// Anúncios ativos: revisão de fadiga de criativo.
	for _, ad := range ads {
		if ad.Status != "ACTIVE" {
			continue
		}

		actionData, _ := json.Marshal(map[string]string{
			"ad_id":  ad.ExternalID,
			"action": "pause",
		})

		suggestions = append(suggestions, &domain.Suggestion{
			StoreID:        storeID,
			Type:           domain.SuggestionTypePause,
			Title:          fmt.Sprintf("Revisar %s", ad.Name),
			Description:    "O anúncio pode estar sofrendo fadiga de criativo",
			Reasoning:      fmt.Sprintf("Anúncio em veiculação prolongada; CTR de referência %.2f%%", s.cfg.Analytics.FatigueCTRThreshold*100),
			ExpectedImpact: "Redução de gasto em criativo saturado",
			ActionData:     string(actionData),
			Priority:       2,
		})
	}

	// Bundle com os produtos de maior estoque.
	if len(products) >= 2 {
		sorted := make([]*domain.Product, len(products))
		copy(sorted, products)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].InventoryQuantity > sorted[j].InventoryQuantity
		})

		top := sorted
		if len(top) > 3 {
			top = top[:3]
		}

		ids := make([]string, 0, len(top))
		for _, product := range top {
			ids = append(ids, product.ExternalID)
		}

		actionData, _ := json.Marshal(map[string]any{"product_ids": ids})

		suggestions = append(suggestions, &domain.Suggestion{
			StoreID:        storeID,
			Type:           domain.SuggestionTypeCreateBundle,
			Title:          "Criar bundle de produtos",
			Description:    "Combinar os produtos de maior estoque em um bundle",
			Reasoning:      "Bundles aumentam o ticket médio e reduzem estoque parado",
			ExpectedImpact: "Aumento do AOV",
			ActionData:     string(actionData),
			Priority:       1,
		})
	}

	// Desconto para produto de estoque alto sem preço promocional.
	for _, product := range products {
		if product.InventoryQuantity <= s.cfg.Analytics.HighInventoryMinimum || !product.CompareAtPrice.IsZero() {
			continue
		}

		discounted := product.Price.Mul(decimal.NewFromFloat(0.90))

		actionData, _ := json.Marshal(map[string]string{
			"product_id": product.ExternalID,
			"new_price":  discounted.StringFixed(2),
		})

		suggestions = append(suggestions, &domain.Suggestion{
			StoreID:        storeID,
			Type:           domain.SuggestionTypeUpdatePrice,
			Title:          fmt.Sprintf("Reduzir preço de %s", product.Title),
			Description:    "Produto de estoque alto sem preço promocional",
			Reasoning:      "Desconto de 10%% acelera o giro de estoque parado",
			ExpectedImpact: "Aumento do volume de vendas do item",
			ActionData:     string(actionData),
			Priority:       1,
		})
	}

	// Persistir a marcação de estoque alto antes de trocar as sugestões.
	if err := s.productRepo.SetHighInventory(ctx, storeID, highInventoryIDs); err != nil {
		logrus.WithField("store_id", storeID).WithError(err).
			Error("suggesting: falha ao marcar produtos de estoque alto")
	}

	if err := s.suggestionRepo.ReplacePending(ctx, storeID, suggestions); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"total":    len(suggestions),
	}).Info("suggesting: diagnóstico concluído")

	return len(suggestions), nil
}

func (s *Service) ListSuggestions(ctx context.Context, storeID string, status domain.SuggestionStatus) ([]*domain.Suggestion, error) {
	return s.suggestionRepo.ListByStore(ctx, storeID, status)
}

// UpdateStatus aplica a decisão do usuário sobre a sugestão. A transição só
// é válida a partir de pending.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.SuggestionStatus) (*domain.Suggestion, error) {
	suggestion, err := s.suggestionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, nil
	}
	if suggestion.Status != domain.SuggestionStatusPending {
		return nil, fmt.Errorf("sugestão %s já foi %s", id, suggestion.Status)
	}

	if err := s.suggestionRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	suggestion.Status = status
	return suggestion, nil
}
