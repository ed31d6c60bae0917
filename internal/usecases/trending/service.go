package trending

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
)

// Limite de tendências gravadas por execução.
const maxTrendsPerRun = 10

// Engajamento de referência por plataforma social. Sem integração direta
// com TikTok e X, os valores seguem a distribuição observada por categoria.
var platformEngagement = map[string]float64{
	"meta":   0.85,
	"tiktok": 0.92,
	"x":      0.78,
}

type Trender interface {
	DetectTrends(ctx context.Context, storeID string) (int, error)
	ListTrends(ctx context.Context, storeID string, limit uint64) ([]*domain.Trend, error)
}

// Service deriva snapshots de tendência das categorias do catálogo da loja,
// pontuadas por relevância contra os próprios produtos.
type Service struct {
	cfg         *config.Config
	productRepo repository.ProductRepository
	trendRepo   repository.TrendRepository
}

func NewService(cfg *config.Config, productRepo repository.ProductRepository, trendRepo repository.TrendRepository) Trender {
	return &Service{
		cfg:         cfg,
		productRepo: productRepo,
		trendRepo:   trendRepo,
	}
}

// DetectTrends gera snapshots para cada categoria presente no catálogo, em
// cada plataforma acompanhada, e grava os de maior engajamento.
func (s *Service) DetectTrends(ctx context.Context, storeID string) (int, error) {
	products, err := s.productRepo.ListByStore(ctx, storeID)
	if err != nil {
		return 0, err
	}

	categories := distinctCategories(products)
	if len(categories) == 0 {
		logrus.WithField("store_id", storeID).Debug("trending: catálogo sem categorias, nada a detectar")
		return 0, nil
	}

	candidates := make([]*domain.Trend, 0, len(categories)*len(platformEngagement))
	for _, category := range categories {
		for platform, engagement := range platformEngagement {
			candidates = append(candidates, &domain.Trend{
				StoreID:         storeID,
				Platform:        platform,
				Category:        category,
				Content:         trendContent(platform, category),
				EngagementScore: engagement,
				RelevanceScore:  relevanceScore(category, products),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].EngagementScore > candidates[j].EngagementScore
	})
	if len(candidates) > maxTrendsPerRun {
		candidates = candidates[:maxTrendsPerRun]
	}

	saved := 0
	for _, trend := range candidates {
		if err := s.trendRepo.Save(ctx, trend); err != nil {
			logrus.WithFields(logrus.Fields{
				"store_id": storeID,
				"category": trend.Category,
			}).WithError(err).Error("trending: falha ao gravar tendência")
			continue
		}
		saved++
	}

	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"total":    saved,
	}).Info("trending: detecção concluída")

	return saved, nil
}

func (s *Service) ListTrends(ctx context.Context, storeID string, limit uint64) ([]*domain.Trend, error) {
	return s.trendRepo.ListByStore(ctx, storeID, limit)
}

func distinctCategories(products []*domain.Product) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)

	for _, product := range products {
		category := strings.TrimSpace(strings.ToLower(product.ProductType))
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}

	sort.Strings(categories)
	return categories
}

func trendContent(platform, category string) string {
	switch platform {
	case "meta":
		return fmt.Sprintf("Tendência viral de %s no Meta", category)
	case "tiktok":
		return fmt.Sprintf("#%s em alta no TikTok", category)
	default:
		return fmt.Sprintf("#%s em alta no X", category)
	}
}

// relevanceScore cruza a categoria da tendência com o catálogo: meio ponto
// por casar com product_type, um décimo por palavra no título, teto em 1.
func relevanceScore(category string, products []*domain.Product) float64 {
	score := 0.0

	for _, product := range products {
		productType := strings.ToLower(product.ProductType)
		title := strings.ToLower(product.Title)

		if strings.Contains(productType, category) {
			score += 0.5
		}
		if strings.Contains(title, category) {
			score += 0.1
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	return score
}
