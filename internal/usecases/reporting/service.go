package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/utils"
)

// Períodos de snapshot suportados.
var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// CPM de referência usado para estimar impressões quando o espelho não tem
// dados de veiculação. Clicks estimados a 1% das impressões.
const (
	referenceCPM = 10.0
	referenceCTR = 0.01
)

type Reporter interface {
	ComputeSnapshot(ctx context.Context, storeID, period string) (*domain.MetricsSnapshot, error)
	ListSnapshots(ctx context.Context, storeID, period string, limit uint64) ([]*domain.MetricsSnapshot, error)
}

// Service calcula snapshots de métricas apenas a partir do espelho local.
// O gasto é estimado pelos orçamentos diários das campanhas ativas.
type Service struct {
	orderRepo    repository.OrderRepository
	campaignRepo repository.CampaignRepository
	metricsRepo  repository.MetricsSnapshotRepository
}

func NewService(
	orderRepo repository.OrderRepository,
	campaignRepo repository.CampaignRepository,
	metricsRepo repository.MetricsSnapshotRepository,
) Reporter {
	return &Service{
		orderRepo:    orderRepo,
		campaignRepo: campaignRepo,
		metricsRepo:  metricsRepo,
	}
}

// ComputeSnapshot calcula e grava o snapshot do período. O primeiro
// snapshot de cada par (loja, período) vira a baseline de comparação.
func (s *Service) ComputeSnapshot(ctx context.Context, storeID, period string) (*domain.MetricsSnapshot, error) {
	days, ok := periodDays[period]
	if !ok {
		return nil, fmt.Errorf("período desconhecido: %s", period)
	}

	since := time.Now().AddDate(0, 0, -days)

	orders, err := s.orderRepo.ListSince(ctx, storeID, since)
	if err != nil {
		return nil, err
	}

	campaigns, err := s.campaignRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	totalRevenue := decimal.Zero
	for _, order := range orders {
		totalRevenue = totalRevenue.Add(order.TotalPrice)
	}
	totalOrders := len(orders)

	// Gasto estimado: orçamento diário das campanhas ativas vezes os dias
	// do período.
	spend := decimal.Zero
	for _, campaign := range campaigns {
		if campaign.Status != "ACTIVE" {
			continue
		}
		spend = spend.Add(campaign.DailyBudget.Mul(decimal.NewFromInt(int64(days))))
	}
	spendFloat, _ := spend.Float64()

	impressions := 0.0
	if spendFloat > 0 {
		impressions = spendFloat / referenceCPM * 1000
	}
	clicks := impressions * referenceCTR

	snapshot := &domain.MetricsSnapshot{
		StoreID:      storeID,
		Period:       period,
		TotalRevenue: totalRevenue,
		TotalOrders:  totalOrders,
	}

	if totalOrders > 0 {
		snapshot.AOV = totalRevenue.Div(decimal.NewFromInt(int64(totalOrders))).Round(2)
	}

	revenueFloat, _ := totalRevenue.Float64()

	if impressions > 0 {
		snapshot.RPMO = utils.RoundWithTwoDecimalPlace(revenueFloat / impressions * 1000)
		snapshot.CTR = utils.RoundWithTwoDecimalPlace(clicks / impressions * 100)
	}
	if clicks > 0 {
		snapshot.ConversionRate = utils.RoundWithTwoDecimalPlace(float64(totalOrders) / clicks * 100)
	}
	if totalOrders > 0 && spendFloat > 0 {
		snapshot.CPA = utils.RoundWithTwoDecimalPlace(spendFloat / float64(totalOrders))
	}
	if spendFloat > 0 {
		snapshot.ROI = utils.RoundWithTwoDecimalPlace((revenueFloat - spendFloat) / spendFloat * 100)
	}

	baseline, err := s.metricsRepo.GetBaseline(ctx, storeID, period)
	if err != nil {
		return nil, err
	}
	snapshot.Baseline = baseline == nil

	if err := s.metricsRepo.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"period":   period,
		"orders":   totalOrders,
		"baseline": snapshot.Baseline,
	}).Info("reporting: snapshot de métricas gravado")

	return snapshot, nil
}

func (s *Service) ListSnapshots(ctx context.Context, storeID, period string, limit uint64) ([]*domain.MetricsSnapshot, error) {
	return s.metricsRepo.ListByStore(ctx, storeID, period, limit)
}
