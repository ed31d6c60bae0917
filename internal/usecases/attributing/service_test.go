package attributing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/domain"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestService_ComputeAttribution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeID := "store-1"
	processedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	orderRepo := mocks.NewMockOrderRepository(ctrl)
	adRepo := mocks.NewMockAdRepository(ctrl)
	attributionRepo := mocks.NewMockAttributionRepository(ctrl)

	orders := []*domain.Order{
		{
			StoreID:     storeID,
			ExternalID:  "o-1",
			TotalPrice:  decimal.NewFromInt(100),
			ProcessedAt: timePtr(processedAt),
		},
		// Pedido sem data de processamento é ignorado.
		{StoreID: storeID, ExternalID: "o-2", TotalPrice: decimal.NewFromInt(50)},
	}
	ads := []*domain.Ad{
		{StoreID: storeID, ExternalID: "ad-1", CreatedAt: processedAt.AddDate(0, 0, -5)},
		{StoreID: storeID, ExternalID: "ad-2", CreatedAt: processedAt.AddDate(0, 0, -1)},
		// Anúncio criado depois do pedido não recebe crédito.
		{StoreID: storeID, ExternalID: "ad-3", CreatedAt: processedAt.AddDate(0, 0, 1)},
	}

	orderRepo.EXPECT().ListSince(gomock.Any(), storeID, gomock.Any()).Return(orders, nil)
	adRepo.EXPECT().ListByStore(gomock.Any(), storeID).Return(ads, nil)

	var replaced []*domain.Attribution
	attributionRepo.EXPECT().
		ReplaceForStore(gomock.Any(), storeID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, attributions []*domain.Attribution) error {
			replaced = attributions
			return nil
		})

	service := NewService(orderRepo, adRepo, attributionRepo)
	total, err := service.ComputeAttribution(context.Background(), storeID)

	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, replaced, 2)

	// Crédito de 0.8 dividido igualmente entre os dois anúncios anteriores.
	for _, attribution := range replaced {
		assert.Equal(t, "o-1", attribution.OrderExternalID)
		assert.InDelta(t, 0.4, attribution.AttributionScore, 0.001)
		assert.InDelta(t, 0.85, attribution.Confidence, 0.001)
		assert.True(t, attribution.RevenueLift.Equal(decimal.NewFromInt(40)))
	}
	assert.Equal(t, "ad-1", replaced[0].AdExternalID)
	assert.Equal(t, "ad-2", replaced[1].AdExternalID)
}

func TestService_ComputeAttribution_SemAnunciosAnteriores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeID := "store-1"
	processedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	orderRepo := mocks.NewMockOrderRepository(ctrl)
	adRepo := mocks.NewMockAdRepository(ctrl)
	attributionRepo := mocks.NewMockAttributionRepository(ctrl)

	orderRepo.EXPECT().ListSince(gomock.Any(), storeID, gomock.Any()).Return([]*domain.Order{
		{StoreID: storeID, ExternalID: "o-1", ProcessedAt: timePtr(processedAt)},
	}, nil)
	adRepo.EXPECT().ListByStore(gomock.Any(), storeID).Return(nil, nil)
	attributionRepo.EXPECT().ReplaceForStore(gomock.Any(), storeID, gomock.Len(0)).Return(nil)

	service := NewService(orderRepo, adRepo, attributionRepo)
	total, err := service.ComputeAttribution(context.Background(), storeID)

	assert.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestService_TrainModel(t *testing.T) {
	tests := []struct {
		name             string
		orders           int
		ads              int
		expectedAccuracy float64
	}{
		{name: "Loja sem dados fica na acurácia mínima", orders: 0, ads: 0, expectedAccuracy: 0.5},
		{name: "Acurácia cresce com o volume de amostras", orders: 100, ads: 50, expectedAccuracy: 0.65},
		{name: "Acurácia satura no teto", orders: 900, ads: 300, expectedAccuracy: 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			storeID := "store-1"

			orderRepo := mocks.NewMockOrderRepository(ctrl)
			adRepo := mocks.NewMockAdRepository(ctrl)

			orderRepo.EXPECT().ListByStore(gomock.Any(), storeID, true).
				Return(make([]*domain.Order, tt.orders), nil)
			adRepo.EXPECT().ListByStore(gomock.Any(), storeID).
				Return(make([]*domain.Ad, tt.ads), nil)

			service := NewService(orderRepo, adRepo, nil)
			report, err := service.TrainModel(context.Background(), storeID)

			assert.NoError(t, err)
			assert.Equal(t, storeID, report.StoreID)
			assert.Equal(t, tt.orders+tt.ads, report.TrainingSamples)
			assert.InDelta(t, tt.expectedAccuracy, report.ModelAccuracy, 0.001)
		})
	}
}
