package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsSnapshot é um retrato das métricas da loja em um instante,
// calculado apenas a partir do espelho local.
type MetricsSnapshot struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	Period         string          `json:"period"` // 7d, 30d, 90d
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalOrders    int             `json:"total_orders"`
	AOV            decimal.Decimal `json:"aov"`
	RPMO           float64         `json:"rpmo"`
	CPA            float64         `json:"cpa"`
	CTR            float64         `json:"ctr"`
	ConversionRate float64         `json:"conversion_rate"`
	ROI            float64         `json:"roi"`
	Baseline       bool            `json:"baseline"`
	CreatedAt      time.Time       `json:"created_at"`
}
