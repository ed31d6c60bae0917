package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attribution relaciona um pedido aos anúncios que provavelmente o geraram.
// Recomputada a cada execução do job de atribuição; imutável fora disso.
type Attribution struct {
	ID               string          `json:"id"`
	StoreID          string          `json:"store_id"`
	OrderExternalID  string          `json:"order_external_id"`
	AdExternalID     string          `json:"ad_external_id"`
	AttributionScore float64         `json:"attribution_score"`
	RevenueLift      decimal.Decimal `json:"revenue_lift"`
	Confidence       float64         `json:"confidence"`
	CreatedAt        time.Time       `json:"created_at"`
}
