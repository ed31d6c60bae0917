package domain

import "github.com/shopspring/decimal"

// AdInsight é o desempenho agregado de um anúncio em um período, já com os
// valores numéricos convertidos. Não é persistido: alimenta a revisão ao
// vivo de sugestões de pausa direto da plataforma.
type AdInsight struct {
	AdExternalID string          `json:"ad_external_id"`
	AdName       string          `json:"ad_name"`
	Impressions  int64           `json:"impressions"`
	Clicks       int64           `json:"clicks"`
	Spend        decimal.Decimal `json:"spend"`
	CTR          float64         `json:"ctr"`
}
