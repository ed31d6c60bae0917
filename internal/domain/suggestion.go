package domain

import "time"

// SuggestionStatus é o único campo de uma sugestão mutável após a criação,
// e apenas por ação do usuário, nunca pelos jobs de análise.
type SuggestionStatus string

const (
	SuggestionStatusPending   SuggestionStatus = "pending"
	SuggestionStatusApplied   SuggestionStatus = "applied"
	SuggestionStatusDismissed SuggestionStatus = "dismissed"
)

// Tipos de sugestão gerados pelo job de diagnóstico
const (
	SuggestionTypePromote      = "promote"
	SuggestionTypePause        = "pause"
	SuggestionTypeCreateBundle = "create_bundle"
	SuggestionTypeUpdatePrice  = "update_price"
)

// Suggestion é um registro derivado do espelho por recomputação idempotente.
type Suggestion struct {
	ID             string           `json:"id"`
	StoreID        string           `json:"store_id"`
	Type           string           `json:"type"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Reasoning      string           `json:"reasoning"`
	ExpectedImpact string           `json:"expected_impact"`
	ActionData     string           `json:"action_data"` // JSON com parâmetros da ação
	Priority       int              `json:"priority"`
	Status         SuggestionStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}
