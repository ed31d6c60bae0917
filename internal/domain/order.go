package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order é o espelho local de um pedido da Shopify, chaveado por
// (store_id, external_id).
type Order struct {
	ID                string          `json:"id"`
	StoreID           string          `json:"store_id"`
	ExternalID        string          `json:"external_id"`
	OrderNumber       string          `json:"order_number"`
	Email             string          `json:"email"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	SubtotalPrice     decimal.Decimal `json:"subtotal_price"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	Currency          string          `json:"currency"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	ProcessedAt       *time.Time      `json:"processed_at"`

	// Campo local, marcado pelo job de limpeza; nunca tocado pela
	// reconciliação.
	Archived bool `json:"archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
