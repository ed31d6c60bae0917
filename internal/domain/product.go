package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product é o espelho local de um produto da Shopify. A chave de
// idempotência é o par (store_id, external_id); campos reportados pela
// plataforma são sempre sobrescritos pela última reconciliação.
type Product struct {
	ID                string          `json:"id"`
	StoreID           string          `json:"store_id"`
	ExternalID        string          `json:"external_id"`
	Title             string          `json:"title"`
	Handle            string          `json:"handle"`
	Description       string          `json:"description"`
	Vendor            string          `json:"vendor"`
	ProductType       string          `json:"product_type"`
	Status            string          `json:"status"`
	Price             decimal.Decimal `json:"price"`
	CompareAtPrice    decimal.Decimal `json:"compare_at_price"`
	SKU               string          `json:"sku"`
	InventoryQuantity int             `json:"inventory_quantity"`
	WeightGrams       int             `json:"weight_grams"`

	// Campos locais, derivados pelos jobs de análise; nunca tocados pela
	// reconciliação.
	HighInventory bool `json:"high_inventory"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
