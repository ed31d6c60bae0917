package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign é o espelho local de uma campanha do Meta Ads, chaveado por
// (store_id, external_id).
type Campaign struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	ExternalID  string          `json:"external_id"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	Objective   string          `json:"objective"`
	DailyBudget decimal.Decimal `json:"daily_budget"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Ad é o espelho local de um anúncio do Meta Ads, chaveado por
// (store_id, external_id).
type Ad struct {
	ID                 string    `json:"id"`
	StoreID            string    `json:"store_id"`
	ExternalID         string    `json:"external_id"`
	CampaignExternalID string    `json:"campaign_external_id"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	CreativeID         string    `json:"creative_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
