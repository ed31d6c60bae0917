package domain

import "time"

// Platform identifica a plataforma externa de uma conta conectada
type Platform string

const (
	PlatformShopify Platform = "shopify"
	PlatformMeta    Platform = "meta"
)

// AccountStatus indica se a credencial da conta ainda é utilizável
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "active"
	AccountStatusNeedsReauth AccountStatus = "needs_reauth"
)

// Store representa uma loja cadastrada na plataforma
type Store struct {
	ID        string    `json:"id"`
	ShopURL   string    `json:"shop_url"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ConnectedAccount é o conjunto de credenciais de uma plataforma externa
// para uma loja. Existe no máximo uma por par (loja, plataforma); criada no
// callback de OAuth e nunca removida: o token é rotacionado no lugar.
type ConnectedAccount struct {
	ID          string        `json:"id"`
	StoreID     string        `json:"store_id"`
	Platform    Platform      `json:"platform"`
	ExternalID  string        `json:"external_id"` // shop_url (Shopify) ou ad_account_id (Meta)
	AccessToken string        `json:"-"`
	Scopes      string        `json:"scopes"`
	Status      AccountStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
