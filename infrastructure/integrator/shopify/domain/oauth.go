package domain

// AccessTokenResponse é a resposta da troca de código OAuth da Shopify.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}
