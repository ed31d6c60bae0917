package shopifyclient

import (
	"context"
	"fmt"
	"net/http"

	shopifydomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

// ExchangeToken troca o código do callback OAuth por um access token
// permanente da loja.
func (c *ShopifyClient) ExchangeToken(ctx context.Context, shopURL, code string) (*shopifydomain.AccessTokenResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.Cfg.Shopify.APIKey,
		"client_secret": c.Cfg.Shopify.APISecret,
		"code":          code,
	})
	if err != nil {
		return nil, err
	}

	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", shopURL)

	var response shopifydomain.AccessTokenResponse
	if _, err := c.requestJSON(ctx, http.MethodPost, tokenURL, "", payload, &response); err != nil {
		return nil, err
	}

	if response.AccessToken == "" {
		return nil, &syncErrors.UpstreamFormatError{
			Platform: "shopify",
			Err:      fmt.Errorf("resposta de token sem access_token"),
		}
	}

	return &response, nil
}
