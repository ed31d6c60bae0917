package shopifyclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	shopifydomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ListProducts percorre todas as páginas do catálogo seguindo o cursor
// page_info do cabeçalho Link.
func (c *ShopifyClient) ListProducts(ctx context.Context, shopURL, accessToken string) ([]shopifydomain.Product, error) {
	products := make([]shopifydomain.Product, 0)
	pageInfo := ""

	for {
		params := url.Values{}
		params.Add("limit", strconv.Itoa(c.Cfg.Shopify.PageSize))
		if pageInfo != "" {
			params.Add("page_info", pageInfo)
		}

		var response shopifydomain.ProductsResponse
		header, err := c.requestJSON(ctx, http.MethodGet, c.apiURL(shopURL, "products", params), accessToken, nil, &response)
		if err != nil {
			return nil, err
		}

		products = append(products, response.Products...)

		pageInfo = nextPageInfo(header)
		if pageInfo == "" {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"shop_url": shopURL,
		"total":    len(products),
	}).Debug("shopify: catálogo de produtos carregado")

	return products, nil
}

// CreateProduct cria um produto novo na loja (usado na ação de bundle).
func (c *ShopifyClient) CreateProduct(ctx context.Context, shopURL, accessToken string, product *shopifydomain.Product) (*shopifydomain.Product, error) {
	payload, err := json.Marshal(shopifydomain.ProductResponse{Product: *product})
	if err != nil {
		return nil, err
	}

	body, _, err := c.doRequest(ctx, http.MethodPost, c.apiURL(shopURL, "products", nil), accessToken, payload)
	if err != nil {
		return nil, err
	}

	// O POST não passa pelo requestJSON; repetir a criação duplicaria o
	// produto na loja.
	var response shopifydomain.ProductResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &syncErrors.UpstreamFormatError{Platform: "shopify", Err: err}
	}

	return &response.Product, nil
}

// UpdateVariantPrice altera o preço de uma variante (ação update_price).
func (c *ShopifyClient) UpdateVariantPrice(ctx context.Context, shopURL, accessToken string, variantID int64, price string) error {
	payload, err := json.Marshal(map[string]any{
		"variant": map[string]any{
			"id":    variantID,
			"price": price,
		},
	})
	if err != nil {
		return err
	}

	resource := fmt.Sprintf("variants/%d", variantID)
	if _, _, err := c.doRequest(ctx, http.MethodPut, c.apiURL(shopURL, resource, nil), accessToken, payload); err != nil {
		return err
	}

	return nil
}
