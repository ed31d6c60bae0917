package shopifyclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	shopifydomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/domain"
)

// ListOrders percorre todas as páginas de pedidos. O filtro since usa
// updated_at_min, para que pedidos editados também entrem na varredura.
func (c *ShopifyClient) ListOrders(ctx context.Context, shopURL, accessToken string, since *time.Time) ([]shopifydomain.Order, error) {
	orders := make([]shopifydomain.Order, 0)
	pageInfo := ""

	for {
		params := url.Values{}
		params.Add("limit", strconv.Itoa(c.Cfg.Shopify.PageSize))
		params.Add("status", "any")
		if pageInfo != "" {
			// A API rejeita filtros combinados com page_info; o cursor já
			// carrega os filtros da primeira página.
			params = url.Values{}
			params.Add("limit", strconv.Itoa(c.Cfg.Shopify.PageSize))
			params.Add("page_info", pageInfo)
		} else if since != nil {
			params.Add("updated_at_min", since.UTC().Format(time.RFC3339))
		}

		var response shopifydomain.OrdersResponse
		header, err := c.requestJSON(ctx, http.MethodGet, c.apiURL(shopURL, "orders", params), accessToken, nil, &response)
		if err != nil {
			return nil, err
		}

		orders = append(orders, response.Orders...)

		pageInfo = nextPageInfo(header)
		if pageInfo == "" {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"shop_url": shopURL,
		"total":    len(orders),
	}).Debug("shopify: pedidos carregados")

	return orders, nil
}
