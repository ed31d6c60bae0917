package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	metadomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta/domain"
)

type responseAdInsights struct {
	Data   []metadomain.AdInsight `json:"data"`
	Paging metadomain.Paging      `json:"paging"`
}

// GetAdInsights busca os insights agregados do anúncio no período.
func (c *MetaClient) GetAdInsights(ctx context.Context, adID, accessToken, datePreset string) ([]metadomain.AdInsight, error) {
	params := url.Values{}
	params.Add("fields", "ad_id,ad_name,impressions,clicks,spend,ctr")
	params.Add("date_preset", datePreset)
	params.Add("access_token", accessToken)

	var response responseAdInsights
	if err := c.requestJSON(ctx, http.MethodGet, c.graphURL(fmt.Sprintf("%s/insights", adID), params), nil, &response); err != nil {
		return nil, err
	}

	return response.Data, nil
}
