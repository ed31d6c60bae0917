package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	metadomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta/domain"
)

type responseCampaigns struct {
	Data   []metadomain.Campaign `json:"data"`
	Paging metadomain.Paging     `json:"paging"`
}

// ListCampaigns percorre todas as páginas de campanhas da conta seguindo o
// cursor paging.cursors.after.
func (c *MetaClient) ListCampaigns(ctx context.Context, adAccountID, accessToken string) ([]metadomain.Campaign, error) {
	campaigns := make([]metadomain.Campaign, 0)
	after := ""

	for {
		params := url.Values{}
		params.Add("fields", "id,name,status,objective,daily_budget,created_time,updated_time")
		params.Add("limit", strconv.Itoa(c.Cfg.Meta.PageSize))
		params.Add("access_token", accessToken)
		if after != "" {
			params.Add("after", after)
		}

		var response responseCampaigns
		if err := c.requestJSON(ctx, http.MethodGet, c.graphURL(fmt.Sprintf("act_%s/campaigns", adAccountID), params), nil, &response); err != nil {
			return nil, err
		}

		campaigns = append(campaigns, response.Data...)

		if response.Paging.Next == "" || response.Paging.Cursors.After == "" {
			break
		}
		after = response.Paging.Cursors.After
	}

	logrus.WithFields(logrus.Fields{
		"ad_account_id": adAccountID,
		"total":         len(campaigns),
	}).Debug("meta: campanhas carregadas")

	return campaigns, nil
}
