package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	metadomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

type responseAds struct {
	Data   []metadomain.Ad   `json:"data"`
	Paging metadomain.Paging `json:"paging"`
}

// ListAds percorre todas as páginas de anúncios da conta.
func (c *MetaClient) ListAds(ctx context.Context, adAccountID, accessToken string) ([]metadomain.Ad, error) {
	ads := make([]metadomain.Ad, 0)
	after := ""

	for {
		params := url.Values{}
		params.Add("fields", "id,name,status,campaign_id,creative{id}")
		params.Add("limit", strconv.Itoa(c.Cfg.Meta.PageSize))
		params.Add("access_token", accessToken)
		if after != "" {
			params.Add("after", after)
		}

		var response responseAds
		if err := c.requestJSON(ctx, http.MethodGet, c.graphURL(fmt.Sprintf("act_%s/ads", adAccountID), params), nil, &response); err != nil {
			return nil, err
		}

		ads = append(ads, response.Data...)

		if response.Paging.Next == "" || response.Paging.Cursors.After == "" {
			break
		}
		after = response.Paging.Cursors.After
	}

	logrus.WithFields(logrus.Fields{
		"ad_account_id": adAccountID,
		"total":         len(ads),
	}).Debug("meta: anúncios carregados")

	return ads, nil
}

// UpdateAdStatus pausa ou reativa um anúncio (ação pause-ad).
func (c *MetaClient) UpdateAdStatus(ctx context.Context, adID, accessToken, status string) error {
	form := url.Values{}
	form.Add("status", status)
	form.Add("access_token", accessToken)

	if _, err := c.doRequest(ctx, http.MethodPost, c.graphURL(adID, nil), form); err != nil {
		return err
	}

	return nil
}

// CreateAd cria um anúncio novo reaproveitando um criativo existente.
func (c *MetaClient) CreateAd(ctx context.Context, adAccountID, accessToken, name, adsetID, creativeID string) (string, error) {
	form := url.Values{}
	form.Add("name", name)
	form.Add("adset_id", adsetID)
	form.Add("creative", fmt.Sprintf(`{"creative_id":"%s"}`, creativeID))
	form.Add("status", "PAUSED")
	form.Add("access_token", accessToken)

	body, err := c.doRequest(ctx, http.MethodPost, c.graphURL(fmt.Sprintf("act_%s/ads", adAccountID), nil), form)
	if err != nil {
		return "", err
	}

	// O POST não passa pelo requestJSON; repetir a criação duplicaria o
	// anúncio na conta.
	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &syncErrors.UpstreamFormatError{Platform: "meta", Err: err}
	}

	return response.ID, nil
}
