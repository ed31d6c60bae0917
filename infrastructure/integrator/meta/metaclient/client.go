package metaclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta/domain"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	ListCampaigns(ctx context.Context, adAccountID, accessToken string) ([]metadomain.Campaign, error)
	ListAds(ctx context.Context, adAccountID, accessToken string) ([]metadomain.Ad, error)
	GetAdInsights(ctx context.Context, adID, accessToken, datePreset string) ([]metadomain.AdInsight, error)
	UpdateAdStatus(ctx context.Context, adID, accessToken, status string) error
	CreateAd(ctx context.Context, adAccountID, accessToken, name, adsetID, creativeID string) (string, error)
}

type MetaClient struct {
	Cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		Cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest executa a chamada com retry exponencial para falhas
// transitórias. Erros OAuth da Graph API (código 190 e subcódigos de token)
// viram CredentialInvalidError sem retry.
func (c *MetaClient) doRequest(ctx context.Context, method, rawURL string, form url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.Cfg.Meta.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDelay(attempt)
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"wait":    wait.String(),
			}).Warn("meta: retentando requisição após falha transitória")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		var reader io.Reader
		if form != nil {
			reader = bytes.NewReader([]byte(form.Encode()))
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, err
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = &syncErrors.TransientError{Platform: "meta", Err: err}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = &syncErrors.TransientError{Platform: "meta", Err: readErr}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		var errResponse metadomain.ErrorResponse
		if err := json.Unmarshal(body, &errResponse); err == nil && errResponse.IsCredentialError() {
			return nil, &syncErrors.CredentialInvalidError{
				Platform: "meta",
				Err:      fmt.Errorf("%s (code %d)", errResponse.Error.Message, errResponse.Error.Code),
			}
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = &syncErrors.TransientError{
				Platform: "meta",
				Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
			}
			continue
		}

		return nil, fmt.Errorf("meta: status inesperado %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}

// requestJSON executa a chamada e decodifica a resposta da Graph API. Um
// corpo que não decodifica é pedido de novo uma única vez antes de virar
// UpstreamFormatError; corrupção em trânsito costuma ser pontual.
func (c *MetaClient) requestJSON(ctx context.Context, method, rawURL string, form url.Values, out any) error {
	var formatErr error

	for attempt := 0; attempt < 2; attempt++ {
		body, err := c.doRequest(ctx, method, rawURL, form)
		if err != nil {
			return err
		}

		if err := json.Unmarshal(body, out); err != nil {
			formatErr = err
			logrus.WithError(err).Warn("meta: resposta malformada, repetindo a chamada")
			continue
		}

		return nil
	}

	return &syncErrors.UpstreamFormatError{Platform: "meta", Err: formatErr}
}

func (c *MetaClient) graphURL(path string, params url.Values) string {
	base := fmt.Sprintf("%s/%s", c.Cfg.Meta.URL, path)
	if len(params) > 0 {
		return base + "?" + params.Encode()
	}
	return base
}

func backoffDelay(attempt int) time.Duration {
	delay := time.Second * time.Duration(1<<uint(attempt-1))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}
