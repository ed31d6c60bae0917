package shopifyclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	shopifydomain "github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/domain"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

type Client interface {
	ListProducts(ctx context.Context, shopURL, accessToken string) ([]shopifydomain.Product, error)
	ListOrders(ctx context.Context, shopURL, accessToken string, since *time.Time) ([]shopifydomain.Order, error)
	CreateProduct(ctx context.Context, shopURL, accessToken string, product *shopifydomain.Product) (*shopifydomain.Product, error)
	UpdateVariantPrice(ctx context.Context, shopURL, accessToken string, variantID int64, price string) error
	ExchangeToken(ctx context.Context, shopURL, code string) (*shopifydomain.AccessTokenResponse, error)
}

type ShopifyClient struct {
	Cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &ShopifyClient{
		Cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest executa a chamada com retry exponencial para falhas transitórias
// (rede, 429, 5xx). Respostas 401/403 viram CredentialInvalidError sem
// retry; a conta precisa ser reautorizada, repetir não ajuda.
func (c *ShopifyClient) doRequest(ctx context.Context, method, rawURL, accessToken string, body []byte) ([]byte, http.Header, error) {
	var lastErr error

	for attempt := 0; attempt <= c.Cfg.Shopify.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDelay(attempt)
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"wait":    wait.String(),
				"url":     rawURL,
			}).Warn("shopify: retentando requisição após falha transitória")

			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, nil, err
		}

		if accessToken != "" {
			req.Header.Set("X-Shopify-Access-Token", accessToken)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			lastErr = &syncErrors.TransientError{Platform: "shopify", Err: err}
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = &syncErrors.TransientError{Platform: "shopify", Err: readErr}
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return respBody, resp.Header, nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, nil, &syncErrors.CredentialInvalidError{
				Platform:  "shopify",
				AccountID: shopURLFromRequest(rawURL),
				Err:       fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
			}
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = &syncErrors.TransientError{
				Platform: "shopify",
				Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
			}
			continue
		default:
			return nil, nil, fmt.Errorf("shopify: status inesperado %d: %s", resp.StatusCode, string(respBody))
		}
	}

	return nil, nil, lastErr
}

// requestJSON executa a chamada e decodifica a resposta. Um corpo que não
// decodifica é pedido de novo uma única vez antes de virar
// UpstreamFormatError; corrupção em trânsito costuma ser pontual.
func (c *ShopifyClient) requestJSON(ctx context.Context, method, rawURL, accessToken string, payload []byte, out any) (http.Header, error) {
	var formatErr error

	for attempt := 0; attempt < 2; attempt++ {
		body, header, err := c.doRequest(ctx, method, rawURL, accessToken, payload)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(body, out); err != nil {
			formatErr = err
			logrus.WithField("url", rawURL).WithError(err).
				Warn("shopify: resposta malformada, repetindo a chamada")
			continue
		}

		return header, nil
	}

	return nil, &syncErrors.UpstreamFormatError{Platform: "shopify", Err: formatErr}
}

func (c *ShopifyClient) apiURL(shopURL, resource string, params url.Values) string {
	base := fmt.Sprintf("https://%s/admin/api/%s/%s.json", shopURL, c.Cfg.Shopify.APIVersion, resource)
	if len(params) > 0 {
		return base + "?" + params.Encode()
	}
	return base
}

// backoffDelay devolve o atraso exponencial da tentativa, com teto de 30s.
func backoffDelay(attempt int) time.Duration {
	delay := time.Second * time.Duration(1<<uint(attempt-1))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}

var linkNextPattern = regexp.MustCompile(`<[^>]*[?&]page_info=([^&>]+)[^>]*>;\s*rel="next"`)

// nextPageInfo extrai o cursor page_info do cabeçalho Link (rel="next").
// Devolve vazio na última página.
func nextPageInfo(header http.Header) string {
	link := header.Get("Link")
	if link == "" {
		return ""
	}

	matches := linkNextPattern.FindStringSubmatch(link)
	if len(matches) < 2 {
		return ""
	}

	return matches[1]
}

func shopURLFromRequest(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
