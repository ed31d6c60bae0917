package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/usecases/ingesting"
	"github.com/joshaeeee/klyq-backend/pkg/apiErrors"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

// Headers do webhook da Shopify.
const (
	headerShopifyHmac   = "X-Shopify-Hmac-Sha256"
	headerShopifyTopic  = "X-Shopify-Topic"
	headerShopifyDomain = "X-Shopify-Shop-Domain"
)

// Header de assinatura do Meta.
const headerMetaSignature = "X-Hub-Signature-256"

// Limite de leitura do corpo do webhook. Payloads da Shopify ficam bem
// abaixo disso; acima é abuso.
const maxWebhookBodyBytes = 1 << 20

type webhookAcceptedResponse struct {
	JobID string `json:"job_id"`
}

// ShopifyWebhook valida a assinatura e enfileira o processamento. A
// resposta 200 sai antes de qualquer efeito no espelho.
func ShopifyWebhook(service ingesting.Ingestor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Não foi possível ler o corpo da requisição", nil)
			return
		}

		topic := r.Header.Get(headerShopifyTopic)
		shopDomain := r.Header.Get(headerShopifyDomain)
		signature := r.Header.Get(headerShopifyHmac)

		job, err := service.IngestShopify(r.Context(), topic, shopDomain, signature, body)
		if err != nil {
			writeIngestError(w, r, "shopify", topic, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(webhookAcceptedResponse{JobID: job.ID})
	}
}

// metachange é o envelope mínimo da notificação da Graph API; só o id da
// conta de anúncios interessa aqui, o resto vai cru para o job.
type metaChange struct {
	Entry []struct {
		ID string `json:"id"`
	} `json:"entry"`
}

// MetaWebhook valida a assinatura e enfileira o processamento.
func MetaWebhook(service ingesting.Ingestor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Não foi possível ler o corpo da requisição", nil)
			return
		}

		var change metaChange
		if err := json.Unmarshal(body, &change); err != nil || len(change.Entry) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Notificação sem entry identificável", nil)
			return
		}

		signature := r.Header.Get(headerMetaSignature)

		job, err := service.IngestMeta(r.Context(), change.Entry[0].ID, signature, body)
		if err != nil {
			writeIngestError(w, r, "meta", "", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(webhookAcceptedResponse{JobID: job.ID})
	}
}

// MetaWebhookVerify responde ao handshake de inscrição da Graph API
// (hub.challenge) quando o verify token confere.
func MetaWebhookVerify(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if query.Get("hub.mode") != "subscribe" || query.Get("hub.verify_token") != cfg.Meta.WebhookSecret {
			apiErrors.WriteError(w, apiErrors.ErrSignatureMismatch, "Verify token inválido", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(query.Get("hub.challenge"))); err != nil {
			logrus.WithError(err).Warn("erro ao responder o hub.challenge do Meta")
		}
	}
}

func writeIngestError(w http.ResponseWriter, r *http.Request, platform, topic string, err error) {
	logger := logrus.WithFields(logrus.Fields{
		"platform": platform,
		"topic":    topic,
	}).WithError(err)

	switch {
	case errors.Is(err, syncErrors.ErrSignatureMismatch):
		logger.Warn("webhook rejeitado: assinatura inválida")
		apiErrors.WriteError(w, apiErrors.ErrSignatureMismatch, "Assinatura do webhook inválida", nil)
	case errors.Is(err, ingesting.ErrUnknownTopic):
		logger.Warn("webhook rejeitado: tópico desconhecido")
		apiErrors.WriteError(w, apiErrors.ErrUnknownTopic, "Tópico de webhook não suportado", nil)
	case errors.Is(err, ingesting.ErrUnknownAccount):
		logger.Warn("webhook rejeitado: conta não cadastrada")
		apiErrors.WriteError(w, apiErrors.ErrUnknownAccount, "Conta de origem não cadastrada", nil)
	default:
		logger.Error("erro ao enfileirar webhook")
		apiErrors.WriteError(w, apiErrors.ErrQueueRejected, "Não foi possível enfileirar o evento", nil)
	}
}
