package ingesting

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

var (
	// ErrUnknownTopic indica tópico de webhook não mapeado para nenhum kind.
	ErrUnknownTopic = errors.New("tópico de webhook desconhecido")

	// ErrUnknownAccount indica evento de uma loja/conta não cadastrada.
	ErrUnknownAccount = errors.New("conta de origem não cadastrada")
)

// Tópicos aceitos da Shopify. Qualquer outro é rejeitado antes do enfileiramento.
var shopifyTopics = map[string]bool{
	"products/create":         true,
	"products/update":         true,
	"products/delete":         true,
	"orders/create":           true,
	"orders/updated":          true,
	"inventory_levels/update": true,
}

// WebhookEvent é o payload persistido no descritor do job de webhook.
type WebhookEvent struct {
	Platform string `json:"platform"`
	Topic    string `json:"topic"`
	Body     []byte `json:"body"`
}

// Enqueuer é a visão do ingestor sobre o despachador de jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, kind, storeID string, payload any) (*domain.SyncJob, error)
}

type Ingestor interface {
	IngestShopify(ctx context.Context, topic, shopDomain, signature string, body []byte) (*domain.SyncJob, error)
	IngestMeta(ctx context.Context, adAccountID, signature string, body []byte) (*domain.SyncJob, error)
}

// Service valida a assinatura HMAC do webhook de forma síncrona e delega o
// processamento do corpo para a fila de webhooks. A resposta ao emissor não
// espera o processamento.
type Service struct {
	cfg         *config.Config
	accountRepo repository.AccountRepository
	dispatcher  Enqueuer
}

func NewService(cfg *config.Config, accountRepo repository.AccountRepository, dispatcher Enqueuer) Ingestor {
	return &Service{
		cfg:         cfg,
		accountRepo: accountRepo,
		dispatcher:  dispatcher,
	}
}

// IngestShopify valida o HMAC do cabeçalho X-Shopify-Hmac-Sha256 (base64),
// resolve a loja pelo domínio e enfileira o evento.
func (s *Service) IngestShopify(ctx context.Context, topic, shopDomain, signature string, body []byte) (*domain.SyncJob, error) {
	if !validShopifySignature(s.cfg.Shopify.WebhookSecret, signature, body) {
		logrus.WithFields(logrus.Fields{
			"topic":    topic,
			"shop_url": shopDomain,
		}).Warn("ingesting: webhook da Shopify com assinatura inválida rejeitado")
		return nil, syncErrors.ErrSignatureMismatch
	}

	if !shopifyTopics[topic] {
		return nil, ErrUnknownTopic
	}

	account, err := s.accountRepo.GetByExternalID(ctx, domain.PlatformShopify, shopDomain)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownAccount
	}

	event := WebhookEvent{
		Platform: string(domain.PlatformShopify),
		Topic:    topic,
		Body:     body,
	}

	return s.dispatcher.Enqueue(ctx, domain.JobKindProcessShopifyWebhook, account.StoreID, event)
}

// IngestMeta valida o cabeçalho X-Hub-Signature-256 (sha256= + hex),
// resolve a loja pela conta de anúncios e enfileira o evento.
func (s *Service) IngestMeta(ctx context.Context, adAccountID, signature string, body []byte) (*domain.SyncJob, error) {
	if !validMetaSignature(s.cfg.Meta.AppSecret, signature, body) {
		logrus.WithField("ad_account_id", adAccountID).
			Warn("ingesting: webhook do Meta com assinatura inválida rejeitado")
		return nil, syncErrors.ErrSignatureMismatch
	}

	account, err := s.accountRepo.GetByExternalID(ctx, domain.PlatformMeta, adAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownAccount
	}

	event := WebhookEvent{
		Platform: string(domain.PlatformMeta),
		Topic:    "changes",
		Body:     body,
	}

	return s.dispatcher.Enqueue(ctx, domain.JobKindProcessMetaWebhook, account.StoreID, event)
}

// validShopifySignature compara em tempo constante o HMAC-SHA256 do corpo,
// codificado em base64, com o valor do cabeçalho.
func validShopifySignature(secret, signature string, body []byte) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// validMetaSignature compara em tempo constante o HMAC-SHA256 do corpo,
// codificado em hex com prefixo sha256=, com o valor do cabeçalho.
func validMetaSignature(secret, signature string, body []byte) bool {
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
