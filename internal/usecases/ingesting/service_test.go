package ingesting

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

const (
	shopifySecret = "segredo-shopify"
	metaSecret    = "segredo-meta"
)

// stubEnqueuer captura o enfileiramento sem subir o despachador real.
type stubEnqueuer struct {
	kind    string
	storeID string
	payload any
	err     error
}

func (s *stubEnqueuer) Enqueue(_ context.Context, kind, storeID string, payload any) (*domain.SyncJob, error) {
	s.kind = kind
	s.storeID = storeID
	s.payload = payload
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SyncJob{ID: "job-1", Kind: kind, StoreID: storeID, Status: domain.JobStatusPending}, nil
}

func testIngestConfig() *config.Config {
	return &config.Config{
		Shopify: config.Shopify{WebhookSecret: shopifySecret},
		Meta:    config.Meta{AppSecret: metaSecret},
	}
}

func shopifySignature(body []byte) string {
	mac := hmac.New(sha256.New, []byte(shopifySecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func metaSignature(body []byte) string {
	mac := hmac.New(sha256.New, []byte(metaSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestService_IngestShopify(t *testing.T) {
	body := []byte(`{"id":123,"title":"Camiseta"}`)
	shopDomain := "loja.myshopify.com"

	tests := []struct {
		name      string
		topic     string
		signature string
		setup     func(accounts *mocks.MockAccountRepository)
		validate  func(t *testing.T, enq *stubEnqueuer, job *domain.SyncJob, err error)
	}{
		{
			name:      "Assinatura válida enfileira o evento na fila de webhooks",
			topic:     "products/update",
			signature: shopifySignature(body),
			setup: func(accounts *mocks.MockAccountRepository) {
				accounts.EXPECT().
					GetByExternalID(gomock.Any(), domain.PlatformShopify, shopDomain).
					Return(&domain.ConnectedAccount{ID: "acc-1", StoreID: "store-1"}, nil)
			},
			validate: func(t *testing.T, enq *stubEnqueuer, job *domain.SyncJob, err error) {
				assert.NoError(t, err)
				assert.Equal(t, domain.JobKindProcessShopifyWebhook, enq.kind)
				assert.Equal(t, "store-1", enq.storeID)

				event, ok := enq.payload.(WebhookEvent)
				assert.True(t, ok)
				assert.Equal(t, "products/update", event.Topic)
				assert.Equal(t, body, event.Body)
				assert.Equal(t, "job-1", job.ID)
			},
		},
		{
			name:      "Assinatura inválida é rejeitada antes de tocar o banco",
			topic:     "products/update",
			signature: "assinatura-forjada",
			setup:     func(accounts *mocks.MockAccountRepository) {},
			validate: func(t *testing.T, enq *stubEnqueuer, job *domain.SyncJob, err error) {
				assert.ErrorIs(t, err, syncErrors.ErrSignatureMismatch)
				assert.Empty(t, enq.kind)
			},
		},
		{
			name:      "Assinatura ausente é rejeitada",
			topic:     "products/update",
			signature: "",
			setup:     func(accounts *mocks.MockAccountRepository) {},
			validate: func(t *testing.T, enq *stubEnqueuer, job *domain.SyncJob, err error) {
				assert.ErrorIs(t, err, syncErrors.ErrSignatureMismatch)
			},
		},
		{
			name:      "Tópico desconhecido é rejeitado",
			topic:     "fulfillments/create",
			signature: shopifySignature(body),
			setup:     func(accounts *mocks.MockAccountRepository) {},
			validate: func(t *testing.T, enq *stubEnqueuer, job *domain.SyncJob, err error) {
				assert.ErrorIs(t, err, ErrUnknownTopic)
			},
		},
		{
			name:      "Loja não cadastrada é rejeitada",
			topic:     "orders/create",
			signature: shopifySignature(body),
			setup: func(accounts *mocks.MockAccountRepository) {
				accounts.EXPECT().
					GetByExternalID(gomock.Any(), domain.PlatformShopify, shopDomain).
					Return(nil, nil)
			},
			validate: func(t *testing.T, enq *stubEnqueuer, job *domain.SyncJob, err error) {
				assert.ErrorIs(t, err, ErrUnknownAccount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accounts := mocks.NewMockAccountRepository(ctrl)
			tt.setup(accounts)

			enq := &stubEnqueuer{}
			service := NewService(testIngestConfig(), accounts, enq)

			job, err := service.IngestShopify(context.Background(), tt.topic, shopDomain, tt.signature, body)
			tt.validate(t, enq, job, err)
		})
	}
}

func TestService_IngestMeta(t *testing.T) {
	body := []byte(`{"object":"ad_account","entry":[{"id":"act_123"}]}`)

	tests := []struct {
		name      string
		signature string
		setup     func(accounts *mocks.MockAccountRepository)
		validate  func(t *testing.T, enq *stubEnqueuer, err error)
	}{
		{
			name:      "Assinatura válida enfileira o evento",
			signature: metaSignature(body),
			setup: func(accounts *mocks.MockAccountRepository) {
				accounts.EXPECT().
					GetByExternalID(gomock.Any(), domain.PlatformMeta, "act_123").
					Return(&domain.ConnectedAccount{ID: "acc-2", StoreID: "store-1"}, nil)
			},
			validate: func(t *testing.T, enq *stubEnqueuer, err error) {
				assert.NoError(t, err)
				assert.Equal(t, domain.JobKindProcessMetaWebhook, enq.kind)
				assert.Equal(t, "store-1", enq.storeID)
			},
		},
		{
			name:      "Assinatura sem o prefixo sha256= é rejeitada",
			signature: "abcdef",
			setup:     func(accounts *mocks.MockAccountRepository) {},
			validate: func(t *testing.T, enq *stubEnqueuer, err error) {
				assert.ErrorIs(t, err, syncErrors.ErrSignatureMismatch)
			},
		},
		{
			name:      "Conta de anúncios não cadastrada é rejeitada",
			signature: metaSignature(body),
			setup: func(accounts *mocks.MockAccountRepository) {
				accounts.EXPECT().
					GetByExternalID(gomock.Any(), domain.PlatformMeta, "act_123").
					Return(nil, nil)
			},
			validate: func(t *testing.T, enq *stubEnqueuer, err error) {
				assert.ErrorIs(t, err, ErrUnknownAccount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accounts := mocks.NewMockAccountRepository(ctrl)
			tt.setup(accounts)

			enq := &stubEnqueuer{}
			service := NewService(testIngestConfig(), accounts, enq)

			_, err := service.IngestMeta(context.Background(), "act_123", tt.signature, body)
			tt.validate(t, enq, err)
		})
	}
}

// O corpo persistido no descritor precisa sobreviver à serialização do
// despachador sem perder o JSON original do webhook.
func TestWebhookEvent_RoundTrip(t *testing.T) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	original := WebhookEvent{
		Platform: string(domain.PlatformShopify),
		Topic:    "orders/create",
		Body:     []byte(`{"id":987,"total_price":"199.90"}`),
	}

	raw, err := json.Marshal(original)
	assert.NoError(t, err)

	var decoded WebhookEvent
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}
