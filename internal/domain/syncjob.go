package domain

import "time"

// JobStatus é o ciclo de vida de um descritor de job. O despachador é o
// único componente que transiciona esses estados.
type JobStatus string

const (
	JobStatusPending        JobStatus = "pending"
	JobStatusRunning        JobStatus = "running"
	JobStatusCompleted      JobStatus = "completed"
	JobStatusFailed         JobStatus = "failed"
	JobStatusRetryScheduled JobStatus = "retry_scheduled"
)

// Kinds de job conhecidos. Cada kind pertence a exatamente uma fila; o
// registro acontece na subida do processo.
const (
	JobKindInitialSetup          = "initial_setup"
	JobKindSyncProducts          = "sync_products"
	JobKindSyncOrders            = "sync_orders"
	JobKindSyncCampaigns         = "sync_campaigns"
	JobKindSyncAds               = "sync_ads"
	JobKindProcessShopifyWebhook = "process_shopify_webhook"
	JobKindProcessMetaWebhook    = "process_meta_webhook"
	JobKindDetectTrends          = "detect_trends"
	JobKindRunDiagnostics        = "run_diagnostics"
	JobKindTrainAIModels         = "train_ai_models"
	JobKindCleanupOldData        = "cleanup_old_data"
)

// SyncJob é a unidade lógica de trabalho agendado ou disparado por evento.
type SyncJob struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Queue       string     `json:"queue"`
	StoreID     string     `json:"store_id"`
	Payload     []byte     `json:"payload"`
	Status      JobStatus  `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	LastError   string     `json:"last_error"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
