package taskqueue

import "github.com/joshaeeee/klyq-backend/internal/config"

// Nomes das filas. Cada fila tem um pool de workers próprio, para que
// backlog em uma não atrase as demais.
const (
	QueueSetup       = "setup"
	QueueTrends      = "trends"
	QueueAnalysis    = "analysis"
	QueueAI          = "ai"
	QueueMaintenance = "maintenance"
	QueueWebhooks    = "webhooks"
	QueueSync        = "sync"
)

// QueueNames lista todas as filas conhecidas, na ordem de criação dos pools.
func QueueNames() []string {
	return []string{
		QueueSetup,
		QueueTrends,
		QueueAnalysis,
		QueueAI,
		QueueMaintenance,
		QueueWebhooks,
		QueueSync,
	}
}

// workersFor devolve o tamanho do pool configurado para a fila.
func workersFor(cfg config.TaskQueue, queue string) int {
	switch queue {
	case QueueSetup:
		return cfg.WorkersSetup
	case QueueTrends:
		return cfg.WorkersTrends
	case QueueAnalysis:
		return cfg.WorkersAnalysis
	case QueueAI:
		return cfg.WorkersAI
	case QueueMaintenance:
		return cfg.WorkersMaintenance
	case QueueWebhooks:
		return cfg.WorkersWebhooks
	case QueueSync:
		return cfg.WorkersSync
	default:
		return 1
	}
}
