package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
)

// OverlapSkip descarta o disparo quando ainda há execução do mesmo kind em
// andamento. OverlapAllow enfileira mesmo assim.
const (
	OverlapSkip  = "skip"
	OverlapAllow = "allow"
)

// Entry é uma linha da tabela de recorrência: um kind de job, sua expressão
// cron e a política de sobreposição daquela entrada.
type Entry struct {
	Kind     string
	Cron     string
	Overlap  string
	LastRun  time.Time
	LastSkip time.Time
}

// PeriodicScheduler dispara os jobs recorrentes nas expressões cron
// configuradas, respeitando a política de sobreposição.
type PeriodicScheduler struct {
	scheduler  *gocron.Scheduler
	dispatcher *taskqueue.Dispatcher
	cfg        *config.Config

	mutex   sync.Mutex
	entries []*Entry
}

// EntryStatus é a visão somente leitura de uma entrada, exposta pela API.
type EntryStatus struct {
	Kind     string    `json:"kind"`
	Cron     string    `json:"cron"`
	Overlap  string    `json:"overlap"`
	LastRun  time.Time `json:"last_run,omitempty"`
	LastSkip time.Time `json:"last_skip,omitempty"`
	InFlight int       `json:"in_flight"`
}

func NewPeriodicScheduler(dispatcher *taskqueue.Dispatcher, cfg *config.Config) *PeriodicScheduler {
	// A configuração define a política padrão; cada entrada carrega a sua e
	// pode divergir do padrão.
	overlap := cfg.Schedules.OverlapPolicy
	if overlap == "" {
		overlap = OverlapSkip
	}

	entries := []*Entry{
		{Kind: domain.JobKindDetectTrends, Cron: cfg.Schedules.DetectTrendsCron, Overlap: overlap},
		{Kind: domain.JobKindRunDiagnostics, Cron: cfg.Schedules.RunDiagnosticsCron, Overlap: overlap},
		{Kind: domain.JobKindTrainAIModels, Cron: cfg.Schedules.TrainAIModelsCron, Overlap: overlap},
		{Kind: domain.JobKindCleanupOldData, Cron: cfg.Schedules.CleanupOldDataCron, Overlap: overlap},
	}

	return &PeriodicScheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		dispatcher: dispatcher,
		cfg:        cfg,
		entries:    entries,
	}
}

// Start registra todas as entradas no agendador e o coloca para rodar em
// segundo plano. O contexto cancela o agendador na descida do processo.
func (s *PeriodicScheduler) Start(ctx context.Context) error {
	if !s.cfg.Schedules.PeriodicEnabled {
		logrus.Info("scheduler: jobs periódicos desabilitados por configuração")
		return nil
	}

	for _, entry := range s.entries {
		entry := entry
		_, err := s.scheduler.Cron(entry.Cron).Do(func() {
			s.fire(ctx, entry)
		})
		if err != nil {
			return fmt.Errorf("erro ao agendar job %s (%s): %w", entry.Kind, entry.Cron, err)
		}

		logrus.WithFields(logrus.Fields{
			"kind": entry.Kind,
			"cron": entry.Cron,
		}).Info("scheduler: job periódico agendado")
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("scheduler: parando jobs periódicos")
		s.scheduler.Stop()
	}()

	return nil
}

// fire enfileira uma ocorrência do job, a menos que a política da entrada
// mande pular disparos concorrentes. A checagem olha só tentativas em
// execução; uma ocorrência já aceita mas ainda no buffer da fila não conta
// como sobreposição.
func (s *PeriodicScheduler) fire(ctx context.Context, entry *Entry) {
	if entry.Overlap != OverlapAllow {
		if inFlight := s.dispatcher.InFlight(entry.Kind); inFlight > 0 {
			s.mutex.Lock()
			entry.LastSkip = time.Now().UTC()
			s.mutex.Unlock()

			logrus.WithFields(logrus.Fields{
				"kind":      entry.Kind,
				"in_flight": inFlight,
			}).Info("scheduler: execução anterior em andamento, pulando disparo")
			return
		}
	}

	// store_id vazio: o handler resolve todas as lojas.
	if _, err := s.dispatcher.Enqueue(ctx, entry.Kind, "", nil); err != nil {
		logrus.WithField("kind", entry.Kind).WithError(err).Error("scheduler: falha ao enfileirar job periódico")
		return
	}

	s.mutex.Lock()
	entry.LastRun = time.Now().UTC()
	s.mutex.Unlock()
}

// RunNow enfileira imediatamente uma ocorrência avulsa de um job periódico.
func (s *PeriodicScheduler) RunNow(ctx context.Context, kind string) (*domain.SyncJob, error) {
	for _, entry := range s.entries {
		if entry.Kind == kind {
			return s.dispatcher.Enqueue(ctx, kind, "", nil)
		}
	}
	return nil, fmt.Errorf("kind não agendável: %s", kind)
}

// TriggerManualSync enfileira o ciclo completo de sincronização de uma loja.
func (s *PeriodicScheduler) TriggerManualSync(ctx context.Context, storeID string) ([]*domain.SyncJob, error) {
	kinds := []string{
		domain.JobKindSyncProducts,
		domain.JobKindSyncOrders,
		domain.JobKindSyncCampaigns,
		domain.JobKindSyncAds,
	}

	jobs := make([]*domain.SyncJob, 0, len(kinds))
	for _, kind := range kinds {
		job, err := s.dispatcher.Enqueue(ctx, kind, storeID, nil)
		if err != nil {
			return jobs, fmt.Errorf("erro ao enfileirar %s: %w", kind, err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// GetStatus retorna a situação atual de cada entrada da tabela.
func (s *PeriodicScheduler) GetStatus() []EntryStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	statuses := make([]EntryStatus, 0, len(s.entries))
	for _, entry := range s.entries {
		statuses = append(statuses, EntryStatus{
			Kind:     entry.Kind,
			Cron:     entry.Cron,
			Overlap:  entry.Overlap,
			LastRun:  entry.LastRun,
			LastSkip: entry.LastSkip,
			InFlight: s.dispatcher.InFlight(entry.Kind),
		})
	}
	return statuses
}
