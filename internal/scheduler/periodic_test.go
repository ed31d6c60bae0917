package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
)

func testSchedulerConfig() *config.Config {
	return &config.Config{
		TaskQueue: config.TaskQueue{
			WorkersSetup:       1,
			WorkersTrends:      1,
			WorkersAnalysis:    1,
			WorkersAI:          1,
			WorkersMaintenance: 1,
			WorkersWebhooks:    1,
			WorkersSync:        1,
			BufferSize:         8,
			MaxAttempts:        3,
			BackoffBase:        time.Millisecond,
			BackoffCap:         4 * time.Millisecond,
			SoftTimeLimit:      time.Second,
			HardTimeLimit:      2 * time.Second,
		},
		Schedules: config.Schedules{
			DetectTrendsCron:   "0 */6 * * *",
			RunDiagnosticsCron: "0 3 * * *",
			TrainAIModelsCron:  "0 4 * * 0",
			CleanupOldDataCron: "0 5 * * 0",
			PeriodicEnabled:    true,
			OverlapPolicy:      OverlapSkip,
		},
	}
}

// startedDispatcher sobe um despachador real com repositório mockado e
// handlers que seguram a execução até release ser fechado.
func startedDispatcher(t *testing.T, jobs *mocks.MockSyncJobRepository, release chan struct{}) *taskqueue.Dispatcher {
	t.Helper()

	cfg := testSchedulerConfig()
	d := taskqueue.NewDispatcher(cfg.TaskQueue, jobs)

	handler := func(context.Context, *domain.SyncJob) error {
		if release != nil {
			<-release
		}
		return nil
	}

	d.Register(domain.JobKindDetectTrends, taskqueue.QueueTrends, handler)
	d.Register(domain.JobKindRunDiagnostics, taskqueue.QueueAnalysis, handler)
	d.Register(domain.JobKindTrainAIModels, taskqueue.QueueAI, handler)
	d.Register(domain.JobKindCleanupOldData, taskqueue.QueueMaintenance, handler)
	d.Register(domain.JobKindSyncProducts, taskqueue.QueueSync, handler)
	d.Register(domain.JobKindSyncOrders, taskqueue.QueueSync, handler)
	d.Register(domain.JobKindSyncCampaigns, taskqueue.QueueSync, handler)
	d.Register(domain.JobKindSyncAds, taskqueue.QueueSync, handler)

	jobs.EXPECT().
		ListByStatus(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	assert.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)

	return d
}

func TestPeriodicScheduler_RunNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	jobs.EXPECT().MarkRunning(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	jobs.EXPECT().MarkCompleted(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	dispatcher := startedDispatcher(t, jobs, nil)
	scheduler := NewPeriodicScheduler(dispatcher, testSchedulerConfig())

	job, err := scheduler.RunNow(context.Background(), domain.JobKindDetectTrends)
	assert.NoError(t, err)
	assert.Equal(t, domain.JobKindDetectTrends, job.Kind)
	// Disparo agendado cobre todas as lojas.
	assert.Empty(t, job.StoreID)
}

func TestPeriodicScheduler_RunNow_KindNaoAgendavel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	dispatcher := startedDispatcher(t, jobs, nil)
	scheduler := NewPeriodicScheduler(dispatcher, testSchedulerConfig())

	// Jobs de sincronização não fazem parte da tabela de recorrência.
	job, err := scheduler.RunNow(context.Background(), domain.JobKindSyncProducts)
	assert.Nil(t, job)
	assert.ErrorContains(t, err, "kind não agendável")
}

func TestPeriodicScheduler_TriggerManualSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(4)
	jobs.EXPECT().MarkRunning(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	jobs.EXPECT().MarkCompleted(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	dispatcher := startedDispatcher(t, jobs, nil)
	scheduler := NewPeriodicScheduler(dispatcher, testSchedulerConfig())

	enqueued, err := scheduler.TriggerManualSync(context.Background(), "store-1")
	assert.NoError(t, err)
	assert.Len(t, enqueued, 4)

	kinds := make([]string, 0, len(enqueued))
	for _, job := range enqueued {
		kinds = append(kinds, job.Kind)
		assert.Equal(t, "store-1", job.StoreID)
	}
	assert.Equal(t, []string{
		domain.JobKindSyncProducts,
		domain.JobKindSyncOrders,
		domain.JobKindSyncCampaigns,
		domain.JobKindSyncAds,
	}, kinds)
}

func TestPeriodicScheduler_FireRespeitaPoliticaDeSobreposicao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
			job.ID = "job-1"
			return nil
		})
	jobs.EXPECT().MarkRunning(gomock.Any(), "job-1").Return(nil)
	jobs.EXPECT().MarkCompleted(gomock.Any(), "job-1").Return(nil).AnyTimes()

	release := make(chan struct{})
	dispatcher := startedDispatcher(t, jobs, release)

	scheduler := NewPeriodicScheduler(dispatcher, testSchedulerConfig())
	entry := scheduler.entries[0]

	// Primeiro disparo enfileira e fica em execução segurado pelo handler.
	scheduler.fire(context.Background(), entry)
	assert.Eventually(t, func() bool {
		return dispatcher.InFlight(entry.Kind) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, entry.LastRun.IsZero())

	// Segundo disparo com execução em andamento é pulado.
	scheduler.fire(context.Background(), entry)
	assert.False(t, entry.LastSkip.IsZero())

	close(release)
}

func TestPeriodicScheduler_FirePoliticaAllowEnfileiraMesmoComExecucao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	jobs.EXPECT().MarkRunning(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	jobs.EXPECT().MarkCompleted(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	release := make(chan struct{})
	dispatcher := startedDispatcher(t, jobs, release)

	scheduler := NewPeriodicScheduler(dispatcher, testSchedulerConfig())
	entry := scheduler.entries[0]
	// A política é da entrada; as demais continuam em skip.
	entry.Overlap = OverlapAllow

	scheduler.fire(context.Background(), entry)
	assert.Eventually(t, func() bool {
		return dispatcher.InFlight(entry.Kind) == 1
	}, 2*time.Second, 10*time.Millisecond)

	scheduler.fire(context.Background(), entry)
	assert.True(t, entry.LastSkip.IsZero())
	assert.Equal(t, OverlapSkip, scheduler.entries[1].Overlap)

	close(release)
}

func TestPeriodicScheduler_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	dispatcher := startedDispatcher(t, jobs, nil)

	cfg := testSchedulerConfig()
	scheduler := NewPeriodicScheduler(dispatcher, cfg)

	statuses := scheduler.GetStatus()
	assert.Len(t, statuses, 4)
	assert.Equal(t, domain.JobKindDetectTrends, statuses[0].Kind)
	assert.Equal(t, cfg.Schedules.DetectTrendsCron, statuses[0].Cron)
	assert.Equal(t, OverlapSkip, statuses[0].Overlap)
	assert.Zero(t, statuses[0].InFlight)
	assert.True(t, statuses[0].LastRun.IsZero())
}

func TestPeriodicScheduler_StartDesabilitadoPorConfiguracao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	dispatcher := taskqueue.NewDispatcher(testSchedulerConfig().TaskQueue, jobs)

	cfg := testSchedulerConfig()
	cfg.Schedules.PeriodicEnabled = false

	scheduler := NewPeriodicScheduler(dispatcher, cfg)
	assert.NoError(t, scheduler.Start(context.Background()))
}
