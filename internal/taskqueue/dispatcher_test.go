package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/joshaeeee/klyq-backend/infrastructure/repository/mocks"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

func testQueueConfig() config.TaskQueue {
	return config.TaskQueue{
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
	}
}

func expectEmptyRecover(jobs *mocks.MockSyncJobRepository) {
	jobs.EXPECT().
		ListByStatus(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)
}

func TestDispatcher_EnqueueBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	d := NewDispatcher(testQueueConfig(), jobs)
	d.Register(domain.JobKindSyncProducts, QueueSync, func(context.Context, *domain.SyncJob) error { return nil })

	_, err := d.Enqueue(context.Background(), domain.JobKindSyncProducts, "store-1", nil)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestDispatcher_EnqueueUnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	d := NewDispatcher(testQueueConfig(), jobs)

	_, err := d.Enqueue(context.Background(), "kind-inexistente", "store-1", nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDispatcher_JobCompletesOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	expectEmptyRecover(jobs)

	completed := make(chan struct{})
	var received *domain.SyncJob

	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
			job.ID = "job-1"
			return nil
		})
	jobs.EXPECT().MarkRunning(gomock.Any(), "job-1").Return(nil)
	jobs.EXPECT().MarkCompleted(gomock.Any(), "job-1").
		DoAndReturn(func(context.Context, string) error {
			close(completed)
			return nil
		})

	d := NewDispatcher(testQueueConfig(), jobs)
	d.Register(domain.JobKindSyncProducts, QueueSync, func(_ context.Context, job *domain.SyncJob) error {
		received = job
		return nil
	})

	assert.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	job, err := d.Enqueue(context.Background(), domain.JobKindSyncProducts, "store-1", map[string]string{"reason": "manual"})
	assert.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, QueueSync, job.Queue)
	assert.Equal(t, 3, job.MaxAttempts)

	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		t.Fatal("job não concluiu dentro do prazo")
	}

	assert.Equal(t, "store-1", received.StoreID)
	assert.JSONEq(t, `{"reason":"manual"}`, string(received.Payload))
}

func TestDispatcher_RetriesUntilTerminalFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	expectEmptyRecover(jobs)

	failed := make(chan struct{})

	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
			job.ID = "job-2"
			return nil
		})
	jobs.EXPECT().MarkRunning(gomock.Any(), "job-2").Return(nil).Times(3)
	jobs.EXPECT().MarkRetryScheduled(gomock.Any(), "job-2", gomock.Any()).Return(nil).Times(2)
	jobs.EXPECT().MarkFailed(gomock.Any(), "job-2", "api fora do ar").
		DoAndReturn(func(context.Context, string, string) error {
			close(failed)
			return nil
		})

	attempts := 0
	d := NewDispatcher(testQueueConfig(), jobs)
	d.Register(domain.JobKindSyncOrders, QueueSync, func(context.Context, *domain.SyncJob) error {
		attempts++
		return errors.New("api fora do ar")
	})

	assert.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	_, err := d.Enqueue(context.Background(), domain.JobKindSyncOrders, "store-1", nil)
	assert.NoError(t, err)

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("job não atingiu falha terminal dentro do prazo")
	}

	assert.Equal(t, 3, attempts)
}

func TestDispatcher_CredentialFailureIsTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	expectEmptyRecover(jobs)

	failed := make(chan struct{})

	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
			job.ID = "job-3"
			return nil
		})
	jobs.EXPECT().MarkRunning(gomock.Any(), "job-3").Return(nil)
	jobs.EXPECT().MarkFailed(gomock.Any(), "job-3", gomock.Any()).
		DoAndReturn(func(context.Context, string, string) error {
			close(failed)
			return nil
		})

	d := NewDispatcher(testQueueConfig(), jobs)
	d.Register(domain.JobKindSyncCampaigns, QueueSync, func(context.Context, *domain.SyncJob) error {
		return &syncErrors.CredentialInvalidError{
			Platform:  "meta",
			AccountID: "acc-1",
			Err:       errors.New("token expirado"),
		}
	})

	assert.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	_, err := d.Enqueue(context.Background(), domain.JobKindSyncCampaigns, "store-1", nil)
	assert.NoError(t, err)

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("job não falhou dentro do prazo")
	}
}

func TestDispatcher_InFlightTracksRunningJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	expectEmptyRecover(jobs)

	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
			job.ID = "job-4"
			return nil
		})
	jobs.EXPECT().MarkRunning(gomock.Any(), "job-4").Return(nil)

	completed := make(chan struct{})
	jobs.EXPECT().MarkCompleted(gomock.Any(), "job-4").
		DoAndReturn(func(context.Context, string) error {
			close(completed)
			return nil
		})

	started := make(chan struct{})
	release := make(chan struct{})

	d := NewDispatcher(testQueueConfig(), jobs)
	d.Register(domain.JobKindDetectTrends, QueueTrends, func(context.Context, *domain.SyncJob) error {
		close(started)
		<-release
		return nil
	})

	assert.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	assert.Equal(t, 0, d.InFlight(domain.JobKindDetectTrends))

	_, err := d.Enqueue(context.Background(), domain.JobKindDetectTrends, "", nil)
	assert.NoError(t, err)

	<-started
	assert.Equal(t, 1, d.InFlight(domain.JobKindDetectTrends))

	close(release)
	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		t.Fatal("job não concluiu dentro do prazo")
	}
}

func TestDispatcher_Requeue(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(jobs *mocks.MockSyncJobRepository)
		validate func(t *testing.T, job *domain.SyncJob, err error)
	}{
		{
			name: "Job terminal vira descritor novo com tentativas zeradas",
			setup: func(jobs *mocks.MockSyncJobRepository) {
				jobs.EXPECT().GetByID(gomock.Any(), "job-old").Return(&domain.SyncJob{
					ID:          "job-old",
					Kind:        domain.JobKindSyncProducts,
					Queue:       QueueSync,
					StoreID:     "store-1",
					Status:      domain.JobStatusFailed,
					Attempts:    3,
					MaxAttempts: 3,
				}, nil)
				jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
						job.ID = "job-new"
						return nil
					})
				jobs.EXPECT().MarkRunning(gomock.Any(), "job-new").Return(nil).AnyTimes()
				jobs.EXPECT().MarkCompleted(gomock.Any(), "job-new").Return(nil).AnyTimes()
			},
			validate: func(t *testing.T, job *domain.SyncJob, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "job-new", job.ID)
				assert.Equal(t, 0, job.Attempts)
				assert.Equal(t, domain.JobStatusPending, job.Status)
			},
		},
		{
			name: "Job ainda não terminal é rejeitado",
			setup: func(jobs *mocks.MockSyncJobRepository) {
				jobs.EXPECT().GetByID(gomock.Any(), "job-old").Return(&domain.SyncJob{
					ID:     "job-old",
					Kind:   domain.JobKindSyncProducts,
					Status: domain.JobStatusRunning,
				}, nil)
			},
			validate: func(t *testing.T, job *domain.SyncJob, err error) {
				assert.Nil(t, job)
				assert.ErrorContains(t, err, "não está em estado terminal")
			},
		},
		{
			name: "Job inexistente devolve nil sem erro",
			setup: func(jobs *mocks.MockSyncJobRepository) {
				jobs.EXPECT().GetByID(gomock.Any(), "job-old").Return(nil, nil)
			},
			validate: func(t *testing.T, job *domain.SyncJob, err error) {
				assert.Nil(t, job)
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			jobs := mocks.NewMockSyncJobRepository(ctrl)
			expectEmptyRecover(jobs)
			tt.setup(jobs)

			d := NewDispatcher(testQueueConfig(), jobs)
			d.Register(domain.JobKindSyncProducts, QueueSync, func(context.Context, *domain.SyncJob) error { return nil })

			assert.NoError(t, d.Start(context.Background()))
			defer d.Stop()

			job, err := d.Requeue(context.Background(), "job-old")
			tt.validate(t, job, err)
		})
	}
}

func TestDispatcher_HardLimitAbandonaATentativaERetenta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	expectEmptyRecover(jobs)

	failed := make(chan struct{})

	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
			job.ID = "job-lento"
			return nil
		})
	jobs.EXPECT().MarkRunning(gomock.Any(), "job-lento").Return(nil).Times(2)
	jobs.EXPECT().MarkRetryScheduled(gomock.Any(), "job-lento", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, reason string) error {
			assert.Contains(t, reason, "excedeu o limite de tempo")
			return nil
		})
	jobs.EXPECT().MarkFailed(gomock.Any(), "job-lento", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, reason string) error {
			assert.Contains(t, reason, "excedeu o limite de tempo")
			close(failed)
			return nil
		})

	cfg := testQueueConfig()
	cfg.MaxAttempts = 2
	cfg.SoftTimeLimit = 20 * time.Millisecond
	cfg.HardTimeLimit = 50 * time.Millisecond

	var attempts int32
	d := NewDispatcher(cfg, jobs)
	d.Register(domain.JobKindInitialSetup, QueueSetup, func(context.Context, *domain.SyncJob) error {
		atomic.AddInt32(&attempts, 1)
		// Ignora o contexto de propósito para estourar o limite rígido.
		time.Sleep(300 * time.Millisecond)
		return nil
	})

	assert.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	_, err := d.Enqueue(context.Background(), domain.JobKindInitialSetup, "store-1", nil)
	assert.NoError(t, err)

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("job não atingiu falha terminal dentro do prazo")
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestDispatcher_BacklogDeUmaFilaNaoAtrasaOutra(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)
	expectEmptyRecover(jobs)

	var nextID int32
	jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SyncJob) error {
			if job.Kind == domain.JobKindProcessShopifyWebhook {
				job.ID = "job-webhook"
				return nil
			}
			job.ID = fmt.Sprintf("job-ia-%d", atomic.AddInt32(&nextID, 1))
			return nil
		}).AnyTimes()
	jobs.EXPECT().MarkRunning(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	jobs.EXPECT().MarkRetryScheduled(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	jobs.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	webhookCompleted := make(chan struct{})
	jobs.EXPECT().MarkCompleted(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) error {
			if id == "job-webhook" {
				close(webhookCompleted)
			}
			return nil
		}).AnyTimes()

	cfg := testQueueConfig()
	cfg.BufferSize = 2

	aiStarted := make(chan struct{})
	release := make(chan struct{})

	d := NewDispatcher(cfg, jobs)
	d.Register(domain.JobKindTrainAIModels, QueueAI, func(ctx context.Context, job *domain.SyncJob) error {
		if job.ID == "job-ia-1" {
			close(aiStarted)
		}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	d.Register(domain.JobKindProcessShopifyWebhook, QueueWebhooks, func(context.Context, *domain.SyncJob) error {
		return nil
	})

	assert.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	// Um job de IA ocupando o worker mais dois no buffer lotam a fila.
	_, err := d.Enqueue(context.Background(), domain.JobKindTrainAIModels, "store-1", nil)
	assert.NoError(t, err)
	<-aiStarted

	for i := 0; i < cfg.BufferSize; i++ {
		_, err := d.Enqueue(context.Background(), domain.JobKindTrainAIModels, "store-1", nil)
		assert.NoError(t, err)
	}

	_, err = d.Enqueue(context.Background(), domain.JobKindTrainAIModels, "store-1", nil)
	assert.ErrorIs(t, err, ErrQueueFull)

	_, err = d.Enqueue(context.Background(), domain.JobKindProcessShopifyWebhook, "store-1", nil)
	assert.NoError(t, err)

	select {
	case <-webhookCompleted:
	case <-time.After(2 * time.Second):
		t.Fatal("fila de webhooks ficou presa atrás do backlog de IA")
	}

	// O backlog de IA continua parado enquanto o webhook já concluiu.
	assert.Equal(t, 1, d.InFlight(domain.JobKindTrainAIModels))
	assert.Equal(t, cfg.BufferSize, d.QueueDepth(QueueAI))

	close(release)
}

func TestDispatcher_RecoverRequeuesInterruptedJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := mocks.NewMockSyncJobRepository(ctrl)

	interrupted := []*domain.SyncJob{
		{ID: "job-a", Kind: domain.JobKindSyncProducts, Queue: QueueSync, Status: domain.JobStatusRunning, Attempts: 1, MaxAttempts: 3},
		{ID: "job-b", Kind: domain.JobKindSyncProducts, Queue: QueueSync, Status: domain.JobStatusRetryScheduled, Attempts: 3, MaxAttempts: 3},
	}
	jobs.EXPECT().
		ListByStatus(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(interrupted, nil)

	// job-b esgotou as tentativas antes do desligamento.
	jobs.EXPECT().MarkFailed(gomock.Any(), "job-b", gomock.Any()).Return(nil)

	resumed := make(chan string, 1)
	jobs.EXPECT().MarkRunning(gomock.Any(), "job-a").Return(nil)
	jobs.EXPECT().MarkCompleted(gomock.Any(), "job-a").
		DoAndReturn(func(_ context.Context, id string) error {
			resumed <- id
			return nil
		})

	d := NewDispatcher(testQueueConfig(), jobs)
	d.Register(domain.JobKindSyncProducts, QueueSync, func(context.Context, *domain.SyncJob) error { return nil })

	assert.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	select {
	case id := <-resumed:
		assert.Equal(t, "job-a", id)
	case <-time.After(2 * time.Second):
		t.Fatal("job interrompido não foi retomado dentro do prazo")
	}
}
