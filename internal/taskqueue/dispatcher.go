package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/syncErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrQueueFull indica buffer da fila esgotado. O produtor decide se
	// devolve erro ao chamador ou descarta.
	ErrQueueFull = errors.New("fila cheia, job rejeitado")

	// ErrUnknownKind indica kind sem handler registrado.
	ErrUnknownKind = errors.New("tipo de job sem handler registrado")

	// ErrNotStarted indica enfileiramento antes de Start.
	ErrNotStarted = errors.New("despachador não iniciado")
)

// Handler executa uma tentativa de um job. O contexto carrega o limite
// brando de tempo; handlers devem observá-lo em operações longas.
type Handler func(ctx context.Context, job *domain.SyncJob) error

type registration struct {
	queue   string
	handler Handler
}

// Dispatcher mantém um pool de workers por fila e é o único componente que
// transiciona o estado dos descritores em sync_jobs.
type Dispatcher struct {
	cfg  config.TaskQueue
	jobs repository.SyncJobRepository

	mu       sync.Mutex
	handlers map[string]registration
	queues   map[string]chan *domain.SyncJob
	inFlight map[string]int
	started  bool

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewDispatcher(cfg config.TaskQueue, jobs repository.SyncJobRepository) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		jobs:     jobs,
		handlers: make(map[string]registration),
		queues:   make(map[string]chan *domain.SyncJob),
		inFlight: make(map[string]int),
	}
}

// Register associa um kind à sua fila e handler. Deve acontecer antes de
// Start; registros tardios são ignorados com log de erro.
func (d *Dispatcher) Register(kind, queue string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		logrus.WithField("kind", kind).Error("taskqueue: registro após Start ignorado")
		return
	}

	d.handlers[kind] = registration{queue: queue, handler: handler}
}

// Start sobe os pools de workers e recoloca na fila os descritores deixados
// em pending, running ou retry_scheduled por um desligamento abrupto.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return errors.New("despachador já iniciado")
	}

	d.baseCtx, d.cancel = context.WithCancel(context.Background())

	for _, queue := range QueueNames() {
		ch := make(chan *domain.SyncJob, d.cfg.BufferSize)
		d.queues[queue] = ch

		workers := workersFor(d.cfg, queue)
		for i := 0; i < workers; i++ {
			d.wg.Add(1)
			go d.worker(queue, ch)
		}

		logrus.WithFields(logrus.Fields{
			"queue":   queue,
			"workers": workers,
		}).Info("taskqueue: pool de workers iniciado")
	}

	d.started = true
	d.mu.Unlock()

	return d.recover(ctx)
}

// recover devolve à fila os jobs interrompidos. A tentativa em andamento no
// momento do desligamento conta como perdida; o contador de tentativas já a
// registra.
func (d *Dispatcher) recover(ctx context.Context) error {
	interrupted, err := d.jobs.ListByStatus(ctx, []domain.JobStatus{
		domain.JobStatusPending,
		domain.JobStatusRunning,
		domain.JobStatusRetryScheduled,
	}, 0)
	if err != nil {
		return fmt.Errorf("erro ao recuperar jobs interrompidos: %w", err)
	}

	requeued := 0
	for _, job := range interrupted {
		if job.Attempts >= job.MaxAttempts {
			_ = d.jobs.MarkFailed(ctx, job.ID, "tentativas esgotadas antes do desligamento")
			continue
		}

		if err := d.push(job); err != nil {
			logrus.WithFields(logrus.Fields{
				"job_id": job.ID,
				"kind":   job.Kind,
			}).WithError(err).Error("taskqueue: falha ao recolocar job interrompido")
			continue
		}
		requeued++
	}

	if requeued > 0 {
		logrus.WithField("total", requeued).Info("taskqueue: jobs interrompidos recolocados na fila")
	}

	return nil
}

// Stop cancela o contexto base e espera os workers drenarem o que estiver
// em execução. Jobs ainda no buffer ficam como pending e voltam na próxima
// subida via recover.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	d.mu.Unlock()

	cancel()
	d.wg.Wait()
	logrus.Info("taskqueue: despachador parado")
}

// Enqueue cria o descritor e o coloca na fila do kind. O payload é
// serializado em JSON; buffer cheio devolve ErrQueueFull com o descritor já
// marcado como failed.
func (d *Dispatcher) Enqueue(ctx context.Context, kind, storeID string, payload any) (*domain.SyncJob, error) {
	d.mu.Lock()
	reg, ok := d.handlers[kind]
	started := d.started
	d.mu.Unlock()

	if !ok {
		return nil, ErrUnknownKind
	}
	if !started {
		return nil, ErrNotStarted
	}

	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar payload: %w", err)
		}
	}

	job := &domain.SyncJob{
		Kind:        kind,
		Queue:       reg.queue,
		StoreID:     storeID,
		Payload:     raw,
		Status:      domain.JobStatusPending,
		MaxAttempts: d.cfg.MaxAttempts,
	}

	if err := d.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := d.push(job); err != nil {
		_ = d.jobs.MarkFailed(ctx, job.ID, err.Error())
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"kind":     kind,
		"queue":    reg.queue,
		"store_id": storeID,
	}).Debug("taskqueue: job enfileirado")

	return job, nil
}

// Requeue cria um descritor novo a partir de um job terminal, zerando as
// tentativas. É o caminho do reenfileiramento manual de falhas.
func (d *Dispatcher) Requeue(ctx context.Context, jobID string) (*domain.SyncJob, error) {
	original, err := d.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, nil
	}
	if original.Status != domain.JobStatusFailed {
		return nil, fmt.Errorf("job %s não está em estado terminal", jobID)
	}

	d.mu.Lock()
	reg, ok := d.handlers[original.Kind]
	d.mu.Unlock()
	if !ok {
		return nil, ErrUnknownKind
	}

	job := &domain.SyncJob{
		Kind:        original.Kind,
		Queue:       reg.queue,
		StoreID:     original.StoreID,
		Payload:     original.Payload,
		Status:      domain.JobStatusPending,
		MaxAttempts: d.cfg.MaxAttempts,
	}

	if err := d.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := d.push(job); err != nil {
		_ = d.jobs.MarkFailed(ctx, job.ID, err.Error())
		return nil, err
	}

	return job, nil
}

// InFlight informa quantas execuções do kind estão em andamento. Usado pela
// política de sobreposição do agendador.
func (d *Dispatcher) InFlight(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight[kind]
}

// QueueDepth informa o tamanho atual do buffer da fila.
func (d *Dispatcher) QueueDepth(queue string) int {
	d.mu.Lock()
	ch, ok := d.queues[queue]
	d.mu.Unlock()
	if !ok {
		return 0
	}
	return len(ch)
}

func (d *Dispatcher) push(job *domain.SyncJob) error {
	d.mu.Lock()
	ch, ok := d.queues[job.Queue]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("fila desconhecida: %s", job.Queue)
	}

	select {
	case ch <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker(queue string, ch <-chan *domain.SyncJob) {
	defer d.wg.Done()

	for {
		select {
		case <-d.baseCtx.Done():
			return
		case job := <-ch:
			d.execute(job)
		}
	}
}

// execute roda uma tentativa do job sob os dois limites de tempo: o brando
// vira deadline do contexto do handler; o rígido abandona a tentativa. Não
// há como matar a goroutine do handler, então após o limite rígido ela fica
// órfã com contexto cancelado e o resultado é descartado.
func (d *Dispatcher) execute(job *domain.SyncJob) {
	d.mu.Lock()
	reg, ok := d.handlers[job.Kind]
	d.mu.Unlock()
	if !ok {
		_ = d.jobs.MarkFailed(d.baseCtx, job.ID, ErrUnknownKind.Error())
		return
	}

	d.trackInFlight(job.Kind, 1)
	defer d.trackInFlight(job.Kind, -1)

	if err := d.jobs.MarkRunning(d.baseCtx, job.ID); err != nil {
		logrus.WithField("job_id", job.ID).WithError(err).Error("taskqueue: falha ao marcar job como running")
		return
	}
	job.Attempts++

	softCtx, cancelSoft := context.WithTimeout(d.baseCtx, d.cfg.SoftTimeLimit)
	defer cancelSoft()

	done := make(chan error, 1)
	go func() {
		done <- reg.handler(softCtx, job)
	}()

	hardTimer := time.NewTimer(d.cfg.HardTimeLimit)
	defer hardTimer.Stop()

	var runErr error
	select {
	case runErr = <-done:
	case <-hardTimer.C:
		cancelSoft()
		runErr = &syncErrors.JobTimeExceededError{Kind: job.Kind, Limit: d.cfg.HardTimeLimit}
	}

	d.settle(job, runErr)
}

// settle aplica a política de retry ao resultado da tentativa.
func (d *Dispatcher) settle(job *domain.SyncJob, runErr error) {
	logFields := logrus.Fields{
		"job_id":   job.ID,
		"kind":     job.Kind,
		"queue":    job.Queue,
		"attempt":  job.Attempts,
		"store_id": job.StoreID,
	}

	if runErr == nil {
		if err := d.jobs.MarkCompleted(d.baseCtx, job.ID); err != nil {
			logrus.WithFields(logFields).WithError(err).Error("taskqueue: falha ao marcar job como completed")
			return
		}
		logrus.WithFields(logFields).Info("taskqueue: job concluído")
		return
	}

	// Credencial inválida não melhora com retry: falha terminal imediata.
	if syncErrors.IsCredentialInvalid(runErr) {
		_ = d.jobs.MarkFailed(d.baseCtx, job.ID, runErr.Error())
		logrus.WithFields(logFields).WithError(runErr).Error("taskqueue: job falhou por credencial inválida")
		return
	}

	if job.Attempts < job.MaxAttempts {
		delay := BackoffDelay(job.Attempts, d.cfg.BackoffBase, d.cfg.BackoffCap)

		if err := d.jobs.MarkRetryScheduled(d.baseCtx, job.ID, runErr.Error()); err != nil {
			logrus.WithFields(logFields).WithError(err).Error("taskqueue: falha ao agendar retry")
			return
		}

		logrus.WithFields(logFields).WithFields(logrus.Fields{
			"delay": delay.String(),
			"error": runErr.Error(),
		}).Warn("taskqueue: tentativa falhou, retry agendado")

		time.AfterFunc(delay, func() {
			select {
			case <-d.baseCtx.Done():
				// O recover da próxima subida recoloca o job.
				return
			default:
			}

			if err := d.push(job); err != nil {
				_ = d.jobs.MarkFailed(d.baseCtx, job.ID, err.Error())
				logrus.WithFields(logFields).WithError(err).Error("taskqueue: falha ao recolocar job para retry")
			}
		})
		return
	}

	terminal := &syncErrors.TerminalJobFailureError{
		JobID:    job.ID,
		Kind:     job.Kind,
		Attempts: job.Attempts,
		LastErr:  runErr.Error(),
	}

	_ = d.jobs.MarkFailed(d.baseCtx, job.ID, runErr.Error())
	logrus.WithFields(logFields).WithError(terminal).Error("taskqueue: job falhou permanentemente")
}

func (d *Dispatcher) trackInFlight(kind string, delta int) {
	d.mu.Lock()
	d.inFlight[kind] += delta
	d.mu.Unlock()
}
