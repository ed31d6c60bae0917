package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/joshaeeee/klyq-backend/infrastructure/database/postgres"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/utils"
)

const syncJobsTable = "sync_jobs"

type SyncJobRepository interface {
	Create(ctx context.Context, job *domain.SyncJob) error
	GetByID(ctx context.Context, id string) (*domain.SyncJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string) error
	MarkRetryScheduled(ctx context.Context, id string, lastError string) error
	MarkFailed(ctx context.Context, id string, lastError string) error
	ListByStatus(ctx context.Context, statuses []domain.JobStatus, limit uint64) ([]*domain.SyncJob, error)
	ListFailures(ctx context.Context, limit uint64) ([]*domain.SyncJob, error)
}

type syncJobRepository struct {
	conn postgres.Queryer
}

func NewSyncJobRepository(conn postgres.Queryer) SyncJobRepository {
	return &syncJobRepository{conn: conn}
}

const syncJobColumns = `id, kind, queue, store_id, payload, status, attempts,
	max_attempts, last_error, created_at, updated_at, completed_at`

func (r *syncJobRepository) Create(ctx context.Context, job *domain.SyncJob) error {
	if job.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}
		job.ID = id
	}

	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}

	insertSQL, insertArgs, err := squirrel.StatementBuilder.
		Insert(syncJobsTable).
		Columns("id", "kind", "queue", "store_id", "payload", "status", "attempts", "max_attempts").
		Values(
			job.ID,
			job.Kind,
			job.Queue,
			job.StoreID,
			job.Payload,
			job.Status,
			job.Attempts,
			job.MaxAttempts,
		).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&job.CreatedAt); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *syncJobRepository) GetByID(ctx context.Context, id string) (*domain.SyncJob, error) {
	jobSQL, jobArgs, err := squirrel.
		Select(syncJobColumns).
		From(syncJobsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, jobSQL, jobArgs...)
	job, err := deserializeSyncJob(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return job, nil
}

// MarkRunning incrementa a tentativa junto com a transição de estado, para
// que o descritor reflita a tentativa em andamento.
func (r *syncJobRepository) MarkRunning(ctx context.Context, id string) error {
	return r.transition(ctx, id, squirrel.
		Update(syncJobsTable).
		Set("status", domain.JobStatusRunning).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("updated_at", squirrel.Expr("NOW()")))
}

func (r *syncJobRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.transition(ctx, id, squirrel.
		Update(syncJobsTable).
		Set("status", domain.JobStatusCompleted).
		Set("last_error", "").
		Set("completed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")))
}

func (r *syncJobRepository) MarkRetryScheduled(ctx context.Context, id string, lastError string) error {
	return r.transition(ctx, id, squirrel.
		Update(syncJobsTable).
		Set("status", domain.JobStatusRetryScheduled).
		Set("last_error", lastError).
		Set("updated_at", squirrel.Expr("NOW()")))
}

// MarkFailed é terminal: o job só sai desse estado por reenfileiramento
// manual, que cria um descritor novo.
func (r *syncJobRepository) MarkFailed(ctx context.Context, id string, lastError string) error {
	return r.transition(ctx, id, squirrel.
		Update(syncJobsTable).
		Set("status", domain.JobStatusFailed).
		Set("last_error", lastError).
		Set("completed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")))
}

func (r *syncJobRepository) transition(ctx context.Context, id string, update squirrel.UpdateBuilder) error {
	updateSQL, updateArgs, err := update.
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(ctx, updateSQL, updateArgs...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("sync job not found: %s", id)
	}

	return nil
}

// ListByStatus é usado na recuperação de inicialização: jobs deixados em
// running ou retry_scheduled por um desligamento abrupto voltam à fila.
func (r *syncJobRepository) ListByStatus(ctx context.Context, statuses []domain.JobStatus, limit uint64) ([]*domain.SyncJob, error) {
	query := squirrel.
		Select(syncJobColumns).
		From(syncJobsTable).
		Where(squirrel.Eq{"status": statuses}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		query = query.Limit(limit)
	}

	listSQL, listArgs, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryJobs(ctx, listSQL, listArgs...)
}

func (r *syncJobRepository) ListFailures(ctx context.Context, limit uint64) ([]*domain.SyncJob, error) {
	query := squirrel.
		Select(syncJobColumns).
		From(syncJobsTable).
		Where(squirrel.Eq{"status": domain.JobStatusFailed}).
		OrderBy("updated_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		query = query.Limit(limit)
	}

	listSQL, listArgs, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryJobs(ctx, listSQL, listArgs...)
}

func (r *syncJobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]*domain.SyncJob, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.SyncJob, 0)
	for rows.Next() {
		job, err := deserializeSyncJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func deserializeSyncJob(scan func(dest ...any) error) (*domain.SyncJob, error) {
	job := &domain.SyncJob{}

	if err := scan(
		&job.ID,
		&job.Kind,
		&job.Queue,
		&job.StoreID,
		&job.Payload,
		&job.Status,
		&job.Attempts,
		&job.MaxAttempts,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	); err != nil {
		return nil, err
	}

	return job, nil
}
