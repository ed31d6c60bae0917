package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/joshaeeee/klyq-backend/infrastructure/database/postgres"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/utils"
)

const trendsTable = "trends"

type TrendRepository interface {
	Save(ctx context.Context, trend *domain.Trend) error
	ListByStore(ctx context.Context, storeID string, limit uint64) ([]*domain.Trend, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type trendRepository struct {
	conn postgres.Queryer
}

func NewTrendRepository(conn postgres.Queryer) TrendRepository {
	return &trendRepository{conn: conn}
}

const trendColumns = `id, store_id, platform, category, content,
	engagement_score, relevance_score, created_at`

// Save grava um snapshot de tendência. Snapshots são append-only; a retenção
// é aplicada pelo job de limpeza via DeleteOlderThan.
func (r *trendRepository) Save(ctx context.Context, trend *domain.Trend) error {
	if trend.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}
		trend.ID = id
	}

	insertSQL, insertArgs, err := squirrel.StatementBuilder.
		Insert(trendsTable).
		Columns("id", "store_id", "platform", "category", "content", "engagement_score", "relevance_score").
		Values(
			trend.ID,
			trend.StoreID,
			trend.Platform,
			trend.Category,
			trend.Content,
			trend.EngagementScore,
			trend.RelevanceScore,
		).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&trend.CreatedAt); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *trendRepository) ListByStore(ctx context.Context, storeID string, limit uint64) ([]*domain.Trend, error) {
	query := squirrel.
		Select(trendColumns).
		From(trendsTable).
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		query = query.Limit(limit)
	}

	listSQL, listArgs, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, listSQL, listArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	trends := make([]*domain.Trend, 0)
	for rows.Next() {
		trend := &domain.Trend{}
		if err := rows.Scan(
			&trend.ID,
			&trend.StoreID,
			&trend.Platform,
			&trend.Category,
			&trend.Content,
			&trend.EngagementScore,
			&trend.RelevanceScore,
			&trend.CreatedAt,
		); err != nil {
			return nil, err
		}
		trends = append(trends, trend)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trends, nil
}

func (r *trendRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(trendsTable).
		Where(squirrel.Lt{"created_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(ctx, deleteSQL, deleteArgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return result.RowsAffected()
}
