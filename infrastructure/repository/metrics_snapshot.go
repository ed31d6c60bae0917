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

const metricsSnapshotsTable = "metrics_snapshots"

type MetricsSnapshotRepository interface {
	Save(ctx context.Context, snapshot *domain.MetricsSnapshot) error
	ListByStore(ctx context.Context, storeID, period string, limit uint64) ([]*domain.MetricsSnapshot, error)
	GetBaseline(ctx context.Context, storeID, period string) (*domain.MetricsSnapshot, error)
}

type metricsSnapshotRepository struct {
	conn postgres.Queryer
}

func NewMetricsSnapshotRepository(conn postgres.Queryer) MetricsSnapshotRepository {
	return &metricsSnapshotRepository{conn: conn}
}

const metricsSnapshotColumns = `id, store_id, period, total_revenue, total_orders,
	aov, rpmo, cpa, ctr, conversion_rate, roi, baseline, created_at`

// Save grava um snapshot de métricas. Snapshots são append-only; o primeiro
// de cada par (loja, período) é marcado como baseline pelo chamador.
func (r *metricsSnapshotRepository) Save(ctx context.Context, snapshot *domain.MetricsSnapshot) error {
	if snapshot.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}
		snapshot.ID = id
	}

	insertSQL, insertArgs, err := squirrel.StatementBuilder.
		Insert(metricsSnapshotsTable).
		Columns(
			"id", "store_id", "period", "total_revenue", "total_orders",
			"aov", "rpmo", "cpa", "ctr", "conversion_rate", "roi", "baseline",
		).
		Values(
			snapshot.ID,
			snapshot.StoreID,
			snapshot.Period,
			snapshot.TotalRevenue,
			snapshot.TotalOrders,
			snapshot.AOV,
			snapshot.RPMO,
			snapshot.CPA,
			snapshot.CTR,
			snapshot.ConversionRate,
			snapshot.ROI,
			snapshot.Baseline,
		).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&snapshot.CreatedAt); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *metricsSnapshotRepository) ListByStore(ctx context.Context, storeID, period string, limit uint64) ([]*domain.MetricsSnapshot, error) {
	where := squirrel.Eq{"store_id": storeID}
	if period != "" {
		where["period"] = period
	}

	query := squirrel.
		Select(metricsSnapshotColumns).
		From(metricsSnapshotsTable).
		Where(where).
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

	snapshots := make([]*domain.MetricsSnapshot, 0)
	for rows.Next() {
		snapshot, err := deserializeMetricsSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

func (r *metricsSnapshotRepository) GetBaseline(ctx context.Context, storeID, period string) (*domain.MetricsSnapshot, error) {
	baselineSQL, baselineArgs, err := squirrel.
		Select(metricsSnapshotColumns).
		From(metricsSnapshotsTable).
		Where(squirrel.Eq{"store_id": storeID, "period": period, "baseline": true}).
		OrderBy("created_at ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, baselineSQL, baselineArgs...)
	snapshot, err := deserializeMetricsSnapshot(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return snapshot, nil
}

func deserializeMetricsSnapshot(scan func(dest ...any) error) (*domain.MetricsSnapshot, error) {
	snapshot := &domain.MetricsSnapshot{}

	if err := scan(
		&snapshot.ID,
		&snapshot.StoreID,
		&snapshot.Period,
		&snapshot.TotalRevenue,
		&snapshot.TotalOrders,
		&snapshot.AOV,
		&snapshot.RPMO,
		&snapshot.CPA,
		&snapshot.CTR,
		&snapshot.ConversionRate,
		&snapshot.ROI,
		&snapshot.Baseline,
		&snapshot.CreatedAt,
	); err != nil {
		return nil, err
	}

	return snapshot, nil
}
