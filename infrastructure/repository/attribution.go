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

const attributionsTable = "attributions"

type AttributionRepository interface {
	ReplaceForStore(ctx context.Context, storeID string, attributions []*domain.Attribution) error
	ListByStore(ctx context.Context, storeID string) ([]*domain.Attribution, error)
}

type attributionRepository struct {
	conn *postgres.Connection
}

func NewAttributionRepository(conn *postgres.Connection) AttributionRepository {
	return &attributionRepository{conn: conn}
}

const attributionColumns = `id, store_id, order_external_id, ad_external_id,
	attribution_score, revenue_lift, confidence, created_at`

// ReplaceForStore troca, em transação, todas as atribuições da loja pelo
// conjunto recomputado. O job de atribuição é o único escritor.
func (r *attributionRepository) ReplaceForStore(ctx context.Context, storeID string, attributions []*domain.Attribution) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deleteSQL, deleteArgs, err := squirrel.
			Delete(attributionsTable).
			Where(squirrel.Eq{"store_id": storeID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}

		if len(attributions) == 0 {
			return nil
		}

		insert := squirrel.StatementBuilder.
			Insert(attributionsTable).
			Columns("id", "store_id", "order_external_id", "ad_external_id", "attribution_score", "revenue_lift", "confidence").
			PlaceholderFormat(squirrel.Dollar)

		for _, attribution := range attributions {
			if attribution.ID == "" {
				id, err := utils.GenerateID()
				if err != nil {
					return err
				}
				attribution.ID = id
			}

			insert = insert.Values(
				attribution.ID,
				storeID,
				attribution.OrderExternalID,
				attribution.AdExternalID,
				attribution.AttributionScore,
				attribution.RevenueLift,
				attribution.Confidence,
			)
		}

		insertSQL, insertArgs, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}

		return nil
	})
}

func (r *attributionRepository) ListByStore(ctx context.Context, storeID string) ([]*domain.Attribution, error) {
	listSQL, listArgs, err := squirrel.
		Select(attributionColumns).
		From(attributionsTable).
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("attribution_score DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
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

	attributions := make([]*domain.Attribution, 0)
	for rows.Next() {
		attribution := &domain.Attribution{}
		if err := rows.Scan(
			&attribution.ID,
			&attribution.StoreID,
			&attribution.OrderExternalID,
			&attribution.AdExternalID,
			&attribution.AttributionScore,
			&attribution.RevenueLift,
			&attribution.Confidence,
			&attribution.CreatedAt,
		); err != nil {
			return nil, err
		}
		attributions = append(attributions, attribution)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attributions, nil
}
