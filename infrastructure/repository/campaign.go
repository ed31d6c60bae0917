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

const campaignsTable = "campaigns"

type CampaignRepository interface {
	Upsert(ctx context.Context, campaign *domain.Campaign) (created bool, err error)
	GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Campaign, error)
	ListByStore(ctx context.Context, storeID string) ([]*domain.Campaign, error)
}

type campaignRepository struct {
	conn postgres.Queryer
}

func NewCampaignRepository(conn postgres.Queryer) CampaignRepository {
	return &campaignRepository{conn: conn}
}

const campaignColumns = `id, store_id, external_id, name, status, objective,
	daily_budget, currency, created_at, updated_at`

// Upsert grava o espelho da campanha chaveado por (store_id, external_id).
func (r *campaignRepository) Upsert(ctx context.Context, campaign *domain.Campaign) (bool, error) {
	if campaign.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return false, err
		}
		campaign.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert(campaignsTable).
		Columns("id", "store_id", "external_id", "name", "status", "objective", "daily_budget", "currency").
		Values(
			campaign.ID,
			campaign.StoreID,
			campaign.ExternalID,
			campaign.Name,
			campaign.Status,
			campaign.Objective,
			campaign.DailyBudget,
			campaign.Currency,
		).
		Suffix(`
			ON CONFLICT (store_id, external_id) DO UPDATE SET
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				objective = EXCLUDED.objective,
				daily_budget = EXCLUDED.daily_budget,
				currency = EXCLUDED.currency,
				updated_at = NOW()
			RETURNING (xmax = 0)
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var created bool
	if err := r.conn.QueryRow(ctx, sqlQuery, args...).Scan(&created); err != nil {
		return false, fmt.Errorf("failed to execute query: %w", err)
	}

	return created, nil
}

func (r *campaignRepository) GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Campaign, error) {
	campaignSQL, campaignArgs, err := squirrel.
		Select(campaignColumns).
		From(campaignsTable).
		Where(squirrel.Eq{"store_id": storeID, "external_id": externalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, campaignSQL, campaignArgs...)
	campaign, err := deserializeCampaign(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return campaign, nil
}

func (r *campaignRepository) ListByStore(ctx context.Context, storeID string) ([]*domain.Campaign, error) {
	listSQL, listArgs, err := squirrel.
		Select(campaignColumns).
		From(campaignsTable).
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("name ASC").
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

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := deserializeCampaign(rows.Scan)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return campaigns, nil
}

func deserializeCampaign(scan func(dest ...any) error) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}

	if err := scan(
		&campaign.ID,
		&campaign.StoreID,
		&campaign.ExternalID,
		&campaign.Name,
		&campaign.Status,
		&campaign.Objective,
		&campaign.DailyBudget,
		&campaign.Currency,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return campaign, nil
}
