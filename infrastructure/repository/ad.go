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

const adsTable = "ads"

type AdRepository interface {
	Upsert(ctx context.Context, ad *domain.Ad) (created bool, err error)
	GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Ad, error)
	ListByStore(ctx context.Context, storeID string) ([]*domain.Ad, error)
	ListByCampaign(ctx context.Context, storeID, campaignExternalID string) ([]*domain.Ad, error)
}

type adRepository struct {
	conn postgres.Queryer
}

func NewAdRepository(conn postgres.Queryer) AdRepository {
	return &adRepository{conn: conn}
}

const adColumns = `id, store_id, external_id, campaign_external_id, name, status,
	creative_id, created_at, updated_at`

// Upsert grava o espelho do anúncio chaveado por (store_id, external_id).
func (r *adRepository) Upsert(ctx context.Context, ad *domain.Ad) (bool, error) {
	if ad.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return false, err
		}
		ad.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert(adsTable).
		Columns("id", "store_id", "external_id", "campaign_external_id", "name", "status", "creative_id").
		Values(
			ad.ID,
			ad.StoreID,
			ad.ExternalID,
			ad.CampaignExternalID,
			ad.Name,
			ad.Status,
			ad.CreativeID,
		).
		Suffix(`
			ON CONFLICT (store_id, external_id) DO UPDATE SET
				campaign_external_id = EXCLUDED.campaign_external_id,
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				creative_id = EXCLUDED.creative_id,
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

func (r *adRepository) GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Ad, error) {
	adSQL, adArgs, err := squirrel.
		Select(adColumns).
		From(adsTable).
		Where(squirrel.Eq{"store_id": storeID, "external_id": externalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, adSQL, adArgs...)
	ad, err := deserializeAd(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return ad, nil
}

func (r *adRepository) ListByStore(ctx context.Context, storeID string) ([]*domain.Ad, error) {
	return r.listAds(ctx, squirrel.Eq{"store_id": storeID})
}

func (r *adRepository) ListByCampaign(ctx context.Context, storeID, campaignExternalID string) ([]*domain.Ad, error) {
	return r.listAds(ctx, squirrel.Eq{"store_id": storeID, "campaign_external_id": campaignExternalID})
}

func (r *adRepository) listAds(ctx context.Context, whereClause map[string]interface{}) ([]*domain.Ad, error) {
	listSQL, listArgs, err := squirrel.
		Select(adColumns).
		From(adsTable).
		Where(whereClause).
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

	ads := make([]*domain.Ad, 0)
	for rows.Next() {
		ad, err := deserializeAd(rows.Scan)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ads, nil
}

func deserializeAd(scan func(dest ...any) error) (*domain.Ad, error) {
	ad := &domain.Ad{}

	if err := scan(
		&ad.ID,
		&ad.StoreID,
		&ad.ExternalID,
		&ad.CampaignExternalID,
		&ad.Name,
		&ad.Status,
		&ad.CreativeID,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return ad, nil
}
