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

const storesTable = "stores"

type StoreRepository interface {
	GetByID(ctx context.Context, storeID string) (*domain.Store, error)
	GetByShopURL(ctx context.Context, shopURL string) (*domain.Store, error)
	Create(ctx context.Context, store *domain.Store) (*domain.Store, error)
	List(ctx context.Context) ([]*domain.Store, error)
}

type storeRepository struct {
	conn postgres.Queryer
}

func NewStoreRepository(conn postgres.Queryer) StoreRepository {
	return &storeRepository{conn: conn}
}

func (r *storeRepository) GetByID(ctx context.Context, storeID string) (*domain.Store, error) {
	return r.getStore(ctx, squirrel.Eq{"id": storeID})
}

func (r *storeRepository) GetByShopURL(ctx context.Context, shopURL string) (*domain.Store, error) {
	return r.getStore(ctx, squirrel.Eq{"shop_url": shopURL})
}

func (r *storeRepository) getStore(ctx context.Context, whereClause map[string]interface{}) (*domain.Store, error) {
	storeSQL, storeArgs, err := squirrel.
		Select("id, shop_url, name, created_at").
		From(storesTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	store := &domain.Store{}
	row := r.conn.QueryRow(ctx, storeSQL, storeArgs...)
	if err := row.Scan(&store.ID, &store.ShopURL, &store.Name, &store.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return store, nil
}

func (r *storeRepository) Create(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if store.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}
		store.ID = id
	}

	insertSQL, insertArgs, err := squirrel.
		Insert(storesTable).
		Columns("id", "shop_url", "name").
		Values(store.ID, store.ShopURL, store.Name).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&store.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return store, nil
}

func (r *storeRepository) List(ctx context.Context) ([]*domain.Store, error) {
	listSQL, listArgs, err := squirrel.
		Select("id, shop_url, name, created_at").
		From(storesTable).
		OrderBy("created_at ASC").
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

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		store := &domain.Store{}
		if err := rows.Scan(&store.ID, &store.ShopURL, &store.Name, &store.CreatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stores, nil
}
