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

const ordersTable = "orders"

type OrderRepository interface {
	Upsert(ctx context.Context, order *domain.Order) (created bool, err error)
	GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Order, error)
	ListByStore(ctx context.Context, storeID string, includeArchived bool) ([]*domain.Order, error)
	ListSince(ctx context.Context, storeID string, since time.Time) ([]*domain.Order, error)
	ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type orderRepository struct {
	conn postgres.Queryer
}

func NewOrderRepository(conn postgres.Queryer) OrderRepository {
	return &orderRepository{conn: conn}
}

const orderColumns = `id, store_id, external_id, order_number, email, total_price,
	subtotal_price, total_tax, currency, financial_status, fulfillment_status,
	processed_at, archived, created_at, updated_at`

// Upsert grava o espelho do pedido chaveado por (store_id, external_id). O
// campo local archived nunca entra no DO UPDATE.
func (r *orderRepository) Upsert(ctx context.Context, order *domain.Order) (bool, error) {
	if order.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return false, err
		}
		order.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert(ordersTable).
		Columns(
			"id", "store_id", "external_id", "order_number", "email",
			"total_price", "subtotal_price", "total_tax", "currency",
			"financial_status", "fulfillment_status", "processed_at",
		).
		Values(
			order.ID,
			order.StoreID,
			order.ExternalID,
			order.OrderNumber,
			order.Email,
			order.TotalPrice,
			order.SubtotalPrice,
			order.TotalTax,
			order.Currency,
			order.FinancialStatus,
			order.FulfillmentStatus,
			order.ProcessedAt,
		).
		Suffix(`
			ON CONFLICT (store_id, external_id) DO UPDATE SET
				order_number = EXCLUDED.order_number,
				email = EXCLUDED.email,
				total_price = EXCLUDED.total_price,
				subtotal_price = EXCLUDED.subtotal_price,
				total_tax = EXCLUDED.total_tax,
				currency = EXCLUDED.currency,
				financial_status = EXCLUDED.financial_status,
				fulfillment_status = EXCLUDED.fulfillment_status,
				processed_at = EXCLUDED.processed_at,
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

func (r *orderRepository) GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Order, error) {
	orderSQL, orderArgs, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(squirrel.Eq{"store_id": storeID, "external_id": externalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, orderSQL, orderArgs...)
	order, err := deserializeOrder(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) ListByStore(ctx context.Context, storeID string, includeArchived bool) ([]*domain.Order, error) {
	where := squirrel.Eq{"store_id": storeID}
	if !includeArchived {
		where["archived"] = false
	}

	listSQL, listArgs, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(where).
		OrderBy("processed_at DESC NULLS LAST").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryOrders(ctx, listSQL, listArgs...)
}

// ListSince devolve pedidos não arquivados processados a partir do corte,
// insumo dos jobs de atribuição e de métricas.
func (r *orderRepository) ListSince(ctx context.Context, storeID string, since time.Time) ([]*domain.Order, error) {
	listSQL, listArgs, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(squirrel.Eq{"store_id": storeID, "archived": false}).
		Where(squirrel.GtOrEq{"processed_at": since}).
		OrderBy("processed_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryOrders(ctx, listSQL, listArgs...)
}

// ArchiveOlderThan marca como arquivados os pedidos processados antes do
// corte. Usado pelo job semanal de limpeza; nada é apagado.
func (r *orderRepository) ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	archiveSQL, archiveArgs, err := squirrel.
		Update(ordersTable).
		Set("archived", true).
		Where(squirrel.Eq{"archived": false}).
		Where(squirrel.Lt{"processed_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(ctx, archiveSQL, archiveArgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return result.RowsAffected()
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := deserializeOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func deserializeOrder(scan func(dest ...any) error) (*domain.Order, error) {
	order := &domain.Order{}

	if err := scan(
		&order.ID,
		&order.StoreID,
		&order.ExternalID,
		&order.OrderNumber,
		&order.Email,
		&order.TotalPrice,
		&order.SubtotalPrice,
		&order.TotalTax,
		&order.Currency,
		&order.FinancialStatus,
		&order.FulfillmentStatus,
		&order.ProcessedAt,
		&order.Archived,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return order, nil
}
