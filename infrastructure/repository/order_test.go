package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/joshaeeee/klyq-backend/internal/domain"
)

func TestOrderRepository_Upsert(t *testing.T) {
	conn, mock := newMockedConnection(t)

	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))

	repo := NewOrderRepository(conn)
	created, err := repo.Upsert(context.Background(), &domain.Order{
		ID:         "order-1",
		StoreID:    "store-1",
		ExternalID: "o-1",
		Currency:   "BRL",
	})

	assert.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ArchiveOlderThan(t *testing.T) {
	conn, mock := newMockedConnection(t)

	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE orders SET archived").
		WithArgs(true, false, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	repo := NewOrderRepository(conn)
	archived, err := repo.ArchiveOlderThan(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), archived)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByStore_FiltraArquivados(t *testing.T) {
	processedAt := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 8, 10, 9, 0, 1, 0, time.UTC)

	orderRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "store_id", "external_id", "order_number", "email", "total_price",
			"subtotal_price", "total_tax", "currency", "financial_status",
			"fulfillment_status", "processed_at", "archived", "created_at", "updated_at",
		}).AddRow(
			"order-1", "store-1", "o-1", "1001", "cliente@example.com", "199.90",
			"180.00", "19.90", "BRL", "paid",
			"fulfilled", processedAt, false, createdAt, createdAt,
		)
	}

	t.Run("Por padrão só devolve pedidos ativos", func(t *testing.T) {
		conn, mock := newMockedConnection(t)

		mock.ExpectQuery("SELECT (.+) FROM orders").
			WithArgs(false, "store-1").
			WillReturnRows(orderRows())

		repo := NewOrderRepository(conn)
		orders, err := repo.ListByStore(context.Background(), "store-1", false)

		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, "o-1", orders[0].ExternalID)
		assert.Equal(t, "199.9", orders[0].TotalPrice.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Com arquivados não aplica o filtro", func(t *testing.T) {
		conn, mock := newMockedConnection(t)

		mock.ExpectQuery("SELECT (.+) FROM orders").
			WithArgs("store-1").
			WillReturnRows(orderRows())

		repo := NewOrderRepository(conn)
		orders, err := repo.ListByStore(context.Background(), "store-1", true)

		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
