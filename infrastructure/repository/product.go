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

const productsTable = "products"

type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product) (created bool, err error)
	GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Product, error)
	ListByStore(ctx context.Context, storeID string) ([]*domain.Product, error)
	SetHighInventory(ctx context.Context, storeID string, externalIDs []string) error
}

type productRepository struct {
	conn postgres.Queryer
}

func NewProductRepository(conn postgres.Queryer) ProductRepository {
	return &productRepository{conn: conn}
}

const productColumns = `id, store_id, external_id, title, handle, description, vendor,
	product_type, status, price, compare_at_price, sku, inventory_quantity,
	weight_grams, high_inventory, created_at, updated_at`

// Upsert grava o espelho do produto chaveado por (store_id, external_id).
// Campos locais (high_inventory) nunca entram no DO UPDATE. O RETURNING
// (xmax = 0) distingue inserção de atualização para os contadores da
// reconciliação.
func (r *productRepository) Upsert(ctx context.Context, product *domain.Product) (bool, error) {
	if product.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return false, err
		}
		product.ID = id
	}

	query := squirrel.StatementBuilder.
		Insert(productsTable).
		Columns(
			"id", "store_id", "external_id", "title", "handle", "description",
			"vendor", "product_type", "status", "price", "compare_at_price",
			"sku", "inventory_quantity", "weight_grams",
		).
		Values(
			product.ID,
			product.StoreID,
			product.ExternalID,
			product.Title,
			product.Handle,
			product.Description,
			product.Vendor,
			product.ProductType,
			product.Status,
			product.Price,
			product.CompareAtPrice,
			product.SKU,
			product.InventoryQuantity,
			product.WeightGrams,
		).
		Suffix(`
			ON CONFLICT (store_id, external_id) DO UPDATE SET
				title = EXCLUDED.title,
				handle = EXCLUDED.handle,
				description = EXCLUDED.description,
				vendor = EXCLUDED.vendor,
				product_type = EXCLUDED.product_type,
				status = EXCLUDED.status,
				price = EXCLUDED.price,
				compare_at_price = EXCLUDED.compare_at_price,
				sku = EXCLUDED.sku,
				inventory_quantity = EXCLUDED.inventory_quantity,
				weight_grams = EXCLUDED.weight_grams,
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

func (r *productRepository) GetByExternalID(ctx context.Context, storeID, externalID string) (*domain.Product, error) {
	productSQL, productArgs, err := squirrel.
		Select(productColumns).
		From(productsTable).
		Where(squirrel.Eq{"store_id": storeID, "external_id": externalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, productSQL, productArgs...)
	product, err := deserializeProduct(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return product, nil
}

func (r *productRepository) ListByStore(ctx context.Context, storeID string) ([]*domain.Product, error) {
	listSQL, listArgs, err := squirrel.
		Select(productColumns).
		From(productsTable).
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("title ASC").
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

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := deserializeProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// SetHighInventory marca os produtos indicados e limpa a marcação dos demais
// da loja, numa única passada do job de análise.
func (r *productRepository) SetHighInventory(ctx context.Context, storeID string, externalIDs []string) error {
	clearSQL, clearArgs, err := squirrel.
		Update(productsTable).
		Set("high_inventory", false).
		Where(squirrel.Eq{"store_id": storeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, clearSQL, clearArgs...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	if len(externalIDs) == 0 {
		return nil
	}

	markSQL, markArgs, err := squirrel.
		Update(productsTable).
		Set("high_inventory", true).
		Where(squirrel.Eq{"store_id": storeID, "external_id": externalIDs}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, markSQL, markArgs...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func deserializeProduct(scan func(dest ...any) error) (*domain.Product, error) {
	product := &domain.Product{}

	if err := scan(
		&product.ID,
		&product.StoreID,
		&product.ExternalID,
		&product.Title,
		&product.Handle,
		&product.Description,
		&product.Vendor,
		&product.ProductType,
		&product.Status,
		&product.Price,
		&product.CompareAtPrice,
		&product.SKU,
		&product.InventoryQuantity,
		&product.WeightGrams,
		&product.HighInventory,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return product, nil
}
