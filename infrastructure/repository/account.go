package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/joshaeeee/klyq-backend/infrastructure/database/postgres"
	"github.com/joshaeeee/klyq-backend/internal/domain"
	"github.com/joshaeeee/klyq-backend/pkg/utils"
)

const connectedAccountsTable = "connected_accounts"

type AccountRepository interface {
	GetByStoreAndPlatform(ctx context.Context, storeID string, platform domain.Platform) (*domain.ConnectedAccount, error)
	GetByExternalID(ctx context.Context, platform domain.Platform, externalID string) (*domain.ConnectedAccount, error)
	ListActive(ctx context.Context, platform domain.Platform) ([]*domain.ConnectedAccount, error)
	ListByStatus(ctx context.Context, status domain.AccountStatus) ([]*domain.ConnectedAccount, error)
	SaveOrUpdate(ctx context.Context, account *domain.ConnectedAccount) error
	MarkNeedsReauth(ctx context.Context, accountID string) error
}

type accountRepository struct {
	conn postgres.Queryer
}

func NewAccountRepository(conn postgres.Queryer) AccountRepository {
	return &accountRepository{conn: conn}
}

const accountColumns = "id, store_id, platform, external_id, access_token, scopes, status, created_at, updated_at"

func (r *accountRepository) GetByStoreAndPlatform(ctx context.Context, storeID string, platform domain.Platform) (*domain.ConnectedAccount, error) {
	return r.getAccount(ctx, squirrel.Eq{"store_id": storeID, "platform": platform})
}

func (r *accountRepository) GetByExternalID(ctx context.Context, platform domain.Platform, externalID string) (*domain.ConnectedAccount, error) {
	return r.getAccount(ctx, squirrel.Eq{"platform": platform, "external_id": externalID})
}

func (r *accountRepository) getAccount(ctx context.Context, whereClause map[string]interface{}) (*domain.ConnectedAccount, error) {
	accountSQL, accountArgs, err := squirrel.
		Select(accountColumns).
		From(connectedAccountsTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, accountSQL, accountArgs...)
	account, err := deserializeAccount(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return account, nil
}

func (r *accountRepository) ListActive(ctx context.Context, platform domain.Platform) ([]*domain.ConnectedAccount, error) {
	return r.listAccounts(ctx, squirrel.Eq{"platform": platform, "status": domain.AccountStatusActive})
}

func (r *accountRepository) ListByStatus(ctx context.Context, status domain.AccountStatus) ([]*domain.ConnectedAccount, error) {
	return r.listAccounts(ctx, squirrel.Eq{"status": status})
}

func (r *accountRepository) listAccounts(ctx context.Context, whereClause map[string]interface{}) ([]*domain.ConnectedAccount, error) {
	listSQL, listArgs, err := squirrel.
		Select(accountColumns).
		From(connectedAccountsTable).
		Where(whereClause).
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

	accounts := make([]*domain.ConnectedAccount, 0)
	for rows.Next() {
		account, err := deserializeAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// SaveOrUpdate cria a conta conectada ou rotaciona o token de uma conta
// existente. Contas nunca são removidas; rotação reativa a conta.
func (r *accountRepository) SaveOrUpdate(ctx context.Context, account *domain.ConnectedAccount) error {
	if account.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}
		account.ID = id
	}

	if account.Status == "" {
		account.Status = domain.AccountStatusActive
	}

	query := squirrel.StatementBuilder.
		Insert(connectedAccountsTable).
		Columns("id", "store_id", "platform", "external_id", "access_token", "scopes", "status").
		Values(
			account.ID,
			account.StoreID,
			account.Platform,
			account.ExternalID,
			account.AccessToken,
			account.Scopes,
			account.Status,
		).
		Suffix(`
			ON CONFLICT (store_id, platform) DO UPDATE SET
				external_id = EXCLUDED.external_id,
				access_token = EXCLUDED.access_token,
				scopes = EXCLUDED.scopes,
				status = EXCLUDED.status,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// MarkNeedsReauth sinaliza credencial expirada/revogada. Chamado quando um
// client de plataforma devolve CredentialInvalidError.
func (r *accountRepository) MarkNeedsReauth(ctx context.Context, accountID string) error {
	updateSQL, updateArgs, err := squirrel.
		Update(connectedAccountsTable).
		Set("status", domain.AccountStatusNeedsReauth).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
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
		return fmt.Errorf("connected account not found: %s", accountID)
	}

	return nil
}

func deserializeAccount(scan func(dest ...any) error) (*domain.ConnectedAccount, error) {
	account := &domain.ConnectedAccount{}

	if err := scan(
		&account.ID,
		&account.StoreID,
		&account.Platform,
		&account.ExternalID,
		&account.AccessToken,
		&account.Scopes,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return account, nil
}
