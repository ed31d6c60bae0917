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

const suggestionsTable = "suggestions"

type SuggestionRepository interface {
	ReplacePending(ctx context.Context, storeID string, suggestions []*domain.Suggestion) error
	GetByID(ctx context.Context, id string) (*domain.Suggestion, error)
	ListByStore(ctx context.Context, storeID string, status domain.SuggestionStatus) ([]*domain.Suggestion, error)
	UpdateStatus(ctx context.Context, id string, status domain.SuggestionStatus) error
}

type suggestionRepository struct {
	conn *postgres.Connection
}

func NewSuggestionRepository(conn *postgres.Connection) SuggestionRepository {
	return &suggestionRepository{conn: conn}
}

const suggestionColumns = `id, store_id, type, title, description, reasoning,
	expected_impact, action_data, priority, status, created_at`

// ReplacePending troca, em transação, o conjunto de sugestões pendentes da
// loja pelo recomputado. Sugestões aplicadas ou descartadas ficam intactas;
// apenas o job de diagnóstico escreve aqui, e apenas dessa forma.
func (r *suggestionRepository) ReplacePending(ctx context.Context, storeID string, suggestions []*domain.Suggestion) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deleteSQL, deleteArgs, err := squirrel.
			Delete(suggestionsTable).
			Where(squirrel.Eq{"store_id": storeID, "status": domain.SuggestionStatusPending}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}

		if len(suggestions) == 0 {
			return nil
		}

		insert := squirrel.StatementBuilder.
			Insert(suggestionsTable).
			Columns("id", "store_id", "type", "title", "description", "reasoning", "expected_impact", "action_data", "priority", "status").
			PlaceholderFormat(squirrel.Dollar)

		for _, suggestion := range suggestions {
			if suggestion.ID == "" {
				id, err := utils.GenerateID()
				if err != nil {
					return err
				}
				suggestion.ID = id
			}
			if suggestion.Status == "" {
				suggestion.Status = domain.SuggestionStatusPending
			}

			insert = insert.Values(
				suggestion.ID,
				storeID,
				suggestion.Type,
				suggestion.Title,
				suggestion.Description,
				suggestion.Reasoning,
				suggestion.ExpectedImpact,
				suggestion.ActionData,
				suggestion.Priority,
				suggestion.Status,
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

func (r *suggestionRepository) GetByID(ctx context.Context, id string) (*domain.Suggestion, error) {
	suggestionSQL, suggestionArgs, err := squirrel.
		Select(suggestionColumns).
		From(suggestionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, suggestionSQL, suggestionArgs...)
	suggestion, err := deserializeSuggestion(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return suggestion, nil
}

func (r *suggestionRepository) ListByStore(ctx context.Context, storeID string, status domain.SuggestionStatus) ([]*domain.Suggestion, error) {
	where := squirrel.Eq{"store_id": storeID}
	if status != "" {
		where["status"] = status
	}

	listSQL, listArgs, err := squirrel.
		Select(suggestionColumns).
		From(suggestionsTable).
		Where(where).
		OrderBy("priority DESC", "created_at DESC").
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

	suggestions := make([]*domain.Suggestion, 0)
	for rows.Next() {
		suggestion, err := deserializeSuggestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return suggestions, nil
}

// UpdateStatus é a única mutação permitida após a criação, disparada por
// ação do usuário.
func (r *suggestionRepository) UpdateStatus(ctx context.Context, id string, status domain.SuggestionStatus) error {
	updateSQL, updateArgs, err := squirrel.
		Update(suggestionsTable).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
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
		return sql.ErrNoRows
	}

	return nil
}

func deserializeSuggestion(scan func(dest ...any) error) (*domain.Suggestion, error) {
	suggestion := &domain.Suggestion{}

	if err := scan(
		&suggestion.ID,
		&suggestion.StoreID,
		&suggestion.Type,
		&suggestion.Title,
		&suggestion.Description,
		&suggestion.Reasoning,
		&suggestion.ExpectedImpact,
		&suggestion.ActionData,
		&suggestion.Priority,
		&suggestion.Status,
		&suggestion.CreatedAt,
	); err != nil {
		return nil, err
	}

	return suggestion, nil
}
