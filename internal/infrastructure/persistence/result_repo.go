// Package persistence содержит стоки результатов и транскриптов в Postgres.
// Обе таблицы append-only: записи завершённых сессий не обновляются.
package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/pkg/errcodes"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create идемпотентен по conversation_id: ретраи стока не плодят дублей.
func (r *ResultRepository) Create(ctx context.Context, result *entity.Result) error {
	query := `
		INSERT INTO results (
			created_at, conversation_id, participant_id, variant_tag,
			outcome, final_price, message_count, ended_by, ended_via
		) VALUES (
			:created_at, :conversation_id, :participant_id, :variant_tag,
			:outcome, :final_price, :message_count, :ended_by, :ended_via
		)
		ON CONFLICT (conversation_id) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, fromResult(result)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create result")
	}
	return nil
}

// List возвращает результаты в обратном хронологическом порядке.
func (r *ResultRepository) List(ctx context.Context, limit, offset int) ([]*entity.Result, error) {
	query := `
		SELECT created_at, conversation_id, participant_id, variant_tag,
		       outcome, final_price, message_count, ended_by, ended_via
		FROM results
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var schemas []resultSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list results")
	}

	results := make([]*entity.Result, 0, len(schemas))
	for i := range schemas {
		results = append(results, schemas[i].toDomain())
	}
	return results, nil
}

func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM results`); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count results")
	}
	return total, nil
}
