package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/pkg/errcodes"
)

type TranscriptRepository struct {
	db *sqlx.DB
}

func NewTranscriptRepository(db *sqlx.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Append пишет реплику в транскрипт. Идемпотентен по (conversation_id, seq).
func (r *TranscriptRepository) Append(ctx context.Context, msg *entity.Message) error {
	query := `
		INSERT INTO transcript_messages (
			conversation_id, seq, role, text, created_at
		) VALUES (
			:conversation_id, :seq, :role, :text, :created_at
		)
		ON CONFLICT (conversation_id, seq) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, fromMessage(msg)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to append transcript message")
	}
	return nil
}

// ListByConversation возвращает переписку в порядке seq.
func (r *TranscriptRepository) ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	query := `
		SELECT conversation_id, seq, role, text, created_at
		FROM transcript_messages
		WHERE conversation_id = $1
		ORDER BY seq`

	var schemas []messageSchema
	if err := r.db.SelectContext(ctx, &schemas, query, conversationID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list transcript")
	}

	messages := make([]*entity.Message, 0, len(schemas))
	for i := range schemas {
		messages = append(messages, schemas[i].toDomain())
	}
	return messages, nil
}
