package persistence

import (
	"database/sql"
	"time"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/value"
)

// resultSchema — представление таблицы results в БД.
type resultSchema struct {
	CreatedAt      time.Time     `db:"created_at"`
	ConversationID string        `db:"conversation_id"`
	ParticipantID  string        `db:"participant_id"`
	VariantTag     string        `db:"variant_tag"`
	Outcome        string        `db:"outcome"`
	FinalPrice     sql.NullInt64 `db:"final_price"`
	MessageCount   int           `db:"message_count"`
	EndedBy        string        `db:"ended_by"`
	EndedVia       string        `db:"ended_via"`
}

func fromResult(r *entity.Result) resultSchema {
	schema := resultSchema{
		CreatedAt:      r.CreatedAt,
		ConversationID: r.ConversationID,
		ParticipantID:  r.ParticipantID,
		VariantTag:     r.VariantTag,
		Outcome:        string(r.Outcome),
		MessageCount:   r.MessageCount,
		EndedBy:        string(r.EndedBy),
		EndedVia:       r.EndedVia,
	}
	if r.FinalPrice != nil {
		schema.FinalPrice = sql.NullInt64{Int64: r.FinalPrice.Int64(), Valid: true}
	}
	return schema
}

func (s *resultSchema) toDomain() *entity.Result {
	r := &entity.Result{
		CreatedAt:      s.CreatedAt,
		ConversationID: s.ConversationID,
		ParticipantID:  s.ParticipantID,
		VariantTag:     s.VariantTag,
		Outcome:        entity.Outcome(s.Outcome),
		MessageCount:   s.MessageCount,
		EndedBy:        entity.EndedBy(s.EndedBy),
		EndedVia:       s.EndedVia,
	}
	if s.FinalPrice.Valid {
		price := value.Price(s.FinalPrice.Int64)
		r.FinalPrice = &price
	}
	return r
}

// messageSchema — представление таблицы transcript_messages в БД.
type messageSchema struct {
	ConversationID string    `db:"conversation_id"`
	Seq            int       `db:"seq"`
	Role           string    `db:"role"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
}

func fromMessage(m *entity.Message) messageSchema {
	return messageSchema{
		ConversationID: m.ConversationID,
		Seq:            m.Seq,
		Role:           string(m.Role),
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
	}
}

func (s *messageSchema) toDomain() *entity.Message {
	return &entity.Message{
		ConversationID: s.ConversationID,
		Seq:            s.Seq,
		Role:           entity.Role(s.Role),
		Text:           s.Text,
		CreatedAt:      s.CreatedAt,
	}
}
