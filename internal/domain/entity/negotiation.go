package entity

import (
	"time"

	"verhandlungsbot/internal/domain/value"
)

// Outcome итог переговоров.
type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomeDeal    Outcome = "deal"
	OutcomeAborted Outcome = "aborted"
)

// Role автор реплики.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// EndedBy кто завершил сессию.
type EndedBy string

const (
	EndedByUser   EndedBy = "user"
	EndedBySystem EndedBy = "system"
)

// Message одна реплика переписки. Последовательность append-only,
// принадлежит ровно одной сессии.
type Message struct {
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Seq            int       `json:"seq" db:"seq"`
	Role           Role      `json:"role" db:"role"`
	Text           string    `json:"text" db:"text"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// NegotiationState состояние одной сессии переговоров. Мутируется строго
// последовательно, ход за ходом; после Closed не меняется.
type NegotiationState struct {
	ConversationID string       `json:"conversation_id"`
	ParticipantID  string       `json:"participant_id"`
	CreatedAt      time.Time    `json:"created_at"`
	LastUserOffer  *value.Price `json:"last_user_offer,omitempty"`
	// LastCounterOffer всегда >= floor price, если присутствует.
	LastCounterOffer *value.Price `json:"last_counter_offer,omitempty"`
	RepeatOfferCount int          `json:"repeat_offer_count"`
	SmallStepCount   int          `json:"small_step_count"`
	WarningIssued    bool         `json:"warning_issued"`
	// DealAvailable выставляется, когда оффер покупателя достиг контроффера;
	// фиксация сделки происходит только явным подтверждением.
	DealAvailable bool         `json:"deal_available"`
	Closed        bool         `json:"closed"`
	Outcome       Outcome      `json:"outcome"`
	FinalPrice    *value.Price `json:"final_price,omitempty"`
	Turn          int          `json:"turn"`
	MessageCount  int          `json:"message_count"`
}

func NewNegotiationState(conversationID, participantID string, now time.Time) *NegotiationState {
	return &NegotiationState{
		ConversationID: conversationID,
		ParticipantID:  participantID,
		CreatedAt:      now,
		Outcome:        OutcomeNone,
	}
}

// AvailableDealPrice цена, которую покупатель может подтвердить кнопкой.
func (s *NegotiationState) AvailableDealPrice() *value.Price {
	if !s.DealAvailable || s.Closed || s.LastCounterOffer == nil {
		return nil
	}
	price := *s.LastCounterOffer
	return &price
}

// Result запись о завершённой сессии для стока результатов.
type Result struct {
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	ConversationID string       `json:"conversation_id" db:"conversation_id"`
	ParticipantID  string       `json:"participant_id" db:"participant_id"`
	VariantTag     string       `json:"variant_tag" db:"variant_tag"`
	Outcome        Outcome      `json:"outcome" db:"outcome"`
	FinalPrice     *value.Price `json:"final_price,omitempty" db:"final_price"`
	MessageCount   int          `json:"message_count" db:"message_count"`
	EndedBy        EndedBy      `json:"ended_by" db:"ended_by"`
	EndedVia       string       `json:"ended_via" db:"ended_via"`
}
