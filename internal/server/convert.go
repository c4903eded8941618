package server

import (
	"time"

	"git.appkode.ru/pub/go/failure"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/policy"
	"verhandlungsbot/internal/domain/value"
	"verhandlungsbot/pkg/errcodes"
	"verhandlungsbot/pkg/rest"
)

// newRESTNegotiation строит снимок сессии. Floor price сюда не попадает.
func newRESTNegotiation(state *entity.NegotiationState, messages []entity.Message, pol policy.Policy) rest.Negotiation {
	n := rest.Negotiation{
		ID:                 state.ConversationID,
		ParticipantID:      state.ParticipantID,
		ListPrice:          pol.ListPrice.Int64(),
		Closed:             state.Closed,
		Outcome:            string(state.Outcome),
		FinalPrice:         priceValue(state.FinalPrice),
		AvailableDealPrice: priceValue(state.AvailableDealPrice()),
		MessageCount:       state.MessageCount,
	}

	for i := range messages {
		n.Messages = append(n.Messages, newRESTMessage(&messages[i]))
	}

	return n
}

func newRESTMessage(m *entity.Message) rest.Message {
	return rest.Message{
		Role:      string(m.Role),
		Text:      m.Text,
		Timestamp: m.CreatedAt.UTC().Format(time.RFC3339),
		Seq:       m.Seq,
	}
}

func newRESTResult(r *entity.Result) rest.Result {
	return rest.Result{
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
		ConversationID: r.ConversationID,
		ParticipantID:  r.ParticipantID,
		VariantTag:     r.VariantTag,
		Outcome:        string(r.Outcome),
		FinalPrice:     priceValue(r.FinalPrice),
		MessageCount:   r.MessageCount,
		EndedBy:        string(r.EndedBy),
		EndedVia:       r.EndedVia,
	}
}

func priceValue(p *value.Price) *int64 {
	if p == nil {
		return nil
	}
	v := p.Int64()
	return &v
}

// toFailure переводит доменные ошибки в транспортные, чтобы reply
// отобразил их в корректный HTTP-статус.
func toFailure(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.NegotiationNotFound:
		return failure.NewNotFoundError(err.Error(), failure.WithCode(code))
	case errcodes.NegotiationClosed, errcodes.NoDealAvailable:
		return failure.NewConflictError(err.Error(), failure.WithCode(code))
	case errcodes.InvalidNegotiationID, errcodes.InvalidMessage, errcodes.InvalidPolicy:
		return failure.NewInvalidArgumentError(err.Error(), failure.WithCode(code))
	default:
		return err
	}
}
