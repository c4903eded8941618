package negotiate

import (
	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/pkg/errcodes"
)

// Confirm фиксирует сделку по последнему контрофферу. Идемпотентен:
// повторный вызов на закрытой сессии возвращает nil без новой записи.
func (e *Engine) Confirm(state *entity.NegotiationState) (*entity.Result, error) {
	if state.Closed {
		return nil, nil
	}

	price := state.AvailableDealPrice()
	if price == nil {
		return nil, domain.NewError(errcodes.NoDealAvailable, "no confirmed counter-offer to accept")
	}

	state.Closed = true
	state.Outcome = entity.OutcomeDeal
	state.FinalPrice = price

	return e.buildResult(state, entity.EndedByUser, ViaConfirm), nil
}

// AbortByUser завершает сессию по инициативе покупателя. Идемпотентен.
func (e *Engine) AbortByUser(state *entity.NegotiationState) *entity.Result {
	if state.Closed {
		return nil
	}
	return e.closeAborted(state, entity.EndedByUser, ViaUserAbort)
}

// closeAborted общее закрытие без сделки; цена в записи остаётся пустой.
func (e *Engine) closeAborted(state *entity.NegotiationState, by entity.EndedBy, via string) *entity.Result {
	state.Closed = true
	state.Outcome = entity.OutcomeAborted
	state.DealAvailable = false
	state.FinalPrice = nil

	return e.buildResult(state, by, via)
}

func (e *Engine) buildResult(state *entity.NegotiationState, by entity.EndedBy, via string) *entity.Result {
	return &entity.Result{
		CreatedAt:      e.now(),
		ConversationID: state.ConversationID,
		ParticipantID:  state.ParticipantID,
		VariantTag:     e.variantTag,
		Outcome:        state.Outcome,
		FinalPrice:     state.FinalPrice,
		MessageCount:   state.MessageCount,
		EndedBy:        by,
		EndedVia:       via,
	}
}
