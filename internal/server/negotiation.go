package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/oklog/ulid/v2"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/policy"
	"verhandlungsbot/internal/domain/service/guard"
	"verhandlungsbot/internal/domain/service/negotiate"
	"verhandlungsbot/internal/infrastructure/recorder"
	"verhandlungsbot/internal/infrastructure/session"
	"verhandlungsbot/internal/metrics"
	"verhandlungsbot/pkg/contextx"
	"verhandlungsbot/pkg/errcodes"
	"verhandlungsbot/pkg/httpx/reply"
	"verhandlungsbot/pkg/httpx/req"
	"verhandlungsbot/pkg/logx"
	"verhandlungsbot/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type negotiationEngine interface {
	Greeting() string
	Turn(ctx context.Context, state *entity.NegotiationState, text string, history []guard.Turn) (negotiate.TurnResult, error)
	Confirm(state *entity.NegotiationState) (*entity.Result, error)
	AbortByUser(state *entity.NegotiationState) *entity.Result
}

type NegotiationServer struct {
	engine    negotiationEngine
	store     session.Store
	locker    *session.Locker
	recorder  *recorder.Recorder
	pol       policy.Policy
	concluded chan<- *entity.Result
	now       func() time.Time
}

func NewNegotiationServer(
	engine negotiationEngine,
	store session.Store,
	locker *session.Locker,
	rec *recorder.Recorder,
	pol policy.Policy,
	concluded chan<- *entity.Result,
) NegotiationServer {
	return NegotiationServer{
		engine:    engine,
		store:     store,
		locker:    locker,
		recorder:  rec,
		pol:       pol,
		concluded: concluded,
		now:       time.Now,
	}
}

func (s NegotiationServer) postV1Negotiations(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateNegotiationRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	state := entity.NewNegotiationState(ulid.Make().String(), request.ParticipantID, s.now())

	greeting := entity.Message{
		ConversationID: state.ConversationID,
		Seq:            1,
		Role:           entity.RoleSeller,
		Text:           s.engine.Greeting(),
		CreatedAt:      s.now(),
	}
	state.MessageCount = 1

	sess := &session.Session{
		State:    state,
		Messages: []entity.Message{greeting},
	}

	if err := s.store.Create(ctx, sess); err != nil {
		return fmt.Errorf("store.Create: %w", toFailure(err))
	}

	s.recorder.RecordMessage(ctx, &greeting)
	metrics.NegotiationsStarted.Inc()

	reply.JSON(ctx, w, http.StatusCreated, newRESTNegotiation(state, sess.Messages, s.pol))

	return nil
}

func (s NegotiationServer) postV1NegotiationMessage(w http.ResponseWriter, r *http.Request) error { //nolint:funlen
	ctx := r.Context()

	id, err := parseNegotiationID(r)
	if err != nil {
		return err
	}

	var request rest.SendMessageRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	unlock := s.locker.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("store.Get: %w", toFailure(err))
	}

	ctx = contextx.WithParticipantID(ctx, contextx.ParticipantID(sess.State.ParticipantID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		logx.FieldConversationID, id,
		logx.FieldParticipantID, sess.State.ParticipantID,
	))

	history := make([]guard.Turn, 0, len(sess.Messages)+1)
	for _, m := range sess.Messages {
		history = append(history, guard.Turn{Role: m.Role, Text: m.Text})
	}
	history = append(history, guard.Turn{Role: entity.RoleBuyer, Text: request.Text})

	res, err := s.engine.Turn(ctx, sess.State, request.Text, history)
	if err != nil {
		return fmt.Errorf("engine.Turn: %w", toFailure(err))
	}

	buyerMsg := entity.Message{
		ConversationID: id,
		Seq:            sess.State.MessageCount - 1,
		Role:           entity.RoleBuyer,
		Text:           request.Text,
		CreatedAt:      s.now(),
	}
	sellerMsg := entity.Message{
		ConversationID: id,
		Seq:            sess.State.MessageCount,
		Role:           entity.RoleSeller,
		Text:           res.Reply,
		CreatedAt:      s.now(),
	}
	sess.Messages = append(sess.Messages, buyerMsg, sellerMsg)

	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("store.Save: %w", toFailure(err))
	}

	s.recorder.RecordMessage(ctx, &buyerMsg)
	s.recorder.RecordMessage(ctx, &sellerMsg)

	metrics.Turns.Inc()
	metrics.GuardAttempts.Add(float64(res.GuardStats.Attempts))
	if res.GuardStats.FellBack {
		metrics.GuardFallbacks.Inc()
	}
	if res.Warned {
		metrics.Warnings.WithLabelValues(res.Via).Inc()
	}
	if res.Result != nil {
		s.conclude(ctx, res.Result)
	}

	logger(ctx).Info("turn processed",
		logx.FieldTurn, sess.State.Turn,
		logx.FieldOutcome, string(sess.State.Outcome),
		"warned", res.Warned,
		"fell-back", res.GuardStats.FellBack,
	)

	reply.JSON(ctx, w, http.StatusOK, rest.SendMessageResponse{
		Reply:              res.Reply,
		Closed:             res.Closed,
		Outcome:            string(sess.State.Outcome),
		AvailableDealPrice: priceValue(res.AvailableDealPrice),
	})

	return nil
}

func (s NegotiationServer) postV1NegotiationConfirm(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseNegotiationID(r)
	if err != nil {
		return err
	}

	unlock := s.locker.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("store.Get: %w", toFailure(err))
	}

	result, err := s.engine.Confirm(sess.State)
	if err != nil {
		return fmt.Errorf("engine.Confirm: %w", toFailure(err))
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("store.Save: %w", toFailure(err))
	}

	if result != nil {
		s.conclude(ctx, result)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTNegotiation(sess.State, sess.Messages, s.pol))

	return nil
}

func (s NegotiationServer) postV1NegotiationAbort(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseNegotiationID(r)
	if err != nil {
		return err
	}

	unlock := s.locker.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("store.Get: %w", toFailure(err))
	}

	result := s.engine.AbortByUser(sess.State)

	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("store.Save: %w", toFailure(err))
	}

	if result != nil {
		s.conclude(ctx, result)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTNegotiation(sess.State, sess.Messages, s.pol))

	return nil
}

func (s NegotiationServer) getV1Negotiation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseNegotiationID(r)
	if err != nil {
		return err
	}

	// Стор отдаёт общий указатель на сессию; читать можно только под тем же
	// замком, под которым ходы её мутируют.
	unlock := s.locker.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("store.Get: %w", toFailure(err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTNegotiation(sess.State, sess.Messages, s.pol))

	return nil
}

// conclude доставляет запись результата в стоки и уведомления.
// Канал уведомлений необязателен и никогда не блокирует ход.
func (s NegotiationServer) conclude(ctx context.Context, result *entity.Result) {
	s.recorder.RecordResult(ctx, result)
	metrics.Concluded.WithLabelValues(string(result.Outcome), result.EndedVia).Inc()

	if s.concluded == nil {
		return
	}
	select {
	case s.concluded <- result:
	default:
	}
}

func parseNegotiationID(r *http.Request) (string, error) {
	raw := r.PathValue("id")
	if _, err := ulid.Parse(raw); err != nil {
		return "", failure.NewInvalidArgumentError(
			fmt.Errorf("ulid.Parse: %w", err).Error(),
			failure.WithCode(errcodes.InvalidNegotiationID),
		)
	}
	return raw, nil
}
