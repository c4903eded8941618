package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/pkg/errcodes"
	"verhandlungsbot/pkg/httpx/reply"
	"verhandlungsbot/pkg/rest"
)

const (
	dashboardKeyHeader  = "X-Dashboard-Key"
	defaultResultsLimit = 100
	maxResultsLimit     = 1000
)

type resultLister interface {
	List(ctx context.Context, limit, offset int) ([]*entity.Result, error)
	Count(ctx context.Context) (int, error)
}

type transcriptLister interface {
	ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error)
}

// DashboardServer отдаёт результаты и транскрипты исследователям.
// Доступ по ключу в заголовке; сравнение за постоянное время.
type DashboardServer struct {
	results     resultLister
	transcripts transcriptLister
	key         string
}

func NewDashboardServer(results resultLister, transcripts transcriptLister, key string) DashboardServer {
	return DashboardServer{
		results:     results,
		transcripts: transcripts,
		key:         key,
	}
}

func (s DashboardServer) getV1Results(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.authorize(r); err != nil {
		return err
	}

	limit := queryInt(r, "limit", defaultResultsLimit)
	if limit <= 0 || limit > maxResultsLimit {
		limit = defaultResultsLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	results, err := s.results.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("results.List: %w", err)
	}

	total, err := s.results.Count(ctx)
	if err != nil {
		return fmt.Errorf("results.Count: %w", err)
	}

	response := rest.ResultList{
		Total:   total,
		Results: make([]rest.Result, 0, len(results)),
	}
	for _, result := range results {
		response.Results = append(response.Results, newRESTResult(result))
	}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}

// getV1ResultTranscript отдаёт переписку завершённой сессии из стока.
func (s DashboardServer) getV1ResultTranscript(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.authorize(r); err != nil {
		return err
	}

	id, err := parseNegotiationID(r)
	if err != nil {
		return err
	}

	messages, err := s.transcripts.ListByConversation(ctx, id)
	if err != nil {
		return fmt.Errorf("transcripts.ListByConversation: %w", err)
	}

	response := rest.Transcript{
		ConversationID: id,
		Messages:       make([]rest.Message, 0, len(messages)),
	}
	for _, msg := range messages {
		response.Messages = append(response.Messages, newRESTMessage(msg))
	}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}

func (s DashboardServer) authorize(r *http.Request) error {
	provided := r.Header.Get(dashboardKeyHeader)

	if s.key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(s.key)) != 1 {
		return failure.NewUnauthorizedError(
			"invalid dashboard key",
			failure.WithCode(errcodes.DashboardKeyInvalid),
		)
	}
	return nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
