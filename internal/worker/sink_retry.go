// Package worker содержит обработчики отложенных задач стоков.
package worker

import (
	"context"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/infrastructure/recorder"
	"verhandlungsbot/pkg/application/modules"
	"verhandlungsbot/pkg/contextx"
	"verhandlungsbot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// SinkRetry доигрывает записи, которые не удалось положить в Postgres
// синхронно. Записи идемпотентны, поэтому повторная доставка безопасна.
type SinkRetry struct {
	results     recorder.ResultSink
	transcripts recorder.TranscriptSink
}

func NewSinkRetry(results recorder.ResultSink, transcripts recorder.TranscriptSink) *SinkRetry {
	return &SinkRetry{
		results:     results,
		transcripts: transcripts,
	}
}

func (w *SinkRetry) Handlers() []modules.AsynqHandler {
	return []modules.AsynqHandler{
		{Pattern: recorder.TaskResultWrite, Handle: w.handleResult},
		{Pattern: recorder.TaskTranscriptWrite, Handle: w.handleTranscript},
	}
}

func (w *SinkRetry) handleResult(ctx context.Context, task *asynq.Task) error {
	var result entity.Result
	if err := json.Unmarshal(task.Payload(), &result); err != nil {
		logger(ctx).Error("malformed result sink task, dropping", logx.Error(err))
		return nil // ретраить бессмысленно
	}

	if err := w.results.Create(ctx, &result); err != nil {
		return err
	}

	logger(ctx).Info("deferred result delivered",
		logx.FieldConversationID, result.ConversationID,
		logx.FieldOutcome, string(result.Outcome),
	)
	return nil
}

func (w *SinkRetry) handleTranscript(ctx context.Context, task *asynq.Task) error {
	var msg entity.Message
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		logger(ctx).Error("malformed transcript sink task, dropping", logx.Error(err))
		return nil
	}

	return w.transcripts.Append(ctx, &msg)
}
