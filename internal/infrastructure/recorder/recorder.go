// Package recorder доставляет записи завершённых сессий и реплики в стоки.
// Запись сначала идёт напрямую в Postgres; при сбое она не теряется, а
// откладывается в очередь asynq и доигрывается воркером.
package recorder

import (
	"context"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/pkg/contextx"
	"verhandlungsbot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const (
	TaskResultWrite     = "sink:result"
	TaskTranscriptWrite = "sink:transcript"

	QueueSinks = "sinks"
)

// ResultSink прямая запись результата.
type ResultSink interface {
	Create(ctx context.Context, result *entity.Result) error
}

// TranscriptSink прямая запись реплики транскрипта.
type TranscriptSink interface {
	Append(ctx context.Context, msg *entity.Message) error
}

// Enqueuer откладывает задачу на повторную доставку.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Recorder struct {
	results     ResultSink
	transcripts TranscriptSink
	enqueuer    Enqueuer
}

func New(results ResultSink, transcripts TranscriptSink, enqueuer Enqueuer) *Recorder {
	return &Recorder{
		results:     results,
		transcripts: transcripts,
		enqueuer:    enqueuer,
	}
}

// RecordResult пишет результат; сбой записи не останавливает переговоры.
// Ошибку наружу не возвращаем: доставку гарантирует очередь.
func (r *Recorder) RecordResult(ctx context.Context, result *entity.Result) {
	err := r.results.Create(ctx, result)
	if err == nil {
		return
	}

	logger(ctx).Error("result sink write failed, deferring to queue",
		logx.Error(err),
		logx.FieldConversationID, result.ConversationID,
	)

	r.enqueue(ctx, TaskResultWrite, result)
}

// RecordMessage пишет реплику транскрипта, тем же контрактом.
func (r *Recorder) RecordMessage(ctx context.Context, msg *entity.Message) {
	err := r.transcripts.Append(ctx, msg)
	if err == nil {
		return
	}

	logger(ctx).Error("transcript sink write failed, deferring to queue",
		logx.Error(err),
		logx.FieldConversationID, msg.ConversationID,
	)

	r.enqueue(ctx, TaskTranscriptWrite, msg)
}

func (r *Recorder) enqueue(ctx context.Context, taskType string, payload any) {
	if r.enqueuer == nil {
		logger(ctx).Error("sink queue is not configured, record dropped", "task", taskType)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger(ctx).Error("failed to marshal sink task", logx.Error(err), "task", taskType)
		return
	}

	task := asynq.NewTask(taskType, body, asynq.Queue(QueueSinks), asynq.MaxRetry(10))
	if _, err := r.enqueuer.EnqueueContext(ctx, task); err != nil {
		logger(ctx).Error("failed to enqueue sink task", logx.Error(err), "task", taskType)
	}
}
