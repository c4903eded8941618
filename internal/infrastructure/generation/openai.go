// Package generation содержит реализации генератора реплик продавца.
// Все реализации взаимозаменяемы и скрыты за guard.Generator.
package generation

import (
	"context"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/service/guard"
)

// OpenAIClient генератор поверх Responses API. Ошибки транспорта и провайдера
// возвращаются как есть: ретраи и заготовки — зона ответственности guard.
type OpenAIClient struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
}

type OpenAIParams struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// HTTPClient опционален; сюда подключается логирующий транспорт.
	HTTPClient *http.Client
}

func NewOpenAIClient(params OpenAIParams) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(params.BaseURL))
	}
	if params.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(params.HTTPClient))
	}

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		model:   openai.ChatModel(params.Model),
		timeout: params.Timeout,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, instructions string, turns []guard.Turn) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	input := make(responses.ResponseInputParam, 0, len(turns))
	for _, turn := range turns {
		input = append(input, responses.ResponseInputItemParamOfMessage(
			responses.ResponseInputMessageContentListParam{
				{
					OfInputText: &responses.ResponseInputTextParam{Text: turn.Text},
				},
			},
			roleOf(turn.Role),
		))
	}

	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
	})
	if err != nil {
		return "", err
	}

	return resp.OutputText(), nil
}

// roleOf продавец для генератора — assistant, покупатель — user.
func roleOf(role entity.Role) responses.EasyInputMessageRole {
	if role == entity.RoleSeller {
		return responses.EasyInputMessageRoleAssistant
	}
	return responses.EasyInputMessageRoleUser
}
