// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// CreateNegotiationRequest запрос на открытие новой сессии переговоров.
type CreateNegotiationRequest struct {
	ParticipantID string `json:"participantId" validate:"required,max=64"`
}

// Negotiation снимок состояния сессии, отдаваемый клиенту.
// Floor price в снимок не попадает никогда.
type Negotiation struct {
	ID                 string    `json:"id"`
	ParticipantID      string    `json:"participantId"`
	ListPrice          int64     `json:"listPrice"`
	Closed             bool      `json:"closed"`
	Outcome            string    `json:"outcome"`
	FinalPrice         *int64    `json:"finalPrice,omitempty"`
	AvailableDealPrice *int64    `json:"availableDealPrice,omitempty"`
	MessageCount       int       `json:"messageCount"`
	Messages           []Message `json:"messages,omitempty"`
}

// Message одна реплика переписки.
type Message struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Seq       int    `json:"seq"`
}

// SendMessageRequest реплика покупателя.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// SendMessageResponse результат одного хода переговоров.
type SendMessageResponse struct {
	Reply              string `json:"reply"`
	Closed             bool   `json:"closed"`
	Outcome            string `json:"outcome"`
	AvailableDealPrice *int64 `json:"availableDealPrice,omitempty"`
}

// Result запись о завершённой сессии (для дашборда исследователя).
type Result struct {
	CreatedAt      string `json:"createdAt"`
	ConversationID string `json:"conversationId"`
	ParticipantID  string `json:"participantId"`
	VariantTag     string `json:"variantTag"`
	Outcome        string `json:"outcome"`
	FinalPrice     *int64 `json:"finalPrice,omitempty"`
	MessageCount   int    `json:"messageCount"`
	EndedBy        string `json:"endedBy"`
	EndedVia       string `json:"endedVia"`
}

// ResultList ответ дашборда.
type ResultList struct {
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Transcript переписка завершённой сессии (для дашборда исследователя).
type Transcript struct {
	ConversationID string    `json:"conversationId"`
	Messages       []Message `json:"messages"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
