package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Коды модуля переговоров
	NegotiationNotFound  failure.ErrorCode = "NegotiationNotFound"  // Неизвестный conversationId
	NegotiationClosed    failure.ErrorCode = "NegotiationClosed"    // Сессия уже завершена
	NoDealAvailable      failure.ErrorCode = "NoDealAvailable"      // Подтверждать нечего: контроффер не принят
	InvalidMessage       failure.ErrorCode = "InvalidMessage"       // Пустой или слишком длинный текст
	InvalidNegotiationID failure.ErrorCode = "InvalidNegotiationID" // Мусор вместо ULID
	InvalidPolicy        failure.ErrorCode = "InvalidPolicy"        // floor > list и прочие несостыковки конфига
	DashboardKeyInvalid  failure.ErrorCode = "DashboardKeyInvalid"  // Неверный ключ дашборда
)
