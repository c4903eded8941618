// Package modules содержит модули жизненного цикла приложения: каждый модуль
// запускает свой сервер в errgroup и корректно гасит его по отмене контекста.
package modules

import "verhandlungsbot/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
