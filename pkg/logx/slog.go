package logx

import (
	"fmt"
	"log/slog"

	"github.com/lmittmann/tint"
)

// Error оборачивает ошибку в атрибут, который tint подсвечивает красным.
var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}
