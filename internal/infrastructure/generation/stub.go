package generation

import (
	"context"

	"verhandlungsbot/internal/domain/service/guard"
)

// StubGenerator заглушка без реальных запросов: одна нейтральная реплика
// без чисел, проходит любую проверку guard. Для локальной разработки
// и окружений без ключа генерации.
type StubGenerator struct{}

func NewStubGenerator() *StubGenerator { return &StubGenerator{} }

func (StubGenerator) Complete(_ context.Context, _ string, _ []guard.Turn) (string, error) {
	return "Danke für deine Nachricht! Was schwebt dir preislich vor?", nil
}
