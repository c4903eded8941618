package policy

import (
	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/value"
	"verhandlungsbot/pkg/errcodes"
)

// Policy неизменяемые параметры сессии. FloorPrice никогда не раскрывается
// покупателю и никогда не пробивается контроффером.
type Policy struct {
	ListPrice         value.Price
	FloorPrice        value.Price
	MaxReplySentences int
	Tone              string
}

func (p Policy) Validate() error {
	if p.FloorPrice > p.ListPrice {
		return domain.NewError(errcodes.InvalidPolicy, "floor price above list price")
	}
	if p.FloorPrice <= 0 || p.ListPrice <= 0 {
		return domain.NewError(errcodes.InvalidPolicy, "prices must be positive")
	}
	if p.MaxReplySentences <= 0 {
		return domain.NewError(errcodes.InvalidPolicy, "max reply sentences must be positive")
	}
	return nil
}

// Канонический набор порогов движка. Исторические варианты расходились
// между собой, поэтому все значения собраны здесь и нигде не дублируются.
const (
	// Зоны оффера, отсчитываются от floor price.
	FarBelowMargin value.Price = 200 // offer < floor-200: отказ без контроффера
	NearMargin     value.Price = 100 // floor-100 <= offer < floor: торг у пола

	// Первый контроффер в средней зоне: [list-ModerateHigh, list-ModerateLow].
	ModerateHigh value.Price = 120
	ModerateLow  value.Price = 80

	// Контроффер у пола: [floor+NearLow, floor+NearHigh].
	NearLow  value.Price = 20
	NearHigh value.Price = 70

	// Оффер на уровне пола и выше: offer + [AboveMin, AboveMax],
	// с ужатием по мере роста числа ходов.
	AboveMin value.Price = 5
	AboveMax value.Price = 20

	// Шаг уступки: доля оставшегося запаса (lastCounter - floor).
	ConcessionMinPct = 10
	ConcessionMaxPct = 25
	ConcessionMin    value.Price = 5

	// Замедление уступок в near-зоне после этого хода.
	SlowdownAfterTurn = 4

	// Округление и дрожание цен, чтобы числа не выглядели машинными.
	RoundDenomination value.Price = 5
	JitterRange       value.Price = 3
	RoundDistance     value.Price = 50

	// Анти-стратегии: мелкие шаги при большом разрыве.
	StallGap  value.Price = 20 // gap > 20
	StallStep value.Price = 4  // 0 < step < 4

	// Reply Guard: 2 повтора после первой попытки, итого 3 обращения.
	GuardMaxAttempts = 3
)
