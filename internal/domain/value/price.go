package value

import "strconv"

// Price цена в целых евро. Эксперимент работает только с целыми суммами.
type Price int64

const (
	// PlausibleMin и PlausibleMax — границы правдоподобной цены предложения.
	// Числа вне диапазона не считаются офферами (это гигабайты, годы и т.п.).
	PlausibleMin Price = 100
	PlausibleMax Price = 5000
)

func (p Price) Plausible() bool {
	return p >= PlausibleMin && p <= PlausibleMax
}

func (p Price) Int64() int64 {
	return int64(p)
}

func (p Price) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// SanctionedSet закрытое множество чисел, которые сгенерированный ответ
// имеет право упоминать как денежные суммы (0, 1 или 2 значения).
type SanctionedSet map[Price]struct{}

func NewSanctionedSet(prices ...Price) SanctionedSet {
	set := make(SanctionedSet, len(prices))
	for _, p := range prices {
		set[p] = struct{}{}
	}
	return set
}

func (s SanctionedSet) Contains(p Price) bool {
	_, ok := s[p]
	return ok
}

func (s SanctionedSet) Values() []Price {
	values := make([]Price, 0, len(s))
	for p := range s {
		values = append(values, p)
	}
	return values
}
