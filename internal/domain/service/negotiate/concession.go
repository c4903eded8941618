package negotiate

import (
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/policy"
	"verhandlungsbot/internal/domain/value"
)

// zone классификация оффера относительно floor price.
type zone int

const (
	zoneFarBelow zone = iota
	zoneModerate
	zoneNear
	zoneAtOrAbove
)

func classify(offer value.Price, pol policy.Policy) zone {
	switch {
	case offer < pol.FloorPrice-policy.FarBelowMargin:
		return zoneFarBelow
	case offer < pol.FloorPrice-policy.NearMargin:
		return zoneModerate
	case offer < pol.FloorPrice:
		return zoneNear
	default:
		return zoneAtOrAbove
	}
}

// counterResult итог расчёта: сделка, контроффер или отказ без числа.
// NoRoom — отказ особого рода: оффер вплотную к действующему контрофферу,
// двигаться некуда, продавец держит прежнюю цену.
type counterResult struct {
	Deal       bool
	HasCounter bool
	NoRoom     bool
	Counter    value.Price
}

// computeCounter вычисляет следующий допустимый контроффер.
// Инварианты (гарантируются клампами в самом конце, безусловно):
// counter > offer, counter >= floor, counter < предыдущего контроффера.
func (e *Engine) computeCounter(offer value.Price, state *entity.NegotiationState, pol policy.Policy) counterResult {
	last := state.LastCounterOffer

	// Deal shortcut: покупатель достиг контроффера, цена больше не движется.
	if last != nil && offer >= *last {
		return counterResult{Deal: true}
	}

	var raw value.Price

	switch classify(offer, pol) {
	case zoneFarBelow:
		return counterResult{}

	case zoneModerate:
		if last == nil {
			raw = e.randBetween(pol.ListPrice-policy.ModerateHigh, pol.ListPrice-policy.ModerateLow)
		} else {
			raw = *last - e.concessionStep(*last, pol, 1)
		}

	case zoneNear:
		if last == nil {
			raw = e.randBetween(pol.FloorPrice+policy.NearLow, pol.FloorPrice+policy.NearHigh)
		} else {
			divisor := 2
			if state.Turn > policy.SlowdownAfterTurn {
				divisor = 4
			}
			raw = *last - e.concessionStep(*last, pol, divisor)
		}

	case zoneAtOrAbove:
		raw = offer + e.aboveIncrement(state.Turn)
	}

	raw = e.humanize(raw, offer, pol)

	counter, ok := clampCounter(raw, offer, last, pol.FloorPrice)
	if !ok {
		return counterResult{NoRoom: true}
	}

	return counterResult{HasCounter: true, Counter: counter}
}

// concessionStep случайная уступка, пропорциональная оставшемуся запасу
// до пола: чем ближе к floor price, тем мельче шаг.
func (e *Engine) concessionStep(last value.Price, pol policy.Policy, divisor int) value.Price {
	headroom := last - pol.FloorPrice
	if headroom <= 0 {
		return 0
	}

	pct := policy.ConcessionMinPct + e.rng.Intn(policy.ConcessionMaxPct-policy.ConcessionMinPct+1)
	step := headroom * value.Price(pct) / 100 / value.Price(divisor)

	if step < policy.ConcessionMin {
		step = policy.ConcessionMin
	}
	if step > headroom {
		step = headroom
	}

	return step
}

// aboveIncrement небольшая надбавка над оффером у пола и выше,
// ужимается с ростом числа ходов.
func (e *Engine) aboveIncrement(turn int) value.Price {
	max := policy.AboveMax - value.Price(turn*3)
	if max < policy.AboveMin {
		max = policy.AboveMin
	}
	return e.randBetween(policy.AboveMin, max)
}

// humanize огрубляет цену до "человеческих" значений: круглим до 5,
// пока далеко от оффера, и слегка дрожим рядом с ним.
func (e *Engine) humanize(raw, offer value.Price, pol policy.Policy) value.Price {
	distance := raw - offer
	if distance < 0 {
		distance = -distance
	}

	if distance > policy.RoundDistance {
		return roundTo(raw, policy.RoundDenomination)
	}

	jitter := value.Price(e.rng.Intn(int(policy.JitterRange)*2+1)) - policy.JitterRange
	return raw + jitter
}

func roundTo(p, denom value.Price) value.Price {
	half := denom / 2
	return (p + half) / denom * denom
}

// clampCounter финальные безусловные клампы. Если допустимого значения
// не существует (нельзя опуститься ниже предыдущего контроффера, не пробив
// пол и не поднырнув под оффер), контроффер не выражается вовсе.
func clampCounter(raw, offer value.Price, last *value.Price, floor value.Price) (value.Price, bool) {
	c := raw

	if last != nil && c >= *last {
		c = *last - 1
	}
	if c < floor {
		c = floor
	}
	if c <= offer {
		c = offer + 1
		if c < floor {
			c = floor
		}
	}

	if c < floor || c <= offer {
		return 0, false
	}
	if last != nil && c >= *last {
		return 0, false
	}

	return c, true
}

func (e *Engine) randBetween(low, high value.Price) value.Price {
	if high <= low {
		return low
	}
	return low + value.Price(e.rng.Intn(int(high-low)+1))
}
