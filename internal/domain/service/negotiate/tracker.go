package negotiate

import (
	"strings"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/policy"
	"verhandlungsbot/internal/domain/value"
)

// Action решение политики прерывания по одному ходу.
type Action int

const (
	ActionContinue Action = iota
	ActionWarn
	ActionAbort
)

// EndedVia причина системного завершения, попадает в запись результата.
const (
	ViaHostility  = "hostility"
	ViaRepetition = "repetition"
	ViaRegression = "regression"
	ViaStalling   = "stalling"
	ViaConfirm    = "confirm"
	ViaUserAbort  = "user-abort"
)

// Evaluation вердикт трекера. Message — доменный текст для покупателя,
// не техническая ошибка.
type Evaluation struct {
	Action  Action
	Message string
	Via     string
}

// Закрытый список враждебных паттернов. Проверка только по содержимому,
// ценовое состояние не участвует.
//
//nolint:gochecknoglobals
var hostilityPatterns = []string{
	"arschloch",
	"verpiss dich",
	"halt die klappe",
	"halts maul",
	"fick dich",
	"scheiß verkäufer",
	"du idiot",
	"idiot",
	"asshole",
	"fuck you",
	"shut up",
	"screw you",
}

const (
	warnRepeatMessage = "Dieses Angebot hattest du mir gerade schon genannt. " +
		"Bitte mach einen neuen Vorschlag, sonst beende ich die Verhandlung."
	abortRepeatMessage = "Wir drehen uns im Kreis – du wiederholst dasselbe Angebot. " +
		"Ich beende die Verhandlung hier."
	warnRegressionMessage = "Dein Angebot liegt unter deinem vorherigen. So verhandeln wir nicht – " +
		"bitte bleib mindestens bei deinem letzten Gebot."
	abortRegressionMessage = "Du gehst schon wieder mit dem Preis zurück. " +
		"Damit ist die Verhandlung für mich beendet."
	warnStallMessage = "Mit Ein-Euro-Schritten kommen wir nicht zusammen. " +
		"Bitte mach einen ernsthaften Schritt auf mich zu."
	abortStallMessage = "Wir sind noch weit auseinander und du bewegst dich kaum. " +
		"Ich beende die Verhandlung an dieser Stelle."
	abortHostilityMessage = "In diesem Ton verhandle ich nicht. Die Verhandlung ist beendet."
)

// evaluate применяет анти-стратегии в фиксированном порядке приоритетов:
// враждебность -> нет оффера -> повтор -> откат -> мелкие шаги.
// Все проверки — сравнения чисел и состояния, без понимания текста.
func evaluate(text string, offer *value.Price, state *entity.NegotiationState) Evaluation {
	if isHostile(text) {
		return Evaluation{Action: ActionAbort, Message: abortHostilityMessage, Via: ViaHostility}
	}

	if offer == nil {
		return Evaluation{Action: ActionContinue}
	}

	prev := state.LastUserOffer

	// Повтор того же оффера.
	if prev != nil && *offer == *prev {
		state.RepeatOfferCount++
		if state.RepeatOfferCount >= 2 {
			return Evaluation{Action: ActionAbort, Message: abortRepeatMessage, Via: ViaRepetition}
		}
		return Evaluation{Action: ActionWarn, Message: warnRepeatMessage, Via: ViaRepetition}
	}
	state.RepeatOfferCount = 0

	// Откат назад. Флаг одноразовый и липкий: после первого предупреждения
	// любой следующий откат завершает сессию.
	if prev != nil && *offer < *prev {
		if state.WarningIssued {
			return Evaluation{Action: ActionAbort, Message: abortRegressionMessage, Via: ViaRegression}
		}
		state.WarningIssued = true
		state.LastUserOffer = offerCopy(*offer)
		return Evaluation{Action: ActionWarn, Message: warnRegressionMessage, Via: ViaRegression}
	}

	// Мелкие шаги при большом разрыве до контроффера.
	if state.LastCounterOffer != nil && prev != nil {
		gap := *state.LastCounterOffer - *offer
		step := *offer - *prev

		if gap > policy.StallGap && step > 0 && step < policy.StallStep {
			state.SmallStepCount++
			state.LastUserOffer = offerCopy(*offer)
			if state.SmallStepCount >= 2 {
				return Evaluation{Action: ActionAbort, Message: abortStallMessage, Via: ViaStalling}
			}
			return Evaluation{Action: ActionWarn, Message: warnStallMessage, Via: ViaStalling}
		}

		if step >= policy.StallStep || gap <= policy.StallGap {
			state.SmallStepCount = 0
		}
	}

	state.LastUserOffer = offerCopy(*offer)

	return Evaluation{Action: ActionContinue}
}

func isHostile(text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range hostilityPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func offerCopy(p value.Price) *value.Price {
	return &p
}
