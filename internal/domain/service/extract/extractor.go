// Package extract извлекает числовой оффер из свободного текста покупателя.
// Это набор эвристик (паттерн -> фильтры-исключения -> выбор кандидата),
// а не NLU: каждая ступень конвейера тестируется отдельно.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"verhandlungsbot/internal/domain/value"
)

// Сообщение из одного числа (с опциональным знаком валюты) — безусловный
// оффер, если число в правдоподобном диапазоне.
var bareNumberPattern = regexp.MustCompile(`^\s*(\d{2,5})\s*(?:€|eur|euro|euros)?\s*[.!]?\s*$`)

var numberPattern = regexp.MustCompile(`\d{2,5}`)

// Немецкая запись сумм приводится к простой до поиска кандидатов:
// "1.000" — точка-разделитель тысяч, "1k"/"1,2k" — тысячный суффикс.
var (
	thousandDotPattern = regexp.MustCompile(`\b(\d{1,2})\.(\d{3})\b`)
	kSuffixPattern     = regexp.MustCompile(`\b(\d)(?:[.,](\d))?k\b`)
)

// Число рядом с жалобой на цену — ссылка на цену, а не предложение.
//
//nolint:gochecknoglobals
var complaintPhrases = []string{
	"zu teuer",
	"zu viel",
	"viel zu hoch",
	"too expensive",
	"too much",
	"way too",
}

// Закрытый словарь намерения сделать предложение. Без него (и без знака
// валюты) числа в сообщении считаются болтовнёй о характеристиках.
//
//nolint:gochecknoglobals
var intentKeywords = []string{
	"ich biete",
	"biete dir",
	"mein angebot",
	"ich zahle",
	"zahle dir",
	"ich würde",
	"würde ich",
	"ich kann",
	"gebe ich",
	"geb ich",
	"i offer",
	"my offer",
	"i'd pay",
	"i would pay",
	"i can give",
	"i can do",
	"i pay",
}

//nolint:gochecknoglobals
var currencyMarkers = []string{"€", "eur", "euro"}

// Числа, за которыми в пределах короткого окна идёт единица измерения, —
// характеристики товара, не цены.
//
//nolint:gochecknoglobals
var unitWords = []string{
	"gb",
	"gigabyte",
	"tb",
	"zoll",
	"inch",
	"gen",
	"generation",
	"chip",
	"ghz",
	"mah",
	"mp",
	"prozent",
	"%",
	"jahre",
	"monate",
	"wochen",
}

// Стандартные объёмы памяти отбрасываем даже без единицы следом:
// "das 256er modell" — не оффер на 256 €.
//
//nolint:gochecknoglobals
var knownSpecValues = map[int64]struct{}{
	16:   {},
	32:   {},
	64:   {},
	128:  {},
	256:  {},
	512:  {},
	1024: {},
	2048: {},
}

const unitLookahead = 16

// Extract возвращает оффер покупателя, если он есть в тексте.
func Extract(text string) (value.Price, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return 0, false
	}
	lower = normalizeAmounts(lower)

	if m := bareNumberPattern.FindStringSubmatch(lower); m != nil {
		price := parsePrice(m[1])
		if price.Plausible() {
			return price, true
		}
		return 0, false
	}

	locations := numberPattern.FindAllStringIndex(lower, -1)
	if len(locations) == 0 {
		return 0, false
	}

	if hasComplaintFraming(lower) {
		return 0, false
	}

	if !hasOfferIntent(lower) {
		return 0, false
	}

	var (
		candidate value.Price
		found     bool
	)

	for _, loc := range locations {
		price := parsePrice(lower[loc[0]:loc[1]])

		if !price.Plausible() {
			continue
		}
		if IsSpecValue(price.Int64()) {
			continue
		}
		if FollowedByUnit(lower, loc[1]) {
			continue
		}

		// Последнее число в порядке чтения — реальное предложение;
		// более ранние случайные числа сознательно игнорируются.
		candidate = price
		found = true
	}

	return candidate, found
}

// normalizeAmounts переписывает "1.000" в "1000" и "1k"/"1,2k" в
// "1000"/"1200". Текст должен быть в нижнем регистре.
func normalizeAmounts(lower string) string {
	lower = thousandDotPattern.ReplaceAllString(lower, "$1$2")

	return kSuffixPattern.ReplaceAllStringFunc(lower, func(m string) string {
		sub := kSuffixPattern.FindStringSubmatch(m)
		if sub[2] == "" {
			return sub[1] + "000"
		}
		return sub[1] + sub[2] + "00"
	})
}

func parsePrice(s string) value.Price {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return value.Price(n)
}

func hasComplaintFraming(lower string) bool {
	for _, phrase := range complaintPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func hasOfferIntent(lower string) bool {
	for _, marker := range currencyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	for _, keyword := range intentKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsSpecValue сообщает, что число — известная характеристика товара.
func IsSpecValue(n int64) bool {
	_, ok := knownSpecValues[n]
	return ok
}

// FollowedByUnit сообщает, что сразу за числом (в пределах короткого окна)
// идёт единица измерения. Текст должен быть в нижнем регистре.
func FollowedByUnit(lower string, from int) bool {
	end := from + unitLookahead
	if end > len(lower) {
		end = len(lower)
	}

	window := strings.TrimLeft(lower[from:end], " -–\t")

	for _, unit := range unitWords {
		if strings.HasPrefix(window, unit) {
			return true
		}
	}
	return false
}
