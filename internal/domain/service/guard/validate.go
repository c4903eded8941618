package guard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"verhandlungsbot/internal/domain/service/extract"
	"verhandlungsbot/internal/domain/value"
)

// Запрещённые фреймы: власть, дефицит, авторитет, дедлайны. Список закрыт,
// проверка регистронезависимая.
//
//nolint:gochecknoglobals
var prohibitedFramingPatterns = []string{
	"letzte chance",
	"nur heute",
	"nur noch heute",
	"jetzt oder nie",
	"andere interessenten",
	"anderer käufer",
	"andere käufer",
	"viele anfragen",
	"neupreis",
	"schmerzgrenze",
	"untergrenze",
	"mindestpreis",
	"marktpreis",
	"sofort entscheiden",
	"letztes angebot",
	"last chance",
	"other buyers",
	"lots of interest",
	"take it or leave it",
	"final offer",
	"act now",
}

var tokenPattern = regexp.MustCompile(`\d+`)

//nolint:gochecknoglobals
var currencySuffixes = []string{"€", "eur", "euro", "euros"}

// Validate чистая проверка ответа генератора: запрещённые фреймы и денежные
// числа вне санкционированного множества. Побочных эффектов нет, так что
// функция тестируется на консервированных ответах без живого сервиса.
func Validate(text string, sanctioned value.SanctionedSet) []string {
	var violations []string

	lower := strings.ToLower(text)

	for _, pattern := range prohibitedFramingPatterns {
		if strings.Contains(lower, pattern) {
			violations = append(violations, fmt.Sprintf("verbotener Frame: %q", pattern))
		}
	}

	for _, loc := range tokenPattern.FindAllStringIndex(lower, -1) {
		token := lower[loc[0]:loc[1]]

		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			continue
		}
		price := value.Price(n)

		if !currencyShaped(lower, price, loc[1]) {
			continue
		}
		if sanctioned.Contains(price) {
			continue
		}

		violations = append(violations, fmt.Sprintf("nicht sanktionierter Betrag: %d", n))
	}

	return violations
}

// currencyShaped: явный знак валюты следом — всегда денежная сумма; голое
// число — только если оно в правдоподобном ценовом диапазоне и не является
// характеристикой товара (256 GB, 11 Zoll).
func currencyShaped(lower string, price value.Price, from int) bool {
	rest := strings.TrimLeft(lower[from:], " ")
	for _, suffix := range currencySuffixes {
		if strings.HasPrefix(rest, suffix) {
			return true
		}
	}

	if !price.Plausible() {
		return false
	}
	if extract.IsSpecValue(price.Int64()) {
		return false
	}
	if extract.FollowedByUnit(lower, from) {
		return false
	}

	return true
}
