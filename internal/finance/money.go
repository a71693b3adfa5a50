package finance

import (
	"regexp"
	"strings"

	"notificador-produtos/internal/apperr"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^0-9.,-]`)

// ParseMoney converte um texto monetário ("£1,234.56", "R$ 1.234,56", "12")
// em decimal. Símbolos de moeda e espaços são descartados; quando há vírgula e
// ponto, o último separador é o decimal.
func ParseMoney(text string) (decimal.Decimal, error) {
	clean := nonNumeric.ReplaceAllString(strings.TrimSpace(text), "")
	if clean == "" || clean == "-" {
		return decimal.Zero, apperr.Newf(apperr.Parse, "ParseMoney", "valor monetário inválido: %q", text)
	}

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		// "12,50" é decimal; "1,234" ou "1,234,567" é milhar
		if strings.Count(clean, ",") == 1 && len(clean)-lastComma-1 <= 2 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(clean, ".") > 1 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, apperr.Newf(apperr.Parse, "ParseMoney", "valor monetário inválido: %q", text)
	}
	return d, nil
}
