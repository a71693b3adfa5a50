package ledger

import (
	"errors"
	"fmt"
	"strings"

	"notificador-produtos/internal/apperr"
	"notificador-produtos/internal/models"
)

// Posições (a partir de zero) dos campos no bloco colado da calculadora:
// custo na 3ª linha, preço de venda na 6ª e lucro na 8ª
const (
	blockCostLine   = 2
	blockPriceLine  = 5
	blockProfitLine = 7
)

// NewProduct monta um produto novo, já habilitado para monitoramento
func NewProduct(url string, basis models.CostBasis, desired float64, date string) (models.Product, error) {
	p := models.Product{
		URL:            strings.TrimSpace(url),
		DesiredPrice:   desired,
		MonitorEnabled: true,
		Basis:          basis,
		Date:           date,
	}
	p.LookupURL = p.ResolveLookupURL()
	if err := Validate(p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// ParseCalculatorBlock extrai custo, preço de venda e lucro das linhas
// coladas da calculadora (linhas vazias já descartadas)
func ParseCalculatorBlock(lines []string) (models.CostBasis, error) {
	if len(lines) <= blockProfitLine {
		return models.CostBasis{}, apperr.Newf(apperr.Parse, "bloco da calculadora",
			"esperava ao menos %d linhas, recebeu %d", blockProfitLine+1, len(lines))
	}
	return models.CostBasis{
		Cost:   stripCurrency(lines[blockCostLine]),
		Price:  stripCurrency(lines[blockPriceLine]),
		Profit: stripCurrency(lines[blockProfitLine]),
	}, nil
}

// stripCurrency remove o símbolo da moeda antes do número ("£ 12.50" -> "12.50")
func stripCurrency(s string) string {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '-'
	})
	if i < 0 {
		return s
	}
	return strings.TrimSpace(s[i:])
}

// ErrDuplicate indica uma URL já cadastrada
var ErrDuplicate = errors.New("produto já cadastrado")

// Add inclui um produto novo. URL repetida é erro: para trocar um registro
// existente use Reconcile.
func Add(products []models.Product, p models.Product) ([]models.Product, error) {
	if IndexOf(products, p.URL) >= 0 {
		return products, fmt.Errorf("%w: %s", ErrDuplicate, p.URL)
	}
	return Reconcile(products, p), nil
}
