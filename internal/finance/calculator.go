package finance

import (
	"notificador-produtos/internal/apperr"
	"notificador-produtos/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Metrics é o resultado do recálculo de lucro e ROI para um preço observado
type Metrics struct {
	Fee    decimal.Decimal
	Profit decimal.Decimal
	ROI    decimal.Decimal
}

// Calculate recalcula lucro e ROI a partir do custo registrado e do preço
// observado agora. As taxas são consideradas fixas: fee = price - cost - profit.
// Lucro e ROI saem arredondados em duas casas.
func Calculate(basis models.CostBasis, observed decimal.Decimal) (Metrics, error) {
	price, err := ParseMoney(basis.Price)
	if err != nil {
		return Metrics{}, apperr.New(apperr.Calculation, "preço de venda", err)
	}
	cost, err := ParseMoney(basis.Cost)
	if err != nil {
		return Metrics{}, apperr.New(apperr.Calculation, "custo", err)
	}
	profit, err := ParseMoney(basis.Profit)
	if err != nil {
		return Metrics{}, apperr.New(apperr.Calculation, "lucro", err)
	}
	if cost.IsZero() {
		return Metrics{}, apperr.Newf(apperr.Calculation, "roi", "custo zero, ROI indefinido")
	}

	fee := price.Sub(cost).Sub(profit)
	newProfit := observed.Sub(cost).Sub(fee)
	roi := newProfit.Div(cost).Mul(hundred)

	return Metrics{
		Fee:    fee.Round(2),
		Profit: newProfit.Round(2),
		ROI:    roi.Round(2),
	}, nil
}
