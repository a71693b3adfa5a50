package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Limites padrão das faixas de lucro (moeda) e ROI (%)
const (
	DefaultProfitHigh   = 1.5
	DefaultProfitMedium = 1.0
	DefaultROIHigh      = 25.0
	DefaultROIMedium    = 20.0
)

// Glifos do status e da comparação com o preço desejado
const (
	GlyphHigh   = "🟢"
	GlyphMedium = "🟠"
	GlyphLow    = "🔴"

	GlyphMatched    = "✅"
	GlyphNotMatched = "❌"
	GlyphNoTarget   = "➖"
)

// Band é a faixa de um valor de lucro ou ROI
type Band int

const (
	Low Band = iota
	Medium
	High
)

func (b Band) String() string {
	switch b {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// Glyph retorna o ícone da faixa
func (b Band) Glyph() string {
	switch b {
	case High:
		return GlyphHigh
	case Medium:
		return GlyphMedium
	default:
		return GlyphLow
	}
}

// Thresholds define os limites inferiores das faixas alta e média
type Thresholds struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

// Validate garante que a faixa média não começa acima da alta
func (t Thresholds) Validate() error {
	if t.Medium > t.High {
		return fmt.Errorf("limite médio (%.2f) maior que o alto (%.2f)", t.Medium, t.High)
	}
	return nil
}

// Classify devolve a faixa de v
func (t Thresholds) Classify(v decimal.Decimal) Band {
	switch {
	case v.GreaterThanOrEqual(decimal.NewFromFloat(t.High)):
		return High
	case v.GreaterThanOrEqual(decimal.NewFromFloat(t.Medium)):
		return Medium
	default:
		return Low
	}
}

// Classifier agrupa os limites de lucro e de ROI
type Classifier struct {
	Profit Thresholds `yaml:"profit"`
	ROI    Thresholds `yaml:"roi"`
}

// DefaultClassifier retorna os limites padrão
func DefaultClassifier() Classifier {
	return Classifier{
		Profit: Thresholds{High: DefaultProfitHigh, Medium: DefaultProfitMedium},
		ROI:    Thresholds{High: DefaultROIHigh, Medium: DefaultROIMedium},
	}
}

// Status é a classificação de um resultado
type Status struct {
	Profit Band
	ROI    Band
}

// Classify classifica lucro e ROI de forma independente
func (c Classifier) Classify(m Metrics) Status {
	return Status{
		Profit: c.Profit.Classify(m.Profit),
		ROI:    c.ROI.Classify(m.ROI),
	}
}

// MatchGlyph compara o preço observado com o desejado.
// Sem preço desejado (zero ou negativo) não há comparação.
func MatchGlyph(observed decimal.Decimal, desired float64) string {
	if desired <= 0 {
		return GlyphNoTarget
	}
	if observed.GreaterThanOrEqual(decimal.NewFromFloat(desired)) {
		return GlyphMatched
	}
	return GlyphNotMatched
}
