package models

import (
	"fmt"
	"regexp"
)

// DateLayout é o formato da data da última verificação (ISO, só o dia)
const DateLayout = "2006-01-02"

// Product representa um produto monitorado no ledger.
// As tags JSON seguem o formato do arquivo de dados existente.
type Product struct {
	URL            string       `json:"productUrl"`
	LookupURL      string       `json:"saUrl,omitempty"`
	DesiredPrice   float64      `json:"desiredPrice"`
	MonitorEnabled bool         `json:"monitorEnabled"`
	Basis          CostBasis    `json:"price"`
	Result         *Observation `json:"result,omitempty"`
	Date           string       `json:"date,omitempty"`
}

// CostBasis guarda preço, custo e lucro registrados quando o produto foi
// cadastrado. Os valores ficam como texto monetário ("£10.00") e nunca são
// alterados pelo monitoramento.
type CostBasis struct {
	Price  string `json:"price"`
	Cost   string `json:"cost"`
	Profit string `json:"profit"`
}

// Observation é o resultado da última verificação bem-sucedida
type Observation struct {
	Title    string `json:"title"`
	NewPrice string `json:"newPrice"`
	Matched  string `json:"matched"`
}

// Label é o texto usado para escolher o produto na seleção interativa
func (p Product) Label() string {
	if p.Result != nil && p.Result.Title != "" {
		return p.Result.Title
	}
	return p.URL
}

var asinRe = regexp.MustCompile(`/dp/([A-Za-z0-9]+)`)

// ASIN extrai o identificador Amazon da URL, se houver
func ASIN(url string) (string, bool) {
	m := asinRe.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// ResolveLookupURL retorna o link de consulta do produto: o salvo no registro
// ou, para URLs Amazon, a busca no SellerAmp pelo ASIN.
func (p Product) ResolveLookupURL() string {
	if p.LookupURL != "" {
		return p.LookupURL
	}
	if asin, ok := ASIN(p.URL); ok {
		return fmt.Sprintf("https://sas.selleramp.com/sas/lookup?SasLookup%%5Bsearch_term%%5D=%s", asin)
	}
	return ""
}
