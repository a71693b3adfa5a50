package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MercadoLivreScraper implementa o scraper para Mercado Livre
type MercadoLivreScraper struct{}

// NewMercadoLivreScraper cria uma nova instância do scraper do Mercado Livre
func NewMercadoLivreScraper() *MercadoLivreScraper {
	return &MercadoLivreScraper{}
}

func (m *MercadoLivreScraper) Name() string { return "mercadolivre" }

// CanHandle verifica se o scraper pode lidar com a URL fornecida
func (m *MercadoLivreScraper) CanHandle(url string) bool {
	return strings.Contains(url, "mercadolivre.com.br")
}

// Extract lê nome e preço. O preço promocional (segunda linha) tem
// prioridade sobre o preço cheio.
func (m *MercadoLivreScraper) Extract(doc *goquery.Document) (Page, error) {
	name := firstText(doc,
		"h1.ui-pdp-title",
		"h1[data-testid='title']",
		".ui-pdp-title",
		"h1",
	)
	if name == "" {
		name = jsonLDName(doc)
	}
	if name == "" {
		return Page{}, errNoTitle
	}

	price := moneyAmount(doc,
		".ui-pdp-price__second-line .andes-money-amount",
		".ui-pdp-price--size-large .andes-money-amount",
		"[data-testid='price'] .andes-money-amount",
		".ui-pdp-price__first-line .andes-money-amount",
		".andes-money-amount",
	)

	// Buscar em meta tags e JSON-LD
	if price == "" {
		if amount := firstAttr(doc, "content", "meta[property='product:price:amount']", "[itemprop='price']"); amount != "" {
			price = "R$ " + amount
		}
	}
	if price == "" {
		if amount := jsonLDPrice(doc); amount != "" {
			price = "R$ " + amount
		}
	}
	if price == "" {
		return Page{}, errNoPrice
	}

	return Page{Title: name, PriceText: price}, nil
}

// moneyAmount monta "R$ 1.234,56" a partir do primeiro bloco andes-money-amount
// que não seja o preço anterior riscado
func moneyAmount(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		var text string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if s.HasClass("andes-money-amount--previous-price") {
				return true
			}
			fraction := strings.TrimSpace(s.Find(".andes-money-amount__fraction").First().Text())
			if fraction == "" {
				return true
			}
			cents := strings.TrimSpace(s.Find(".andes-money-amount__cents").First().Text())
			if cents == "" {
				cents = "00"
			}
			text = "R$ " + fraction + "," + cents
			return false
		})
		if text != "" {
			return text
		}
	}
	return ""
}
