package scraper

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	errNoTitle = errors.New("título não encontrado na página")
	errNoPrice = errors.New("preço não encontrado na página")
)

// AmazonScraper implementa o scraper para páginas de produto da Amazon
type AmazonScraper struct{}

// NewAmazonScraper cria uma nova instância do scraper da Amazon
func NewAmazonScraper() *AmazonScraper {
	return &AmazonScraper{}
}

func (a *AmazonScraper) Name() string { return "amazon" }

// CanHandle aceita qualquer domínio amazon.* (amazon.co.uk, amazon.com.br...)
func (a *AmazonScraper) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "amazon.com" || strings.HasPrefix(host, "amazon.") || strings.Contains(host, ".amazon.")
}

// Extract lê o título (#productTitle) e o primeiro preço exibido (.a-offscreen)
func (a *AmazonScraper) Extract(doc *goquery.Document) (Page, error) {
	title := firstText(doc, "#productTitle", "#title")
	if title == "" {
		return Page{}, errNoTitle
	}

	price := firstText(doc,
		"#corePrice_feature_div .a-offscreen",
		"#corePriceDisplay_desktop_feature_div .a-offscreen",
		".a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
	)
	if price == "" {
		price = jsonLDPrice(doc)
	}
	if price == "" {
		return Page{}, errNoPrice
	}

	return Page{Title: title, PriceText: price}, nil
}

var (
	ldOffersPriceRe = regexp.MustCompile(`"offers"[^}]*"price"\s*:\s*"?([0-9.,]+)"?`)
	ldPriceRe       = regexp.MustCompile(`"price"\s*:\s*"?([0-9.,]+)"?`)
	ldNameRe        = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
)

// jsonLDPrice procura o preço no JSON-LD, dando prioridade a "offers"
func jsonLDPrice(doc *goquery.Document) string {
	var price string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		if m := ldOffersPriceRe.FindStringSubmatch(text); len(m) > 1 {
			price = m[1]
			return false
		}
		if m := ldPriceRe.FindStringSubmatch(text); len(m) > 1 {
			price = m[1]
			return false
		}
		return true
	})
	return price
}

// jsonLDName procura o nome do produto no JSON-LD
func jsonLDName(doc *goquery.Document) string {
	var name string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if m := ldNameRe.FindStringSubmatch(s.Text()); len(m) > 1 {
			name = m[1]
			return false
		}
		return true
	})
	return name
}
