package scraper

import "github.com/PuerkitoBio/goquery"

// GenericScraper lê título e preço de meta tags, microdata e JSON-LD. É usado
// para lojas sem scraper próprio.
type GenericScraper struct{}

// NewGenericScraper cria o scraper genérico
func NewGenericScraper() *GenericScraper {
	return &GenericScraper{}
}

func (g *GenericScraper) Name() string { return "generic" }

func (g *GenericScraper) CanHandle(string) bool { return true }

func (g *GenericScraper) Extract(doc *goquery.Document) (Page, error) {
	title := firstAttr(doc, "content", "meta[property='og:title']")
	if title == "" {
		title = firstText(doc, "h1", "title")
	}
	if title == "" {
		title = jsonLDName(doc)
	}
	if title == "" {
		return Page{}, errNoTitle
	}

	price := firstAttr(doc, "content",
		"meta[property='product:price:amount']",
		"meta[property='og:price:amount']",
		"[itemprop='price']",
	)
	if price == "" {
		price = firstText(doc, "[itemprop='price']")
	}
	if price == "" {
		price = jsonLDPrice(doc)
	}
	if price == "" {
		return Page{}, errNoPrice
	}
	if currency := firstAttr(doc, "content", "meta[property='product:price:currency']"); currency != "" {
		price = currency + " " + price
	}

	return Page{Title: title, PriceText: price}, nil
}
