package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notificador-produtos/internal/apperr"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

const amazonPage = `<html><body>
<span id="productTitle">
   NERF Legends (PS5)
</span>
<div id="corePrice_feature_div"><span class="a-price"><span class="a-offscreen">£24.98</span></span></div>
<span class="a-offscreen">£19.99</span>
</body></html>`

func TestAmazonExtract(t *testing.T) {
	page, err := NewAmazonScraper().Extract(parseHTML(t, amazonPage))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if page.Title != "NERF Legends (PS5)" {
		t.Errorf("Title = %q", page.Title)
	}
	if page.PriceText != "£24.98" {
		t.Errorf("PriceText = %q; want £24.98", page.PriceText)
	}
}

func TestAmazonExtractMissingFields(t *testing.T) {
	s := NewAmazonScraper()
	if _, err := s.Extract(parseHTML(t, `<span class="a-offscreen">£1.00</span>`)); err != errNoTitle {
		t.Errorf("missing title error = %v", err)
	}
	if _, err := s.Extract(parseHTML(t, `<span id="productTitle">X</span>`)); err != errNoPrice {
		t.Errorf("missing price error = %v", err)
	}
}

func TestAmazonCanHandle(t *testing.T) {
	s := NewAmazonScraper()
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.amazon.co.uk/dp/B09CHXHQRB", true},
		{"https://amazon.com.br/dp/B000", true},
		{"https://www.notamazon.com/x", false},
		{"https://produto.mercadolivre.com.br/MLB-1", false},
	}
	for _, tt := range tests {
		if got := s.CanHandle(tt.url); got != tt.want {
			t.Errorf("CanHandle(%q) = %v; want %v", tt.url, got, tt.want)
		}
	}
}

func TestMercadoLivreExtract(t *testing.T) {
	html := `<html><body>
<h1 class="ui-pdp-title">Notebook Gamer</h1>
<div class="ui-pdp-price__first-line">
  <span class="andes-money-amount andes-money-amount--previous-price">
    <span class="andes-money-amount__fraction">4.999</span>
  </span>
</div>
<div class="ui-pdp-price__second-line">
  <span class="andes-money-amount">
    <span class="andes-money-amount__fraction">4.149</span>
    <span class="andes-money-amount__cents">90</span>
  </span>
</div>
</body></html>`

	page, err := NewMercadoLivreScraper().Extract(parseHTML(t, html))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if page.Title != "Notebook Gamer" || page.PriceText != "R$ 4.149,90" {
		t.Errorf("page = %+v", page)
	}
}

func TestMercadoLivreJSONLDFallback(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@type":"Product","name":"Fone Bluetooth","offers":{"@type":"Offer","price":"199.9"}}
</script></head><body></body></html>`

	page, err := NewMercadoLivreScraper().Extract(parseHTML(t, html))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if page.Title != "Fone Bluetooth" || page.PriceText != "R$ 199.9" {
		t.Errorf("page = %+v", page)
	}
}

func TestGenericExtract(t *testing.T) {
	html := `<html><head>
<meta property="og:title" content="Biotherm Homme 72H">
<meta property="product:price:amount" content="27.16">
<meta property="product:price:currency" content="GBP">
</head></html>`

	page, err := NewGenericScraper().Extract(parseHTML(t, html))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if page.Title != "Biotherm Homme 72H" || page.PriceText != "GBP 27.16" {
		t.Errorf("page = %+v", page)
	}
}

func TestRegistryFindScraper(t *testing.T) {
	r := NewRegistry(time.Second)
	tests := map[string]string{
		"https://www.amazon.co.uk/dp/B09CHXHQRB":      "amazon",
		"https://produto.mercadolivre.com.br/MLB-123": "mercadolivre",
		"https://shop.example.com/item/1":             "generic",
	}
	for url, want := range tests {
		if got := r.FindScraper(url).Name(); got != want {
			t.Errorf("FindScraper(%q) = %s; want %s", url, got, want)
		}
	}
}

func TestRegistryFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("User-Agent") == "" {
				t.Error("request without User-Agent")
			}
			fmt.Fprint(w, `<html><head><meta property="og:title" content="Item"><meta property="product:price:amount" content="12.00"></head></html>`)
		case "/empty":
			fmt.Fprint(w, `<html><body><h1>Item</h1></body></html>`)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	r := NewRegistry(5 * time.Second)
	ctx := context.Background()

	page, err := r.Fetch(ctx, srv.URL+"/ok#reviews")
	if err != nil {
		t.Fatalf("Fetch(ok): %v", err)
	}
	if page.Title != "Item" || page.PriceText != "12.00" {
		t.Errorf("page = %+v", page)
	}

	if _, err := r.Fetch(ctx, srv.URL+"/down"); !apperr.Is(err, apperr.Fetch) {
		t.Errorf("Fetch(503) = %v; want fetch error", err)
	}
	if _, err := r.Fetch(ctx, srv.URL+"/empty"); !apperr.Is(err, apperr.Parse) {
		t.Errorf("Fetch(no price) = %v; want parse error", err)
	}
}
