package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"notificador-produtos/internal/apperr"

	"github.com/PuerkitoBio/goquery"
)

// Page é o que a verificação extrai de uma página de produto
type Page struct {
	Title     string
	PriceText string
}

// Scraper define a interface para scrapers de diferentes lojas
type Scraper interface {
	Name() string
	CanHandle(url string) bool
	Extract(doc *goquery.Document) (Page, error)
}

// Registry mantém um registro de todos os scrapers disponíveis e faz o
// download das páginas
type Registry struct {
	client   *http.Client
	scrapers []Scraper
	fallback Scraper
}

// NewRegistry cria um novo registro de scrapers
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		client: &http.Client{Timeout: timeout},
		scrapers: []Scraper{
			NewAmazonScraper(),
			NewMercadoLivreScraper(),
		},
		fallback: NewGenericScraper(),
	}
}

// FindScraper encontra o scraper apropriado para uma URL. Lojas sem scraper
// próprio usam o genérico (meta tags e JSON-LD).
func (r *Registry) FindScraper(url string) Scraper {
	for _, s := range r.scrapers {
		if s.CanHandle(url) {
			return s
		}
	}
	return r.fallback
}

// Fetch baixa a página e extrai título e preço
func (r *Registry) Fetch(ctx context.Context, url string) (Page, error) {
	doc, err := r.document(ctx, url)
	if err != nil {
		return Page{}, err
	}

	s := r.FindScraper(url)
	page, err := s.Extract(doc)
	if err != nil {
		return Page{}, apperr.New(apperr.Parse, s.Name()+" "+url, err)
	}
	return page, nil
}

func (r *Registry) document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cleanURL(url), nil)
	if err != nil {
		return nil, apperr.New(apperr.Fetch, "montar requisição", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9,pt-BR;q=0.8,pt;q=0.7")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.Fetch, "GET "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.Fetch, "GET "+url, fmt.Errorf("status code: %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperr.New(apperr.Fetch, "ler HTML de "+url, err)
	}
	return doc, nil
}

func cleanURL(url string) string {
	parts := strings.Split(url, "#")
	return parts[0]
}

// firstText retorna o primeiro texto não vazio entre os seletores
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		var text string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text = strings.TrimSpace(s.Text())
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// firstAttr retorna o primeiro atributo não vazio entre os seletores
func firstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, selector := range selectors {
		var value string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			value = strings.TrimSpace(s.AttrOr(attr, ""))
			return value == ""
		})
		if value != "" {
			return value
		}
	}
	return ""
}
