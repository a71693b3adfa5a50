package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"notificador-produtos/internal/finance"
	"notificador-produtos/internal/ledger"
	"notificador-produtos/internal/models"
	"notificador-produtos/internal/notify"
	"notificador-produtos/internal/scraper"
	"notificador-produtos/internal/selector"

	"github.com/google/uuid"
)

// DefaultPace é o intervalo entre mensagens de produtos no chat
const DefaultPace = 500 * time.Millisecond

// ErrRunInProgress indica que já existe uma execução (ou edição do ledger)
// em andamento
var ErrRunInProgress = errors.New("já existe uma execução em andamento")

// Fetcher baixa uma página de produto e extrai título e preço
type Fetcher interface {
	Fetch(ctx context.Context, url string) (scraper.Page, error)
}

// Selector escolhe, entre os rótulos dos produtos, quais reprocessar
type Selector interface {
	Select(labels []string) ([]string, error)
}

// Journal registra os produtos que falharam
type Journal interface {
	Record(runID string, product models.Product, cause error) error
}

// Deps reúne os colaboradores do monitor
type Deps struct {
	Store      ledger.Store
	Fetcher    Fetcher
	Channel    notify.Channel
	Messages   notify.MessageStore
	Journal    Journal
	Classifier finance.Classifier
	Pace       time.Duration
	Currency   string
}

// Monitor executa o ciclo de verificação dos produtos
type Monitor struct {
	store      ledger.Store
	fetcher    Fetcher
	channel    notify.Channel
	messages   notify.MessageStore
	journal    Journal
	classifier finance.Classifier
	pace       time.Duration
	currency   string
	now        func() time.Time

	// mu impede duas execuções (ou uma execução e uma edição) ao mesmo tempo
	mu sync.Mutex
}

// New cria uma nova instância do monitor
func New(d Deps) *Monitor {
	if d.Channel == nil {
		d.Channel = notify.Disabled{}
	}
	return &Monitor{
		store:      d.Store,
		fetcher:    d.Fetcher,
		channel:    d.Channel,
		messages:   d.Messages,
		journal:    d.Journal,
		classifier: d.Classifier,
		pace:       d.Pace,
		currency:   d.Currency,
		now:        time.Now,
	}
}

// Start executa uma verificação imediatamente e depois a cada interval,
// até ctx ser cancelado. Execuções nunca se sobrepõem.
func (m *Monitor) Start(ctx context.Context, interval time.Duration, sel Selector) {
	log.Printf("Monitor iniciado. Verificando produtos a cada %v", interval)

	m.runAndLog(ctx, sel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Monitor encerrado")
			return
		case <-ticker.C:
			m.runAndLog(ctx, sel)
		}
	}
}

func (m *Monitor) runAndLog(ctx context.Context, sel Selector) {
	report, err := m.Run(ctx, sel)
	if err != nil {
		log.Printf("Erro na execução: %v", err)
	}
	if report != nil {
		log.Print(report.Summary())
	}
}

// Run executa um ciclo completo: apaga as mensagens anteriores, envia o
// cabeçalho, processa os produtos selecionados um a um e envia o rodapé.
// Falhas de um produto vão para o journal e não interrompem os demais; só a
// falha ao carregar o ledger encerra a execução com erro.
func (m *Monitor) Run(ctx context.Context, sel Selector) (*RunReport, error) {
	if !m.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer m.mu.Unlock()

	startedAt := m.now()
	report := &RunReport{RunID: uuid.NewString(), StartedAt: startedAt}
	defer func() { report.FinishedAt = m.now() }()

	session := notify.NewSession(m.channel, m.messages, startedAt, m.currency)
	if err := session.DeleteStale(); err != nil {
		log.Printf("Erro ao apagar mensagens anteriores: %v", err)
	}
	if err := session.Header(); err != nil {
		log.Printf("Erro ao enviar cabeçalho: %v", err)
	}

	products, err := m.store.LoadAll()
	if err != nil {
		return report, fmt.Errorf("carregar ledger: %w", err)
	}

	work, err := m.resolve(products, sel)
	if err != nil {
		return report, fmt.Errorf("selecionar produtos: %w", err)
	}
	report.Selected = len(work)
	log.Printf("Execução %s: %d produto(s) selecionado(s)", report.RunID, len(work))

	p := newPacer(m.pace)
	for _, product := range work {
		if ctx.Err() != nil {
			report.Interrupted = true
			log.Printf("Execução interrompida: %v", ctx.Err())
			break
		}
		if !product.MonitorEnabled {
			log.Printf("Monitoramento desativado, ignorando %s", product.URL)
			report.add(ItemResult{URL: product.URL, Title: product.Label(), Status: StatusSkipped})
			continue
		}

		updated, msg, err := m.process(ctx, product)
		if err != nil {
			// cancelamento não é falha do produto: não vai para o journal
			if ctx.Err() != nil {
				report.Interrupted = true
				log.Printf("Execução interrompida em %s: %v", product.URL, err)
				break
			}
			m.fail(report, product, err)
			continue
		}

		item := ItemResult{
			URL:    product.URL,
			Title:  msg.Title,
			Status: StatusProcessed,
			Price:  msg.Price,
			Profit: msg.Metrics.Profit,
			ROI:    msg.Metrics.ROI,
		}

		products = ledger.Reconcile(products, updated)
		if err := m.store.SaveAll(products); err != nil {
			log.Printf("Erro ao salvar ledger após %s: %v", product.URL, err)
			item.SaveErr = err
		}

		if err := p.Wait(ctx); err != nil {
			// gravado, mas a mensagem não saiu: não conta como processado
			item.Status = StatusInterrupted
			report.add(item)
			report.Interrupted = true
			log.Printf("Execução interrompida: %v", err)
			break
		}
		if err := session.Item(msg); err != nil {
			log.Printf("Erro ao enviar mensagem de %s: %v", product.URL, err)
			item.NotifyErr = err
		}
		log.Printf("Produto: %s %s-%s", msg.Title, msg.Status.Profit.Glyph(), msg.Status.ROI.Glyph())
		report.add(item)
	}

	if err := session.Footer(report.Processed, report.Selected); err != nil {
		log.Printf("Erro ao enviar rodapé: %v", err)
	}
	log.Printf("Finalizado: %s", session.Stamp())

	if report.Interrupted {
		return report, ctx.Err()
	}
	return report, nil
}

// process verifica um produto e devolve o registro atualizado e a mensagem
// do chat. Não grava nada.
func (m *Monitor) process(ctx context.Context, product models.Product) (models.Product, notify.ItemMessage, error) {
	if err := ledger.Validate(product); err != nil {
		return product, notify.ItemMessage{}, err
	}

	page, err := m.fetcher.Fetch(ctx, product.URL)
	if err != nil {
		return product, notify.ItemMessage{}, err
	}

	observed, err := finance.ParseMoney(page.PriceText)
	if err != nil {
		return product, notify.ItemMessage{}, err
	}

	metrics, err := finance.Calculate(product.Basis, observed)
	if err != nil {
		return product, notify.ItemMessage{}, err
	}
	status := m.classifier.Classify(metrics)
	matched := finance.MatchGlyph(observed, product.DesiredPrice)

	updated := product
	updated.LookupURL = product.ResolveLookupURL()
	updated.Result = &models.Observation{Title: page.Title, NewPrice: page.PriceText, Matched: matched}
	updated.Date = m.now().Format(models.DateLayout)

	msg := notify.ItemMessage{
		Title:     page.Title,
		URL:       product.URL,
		LookupURL: updated.LookupURL,
		Price:     page.PriceText,
		Matched:   matched,
		Metrics:   metrics,
		Status:    status,
	}
	return updated, msg, nil
}

func (m *Monitor) fail(report *RunReport, product models.Product, cause error) {
	log.Printf("Erro ao processar %s: %v", product.URL, cause)
	if m.journal != nil {
		if err := m.journal.Record(report.RunID, product, cause); err != nil {
			log.Printf("Erro ao gravar journal de erros: %v", err)
		}
	}
	report.add(ItemResult{URL: product.URL, Title: product.Label(), Status: StatusFailed, Err: cause})
}

// resolve monta a lista de trabalho: o ledger inteiro, se a opção "todos"
// foi escolhida, ou os produtos cujo rótulo bate com a escolha
func (m *Monitor) resolve(products []models.Product, sel Selector) ([]models.Product, error) {
	if sel == nil {
		return products, nil
	}

	labels := make([]string, len(products))
	for i, p := range products {
		labels[i] = p.Label()
	}

	choices, err := sel.Select(labels)
	if err != nil {
		return nil, err
	}

	for _, choice := range choices {
		if choice == selector.AllOption {
			return products, nil
		}
	}

	var work []models.Product
	seen := make(map[string]bool)
	for _, choice := range choices {
		matches := matchLabel(products, choice)
		if len(matches) == 0 {
			log.Printf("Opção inválida: %s", choice)
			continue
		}
		for _, p := range matches {
			if seen[p.URL] {
				continue
			}
			seen[p.URL] = true
			work = append(work, p)
		}
	}
	return work, nil
}

// matchLabel devolve todos os produtos com o rótulo exibido (ou a URL)
// informado. Títulos repetidos selecionam todos os produtos com esse título.
func matchLabel(products []models.Product, label string) []models.Product {
	var out []models.Product
	for _, p := range products {
		if p.Label() == label || p.URL == label {
			out = append(out, p)
		}
	}
	return out
}

// Products retorna o ledger atual
func (m *Monitor) Products() ([]models.Product, error) {
	return m.store.LoadAll()
}

// Mutate aplica fn ao ledger e grava o resultado. Falha com ErrRunInProgress
// se houver uma execução em andamento.
func (m *Monitor) Mutate(fn func([]models.Product) ([]models.Product, error)) error {
	if !m.mu.TryLock() {
		return ErrRunInProgress
	}
	defer m.mu.Unlock()

	products, err := m.store.LoadAll()
	if err != nil {
		return err
	}
	updated, err := fn(products)
	if err != nil {
		return err
	}
	return m.store.SaveAll(updated)
}
