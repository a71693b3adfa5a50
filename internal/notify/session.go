package notify

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"notificador-produtos/internal/finance"

	"github.com/shopspring/decimal"
)

// StampLayout é o formato da data/hora exibida no cabeçalho e no rodapé
const StampLayout = "02/01/2006, 15:04"

const stars = `\*\*\*\*`

type state int

const (
	stateIdle state = iota
	stateStaleDeleted
	stateHeaderSent
	stateItemSent
	stateFooterSent
)

// ErrOutOfOrder indica uma etapa da sessão chamada fora de ordem
var ErrOutOfOrder = errors.New("etapa da sessão fora de ordem")

// ItemMessage reúne os dados de um produto para a mensagem do chat
type ItemMessage struct {
	Title     string
	URL       string
	LookupURL string
	Price     string
	Matched   string
	Metrics   finance.Metrics
	Status    finance.Status
}

// Session controla as mensagens de uma execução: apaga as da execução
// anterior, envia cabeçalho, um item por produto e o rodapé. Cada ID enviado
// é salvo para ser apagado na próxima execução.
type Session struct {
	channel  Channel
	store    MessageStore
	stamp    string
	currency string
	state    state
	sent     []int
}

// NewSession cria a sessão de uma execução iniciada em startedAt
func NewSession(channel Channel, store MessageStore, startedAt time.Time, currency string) *Session {
	return &Session{
		channel:  channel,
		store:    store,
		stamp:    startedAt.Format(StampLayout),
		currency: currency,
	}
}

// Stamp retorna a data/hora da execução já formatada
func (s *Session) Stamp() string {
	return s.stamp
}

// SentIDs retorna os IDs enviados nesta sessão
func (s *Session) SentIDs() []int {
	return append([]int(nil), s.sent...)
}

// DeleteStale apaga as mensagens da execução anterior. Falha em um ID não
// impede os demais; ao final a lista salva é esvaziada.
func (s *Session) DeleteStale() error {
	if s.state != stateIdle {
		return fmt.Errorf("%w: DeleteStale", ErrOutOfOrder)
	}
	s.state = stateStaleDeleted

	ids, err := s.store.LoadIDs()
	if err != nil {
		// sem a lista não há o que apagar, mas ela ainda precisa ser esvaziada
		// para guardar só os IDs desta execução
		log.Printf("Erro ao ler IDs das mensagens anteriores: %v", err)
		if cerr := s.store.ClearIDs(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	failed := 0
	for _, id := range ids {
		if err := s.channel.Delete(id); err != nil {
			failed++
			log.Printf("Erro ao apagar mensagem %d: %v", id, err)
			continue
		}
	}
	log.Printf("Mensagens anteriores apagadas: %d de %d", len(ids)-failed, len(ids))

	return s.store.ClearIDs()
}

// Header envia o cabeçalho da execução
func (s *Session) Header() error {
	if s.state != stateStaleDeleted {
		return fmt.Errorf("%w: Header", ErrOutOfOrder)
	}
	s.state = stateHeaderSent
	return s.send(fmt.Sprintf("%s *ATUALIZAÇÃO DE PRODUTOS* %s %s", stars, Escape(s.stamp), stars))
}

// Item envia a mensagem de um produto processado
func (s *Session) Item(m ItemMessage) error {
	if s.state != stateHeaderSent && s.state != stateItemSent {
		return fmt.Errorf("%w: Item", ErrOutOfOrder)
	}
	s.state = stateItemSent
	return s.send(FormatItem(m, s.currency))
}

// Footer envia o rodapé com processados/selecionados
func (s *Session) Footer(ok, total int) error {
	if s.state != stateHeaderSent && s.state != stateItemSent {
		return fmt.Errorf("%w: Footer", ErrOutOfOrder)
	}
	s.state = stateFooterSent
	return s.send(fmt.Sprintf("%s *%d/%d FINALIZADO*\\! %s %s", stars, ok, total, Escape(s.stamp), stars))
}

func (s *Session) send(text string) error {
	sent, err := s.channel.Send(text)
	if err != nil {
		return err
	}
	if sent == nil {
		return nil
	}

	s.sent = append(s.sent, sent.MessageID)
	if err := s.store.AppendID(sent.MessageID); err != nil {
		log.Printf("Erro ao salvar ID da mensagem %d: %v", sent.MessageID, err)
	}
	return nil
}

// FormatItem monta o texto MarkdownV2 de um produto
func FormatItem(m ItemMessage, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Produto:* [%s](%s)\n", Escape(m.Title), EscapeLinkURL(m.URL))
	fmt.Fprintf(&b, "*Preço atual:* %s *Preço desejado:* %s\n", Escape(m.Price), m.Matched)
	fmt.Fprintf(&b, "*Lucro:* %s %s %s *ROI:* %s%% %s",
		Escape(currency), Escape(money(m.Metrics.Profit)), m.Status.Profit.Glyph(),
		Escape(money(m.Metrics.ROI)), m.Status.ROI.Glyph())
	if m.LookupURL != "" {
		fmt.Fprintf(&b, "\n[SellerAmp](%s)", EscapeLinkURL(m.LookupURL))
	}
	return b.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
