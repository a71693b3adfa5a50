package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"notificador-produtos/internal/ledger"
	"notificador-produtos/internal/models"
	"notificador-produtos/internal/monitor"
	"notificador-produtos/internal/selector"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errNotFound = errors.New("produto não encontrado")

const helpText = `🤖 <b>Notificador de Produtos</b>

<b>Comandos disponíveis:</b>

<b>/add</b> &lt;URL&gt; &lt;preço&gt; &lt;custo&gt; &lt;lucro&gt; [preço_desejado]
Adiciona um produto com os valores da calculadora
Exemplo: /add https://www.amazon.co.uk/dp/B09CHXHQRB 27.99 15.00 4.50 27

<b>/list</b> - Lista os produtos cadastrados

<b>/remove</b> &lt;URL&gt; - Remove um produto

<b>/pause</b> &lt;URL&gt; - Desativa o monitoramento de um produto
<b>/resume</b> &lt;URL&gt; - Reativa o monitoramento

<b>/edit</b> &lt;URL&gt; &lt;preço_desejado&gt; - Altera o preço desejado

<b>/run</b> - Verifica todos os produtos agora

<b>/help</b> - Mostra esta mensagem
`

// escapeHTML escapa caracteres especiais do HTML
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

func today() string {
	return time.Now().Format(models.DateLayout)
}

func (b *Bot) handle(ctx context.Context, message *tgbotapi.Message) {
	cmd, args := command(message.Text)
	if cmd == "" {
		return
	}
	chatID := message.Chat.ID

	// Comandos públicos (não precisam de autorização)
	isPublicCommand := cmd == "/start" || cmd == "/help"
	if !isPublicCommand && !b.authorized(chatID) {
		b.reply(chatID, "Você não está autorizado a usar este bot.")
		return
	}

	switch cmd {
	case "/start", "/help":
		b.replyHTML(chatID, helpText)
	case "/add":
		b.handleAdd(chatID, args)
	case "/list":
		b.handleList(chatID)
	case "/remove":
		b.handleRemove(chatID, args)
	case "/pause":
		b.handleToggle(chatID, args, false)
	case "/resume":
		b.handleToggle(chatID, args, true)
	case "/edit":
		b.handleEdit(chatID, args)
	case "/run":
		// a execução é longa: o polling continua atendendo enquanto isso
		go b.handleRun(ctx, chatID)
	default:
		b.reply(chatID, "Comando não reconhecido. Use /help para ver os comandos disponíveis.")
	}
}

// parseAdd monta o produto a partir de /add <url> <preço> <custo> <lucro> [desejado]
func parseAdd(args []string, date string) (models.Product, error) {
	if len(args) < 4 {
		return models.Product{}, fmt.Errorf("formato incorreto")
	}

	var desired float64
	if len(args) > 4 {
		v, err := strconv.ParseFloat(strings.ReplaceAll(args[4], ",", "."), 64)
		if err != nil || v < 0 {
			return models.Product{}, fmt.Errorf("preço desejado inválido: %s", args[4])
		}
		desired = v
	}

	basis := models.CostBasis{Price: args[1], Cost: args[2], Profit: args[3]}
	return ledger.NewProduct(args[0], basis, desired, date)
}

func (b *Bot) handleAdd(chatID int64, args []string) {
	p, err := parseAdd(args, b.now())
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ %v\n\nUso: /add <URL> <preço> <custo> <lucro> [preço_desejado]", err))
		return
	}

	err = b.monitor.Mutate(func(products []models.Product) ([]models.Product, error) {
		return ledger.Add(products, p)
	})
	switch {
	case errors.Is(err, ledger.ErrDuplicate):
		b.reply(chatID, "❌ Este produto já está sendo monitorado.")
	case err != nil:
		b.replyError(chatID, "adicionar produto", err)
	default:
		b.reply(chatID, fmt.Sprintf("✅ Produto adicionado com sucesso!\n\nURL: %s\nPreço desejado: %.2f", p.URL, p.DesiredPrice))
	}
}

func (b *Bot) handleList(chatID int64) {
	products, err := b.monitor.Products()
	if err != nil {
		b.replyError(chatID, "listar produtos", err)
		return
	}
	if len(products) == 0 {
		b.reply(chatID, "📋 Nenhum produto cadastrado no momento.")
		return
	}
	b.replyHTML(chatID, formatList(products))
}

func formatList(products []models.Product) string {
	var response strings.Builder
	response.WriteString("📋 <b>Produtos cadastrados:</b>\n\n")

	for _, p := range products {
		response.WriteString(fmt.Sprintf("📦 <b>%s</b>\n", escapeHTML(p.Label())))
		if p.MonitorEnabled {
			response.WriteString("▶️ Monitoramento ativo\n")
		} else {
			response.WriteString("⏸ Monitoramento pausado\n")
		}
		if p.Result != nil {
			response.WriteString(fmt.Sprintf("💰 Último preço: %s %s\n", escapeHTML(p.Result.NewPrice), p.Result.Matched))
		} else {
			response.WriteString("💰 Último preço: não verificado ainda\n")
		}
		if p.DesiredPrice > 0 {
			response.WriteString(fmt.Sprintf("🎯 Preço desejado: %.2f\n", p.DesiredPrice))
		}
		response.WriteString(fmt.Sprintf("🧾 Custo: %s | Venda: %s | Lucro: %s\n",
			escapeHTML(p.Basis.Cost), escapeHTML(p.Basis.Price), escapeHTML(p.Basis.Profit)))
		if p.Date != "" {
			response.WriteString(fmt.Sprintf("🕐 Última verificação: %s\n", p.Date))
		}
		response.WriteString(fmt.Sprintf("🔗 %s\n\n", escapeHTML(p.URL)))
	}
	return response.String()
}

func (b *Bot) handleRemove(chatID int64, args []string) {
	if len(args) < 1 {
		b.reply(chatID, "❌ Formato incorreto.\n\nUso: /remove <URL>")
		return
	}
	url := args[0]

	err := b.monitor.Mutate(func(products []models.Product) ([]models.Product, error) {
		out, ok := ledger.Remove(products, url)
		if !ok {
			return nil, errNotFound
		}
		return out, nil
	})
	if err != nil {
		b.replyError(chatID, "remover produto", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Produto removido: %s", url))
}

func (b *Bot) handleToggle(chatID int64, args []string, enabled bool) {
	if len(args) < 1 {
		b.reply(chatID, "❌ Formato incorreto.\n\nUso: /pause <URL> ou /resume <URL>")
		return
	}

	err := b.update(args[0], func(p *models.Product) { p.MonitorEnabled = enabled })
	if err != nil {
		b.replyError(chatID, "atualizar produto", err)
		return
	}
	if enabled {
		b.reply(chatID, "▶️ Monitoramento reativado.")
	} else {
		b.reply(chatID, "⏸ Monitoramento pausado.")
	}
}

func (b *Bot) handleEdit(chatID int64, args []string) {
	if len(args) < 2 {
		b.reply(chatID, "❌ Formato incorreto.\n\nUso: /edit <URL> <preço_desejado>")
		return
	}
	desired, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", "."), 64)
	if err != nil || desired < 0 {
		b.reply(chatID, "❌ Preço inválido. Use um valor numérico positivo.")
		return
	}

	if err := b.update(args[0], func(p *models.Product) { p.DesiredPrice = desired }); err != nil {
		b.replyError(chatID, "editar produto", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Preço desejado atualizado para %.2f", desired))
}

// update altera o produto com a URL informada, mantendo sua posição
func (b *Bot) update(url string, fn func(*models.Product)) error {
	return b.monitor.Mutate(func(products []models.Product) ([]models.Product, error) {
		i := ledger.IndexOf(products, url)
		if i < 0 {
			return nil, errNotFound
		}
		p := products[i]
		fn(&p)
		return ledger.Reconcile(products, p), nil
	})
}

func (b *Bot) handleRun(ctx context.Context, chatID int64) {
	b.reply(chatID, "⏳ Verificando produtos...")

	report, err := b.monitor.Run(ctx, selector.All{})
	if errors.Is(err, monitor.ErrRunInProgress) {
		b.reply(chatID, "⏳ Já existe uma verificação em andamento.")
		return
	}
	if err != nil {
		log.Printf("Erro na execução pedida pelo chat %d: %v", chatID, err)
	}
	if report != nil {
		b.reply(chatID, report.Summary())
	}
}

func (b *Bot) replyError(chatID int64, action string, err error) {
	switch {
	case errors.Is(err, monitor.ErrRunInProgress):
		b.reply(chatID, "⏳ Há uma verificação em andamento, tente novamente em instantes.")
	case errors.Is(err, errNotFound):
		b.reply(chatID, "❌ Produto não encontrado.")
	default:
		log.Printf("Erro ao %s: %v", action, err)
		b.reply(chatID, fmt.Sprintf("❌ Erro ao %s: %v", action, err))
	}
}
