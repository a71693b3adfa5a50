package bot

import (
	"context"
	"log"
	"strings"

	"notificador-produtos/internal/models"
	"notificador-produtos/internal/monitor"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender envia respostas ao chat (satisfeito por *tgbotapi.BotAPI)
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Monitor é o que os comandos usam do monitor
type Monitor interface {
	Products() ([]models.Product, error)
	Mutate(fn func([]models.Product) ([]models.Product, error)) error
	Run(ctx context.Context, sel monitor.Selector) (*monitor.RunReport, error)
}

// Bot atende os comandos de edição do ledger
type Bot struct {
	api     Sender
	monitor Monitor
	// authorizedChatID zero libera todos os chats
	authorizedChatID int64
	now              func() string
}

// New cria o bot de comandos
func New(api Sender, m Monitor, authorizedChatID int64) *Bot {
	return &Bot{
		api:              api,
		monitor:          m,
		authorizedChatID: authorizedChatID,
		now:              today,
	}
}

// SetupCommands escuta as atualizações do Telegram até ctx ser cancelado
func SetupCommands(ctx context.Context, api *tgbotapi.BotAPI, m Monitor, authorizedChatID int64) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	New(api, m, authorizedChatID).Listen(ctx, updates)
}

// Listen processa as mensagens recebidas até o canal fechar ou ctx ser
// cancelado
func (b *Bot) Listen(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

// command extrai o comando (sem @botname) e os argumentos
func command(text string) (string, []string) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(parts[0])
	if idx := strings.Index(cmd, "@"); idx > 0 {
		cmd = cmd[:idx]
	}
	return cmd, parts[1:]
}

func (b *Bot) authorized(chatID int64) bool {
	return b.authorizedChatID == 0 || chatID == b.authorizedChatID
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Erro ao responder chat %d: %v", chatID, err)
	}
}

// replyHTML tenta enviar com HTML e, se falhar, sem formatação
func (b *Bot) replyHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Erro ao enviar mensagem com HTML: %v", err)
		msg.ParseMode = ""
		if _, err2 := b.api.Send(msg); err2 != nil {
			log.Printf("Erro ao enviar mensagem sem formatação: %v", err2)
		}
	}
}
