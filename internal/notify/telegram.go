package notify

import (
	"fmt"
	"log"
	"time"

	"notificador-produtos/internal/apperr"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram envia as mensagens da execução para um único chat
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// Connect autentica o bot do Telegram
func Connect(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN não configurado. Verifique o arquivo .env")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return nil, fmt.Errorf("token do Telegram inválido ou expirado. Verifique o TELEGRAM_BOT_TOKEN no arquivo .env")
		}
		return nil, fmt.Errorf("erro ao conectar com Telegram: %v", err)
	}

	api.Debug = false
	log.Printf("Bot autorizado como: %s", api.Self.UserName)
	return api, nil
}

// NewTelegram cria o canal a partir de um bot já autenticado
func NewTelegram(api *tgbotapi.BotAPI, chatID int64) *Telegram {
	return &Telegram{api: api, chatID: chatID}
}

// Send envia text em MarkdownV2, sem prévia de links
func (t *Telegram) Send(text string) (*Sent, error) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	m, err := t.api.Send(msg)
	if err != nil {
		return nil, apperr.New(apperr.Notification, "enviar mensagem", err)
	}
	return &Sent{MessageID: m.MessageID, Date: time.Unix(int64(m.Date), 0)}, nil
}

// Delete apaga uma mensagem do chat
func (t *Telegram) Delete(messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(t.chatID, messageID)); err != nil {
		return apperr.New(apperr.Notification, fmt.Sprintf("apagar mensagem %d", messageID), err)
	}
	return nil
}
