package app

import (
	"fmt"
	"log"

	"notificador-produtos/config"
	"notificador-produtos/internal/database"
	"notificador-produtos/internal/journal"
	"notificador-produtos/internal/ledger"
	"notificador-produtos/internal/monitor"
	"notificador-produtos/internal/notify"
	"notificador-produtos/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var connect = notify.Connect

// App reúne os componentes montados a partir da configuração
type App struct {
	Config  *config.Config
	Monitor *monitor.Monitor
	// API é nil sem token ou quando a conexão com o Telegram falhou
	API *tgbotapi.BotAPI

	db *database.DB
}

// Build monta stores, scrapers, journal, canal e monitor
func Build(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	var (
		store    ledger.Store
		messages notify.MessageStore
	)
	if cfg.UsesSQLite() {
		db, err := database.New(cfg.LedgerPath)
		if err != nil {
			return nil, fmt.Errorf("inicializar banco de dados: %w", err)
		}
		a.db = db
		store, messages = db, db
	} else {
		store = ledger.NewFileStore(cfg.LedgerPath)
		messages = notify.NewFileMessageStore(cfg.MessageIDsPath)
	}

	// Falha ao conectar no Telegram não impede a verificação: as mensagens
	// ficam desativadas e API fica nil
	var channel notify.Channel = notify.Disabled{}
	if cfg.TelegramBotToken != "" {
		api, err := connect(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("Erro ao conectar com Telegram, notificações desativadas: %v", err)
		} else {
			a.API = api
			if cfg.TelegramChatID != 0 {
				channel = notify.NewTelegram(api, cfg.TelegramChatID)
			}
		}
	}
	if !cfg.NotificationsEnabled() {
		log.Println("Telegram não configurado, notificações desativadas")
	}

	a.Monitor = monitor.New(monitor.Deps{
		Store:      store,
		Fetcher:    scraper.NewRegistry(cfg.HTTPTimeout),
		Channel:    channel,
		Messages:   messages,
		Journal:    journal.New(cfg.ErrorLogPath),
		Classifier: cfg.Classifier,
		Pace:       cfg.Pace,
		Currency:   cfg.Currency,
	})
	return a, nil
}

// Close libera o banco, se houver
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("Erro ao fechar banco de dados: %v", err)
		}
	}
}
