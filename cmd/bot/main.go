package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"notificador-produtos/config"
	"notificador-produtos/internal/app"
	"notificador-produtos/internal/bot"
	"notificador-produtos/internal/selector"

	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configurações: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN não configurado")
	}

	a, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Erro ao inicializar: %v", err)
	}
	defer a.Close()
	if a.API == nil {
		a.Close()
		log.Fatalf("Não foi possível conectar com o Telegram")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Verificações agendadas em background
	if cfg.CheckInterval > 0 {
		go a.Monitor.Start(ctx, cfg.CheckInterval, selector.All{})
	}

	// Configurar comandos do bot
	go bot.SetupCommands(ctx, a.API, a.Monitor, cfg.TelegramChatID)

	// Aguardar sinal de interrupção
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Encerrando bot...")
}
