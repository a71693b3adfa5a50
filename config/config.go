package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"notificador-produtos/internal/finance"

	"gopkg.in/yaml.v3"
)

// Config contém as configurações da aplicação
type Config struct {
	TelegramBotToken     string
	TelegramChatID       int64
	LedgerPath           string
	MessageIDsPath       string
	ErrorLogPath         string
	Pace                 time.Duration
	CheckIntervalMinutes int
	CheckInterval        time.Duration
	HTTPTimeout          time.Duration
	Currency             string
	ThresholdsFile       string
	Classifier           finance.Classifier
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	ledgerPath := os.Getenv("LEDGER_PATH")
	if ledgerPath == "" {
		return nil, fmt.Errorf("LEDGER_PATH não configurado")
	}

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		LedgerPath:       ledgerPath,
		MessageIDsPath:   envOr("MESSAGE_IDS_PATH", "message_ids.txt"),
		ErrorLogPath:     envOr("ERROR_LOG_PATH", "errors.log"),
		Currency:         envOr("CURRENCY_SYMBOL", "£"),
		ThresholdsFile:   os.Getenv("THRESHOLDS_FILE"),
		Classifier:       finance.DefaultClassifier(),
	}

	// Chat ID é opcional: sem ele as notificações ficam desativadas
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID inválido: %q", chatIDStr)
		}
		cfg.TelegramChatID = chatID
	}

	cfg.Pace = time.Duration(envInt("PACE_MS", 500)) * time.Millisecond
	cfg.CheckIntervalMinutes = envInt("CHECK_INTERVAL_MINUTES", 0)
	cfg.CheckInterval = time.Duration(cfg.CheckIntervalMinutes) * time.Minute
	cfg.HTTPTimeout = time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	if cfg.ThresholdsFile != "" {
		c, err := LoadThresholds(cfg.ThresholdsFile)
		if err != nil {
			return nil, err
		}
		cfg.Classifier = c
	}

	return cfg, nil
}

// NotificationsEnabled indica se há token e chat para enviar mensagens
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// UsesSQLite indica se o ledger fica em um banco SQLite (.db ou .sqlite)
func (c *Config) UsesSQLite() bool {
	switch strings.ToLower(filepath.Ext(c.LedgerPath)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// LoadThresholds lê os limites de lucro/ROI de um arquivo YAML. Campos
// ausentes mantêm o valor padrão.
func LoadThresholds(path string) (finance.Classifier, error) {
	c := finance.DefaultClassifier()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("ler arquivo de limites: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("arquivo de limites inválido %s: %w", path, err)
	}
	if err := c.Profit.Validate(); err != nil {
		return c, fmt.Errorf("limites de lucro: %w", err)
	}
	if err := c.ROI.Validate(); err != nil {
		return c, fmt.Errorf("limites de ROI: %w", err)
	}
	return c, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt lê um inteiro não negativo; valores inválidos mantêm o padrão
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		log.Printf("%s inválido (%q), usando %d", key, v, def)
		return def
	}
	return parsed
}
