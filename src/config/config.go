package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// InboxDir holds the pending confirmation documents.
	InboxDir string
	// LedgerPath is the ledger store location (workbook file or sqlite db).
	LedgerPath string
	// LedgerBackend selects the store implementation: "xlsx" or "sqlite".
	LedgerBackend string
	LogLevel      string
	// KeepConsumed leaves successfully applied documents in place instead
	// of deleting them.
	KeepConsumed bool
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = &AppConfig{
		InboxDir:      getEnv("INBOX_DIR", "./pdfs"),
		LedgerPath:    getEnv("LEDGER_PATH", "./Trading.xlsx"),
		LedgerBackend: strings.ToLower(getEnv("LEDGER_BACKEND", "xlsx")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		KeepConsumed:  getEnvAsBool("KEEP_CONSUMED", false),
	}

	if Cfg.LedgerBackend != "xlsx" && Cfg.LedgerBackend != "sqlite" {
		log.Fatalf("FATAL: LEDGER_BACKEND must be 'xlsx' or 'sqlite', got %q", Cfg.LedgerBackend)
	}

	log.Printf("Configuration loaded: InboxDir=%s, LedgerPath=%s, Backend=%s, LogLevel=%s",
		Cfg.InboxDir, Cfg.LedgerPath, Cfg.LedgerBackend, Cfg.LogLevel)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	switch strings.ToLower(valueStr) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}
