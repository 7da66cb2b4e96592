package main

import (
	"errors"
	"os"

	"github.com/username/tradeledger/src/config"
	"github.com/username/tradeledger/src/extraction"
	"github.com/username/tradeledger/src/ledger"
	"github.com/username/tradeledger/src/logger"
	"github.com/username/tradeledger/src/processors"
	"github.com/username/tradeledger/src/services"
	"github.com/username/tradeledger/src/storage"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	store, err := openStore(config.Cfg)
	if err != nil {
		if errors.Is(err, storage.ErrLedgerLocked) {
			logger.L.Error("ledger is held by another process, close it and retry", "path", config.Cfg.LedgerPath)
		} else {
			logger.L.Error("could not open ledger store", "path", config.Cfg.LedgerPath, "error", err)
		}
		os.Exit(1)
	}
	defer store.Close()

	svc := services.NewIngestService(
		extraction.NewFileExtractor(),
		processors.NewMergeProcessor(),
		ledger.New(store),
		config.Cfg.InboxDir,
		config.Cfg.KeepConsumed,
	)

	res, err := svc.Run()
	if err != nil {
		logger.L.Error("ingest run aborted", "runID", res.RunID, "error", err)
		os.Exit(1)
	}
	if res.SellsUnmatched > 0 {
		logger.L.Warn("run finished with unmatched sells, documents retained", "count", res.SellsUnmatched)
	}
}

func openStore(cfg *config.AppConfig) (storage.Store, error) {
	switch cfg.LedgerBackend {
	case "sqlite":
		return storage.OpenSQLite(cfg.LedgerPath)
	default:
		return storage.OpenXLSX(cfg.LedgerPath)
	}
}
