package services

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/username/tradeledger/src/extraction"
	"github.com/username/tradeledger/src/ledger"
	"github.com/username/tradeledger/src/logger"
	"github.com/username/tradeledger/src/models"
	"github.com/username/tradeledger/src/parsers"
	"github.com/username/tradeledger/src/processors"
)

// IngestResult summarizes one batch run.
type IngestResult struct {
	RunID          string
	DocumentsSeen  int
	DocumentsReady int // classified and fully parsed
	Skipped        int // unknown format or missing fields, retained
	TradesApplied  int
	SellsUnmatched int
	Consumed       int // documents deleted after their trade applied
}

// IngestService is the batch driver: it walks the pending set once,
// extracts and parses every document, merges duplicate reports, orders the
// result and applies it to the ledger. Single-threaded by design; the
// ledger store is exclusively owned for the duration of the run.
type IngestService struct {
	extractor    extraction.Extractor
	merger       *processors.MergeProcessor
	ledger       *ledger.PositionLedger
	inboxDir     string
	keepConsumed bool
}

func NewIngestService(
	extractor extraction.Extractor,
	merger *processors.MergeProcessor,
	positionLedger *ledger.PositionLedger,
	inboxDir string,
	keepConsumed bool,
) *IngestService {
	return &IngestService{
		extractor:    extractor,
		merger:       merger,
		ledger:       positionLedger,
		inboxDir:     inboxDir,
		keepConsumed: keepConsumed,
	}
}

// Run processes the pending set once. Non-fatal document failures are
// logged and the document retained; only ledger unavailability aborts the
// run, leaving every not-yet-consumed document in place for the retry.
func (s *IngestService) Run() (*IngestResult, error) {
	res := &IngestResult{RunID: uuid.NewString()}
	log := logger.L.With(slog.String("runID", res.RunID))
	start := time.Now()
	log.Info("ingest run START", "inboxDir", s.inboxDir)

	paths, err := s.pendingDocuments()
	if err != nil {
		return res, fmt.Errorf("listing pending documents: %w", err)
	}
	res.DocumentsSeen = len(paths)

	var records []models.TradeRecord
	for _, path := range paths {
		rec, err := s.parseDocument(path)
		if err != nil {
			if errors.Is(err, parsers.ErrUnknownFormat) {
				log.Warn("unknown document format, skipping", "path", path)
			} else {
				log.Warn("could not extract trade data, skipping", "path", path, "error", err)
			}
			res.Skipped++
			continue
		}
		log.Info("document parsed",
			"path", path,
			"source", string(rec.Source),
			"tradeType", string(rec.TradeType),
			"assetName", rec.AssetName)
		records = append(records, rec)
		res.DocumentsReady++
	}

	trades := processors.Sequence(s.merger.Merge(records))
	log.Info("pending trades resolved", "documents", res.DocumentsReady, "trades", len(trades))

	for _, trade := range trades {
		err := s.ledger.Apply(trade)
		switch {
		case err == nil:
			res.TradesApplied++
			res.Consumed += s.consume(log, trade.SourceFiles)
		case errors.Is(err, ledger.ErrNoMatchingPosition):
			// warned by the ledger; keep the documents for manual review
			res.SellsUnmatched++
		default:
			log.Error("ledger write failed, aborting run", "error", err,
				"assetName", trade.AssetName, "date", trade.Date.Format("2006-01-02"))
			return res, err
		}
	}

	log.Info("ingest run END",
		"duration", time.Since(start),
		"seen", res.DocumentsSeen,
		"parsed", res.DocumentsReady,
		"skipped", res.Skipped,
		"applied", res.TradesApplied,
		"unmatched", res.SellsUnmatched,
		"consumed", res.Consumed)
	return res, nil
}

// pendingDocuments returns the batch in name order so reruns are
// deterministic.
func (s *IngestService) pendingDocuments() ([]string, error) {
	entries, err := os.ReadDir(s.inboxDir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".txt":
			paths = append(paths, filepath.Join(s.inboxDir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *IngestService) parseDocument(path string) (models.TradeRecord, error) {
	text, err := s.extractor.ExtractText(path)
	if err != nil {
		return models.TradeRecord{}, err
	}
	rec, err := parsers.ParseDocument(text)
	if err != nil {
		return models.TradeRecord{}, err
	}
	rec.SourceFiles = []string{path}
	return rec, nil
}

// consume removes the documents whose trade reached the ledger. A document
// is deleted only after its data is durably applied; everything else stays
// in the inbox for the next run.
func (s *IngestService) consume(log *slog.Logger, paths []string) int {
	if s.keepConsumed {
		return 0
	}
	n := 0
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			log.Warn("could not remove consumed document", "path", path, "error", err)
			continue
		}
		n++
	}
	return n
}
