// Package extraction turns a pending document into plain text. The engine
// never sees layout or geometry, only the flattened text; everything
// downstream is layout-independent.
package extraction

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/patrickmn/go-cache"

	"github.com/username/tradeledger/src/logger"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// Extractor is the text-extraction collaborator: document path in, plain
// text out, best-effort layout flattening.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// FileExtractor reads PDF documents via pdf plain-text flattening and any
// other extension as raw text. Results are cached by path and mtime so an
// aborted-and-retried run does not re-parse unchanged documents.
type FileExtractor struct {
	textCache *cache.Cache
}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{
		textCache: cache.New(DefaultCacheExpiration, CacheCleanupInterval),
	}
}

func (e *FileExtractor) ExtractText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if cached, found := e.textCache.Get(key); found {
		logger.L.Debug("extraction cache hit", "path", path)
		return cached.(string), nil
	}

	var text string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = extractPDFText(path)
	} else {
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(raw)
	}
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}

	e.textCache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
