// Package enrich attaches text-analytics results to case notes.
package enrich

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/provider"
)

// Analyzer runs sentiment, key-phrase and entity analysis over a text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (domain.Analysis, error)
}

// Enricher wraps an Analyzer so that analysis never fails a caller: on any
// error the note is stored without an overlay.
type Enricher struct {
	analyzer Analyzer
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates an Enricher. A nil analyzer makes every Enrich call return an
// empty Analysis.
func New(analyzer Analyzer, timeout time.Duration, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Enricher{analyzer: analyzer, timeout: timeout, logger: logger}
}

// Enrich analyses content, returning the zero Analysis when the analyzer is
// missing or fails.
func (e *Enricher) Enrich(ctx context.Context, content string) domain.Analysis {
	if e == nil || e.analyzer == nil || strings.TrimSpace(content) == "" {
		return domain.Analysis{}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var a domain.Analysis
	err := provider.Call(func() error {
		var err error
		a, err = e.analyzer.Analyze(ctx, content)
		return err
	})
	if err != nil {
		e.logger.Warn("note analysis failed", "error", provider.Wrap("text-analytics", err))
		return domain.Analysis{}
	}
	return a
}
