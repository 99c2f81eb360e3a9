package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnwards/caseseed/internal/domain"
)

// Archiver ages out old rows. *store.Store implements it.
type Archiver interface {
	ArchiveBefore(ctx context.Context, table string, cutoff time.Time) (int64, error)
	PurgeArchivedBefore(ctx context.Context, table string, cutoff time.Time) (int64, error)
}

// ArchiveResult counts the cases touched by Archive.
type ArchiveResult struct {
	Archived int64
	Purged   int64
}

// Archive marks cases created more than archiveAfter ago as archived, then
// deletes archived cases created more than purgeAfter ago. Dependent rows go
// with their case.
func Archive(ctx context.Context, a Archiver, now time.Time, archiveAfter, purgeAfter time.Duration, logger *slog.Logger) (ArchiveResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res ArchiveResult
	if archiveAfter <= 0 || purgeAfter <= 0 {
		return res, fmt.Errorf("archive: ages must be positive (archive %s, purge %s)", archiveAfter, purgeAfter)
	}

	n, err := a.ArchiveBefore(ctx, domain.TableCases, now.Add(-archiveAfter))
	if err != nil {
		return res, fmt.Errorf("archive cases: %w", err)
	}
	res.Archived = n
	logger.Info("archived cases", "count", n, "older_than", archiveAfter)

	n, err = a.PurgeArchivedBefore(ctx, domain.TableCases, now.Add(-purgeAfter))
	if err != nil {
		return res, fmt.Errorf("purge archived cases: %w", err)
	}
	res.Purged = n
	logger.Info("purged archived cases", "count", n, "older_than", purgeAfter)
	return res, nil
}
