package store

import (
	"context"
	"time"

	"github.com/johnwards/caseseed/internal/domain"
)

// ArchiveBefore marks every row of table created before cutoff as archived
// and returns how many rows changed. The table must have a status column.
func (s *Store) ArchiveBefore(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	if err := checkIdents(table); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, s.dialect.Rebind(
		`UPDATE `+table+` SET status = 'archived', updated_at = ? WHERE created_at < ? AND status <> 'archived'`),
		domain.Timestamp(s.now()), domain.Timestamp(cutoff),
	)
	if err != nil {
		return 0, classify("archive "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("rows affected "+table, err)
	}
	return n, nil
}

// PurgeArchivedBefore deletes archived rows of table created before cutoff.
func (s *Store) PurgeArchivedBefore(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	if err := checkIdents(table); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, s.dialect.Rebind(
		`DELETE FROM `+table+` WHERE status = 'archived' AND created_at < ?`),
		domain.Timestamp(cutoff),
	)
	if err != nil {
		return 0, classify("purge "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("rows affected "+table, err)
	}
	return n, nil
}

// SetClock replaces the time source used for generated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
