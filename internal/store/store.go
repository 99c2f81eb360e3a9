package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnwards/caseseed/internal/database"
	"github.com/johnwards/caseseed/internal/domain"
)

// Row is a single record keyed by column name.
type Row map[string]any

// Filter is a set of column equality conditions joined with AND.
type Filter map[string]any

// String returns the value of column as a string, or "" when absent or NULL.
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the value of a boolean column. SQLite reports booleans as
// integers.
func (r Row) Bool(column string) bool {
	switch v := r[column].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	default:
		return false
	}
}

// ID returns the row identifier.
func (r Row) ID() string { return r.String("id") }

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Store is the relational store: equality-filtered select, insert, update and
// delete over any migrated table. Identifiers are UUIDs generated on insert.
type Store struct {
	DB      *sql.DB
	dialect database.Dialect
	now     func() time.Time
}

// New creates a Store over db.
func New(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{DB: db, dialect: dialect, now: time.Now}
}

// Select returns every row of table matching filter. With no columns, all
// columns are returned.
func (s *Store) Select(ctx context.Context, table string, filter Filter, columns ...string) ([]Row, error) {
	if err := checkIdents(append([]string{table}, columns...)...); err != nil {
		return nil, err
	}
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}

	where, args, err := whereClause(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, s.dialect.Rebind(`SELECT `+cols+` FROM `+table+where), args...)
	if err != nil {
		return nil, classify("select "+table, err)
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, classify("columns "+table, err)
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify("scan "+table, err)
		}
		row := make(Row, len(names))
		for i, name := range names {
			if b, ok := vals[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("rows "+table, err)
	}

	return out, nil
}

// Insert writes rec into table and returns the stored row. The id and
// timestamps are filled in when the record does not carry them.
func (s *Store) Insert(ctx context.Context, table string, rec Row) (Row, error) {
	row := make(Row, len(rec)+3)
	for k, v := range rec {
		row[k] = v
	}
	ts := domain.Timestamp(s.now())
	if row.String("id") == "" {
		row["id"] = uuid.NewString()
	}
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = ts
	}
	if _, ok := row["updated_at"]; !ok {
		row["updated_at"] = ts
	}

	cols := sortedKeys(row)
	if err := checkIdents(append([]string{table}, cols...)...); err != nil {
		return nil, err
	}

	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	query := `INSERT INTO ` + table + ` (` + strings.Join(cols, ", ") + `) VALUES (` + marks + `)`
	if _, err := s.DB.ExecContext(ctx, s.dialect.Rebind(query), args...); err != nil {
		return nil, classify("insert "+table, err)
	}

	return row, nil
}

// Update applies patch to every row of table matching filter and returns the
// number of affected rows. updated_at is refreshed unless patch sets it.
func (s *Store) Update(ctx context.Context, table string, patch Row, filter Filter) (int64, error) {
	if len(patch) == 0 {
		return 0, fmt.Errorf("update %s: empty patch", table)
	}
	set := make(Row, len(patch)+1)
	for k, v := range patch {
		set[k] = v
	}
	if _, ok := set["updated_at"]; !ok {
		set["updated_at"] = domain.Timestamp(s.now())
	}

	cols := sortedKeys(set)
	if err := checkIdents(append([]string{table}, cols...)...); err != nil {
		return 0, err
	}

	assignments := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filter))
	for i, c := range cols {
		assignments[i] = c + ` = ?`
		args = append(args, set[c])
	}

	where, whereArgs, err := whereClause(filter)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	query := `UPDATE ` + table + ` SET ` + strings.Join(assignments, ", ") + where
	res, err := s.DB.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return 0, classify("update "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("rows affected "+table, err)
	}
	return n, nil
}

// Delete removes every row of table matching filter. An empty filter is
// rejected so a table is never truncated by accident.
func (s *Store) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	if len(filter) == 0 {
		return 0, fmt.Errorf("delete %s: refusing to delete without a filter", table)
	}
	if err := checkIdents(table); err != nil {
		return 0, err
	}

	where, args, err := whereClause(filter)
	if err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM `+table+where), args...)
	if err != nil {
		return 0, classify("delete "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("rows affected "+table, err)
	}
	return n, nil
}

// Get returns the single row of table with the given id.
func (s *Store) Get(ctx context.Context, table, id string) (Row, error) {
	rows, err := s.Select(ctx, table, Filter{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return rows[0], nil
}

// Count returns the number of rows of table matching filter.
func (s *Store) Count(ctx context.Context, table string, filter Filter) (int, error) {
	if err := checkIdents(table); err != nil {
		return 0, err
	}
	where, args, err := whereClause(filter)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, s.dialect.Rebind(`SELECT COUNT(*) FROM `+table+where), args...).Scan(&n); err != nil {
		return 0, classify("count "+table, err)
	}
	return n, nil
}

func whereClause(filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	cols := sortedKeys(filter)
	if err := checkIdents(cols...); err != nil {
		return "", nil, err
	}
	conds := make([]string, len(cols))
	args := make([]any, 0, len(cols))
	for i, c := range cols {
		if filter[c] == nil {
			conds[i] = c + ` IS NULL`
			continue
		}
		conds[i] = c + ` = ?`
		args = append(args, filter[c])
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args, nil
}

func checkIdents(names ...string) error {
	for _, n := range names {
		if !identRe.MatchString(n) {
			return fmt.Errorf("invalid identifier %q", n)
		}
	}
	return nil
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
