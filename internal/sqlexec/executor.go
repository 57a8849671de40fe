// Package sqlexec runs query text against Postgres under execution-time
// safety constraints. The executor never authors queries itself; all input
// is treated as attacker-adjacent text.
package sqlexec

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const (
	// MaxReturnedRows caps the rows handed back to the caller on the
	// synthesized path unless the unbounded path was requested. The true
	// total count is always reported alongside.
	MaxReturnedRows = 100

	// DescriptionPreviewLen is the per-row preview length of the long-form
	// description field on the bounded path.
	DescriptionPreviewLen = 200
)

// limitClauseRe matches one trailing row-limiting clause with an optional
// paired offset, case-insensitively. Only a trailing clause is removed so a
// LIMIT inside a subquery or a string literal is left alone.
var limitClauseRe = regexp.MustCompile(`(?i)\s+limit\s+\d+(?:\s+offset\s+\d+)?(\s*;?\s*)$`)

// Options selects the call path for one execution.
type Options struct {
	// Unbounded means the caller explicitly asked for everything: any
	// defensive trailing LIMIT the oracle added is stripped before
	// execution and result shaping applies no truncation.
	Unbounded bool
	// Replay marks query text re-run verbatim from stored history. The
	// hard SELECT allow-list applies and no clause stripping is performed.
	Replay bool
}

// Result is the outcome of one execution. Created per call, never persisted.
type Result struct {
	Success bool
	// SQL is the statement actually executed (after any clause stripping).
	SQL     string
	Columns []string
	Rows    [][]any
	Count   int
	Error   string
}

// Executor opens one bounded-duration connection per call. No pooling, no
// reuse: the connection is released unconditionally before returning.
type Executor struct {
	dsn            string
	connectTimeout time.Duration
}

// New creates an Executor for the given Postgres DSN.
func New(dsn string, connectTimeout time.Duration) *Executor {
	return &Executor{dsn: dsn, connectTimeout: connectTimeout}
}

// StripLimit removes exactly one trailing LIMIT n [OFFSET m] clause,
// case-insensitively. No-op when the text carries no trailing clause.
func StripLimit(sql string) string {
	return limitClauseRe.ReplaceAllString(sql, "$1")
}

// ValidateReplay enforces the replay allow-list: after trimming, the
// statement must begin with the read-only query keyword.
func ValidateReplay(sql string) error {
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "SELECT") {
		return fmt.Errorf("only SELECT queries are allowed")
	}
	return nil
}

// Execute runs the statement and captures columns in declaration order plus
// all rows. Every failure is classified into a Success=false result carrying
// the engine's message verbatim; no error escapes this boundary.
func (e *Executor) Execute(ctx context.Context, sqlText string, opts Options) *Result {
	if opts.Replay {
		if err := ValidateReplay(sqlText); err != nil {
			return &Result{SQL: sqlText, Error: err.Error()}
		}
	} else if opts.Unbounded {
		sqlText = StripLimit(sqlText)
	}

	connCtx, cancel := context.WithTimeout(ctx, e.connectTimeout)
	defer cancel()

	start := time.Now()
	conn, err := pgx.Connect(connCtx, e.dsn)
	if err != nil {
		log.Warn().Err(err).Msg("Data engine connection failed")
		return &Result{SQL: sqlText, Error: err.Error()}
	}
	// Release on every path; a fresh context so close survives cancellation.
	defer conn.Close(context.Background())

	rows, err := conn.Query(ctx, sqlText)
	if err != nil {
		return &Result{SQL: sqlText, Error: err.Error()}
	}
	defer rows.Close()

	var collected [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return &Result{SQL: sqlText, Error: err.Error()}
		}
		collected = append(collected, vals)
	}
	if err := rows.Err(); err != nil {
		return &Result{SQL: sqlText, Error: err.Error()}
	}

	fds := rows.FieldDescriptions()
	columns := make([]string, len(fds))
	for i, fd := range fds {
		columns[i] = fd.Name
	}

	log.Debug().
		Int("rows", len(collected)).
		Int("columns", len(columns)).
		Dur("elapsed", time.Since(start)).
		Msg("Query executed")

	return &Result{
		Success: true,
		SQL:     sqlText,
		Columns: columns,
		Rows:    collected,
		Count:   len(collected),
	}
}

// CountRecords reports the archive's total record count; used by health
// checks to verify data-engine reachability.
func (e *Executor) CountRecords(ctx context.Context) (int, error) {
	connCtx, cancel := context.WithTimeout(ctx, e.connectTimeout)
	defer cancel()

	conn, err := pgx.Connect(connCtx, e.dsn)
	if err != nil {
		return 0, err
	}
	defer conn.Close(context.Background())

	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM uml_temp").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Shape converts positional rows into name-keyed records for the API. On the
// bounded path it caps returned rows at MaxReturnedRows and truncates long
// description values to a preview; the unbounded path returns everything
// untouched. The second return is the returned-row count.
func Shape(res *Result, unbounded bool) ([]map[string]any, int) {
	rows := res.Rows
	if !unbounded && len(rows) > MaxReturnedRows {
		rows = rows[:MaxReturnedRows]
	}

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]any, len(res.Columns))
		for i, col := range res.Columns {
			if i >= len(row) {
				break
			}
			v := row[i]
			if !unbounded && col == "description" {
				if s, ok := v.(string); ok {
					v = previewDescription(s)
				}
			}
			rec[col] = v
		}
		records = append(records, rec)
	}
	return records, len(records)
}

func previewDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= DescriptionPreviewLen {
		return s
	}
	return string(runes[:DescriptionPreviewLen]) + "..."
}
