// Package schema creates the tables the service reads from. It keeps no
// version bookkeeping: every statement is guarded by IF NOT EXISTS so
// Initialize can run on every start.
package schema

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS novels (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		original_title TEXT,
		cover TEXT,
		source TEXT NOT NULL,
		url TEXT NOT NULL,
		summary TEXT NOT NULL,
		author TEXT,
		status TEXT,
		genres TEXT NOT NULL DEFAULT '[]',
		chapters_count INTEGER NOT NULL DEFAULT 0,
		last_updated INTEGER NOT NULL,
		date_added INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_novels_source ON novels (source)`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id TEXT PRIMARY KEY,
		novel_id TEXT NOT NULL REFERENCES novels (id),
		number INTEGER NOT NULL,
		title TEXT NOT NULL,
		original_title TEXT,
		content TEXT NOT NULL,
		date_translated INTEGER NOT NULL,
		word_count INTEGER,
		url TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_chapters_novel_number ON chapters (novel_id, number)`,
	`CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		language TEXT NOT NULL,
		icon TEXT
	)`,
}

// Tables lists the tables Initialize creates.
var Tables = []string{"novels", "chapters", "sources"}

// Initialize creates any missing tables and indexes. Existing tables and
// their rows are left untouched.
func Initialize(ctx context.Context, db bun.IDB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return errors.Wrap(err, "failed to initialize schema")
			}
		}
		return nil
	})
}

// Exists reports whether every table in Tables is present.
func Exists(ctx context.Context, db bun.IDB) (bool, error) {
	var count int
	err := db.NewRaw(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN (?)",
		bun.In(Tables),
	).Scan(ctx, &count)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return count == len(Tables), nil
}
