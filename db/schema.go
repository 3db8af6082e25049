// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates the meals table for the given dialect.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == DialectPostgres {
		schema = postgresSchema
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := addMacroColumns(ctx, conn, dialect); err != nil {
		return fmt.Errorf("failed to add macro columns: %w", err)
	}

	return nil
}

// Timestamps are fixed-width UTC text so that ORDER BY created_at is chronological
// on both engines.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    calories INTEGER NOT NULL CHECK (calories >= 0),
    protein REAL NOT NULL DEFAULT 0,
    carbs REAL NOT NULL DEFAULT 0,
    fat REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meals_date ON meals(date);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS meals (
    id BIGSERIAL PRIMARY KEY,
    date TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    calories BIGINT NOT NULL CHECK (calories >= 0),
    protein DOUBLE PRECISION NOT NULL DEFAULT 0,
    carbs DOUBLE PRECISION NOT NULL DEFAULT 0,
    fat DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meals_date ON meals(date);
`

var macroColumns = []string{"protein", "carbs", "fat"}

// addMacroColumns upgrades tables created before macronutrients were tracked
func addMacroColumns(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	if dialect == DialectPostgres {
		for _, col := range macroColumns {
			q := fmt.Sprintf("ALTER TABLE meals ADD COLUMN IF NOT EXISTS %s DOUBLE PRECISION NOT NULL DEFAULT 0", col)
			if _, err := conn.ExecContext(ctx, q); err != nil {
				return err
			}
		}
		return nil
	}

	existing, err := sqliteColumns(ctx, conn)
	if err != nil {
		return err
	}
	for _, col := range macroColumns {
		if existing[col] {
			continue
		}
		q := fmt.Sprintf("ALTER TABLE meals ADD COLUMN %s REAL NOT NULL DEFAULT 0", col)
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func sqliteColumns(ctx context.Context, conn *sql.DB) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, "PRAGMA table_info(meals)")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
