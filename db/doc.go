// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the meals table: schema creation, CRUD, and per-day totals.

# Opening a Store

Open connects, pings, and creates the schema for either engine:

	store, err := db.Open(ctx, db.DialectSQLite, "calorie_tracker.db", db.WithLogger(log))
	if err != nil {
		log.Fatal("store", zap.Error(err))
	}
	defer store.Close()

SQLite (modernc.org/sqlite, no cgo) is the default. PostgreSQL is reached
through github.com/lib/pq; queries are written with ? placeholders and
rebound to $n for that dialect.

# Schema

A single table, meals. Tables created before macronutrients were tracked
get protein, carbs, and fat columns added on open (default 0).

# Totals

GetDailyTotals, GetAllTimeDailyTotals, and GetAllDailyTotals group meals by
date on every call. Nothing is cached, so totals always reflect the current
rows.
*/
package db
