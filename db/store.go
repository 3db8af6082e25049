// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/calorie-tracker/models"
)

// Dialect selects the SQL engine behind the store
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// TimestampLayout is the stored form of created_at and updated_at
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var ErrUnknownDialect = errors.New("unknown database type")

// ParseDialect maps a configured database type to a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// Store owns the meals table. It is safe for concurrent use; writes to the
// same row are serialized by the engine with last write wins.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log.Named("store") }
}

// Open connects to the database, verifies it, and creates the schema
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*Store, error) {
	conn, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// One connection gives read-after-write on the same session and
		// serializes writers the way the file lock would anyway.
		conn.SetMaxOpenConns(1)
	}

	s := &Store{
		db:      conn,
		dialect: dialect,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := CreateSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}

	fields := []zap.Field{zap.String("dialect", string(dialect))}
	if dialect == DialectSQLite {
		if fi, err := os.Stat(dsn); err == nil {
			fields = append(fields, zap.String("size", humanize.Bytes(uint64(fi.Size()))))
		}
	}
	s.log.Info("database schema ready", fields...)

	return s, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}

// rebind rewrites ? placeholders into $n for postgres
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

const mealColumns = `id, date, name, description, calories, protein, carbs, fat, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (models.Meal, error) {
	var (
		m    models.Meal
		desc sql.NullString
	)
	err := row.Scan(&m.ID, &m.Date, &m.Name, &desc, &m.Calories,
		&m.Protein, &m.Carbs, &m.Fat, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return models.Meal{}, err
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	return m, nil
}

func (s *Store) queryMeals(ctx context.Context, query string, args ...any) ([]models.Meal, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meals: %w", err)
	}
	return meals, nil
}

// AddMeal inserts a meal and returns its assigned id.
// Duplicates are allowed; only id is unique.
func (s *Store) AddMeal(ctx context.Context, meal models.NewMeal) (int64, error) {
	now := s.timestamp()

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO meals (date, name, description, calories, protein, carbs, fat, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), meal.Date, meal.Name, meal.Description, meal.Calories,
		meal.Protein, meal.Carbs, meal.Fat, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal: %w", err)
	}

	return id, nil
}

// GetMealByID returns nil without error when no meal has the id
func (s *Store) GetMealByID(ctx context.Context, id int64) (*models.Meal, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+mealColumns+` FROM meals WHERE id = ?`), id)

	m, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal %d: %w", id, err)
	}
	return &m, nil
}

// GetMealsByDate returns the meals logged on date in insertion order
func (s *Store) GetMealsByDate(ctx context.Context, date string) ([]models.Meal, error) {
	return s.queryMeals(ctx, `
		SELECT `+mealColumns+`
		FROM meals
		WHERE date = ?
		ORDER BY created_at ASC, id ASC
	`, date)
}

// GetAllMeals returns every meal ordered by date, then insertion order
func (s *Store) GetAllMeals(ctx context.Context) ([]models.Meal, error) {
	return s.queryMeals(ctx, `
		SELECT `+mealColumns+`
		FROM meals
		ORDER BY date ASC, created_at ASC, id ASC
	`)
}

// UpdateMeal applies the non-nil fields of patch and always refreshes
// updated_at. A missing id affects zero rows and is not an error.
func (s *Store) UpdateMeal(ctx context.Context, id int64, patch models.MealPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.ClearDescription {
		add("description", nil)
	} else if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Calories != nil {
		add("calories", *patch.Calories)
	}
	if patch.Protein != nil {
		add("protein", *patch.Protein)
	}
	if patch.Carbs != nil {
		add("carbs", *patch.Carbs)
	}
	if patch.Fat != nil {
		add("fat", *patch.Fat)
	}
	add("updated_at", s.timestamp())
	args = append(args, id)

	query := `UPDATE meals SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, s.rebind(query), args...); err != nil {
		return fmt.Errorf("failed to update meal %d: %w", id, err)
	}
	return nil
}

// DeleteMeal hard-deletes a meal. Deleting a missing id is a no-op.
func (s *Store) DeleteMeal(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM meals WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete meal %d: %w", id, err)
	}
	return nil
}
