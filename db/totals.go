// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/calorie-tracker/models"
)

// Totals are never stored; every call re-aggregates the current meals.
const dailyTotalsSelect = `
	SELECT
		date,
		COALESCE(SUM(calories), 0) AS total_calories,
		COALESCE(SUM(protein), 0) AS total_protein,
		COALESCE(SUM(carbs), 0) AS total_carbs,
		COALESCE(SUM(fat), 0) AS total_fat,
		COUNT(*) AS meal_count
	FROM meals
`

// GetDailyTotals sums meals per date over the inclusive range [start, end]
func (s *Store) GetDailyTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error) {
	return s.queryTotals(ctx, start, end)
}

// GetAllTimeDailyTotals sums meals per date. An empty start or end leaves
// that side of the range open.
func (s *Store) GetAllTimeDailyTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error) {
	return s.queryTotals(ctx, start, end)
}

// GetAllDailyTotals sums meals per date over all history
func (s *Store) GetAllDailyTotals(ctx context.Context) ([]models.DailyTotal, error) {
	return s.queryTotals(ctx, "", "")
}

func (s *Store) queryTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error) {
	var (
		where []string
		args  []any
	)
	if start != "" {
		where = append(where, "date >= ?")
		args = append(args, start)
	}
	if end != "" {
		where = append(where, "date <= ?")
		args = append(args, end)
	}

	query := dailyTotalsSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY date ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer rows.Close()

	totals := []models.DailyTotal{}
	for rows.Next() {
		var t models.DailyTotal
		if err := rows.Scan(&t.Date, &t.TotalCalories, &t.TotalProtein,
			&t.TotalCarbs, &t.TotalFat, &t.MealCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily totals: %w", err)
	}
	return totals, nil
}
