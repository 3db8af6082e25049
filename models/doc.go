// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types for the API.

# Domain Types

  - Meal: a stored food entry (id, date, name, description, calories, macros, timestamps)
  - NewMeal: a meal before insert; omitted macros are zero
  - MealPatch: partial update, nil fields are left untouched
  - DailyTotal: per-date sums and meal count, derived at query time
  - Estimate: nutrition estimate returned by the estimation gateway

# Validation

Meal bodies go through one decode-and-validate step that yields either a
typed value or a *ValidationError:

	meal, err := models.DecodeCreateMeal(r.Body)
	patch, err := models.DecodeUpdateMeal(r.Body)

Dates must match YYYY-MM-DD. Calories must be a non-negative whole number;
protein, carbs, and fat must be non-negative numbers when present.

# Constants

Confidence labels:

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

Export formats:

	FormatJSON = "json"
	FormatCSV  = "csv"
*/
package models
