// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/middleware"
	"github.com/danielhkuo/calorie-tracker/models"
)

// isoTimeLayout is UTC RFC 3339 with millisecond precision
const isoTimeLayout = "2006-01-02T15:04:05.000Z"

var (
	mealColumns  = []string{"ID", "Date", "Name", "Description", "Calories", "Protein (g)", "Carbs (g)", "Fat (g)", "Created At", "Updated At"}
	totalColumns = []string{"Date", "Total Calories", "Total Protein (g)", "Total Carbs (g)", "Total Fat (g)", "Meal Count"}
)

// Export handles GET /api/meals/export?format=json|csv
func (h *MealHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = models.FormatJSON
	}
	if format != models.FormatJSON && format != models.FormatCSV {
		middleware.ErrorResponse(w, http.StatusBadRequest, `Invalid format. Use "json" or "csv"`)
		return
	}

	meals, err := h.store.GetAllMeals(r.Context())
	if err != nil {
		h.log.Error("failed to export meals", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	totals, err := h.store.GetAllDailyTotals(r.Context())
	if err != nil {
		h.log.Error("failed to export daily totals", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	now := h.now().UTC()
	doc := models.ExportDocument{
		Meals:       meals,
		DailyTotals: totals,
		ExportDate:  now.Format(isoTimeLayout),
		TotalMeals:  len(meals),
		TotalDays:   len(totals),
	}
	if len(totals) > 0 {
		doc.DateRange = &models.DateRange{Start: totals[0].Date, End: totals[len(totals)-1].Date}
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case models.FormatCSV:
		body = []byte(renderCSV(doc))
		contentType = "text/csv"
	default:
		body, err = json.Marshal(doc)
		if err != nil {
			h.log.Error("failed to encode export", zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
			return
		}
		contentType = "application/json"
	}

	filename := fmt.Sprintf("calorie-tracker-export-%s.%s", now.Format("2006-01-02"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)

	h.log.Info("data exported",
		zap.String("format", format),
		zap.Int("meals", doc.TotalMeals),
		zap.Int("days", doc.TotalDays),
		zap.String("size", humanize.Bytes(uint64(len(body)))),
	)
}

func renderCSV(doc models.ExportDocument) string {
	start, end := "N/A", "N/A"
	if doc.DateRange != nil {
		start, end = doc.DateRange.Start, doc.DateRange.End
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Calorie Tracker Export - %s\n", doc.ExportDate)
	fmt.Fprintf(&b, "# Total Meals: %d\n", doc.TotalMeals)
	fmt.Fprintf(&b, "# Total Days: %d\n", doc.TotalDays)
	fmt.Fprintf(&b, "# Date Range: %s to %s\n", start, end)
	b.WriteString("\n# MEALS DATA\n")
	b.WriteString(mealsCSV(doc.Meals))
	b.WriteString("\n\n# DAILY TOTALS DATA\n")
	b.WriteString(totalsCSV(doc.DailyTotals))
	return b.String()
}

func mealsCSV(meals []models.Meal) string {
	if len(meals) == 0 {
		return "No meals found"
	}

	rows := []string{strings.Join(mealColumns, ",")}
	for _, m := range meals {
		description := ""
		if m.Description != nil {
			description = *m.Description
		}
		rows = append(rows, strings.Join([]string{
			strconv.FormatInt(m.ID, 10),
			m.Date,
			quote(m.Name),
			quote(description),
			strconv.FormatInt(m.Calories, 10),
			formatNumber(m.Protein),
			formatNumber(m.Carbs),
			formatNumber(m.Fat),
			m.CreatedAt,
			m.UpdatedAt,
		}, ","))
	}
	return strings.Join(rows, "\n")
}

func totalsCSV(totals []models.DailyTotal) string {
	if len(totals) == 0 {
		return "No daily totals found"
	}

	rows := []string{strings.Join(totalColumns, ",")}
	for _, t := range totals {
		rows = append(rows, strings.Join([]string{
			t.Date,
			strconv.FormatInt(t.TotalCalories, 10),
			formatNumber(t.TotalProtein),
			formatNumber(t.TotalCarbs),
			formatNumber(t.TotalFat),
			strconv.FormatInt(t.MealCount, 10),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

// quote always wraps free text, doubling embedded quotes
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
