// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/models"
	"github.com/danielhkuo/calorie-tracker/testutil"
)

func setupMealHandler(t *testing.T) (*MealHandler, *testutil.Clock) {
	t.Helper()
	store, clock := testutil.SetupTestStore(t)
	return NewMealHandler(store, zap.NewNop(), clock.Now), clock
}

func TestCreateMeal(t *testing.T) {
	h, _ := setupMealHandler(t)

	body := map[string]any{
		"date":        "2024-01-15",
		"name":        "Oatmeal",
		"description": "with blueberries",
		"calories":    350,
		"protein":     12.5,
	}
	req := testutil.MakeRequest("POST", "/api/meals", body, nil)
	w := httptest.NewRecorder()

	h.CreateMeal(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var meal models.Meal
	testutil.AssertJSON(t, w, &meal)

	if meal.ID == 0 {
		t.Error("Expected assigned id")
	}
	if meal.Name != "Oatmeal" || meal.Date != "2024-01-15" || meal.Calories != 350 {
		t.Errorf("Unexpected meal: %+v", meal)
	}
	if meal.Description == nil || *meal.Description != "with blueberries" {
		t.Errorf("Expected description, got %v", meal.Description)
	}
	if meal.Protein != 12.5 || meal.Carbs != 0 || meal.Fat != 0 {
		t.Errorf("Expected omitted macros to default to 0, got %+v", meal)
	}
	if meal.CreatedAt == "" || meal.CreatedAt != meal.UpdatedAt {
		t.Errorf("Expected created_at == updated_at, got %q / %q", meal.CreatedAt, meal.UpdatedAt)
	}
}

func TestCreateMeal_Validation(t *testing.T) {
	h, _ := setupMealHandler(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing date", `{"name":"Toast","calories":100}`, models.MsgMissingMealFields},
		{"missing name", `{"date":"2024-01-15","calories":100}`, models.MsgMissingMealFields},
		{"missing calories", `{"date":"2024-01-15","name":"Toast"}`, models.MsgMissingMealFields},
		{"bad date", `{"date":"15-01-2024","name":"Toast","calories":100}`, models.MsgInvalidDate},
		{"negative calories", `{"date":"2024-01-15","name":"Toast","calories":-5}`, "Calories must be a non-negative integer"},
		{"fractional calories", `{"date":"2024-01-15","name":"Toast","calories":10.5}`, "Calories must be a non-negative integer"},
		{"string calories", `{"date":"2024-01-15","name":"Toast","calories":"100"}`, "Calories must be a non-negative integer"},
		{"negative protein", `{"date":"2024-01-15","name":"Toast","calories":100,"protein":-1}`, "Protein must be a non-negative number"},
		{"string fat", `{"date":"2024-01-15","name":"Toast","calories":100,"fat":"lots"}`, "Fat must be a non-negative number"},
		{"null protein", `{"date":"2024-01-15","name":"Toast","calories":100,"protein":null}`, "Protein must be a non-negative number"},
		{"null calories", `{"date":"2024-01-15","name":"Toast","calories":null}`, "Calories must be a non-negative integer"},
		{"malformed", `{"date":`, models.MsgInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.CreateMeal(w, testutil.MakeRequest("POST", "/api/meals", tt.body, nil))
			testutil.AssertError(t, w, http.StatusBadRequest, tt.message)
		})
	}

	// None of the rejected requests may reach storage
	meals, _ := h.store.GetAllMeals(context.Background())
	if len(meals) != 0 {
		t.Errorf("Expected no stored meals, got %d", len(meals))
	}
}

func TestGetMealsByDate(t *testing.T) {
	h, _ := setupMealHandler(t)
	ctx := context.Background()
	h.store.AddMeal(ctx, models.NewMeal{Date: "2024-01-15", Name: "Breakfast", Calories: 350})
	h.store.AddMeal(ctx, models.NewMeal{Date: "2024-01-16", Name: "Other day", Calories: 900})
	h.store.AddMeal(ctx, models.NewMeal{Date: "2024-01-15", Name: "Lunch", Calories: 500})

	t.Run("returns meals in insertion order", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/meals/2024-01-15", nil)
		req.SetPathValue("date", "2024-01-15")
		w := httptest.NewRecorder()

		h.GetMealsByDate(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var meals []models.Meal
		testutil.AssertJSON(t, w, &meals)
		if len(meals) != 2 || meals[0].Name != "Breakfast" || meals[1].Name != "Lunch" {
			t.Errorf("Unexpected meals: %+v", meals)
		}
	})

	t.Run("empty date returns empty array", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/meals/2023-12-31", nil)
		req.SetPathValue("date", "2023-12-31")
		w := httptest.NewRecorder()

		h.GetMealsByDate(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		if got := w.Body.String(); got != "[]\n" {
			t.Errorf("Expected [], got %q", got)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/meals/15-01-2024", nil)
		req.SetPathValue("date", "15-01-2024")
		w := httptest.NewRecorder()

		h.GetMealsByDate(w, req)

		testutil.AssertError(t, w, http.StatusBadRequest, models.MsgInvalidDate)
	})
}

func TestGetDailyTotals(t *testing.T) {
	h, _ := setupMealHandler(t)
	ctx := context.Background()
	h.store.AddMeal(ctx, models.NewMeal{Date: "2024-01-15", Name: "A", Calories: 350, Protein: 20, Carbs: 30, Fat: 15})
	h.store.AddMeal(ctx, models.NewMeal{Date: "2024-01-15", Name: "B", Calories: 500, Protein: 25, Carbs: 45, Fat: 20})
	h.store.AddMeal(ctx, models.NewMeal{Date: "2024-01-20", Name: "C", Calories: 700})

	req := httptest.NewRequest("GET", "/api/meals/totals/2024-01-14/2024-01-16", nil)
	req.SetPathValue("startDate", "2024-01-14")
	req.SetPathValue("endDate", "2024-01-16")
	w := httptest.NewRecorder()

	h.GetDailyTotals(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var totals []models.DailyTotal
	testutil.AssertJSON(t, w, &totals)

	want := models.DailyTotal{Date: "2024-01-15", TotalCalories: 850, TotalProtein: 45, TotalCarbs: 75, TotalFat: 35, MealCount: 2}
	if len(totals) != 1 || totals[0] != want {
		t.Errorf("Expected [%+v], got %+v", want, totals)
	}

	t.Run("malformed end date", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/meals/totals/2024-01-14/15-01-2024", nil)
		req.SetPathValue("startDate", "2024-01-14")
		req.SetPathValue("endDate", "15-01-2024")
		w := httptest.NewRecorder()

		h.GetDailyTotals(w, req)

		testutil.AssertError(t, w, http.StatusBadRequest, models.MsgInvalidDate)
	})
}

func TestGetStats(t *testing.T) {
	h, _ := setupMealHandler(t)
	ctx := context.Background()
	for _, d := range []string{"2024-01-10", "2024-01-15", "2024-01-20"} {
		h.store.AddMeal(ctx, models.NewMeal{Date: d, Name: "Meal", Calories: 100})
	}

	tests := []struct {
		name      string
		query     string
		wantDates []string
	}{
		{"all history", "", []string{"2024-01-10", "2024-01-15", "2024-01-20"}},
		{"start only", "?startDate=2024-01-15", []string{"2024-01-15", "2024-01-20"}},
		{"end only", "?endDate=2024-01-15", []string{"2024-01-10", "2024-01-15"}},
		{"both", "?startDate=2024-01-11&endDate=2024-01-19", []string{"2024-01-15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.GetStats(w, httptest.NewRequest("GET", "/api/meals/stats"+tt.query, nil))

			testutil.AssertStatus(t, w, http.StatusOK)
			var totals []models.DailyTotal
			testutil.AssertJSON(t, w, &totals)

			if len(totals) != len(tt.wantDates) {
				t.Fatalf("Expected %d totals, got %+v", len(tt.wantDates), totals)
			}
			for i, d := range tt.wantDates {
				if totals[i].Date != d {
					t.Errorf("totals[%d].Date = %s, want %s", i, totals[i].Date, d)
				}
			}
		})
	}

	t.Run("malformed startDate", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetStats(w, httptest.NewRequest("GET", "/api/meals/stats?startDate=15-01-2024", nil))
		testutil.AssertError(t, w, http.StatusBadRequest, "Invalid startDate format. Use YYYY-MM-DD")
	})

	t.Run("malformed endDate", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetStats(w, httptest.NewRequest("GET", "/api/meals/stats?endDate=2024/01/15", nil))
		testutil.AssertError(t, w, http.StatusBadRequest, "Invalid endDate format. Use YYYY-MM-DD")
	})
}

func TestUpdateMeal(t *testing.T) {
	h, _ := setupMealHandler(t)

	original := testutil.CreateTestMeal(t, h.store, models.NewMeal{
		Date: "2024-01-15", Name: "Burrito", Description: testutil.Ptr("chicken"),
		Calories: 700, Protein: 35, Carbs: 80, Fat: 22,
	})
	idStr := strconv.FormatInt(original.ID, 10)

	t.Run("calories only", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/api/meals/"+idStr, `{"calories":650}`, nil)
		req.SetPathValue("id", idStr)
		w := httptest.NewRecorder()

		h.UpdateMeal(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var updated models.Meal
		testutil.AssertJSON(t, w, &updated)

		if updated.Calories != 650 {
			t.Errorf("Expected calories 650, got %d", updated.Calories)
		}
		if updated.Name != "Burrito" || *updated.Description != "chicken" ||
			updated.Protein != 35 || updated.Carbs != 80 || updated.Fat != 22 {
			t.Errorf("Expected other fields unchanged, got %+v", updated)
		}
		if updated.CreatedAt != original.CreatedAt {
			t.Error("Expected created_at unchanged")
		}
		if updated.UpdatedAt <= original.UpdatedAt {
			t.Errorf("Expected updated_at to advance: %s -> %s", original.UpdatedAt, updated.UpdatedAt)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/api/meals/9999", `{"calories":1}`, nil)
		req.SetPathValue("id", "9999")
		w := httptest.NewRecorder()

		h.UpdateMeal(w, req)

		testutil.AssertError(t, w, http.StatusNotFound, "Meal not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/api/meals/abc", `{"calories":1}`, nil)
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()

		h.UpdateMeal(w, req)

		testutil.AssertError(t, w, http.StatusBadRequest, "Invalid meal ID")
	})

	invalid := []struct {
		name    string
		body    string
		message string
	}{
		{"bad date", `{"date":"15-01-2024"}`, models.MsgInvalidDate},
		{"empty name", `{"name":""}`, "Name must be a non-empty string"},
		{"negative carbs", `{"carbs":-3}`, "Carbs must be a non-negative number"},
		{"null calories", `{"calories":null}`, "Calories must be a non-negative integer"},
		{"null fat", `{"fat":null}`, "Fat must be a non-negative number"},
	}
	before, _ := h.store.GetMealByID(context.Background(), original.ID)
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PUT", "/api/meals/"+idStr, tt.body, nil)
			req.SetPathValue("id", idStr)
			w := httptest.NewRecorder()

			h.UpdateMeal(w, req)

			testutil.AssertError(t, w, http.StatusBadRequest, tt.message)
		})
	}

	after, _ := h.store.GetMealByID(context.Background(), original.ID)
	if after.UpdatedAt != before.UpdatedAt {
		t.Errorf("Rejected updates must not touch the row: updated_at %s -> %s", before.UpdatedAt, after.UpdatedAt)
	}

	t.Run("null description clears it", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/api/meals/"+idStr, `{"description":null}`, nil)
		req.SetPathValue("id", idStr)
		w := httptest.NewRecorder()

		h.UpdateMeal(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var updated models.Meal
		testutil.AssertJSON(t, w, &updated)
		if updated.Description != nil {
			t.Errorf("Expected description cleared, got %q", *updated.Description)
		}
		if updated.Name != "Burrito" || updated.Calories != 650 {
			t.Errorf("Expected other fields unchanged, got %+v", updated)
		}
	})
}

func TestDeleteMeal(t *testing.T) {
	h, _ := setupMealHandler(t)
	ctx := context.Background()
	id, _ := h.store.AddMeal(ctx, models.NewMeal{Date: "2024-01-15", Name: "Snack", Calories: 150})
	idStr := strconv.FormatInt(id, 10)

	req := httptest.NewRequest("DELETE", "/api/meals/"+idStr, nil)
	req.SetPathValue("id", idStr)
	w := httptest.NewRecorder()

	h.DeleteMeal(w, req)

	testutil.AssertStatus(t, w, http.StatusNoContent)
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}

	meals, _ := h.store.GetMealsByDate(ctx, "2024-01-15")
	if len(meals) != 0 {
		t.Errorf("Expected no meals after delete, got %d", len(meals))
	}

	t.Run("second delete is not found", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/meals/"+idStr, nil)
		req.SetPathValue("id", idStr)
		w := httptest.NewRecorder()

		h.DeleteMeal(w, req)

		testutil.AssertError(t, w, http.StatusNotFound, "Meal not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/meals/1.5", nil)
		req.SetPathValue("id", "1.5")
		w := httptest.NewRecorder()

		h.DeleteMeal(w, req)

		testutil.AssertError(t, w, http.StatusBadRequest, "Invalid meal ID")
	})
}

// failingStore fails every call, to check storage faults stay internal
type failingStore struct {
	MealStore
}

var errDiskFull = errors.New("disk I/O error: /var/lib/meals.db")

func (failingStore) GetMealsByDate(context.Context, string) ([]models.Meal, error) {
	return nil, errDiskFull
}

func (failingStore) AddMeal(context.Context, models.NewMeal) (int64, error) {
	return 0, errDiskFull
}

func TestStorageFailure_IsGeneric(t *testing.T) {
	h := NewMealHandler(failingStore{}, zap.NewNop(), nil)

	t.Run("read", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/meals/2024-01-15", nil)
		req.SetPathValue("date", "2024-01-15")
		w := httptest.NewRecorder()

		h.GetMealsByDate(w, req)

		testutil.AssertError(t, w, http.StatusInternalServerError, "Internal server error")
	})

	t.Run("write", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.CreateMeal(w, testutil.MakeRequest("POST", "/api/meals", `{"date":"2024-01-15","name":"x","calories":1}`, nil))

		testutil.AssertError(t, w, http.StatusInternalServerError, "Internal server error")
	})
}
