// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/danielhkuo/calorie-tracker/db"
	"github.com/danielhkuo/calorie-tracker/models"
)

// Epoch is the first instant handed out by a test Clock
var Epoch = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

// Clock is a deterministic time source that advances one second per call,
// so every write gets a distinct, ordered timestamp.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

func NewClock() *Clock {
	return &Clock{cur: Epoch}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.cur
	c.cur = c.cur.Add(time.Second)
	return now
}

// SetupTestStore opens a fresh SQLite store in a temp directory.
// The store is closed when the test ends.
func SetupTestStore(t *testing.T) (*db.Store, *Clock) {
	t.Helper()

	clock := NewClock()
	path := filepath.Join(t.TempDir(), "meals.db")

	store, err := db.Open(context.Background(), db.DialectSQLite, path,
		db.WithClock(clock.Now),
		db.WithLogger(zaptest.NewLogger(t)),
	)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, clock
}

// MealWriter is the part of the store CreateTestMeal needs
type MealWriter interface {
	AddMeal(ctx context.Context, meal models.NewMeal) (int64, error)
	GetMealByID(ctx context.Context, id int64) (*models.Meal, error)
}

// CreateTestMeal inserts a meal and returns the stored row
func CreateTestMeal(t *testing.T, store MealWriter, meal models.NewMeal) models.Meal {
	t.Helper()

	ctx := context.Background()
	id, err := store.AddMeal(ctx, meal)
	if err != nil {
		t.Fatalf("Failed to create test meal: %v", err)
	}

	stored, err := store.GetMealByID(ctx, id)
	if err != nil || stored == nil {
		t.Fatalf("Failed to read back test meal %d: %v", id, err)
	}
	return *stored
}

// Ptr returns a pointer to v, for optional request fields
func Ptr[T any](v T) *T {
	return &v
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertError checks the status code and the "error" message of a JSON error body
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	AssertStatus(t, w, status)

	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	if resp.Error != message {
		t.Errorf("Expected error %q, got %q", message, resp.Error)
	}
}
