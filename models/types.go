package models

// Confidence labels attached to a nutrition estimate
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Domain types

type Meal struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Calories    int64   `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// NewMeal is a meal that has not been stored yet. Omitted macros are zero.
type NewMeal struct {
	Date        string
	Name        string
	Description *string
	Calories    int64
	Protein     float64
	Carbs       float64
	Fat         float64
}

// MealPatch carries only the fields a caller explicitly provided; nil means untouched.
// ClearDescription sets description to NULL and wins over Description.
type MealPatch struct {
	Date             *string
	Name             *string
	Description      *string
	ClearDescription bool
	Calories    *int64
	Protein     *float64
	Carbs       *float64
	Fat         *float64
}

// Empty reports whether the patch changes nothing besides updated_at
func (p MealPatch) Empty() bool {
	return p.Date == nil && p.Name == nil && p.Description == nil && !p.ClearDescription &&
		p.Calories == nil && p.Protein == nil && p.Carbs == nil && p.Fat == nil
}

type DailyTotal struct {
	Date          string  `json:"date"`
	TotalCalories int64   `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
	MealCount     int64   `json:"meal_count"`
}

// Estimation types

type EstimateRequest struct {
	Description *string `json:"description"`
	APIKey      string  `json:"apiKey"`
	Model       string  `json:"model"`
}

type Estimate struct {
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Confidence string  `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Export types

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ExportDocument struct {
	Meals       []Meal       `json:"meals"`
	DailyTotals []DailyTotal `json:"dailyTotals"`
	ExportDate  string       `json:"exportDate"`
	TotalMeals  int          `json:"totalMeals"`
	TotalDays   int          `json:"totalDays"`
	DateRange   *DateRange   `json:"dateRange"`
}

// Response types

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
