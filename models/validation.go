package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation messages returned to clients
const (
	MsgInvalidJSON       = "Invalid JSON"
	MsgMissingMealFields = "Missing required fields: date, name, and calories are required"
	MsgInvalidDate       = "Invalid date format. Use YYYY-MM-DD"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is a YYYY-MM-DD calendar date string
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// ValidationError is a client input problem. The request must not reach storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CreateMealRequest is the body of POST /api/meals
type CreateMealRequest struct {
	Date        *string  `json:"date" validate:"required,isodate"`
	Name        *string  `json:"name" validate:"required,min=1"`
	Description *string  `json:"description"`
	Calories    *float64 `json:"calories" validate:"required,gte=0,lte=9007199254740991,integral"`
	Protein     *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs       *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat         *float64 `json:"fat" validate:"omitempty,gte=0"`
}

// UpdateMealRequest is the body of PUT /api/meals/{id}; every field is optional
type UpdateMealRequest struct {
	Date        *string  `json:"date" validate:"omitempty,isodate"`
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Calories    *float64 `json:"calories" validate:"omitempty,gte=0,lte=9007199254740991,integral"`
	Protein     *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs       *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat         *float64 `json:"fat" validate:"omitempty,gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return ValidDate(fl.Field().String())
	})
	v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})

	return v
}

// DecodeCreateMeal parses and validates a meal creation body
func DecodeCreateMeal(r io.Reader) (NewMeal, error) {
	var req CreateMealRequest
	present, err := decodeBody(r, &req)
	if err != nil {
		return NewMeal{}, err
	}
	if err := rejectNulls(present, "calories", "protein", "carbs", "fat"); err != nil {
		return NewMeal{}, err
	}
	if err := validate.Struct(req); err != nil {
		return NewMeal{}, translate(err, true)
	}

	meal := NewMeal{
		Date:        *req.Date,
		Name:        *req.Name,
		Description: req.Description,
		Calories:    int64(*req.Calories),
	}
	if req.Protein != nil {
		meal.Protein = *req.Protein
	}
	if req.Carbs != nil {
		meal.Carbs = *req.Carbs
	}
	if req.Fat != nil {
		meal.Fat = *req.Fat
	}
	return meal, nil
}

// DecodeUpdateMeal parses and validates a partial meal update body
func DecodeUpdateMeal(r io.Reader) (MealPatch, error) {
	var req UpdateMealRequest
	present, err := decodeBody(r, &req)
	if err != nil {
		return MealPatch{}, err
	}
	if err := rejectNulls(present, "date", "name", "calories", "protein", "carbs", "fat"); err != nil {
		return MealPatch{}, err
	}
	if err := validate.Struct(req); err != nil {
		return MealPatch{}, translate(err, false)
	}

	patch := MealPatch{
		Date:             req.Date,
		Name:             req.Name,
		Description:      req.Description,
		ClearDescription: isNull(present["description"]),
		Protein:          req.Protein,
		Carbs:            req.Carbs,
		Fat:              req.Fat,
	}
	if req.Calories != nil {
		c := int64(*req.Calories)
		patch.Calories = &c
	}
	return patch, nil
}

// decodeBody fills v and returns the raw top-level members, which is the only
// way to tell an explicit null from an absent field.
func decodeBody(r io.Reader, v any) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &ValidationError{Message: MsgInvalidJSON}
	}

	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, fieldError(typeErr.Field)
		}
		return nil, &ValidationError{Message: MsgInvalidJSON}
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(body, &present); err != nil {
		return nil, &ValidationError{Message: MsgInvalidJSON}
	}
	return present, nil
}

// rejectNulls fails on the first listed field sent as an explicit null
func rejectNulls(present map[string]json.RawMessage, fields ...string) error {
	for _, f := range fields {
		if isNull(present[f]) {
			return fieldError(f)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func translate(err error, create bool) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate meal: %w", err)
	}

	fe := verrs[0]
	switch {
	case fe.Tag() == "required" && create:
		return &ValidationError{Field: fe.Field(), Message: MsgMissingMealFields}
	case fe.Tag() == "isodate":
		return &ValidationError{Field: fe.Field(), Message: MsgInvalidDate}
	default:
		return fieldError(fe.Field())
	}
}

func fieldError(field string) *ValidationError {
	var msg string
	switch field {
	case "date":
		msg = MsgInvalidDate
	case "name":
		msg = "Name must be a non-empty string"
	case "description":
		msg = "Description must be a string"
	case "calories":
		msg = "Calories must be a non-negative integer"
	case "protein":
		msg = "Protein must be a non-negative number"
	case "carbs":
		msg = "Carbs must be a non-negative number"
	case "fat":
		msg = "Fat must be a non-negative number"
	default:
		msg = MsgInvalidJSON
	}
	return &ValidationError{Field: field, Message: msg}
}
