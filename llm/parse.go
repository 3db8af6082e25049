// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/danielhkuo/calorie-tracker/models"
)

// Outcome says how an estimate was obtained from model output
type Outcome int

const (
	// OutcomeFailed means neither structured parsing nor digit extraction worked
	OutcomeFailed Outcome = iota
	// OutcomeValid means the content was a well-formed estimate
	OutcomeValid
	// OutcomeFallback means only a calorie figure could be salvaged
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// FallbackReasoning marks estimates salvaged from an unusable response
const FallbackReasoning = "Estimated from partial response - macronutrients unavailable"

// Result is the parsed form of one model response. Estimate is only
// meaningful when Outcome is not OutcomeFailed.
type Result struct {
	Outcome  Outcome
	Estimate models.Estimate
}

var firstNumber = regexp.MustCompile(`\d+`)

type rawEstimate struct {
	Calories   *float64        `json:"calories"`
	Protein    *float64        `json:"protein"`
	Carbs      *float64        `json:"carbs"`
	Fat        *float64        `json:"fat"`
	Confidence *string         `json:"confidence"`
	Reasoning  json.RawMessage `json:"reasoning"`
}

// ParseContent turns model output into a Result. Well-formed JSON (bare or
// wrapped in prose or code fences) yields OutcomeValid with negatives clamped
// to zero. Anything else falls back to the first run of digits as calories.
func ParseContent(content string) Result {
	trimmed := strings.TrimSpace(content)
	candidates := []string{trimmed}
	if obj, ok := extractObject(trimmed); ok && obj != trimmed {
		candidates = append(candidates, obj)
	}

	for _, c := range candidates {
		if est, ok := parseStructured(c); ok {
			return Result{Outcome: OutcomeValid, Estimate: est}
		}
	}

	// Parsed as a float so a digit run past int64 still yields a number
	if m := firstNumber.FindString(content); m != "" {
		calories, err := strconv.ParseFloat(m, 64)
		if err == nil {
			return Result{
				Outcome: OutcomeFallback,
				Estimate: models.Estimate{
					Calories:   calories,
					Confidence: models.ConfidenceLow,
					Reasoning:  FallbackReasoning,
				},
			}
		}
	}

	return Result{Outcome: OutcomeFailed}
}

func parseStructured(s string) (models.Estimate, bool) {
	var raw rawEstimate
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return models.Estimate{}, false
	}
	if raw.Calories == nil || raw.Protein == nil || raw.Carbs == nil || raw.Fat == nil {
		return models.Estimate{}, false
	}
	if raw.Confidence == nil || !validConfidence(*raw.Confidence) {
		return models.Estimate{}, false
	}

	est := models.Estimate{
		Calories:   clamp(*raw.Calories),
		Protein:    clamp(*raw.Protein),
		Carbs:      clamp(*raw.Carbs),
		Fat:        clamp(*raw.Fat),
		Confidence: *raw.Confidence,
	}

	// reasoning is optional and only kept when it is a string
	var reasoning string
	if len(raw.Reasoning) > 0 && json.Unmarshal(raw.Reasoning, &reasoning) == nil {
		est.Reasoning = reasoning
	}

	return est, true
}

func validConfidence(c string) bool {
	switch c {
	case models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow:
		return true
	}
	return false
}

func clamp(v float64) float64 {
	return math.Max(v, 0)
}

// extractObject strips code fences and returns the outermost {...} span
func extractObject(s string) (string, bool) {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
