// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import "fmt"

// BuildPrompt asks the model for a single JSON object describing the food
func BuildPrompt(description string) string {
	return fmt.Sprintf(`You are a nutrition expert. Estimate the nutrition of the food below.

Food: %q

Respond with ONLY a JSON object and no other text before or after it.

Format (use your own numbers, not these):
{
  "calories": 450,
  "protein": 35.5,
  "carbs": 42.0,
  "fat": 15.2,
  "confidence": "high",
  "reasoning": "Based on typical portions"
}

Rules:
1. calories is a number of kilocalories
2. protein, carbs, and fat are numbers in grams
3. confidence must be exactly "high", "medium", or "low"
4. If several foods are mentioned, sum the values across all of them
5. Assume standard serving sizes when no portion is given
6. reasoning is optional and should be one short sentence`, description)
}
