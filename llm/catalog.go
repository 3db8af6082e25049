package llm

import "github.com/danielhkuo/calorie-tracker/models"

// DefaultModel is used when neither the request nor the config names one
const DefaultModel = "deepseek/deepseek-chat-v3.1:free"

var catalog = []models.ModelInfo{
	{ID: DefaultModel, Name: "DeepSeek V3.1 (Free)", Description: "DeepSeek's latest chat model - Free tier"},
	{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast and efficient OpenAI model"},
	{ID: "openai/gpt-4o", Name: "GPT-4o", Description: "Latest GPT-4 model"},
	{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Description: "Fast Anthropic model"},
	{ID: "anthropic/claude-3-sonnet", Name: "Claude 3 Sonnet", Description: "Balanced Anthropic model"},
	{ID: "google/gemini-pro", Name: "Gemini Pro", Description: "Google AI model"},
}

// Models returns a copy of the selectable model catalogue
func Models() []models.ModelInfo {
	out := make([]models.ModelInfo, len(catalog))
	copy(out, catalog)
	return out
}
