package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fitquest/models"
	"fitquest/observability"

	"github.com/go-playground/validator/v10"
	"github.com/tmc/langchaingo/prompts"
)

// Messages returned to clients when the model call or its output fails.
const (
	ChatFailedMessage   = "Failed to get response from AI"
	RecipeFailedMessage = "Failed to generate recipe"
)

var ErrInvalidRecipe = errors.New("model returned an invalid recipe")

const nutriBotPrompt = `You are a nutrition and diet expert assistant named "NutriBot". Your role is to help users with:
- Meal planning and nutrition advice
- Calorie counting and macro tracking
- Healthy eating habits and diet recommendations
- Food choices and nutritional information
- Recipe suggestions and cooking tips
- Weight management advice
- Understanding food labels and ingredients
- Sports nutrition and fitness diet

Always provide helpful, accurate, and evidence-based nutrition advice. Be friendly and encouraging. If a question is outside your nutrition expertise, politely redirect to nutrition-related topics.

When providing nutritional information, use metric units (grams, calories, etc.) by default.`

const recipeTemplate = `Generate a healthy recipe based on these constraints:

Available ingredients: {{.ingredients}}
Budget: {{.budget}}
{{if .preferences}}Dietary preferences: {{.preferences}}{{end}}

Create a nutritious, budget-friendly recipe that uses the provided ingredients. Include accurate nutritional information and cost estimates. Make it practical and easy to follow.

Respond with a single JSON object and nothing else, in this format:
{
	"name": string,
	"description": string,
	"servings": number,
	"prepTime": string,
	"cookTime": string,
	"calories": number,
	"protein": number,
	"carbs": number,
	"fat": number,
	"ingredients": [{"item": string, "amount": string}],
	"instructions": [string],
	"estimatedCost": string
}`

// ChatMessage is one turn of the client-held conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

type RecipeRequest struct {
	Ingredients        string `json:"ingredients" binding:"required"`
	Budget             string `json:"budget" binding:"required"`
	DietaryPreferences string `json:"dietaryPreferences"`
}

// Assistant answers nutrition questions and generates recipes. It keeps no conversation
// state: every call carries the whole history.
type Assistant struct {
	gen      Generator
	recipe   prompts.PromptTemplate
	validate *validator.Validate
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAssistant builds an Assistant on gen. A zero timeout leaves the request context as is.
func NewAssistant(gen Generator, timeout time.Duration, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		gen:      gen,
		recipe:   prompts.NewPromptTemplate(recipeTemplate, []string{"ingredients", "budget", "preferences"}),
		validate: validator.New(),
		timeout:  timeout,
		logger:   logger.With("component", "assistant"),
	}
}

// ChatPrompt renders the conversation into the single prompt sent to the model.
func ChatPrompt(messages []ChatMessage) string {
	var sb strings.Builder
	sb.WriteString(nutriBotPrompt)
	sb.WriteString("\n\nConversation:\n")
	for i, m := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		speaker := "Assistant"
		if m.Role == "user" {
			speaker = "User"
		}
		fmt.Fprintf(&sb, "%s: %s", speaker, m.Content)
	}
	sb.WriteString("\n\nAssistant:")
	return sb.String()
}

func (a *Assistant) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	text, err := a.gen.Generate(ctx, ChatPrompt(messages), false)
	a.observe("chat", start, err)
	if err != nil {
		a.logger.ErrorContext(ctx, "chat failed", "error", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (a *Assistant) RecipePrompt(req RecipeRequest) (string, error) {
	return a.recipe.Format(map[string]any{
		"ingredients": req.Ingredients,
		"budget":      req.Budget,
		"preferences": req.DietaryPreferences,
	})
}

// GenerateRecipe asks the model for a recipe in JSON and validates what comes back.
func (a *Assistant) GenerateRecipe(ctx context.Context, req RecipeRequest) (models.Recipe, error) {
	prompt, err := a.RecipePrompt(req)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("render recipe prompt: %w", err)
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	text, err := a.gen.Generate(ctx, prompt, true)
	if err == nil {
		var recipe models.Recipe
		recipe, err = a.parseRecipe(text)
		a.observe("recipe", start, err)
		if err == nil {
			return recipe, nil
		}
	} else {
		a.observe("recipe", start, err)
	}
	a.logger.ErrorContext(ctx, "recipe generation failed", "error", err)
	return models.Recipe{}, err
}

func (a *Assistant) parseRecipe(text string) (models.Recipe, error) {
	var recipe models.Recipe
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}
	if err := a.validate.Struct(recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}
	recipe.ID = ""
	return recipe, nil
}

// StripCodeFence removes a surrounding ``` or ```json markdown fence.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (a *Assistant) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *Assistant) observe(feature string, start time.Time, err error) {
	observability.AIDuration.WithLabelValues(feature).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.AIRequests.WithLabelValues(feature, status).Inc()
}
