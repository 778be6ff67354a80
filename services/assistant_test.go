package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply    string
	err      error
	prompt   string
	jsonMode bool
	wait     time.Duration
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	f.prompt, f.jsonMode = prompt, jsonMode
	if f.wait > 0 {
		select {
		case <-time.After(f.wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

const bowlJSON = `{
	"name": "Chicken Rice Bowl",
	"description": "A quick high protein bowl.",
	"servings": 2,
	"prepTime": "10 minutes",
	"cookTime": "20 minutes",
	"calories": 540,
	"protein": 42,
	"carbs": 60,
	"fat": 12,
	"ingredients": [{"item": "chicken breast", "amount": "300 g"}, {"item": "rice", "amount": "150 g"}],
	"instructions": ["Cook the rice.", "Grill the chicken.", "Serve together."],
	"estimatedCost": "$9"
}`

func TestChatPromptFormat(t *testing.T) {
	prompt := ChatPrompt([]ChatMessage{
		{Role: "user", Content: "How much protein do I need?"},
		{Role: "assistant", Content: "About 1.6 g per kg."},
		{Role: "user", Content: "And fat?"},
	})

	assert.True(t, strings.HasPrefix(prompt, "You are a nutrition and diet expert assistant named \"NutriBot\"."))
	assert.True(t, strings.HasSuffix(prompt,
		"\n\nConversation:\nUser: How much protein do I need?\nAssistant: About 1.6 g per kg.\nUser: And fat?\n\nAssistant:"))
}

func TestChat(t *testing.T) {
	gen := &fakeGenerator{reply: "  Around 0.8 g per kg.\n"}
	a := NewAssistant(gen, 0, nil)

	text, err := a.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "And fat?"}})
	require.NoError(t, err)
	assert.Equal(t, "Around 0.8 g per kg.", text)
	assert.False(t, gen.jsonMode)

	// an empty conversation still reaches the model
	gen.reply = "Hi, I'm NutriBot."
	text, err = a.Chat(context.Background(), []ChatMessage{})
	require.NoError(t, err)
	assert.Equal(t, "Hi, I'm NutriBot.", text)
	assert.True(t, strings.HasSuffix(gen.prompt, "\n\nConversation:\n\n\nAssistant:"))

	gen.err = errors.New("rate limited")
	_, err = a.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}

func TestChatTimeout(t *testing.T) {
	gen := &fakeGenerator{reply: "late", wait: time.Second}
	a := NewAssistant(gen, 10*time.Millisecond, nil)

	_, err := a.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecipePrompt(t *testing.T) {
	a := NewAssistant(&fakeGenerator{}, 0, nil)

	prompt, err := a.RecipePrompt(RecipeRequest{Ingredients: "chicken, rice", Budget: "$15"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Available ingredients: chicken, rice\nBudget: $15\n")
	assert.NotContains(t, prompt, "Dietary preferences")

	prompt, err = a.RecipePrompt(RecipeRequest{Ingredients: "tofu", Budget: "$10", DietaryPreferences: "vegan"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Dietary preferences: vegan")
}

func TestGenerateRecipe(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr bool
	}{
		{name: "plain json", reply: bowlJSON},
		{name: "fenced json", reply: "```json\n" + bowlJSON + "\n```"},
		{name: "bare fence", reply: "```\n" + bowlJSON + "\n```"},
		{name: "not json", reply: "Here is a recipe: rice.", wantErr: true},
		{name: "no ingredients", reply: `{"name":"x","description":"y","servings":1,"prepTime":"1","cookTime":"1","calories":1,"ingredients":[],"instructions":["a"],"estimatedCost":"$1"}`, wantErr: true},
		{name: "zero calories", reply: `{"name":"x","description":"y","servings":1,"prepTime":"1","cookTime":"1","calories":0,"ingredients":[{"item":"rice","amount":"1 cup"}],"instructions":["a"],"estimatedCost":"$1"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: tt.reply}
			a := NewAssistant(gen, 0, nil)

			recipe, err := a.GenerateRecipe(context.Background(), RecipeRequest{Ingredients: "chicken, rice", Budget: "$15"})
			assert.True(t, gen.jsonMode)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRecipe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Chicken Rice Bowl", recipe.Name)
			assert.NotEmpty(t, recipe.Ingredients)
			assert.Positive(t, recipe.Calories)
			assert.Len(t, recipe.Instructions, 3)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("  {\"a\":1}  "))
}
