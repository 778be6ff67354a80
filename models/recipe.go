package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Ingredient struct {
	Item   string `json:"item" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

// Recipe is the structured output of the recipe generator.
type Recipe struct {
	ID            string       `json:"id,omitempty"`
	Name          string       `json:"name" validate:"required"`
	Description   string       `json:"description" validate:"required"`
	Servings      int          `json:"servings" validate:"min=1"`
	PrepTime      string       `json:"prepTime" validate:"required"`
	CookTime      string       `json:"cookTime" validate:"required"`
	Calories      float64      `json:"calories" validate:"gt=0"`
	Protein       float64      `json:"protein" validate:"gte=0"`
	Carbs         float64      `json:"carbs" validate:"gte=0"`
	Fat           float64      `json:"fat" validate:"gte=0"`
	Ingredients   []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions  []string     `json:"instructions" validate:"required,min=1,dive,required"`
	EstimatedCost string       `json:"estimatedCost" validate:"required"`
}

type RecipeRecord struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey"`
	UserID        string         `gorm:"column:user_id;type:uuid;index;not null"`
	Name          string         `gorm:"column:name;not null"`
	Description   string         `gorm:"column:description"`
	Servings      int            `gorm:"column:servings"`
	PrepTime      string         `gorm:"column:prep_time"`
	CookTime      string         `gorm:"column:cook_time"`
	Calories      float64        `gorm:"column:calories"`
	Protein       float64        `gorm:"column:protein"`
	Carbs         float64        `gorm:"column:carbs"`
	Fat           float64        `gorm:"column:fat"`
	Ingredients   datatypes.JSON `gorm:"column:ingredients;type:jsonb"`
	Instructions  datatypes.JSON `gorm:"column:instructions;type:jsonb"`
	EstimatedCost string         `gorm:"column:estimated_cost"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (RecipeRecord) TableName() string { return "recipes" }

func RecipeToRecord(userID string, r Recipe) RecipeRecord {
	ingredients, _ := json.Marshal(nonNil(r.Ingredients))
	instructions, _ := json.Marshal(nonNil(r.Instructions))
	return RecipeRecord{
		ID:            r.ID,
		UserID:        userID,
		Name:          r.Name,
		Description:   r.Description,
		Servings:      r.Servings,
		PrepTime:      r.PrepTime,
		CookTime:      r.CookTime,
		Calories:      r.Calories,
		Protein:       r.Protein,
		Carbs:         r.Carbs,
		Fat:           r.Fat,
		Ingredients:   datatypes.JSON(ingredients),
		Instructions:  datatypes.JSON(instructions),
		EstimatedCost: r.EstimatedCost,
	}
}

func RecipeFromRecord(rec RecipeRecord) Recipe {
	r := Recipe{
		ID:            rec.ID,
		Name:          rec.Name,
		Description:   rec.Description,
		Servings:      rec.Servings,
		PrepTime:      rec.PrepTime,
		CookTime:      rec.CookTime,
		Calories:      rec.Calories,
		Protein:       rec.Protein,
		Carbs:         rec.Carbs,
		Fat:           rec.Fat,
		Ingredients:   []Ingredient{},
		Instructions:  []string{},
		EstimatedCost: rec.EstimatedCost,
	}
	if len(rec.Ingredients) > 0 {
		_ = json.Unmarshal(rec.Ingredients, &r.Ingredients)
	}
	if len(rec.Instructions) > 0 {
		_ = json.Unmarshal(rec.Instructions, &r.Instructions)
	}
	return r
}

func (r Recipe) Clone() Recipe {
	ingredients := make([]Ingredient, len(r.Ingredients))
	copy(ingredients, r.Ingredients)
	instructions := make([]string, len(r.Instructions))
	copy(instructions, r.Instructions)
	r.Ingredients = ingredients
	r.Instructions = instructions
	return r
}

func CloneRecipes(in []Recipe) []Recipe {
	out := make([]Recipe, 0, len(in))
	for _, r := range in {
		out = append(out, r.Clone())
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
