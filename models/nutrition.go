package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

type PlanMeal struct {
	Name  string   `json:"name" yaml:"name" binding:"required"`
	Items []string `json:"items" yaml:"items"`
}

type NutritionPlan struct {
	ID             string     `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name" binding:"required"`
	TargetCalories float64    `json:"targetCalories" yaml:"targetCalories" binding:"gte=0"`
	TargetProtein  float64    `json:"targetProtein" yaml:"targetProtein" binding:"gte=0"`
	TargetCarbs    float64    `json:"targetCarbs" yaml:"targetCarbs" binding:"gte=0"`
	TargetFat      float64    `json:"targetFat" yaml:"targetFat" binding:"gte=0"`
	Meals          []PlanMeal `json:"meals" yaml:"meals" binding:"dive"`
}

type NutritionPlanPatch struct {
	Name           *string     `json:"name" binding:"omitempty,min=1"`
	TargetCalories *float64    `json:"targetCalories" binding:"omitempty,gte=0"`
	TargetProtein  *float64    `json:"targetProtein" binding:"omitempty,gte=0"`
	TargetCarbs    *float64    `json:"targetCarbs" binding:"omitempty,gte=0"`
	TargetFat      *float64    `json:"targetFat" binding:"omitempty,gte=0"`
	Meals          *[]PlanMeal `json:"meals" binding:"omitempty,dive"`
}

type NutritionPlanRecord struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey"`
	UserID         string         `gorm:"column:user_id;type:uuid;index;not null"`
	Name           string         `gorm:"column:name;not null"`
	TargetCalories float64        `gorm:"column:target_calories"`
	TargetProtein  float64        `gorm:"column:target_protein"`
	TargetCarbs    float64        `gorm:"column:target_carbs"`
	TargetFat      float64        `gorm:"column:target_fat"`
	Meals          datatypes.JSON `gorm:"column:meals;type:jsonb"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (NutritionPlanRecord) TableName() string { return "nutrition_plans" }

// MealEntry is one logged food item of a day.
type MealEntry struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name" binding:"required"`
	Calories float64 `json:"calories" yaml:"calories" binding:"gte=0"`
	Protein  float64 `json:"protein" yaml:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" yaml:"carbs" binding:"gte=0"`
	Fat      float64 `json:"fat" yaml:"fat" binding:"gte=0"`
	MealType string  `json:"mealType" yaml:"mealType" binding:"required,oneof=breakfast lunch dinner snack"`
}

// DailyNutrition is the food log of one user for one date (YYYY-MM-DD).
type DailyNutrition struct {
	ID             string      `json:"id,omitempty"`
	Date           string      `json:"date"`
	TargetCalories float64     `json:"targetCalories"`
	Entries        []MealEntry `json:"entries"`
}

type DailyNutritionRecord struct {
	ID             string            `gorm:"column:id;type:uuid;primaryKey"`
	UserID         string            `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_daily_nutrition_user_date"`
	Date           string            `gorm:"column:date;size:10;not null;uniqueIndex:idx_daily_nutrition_user_date"`
	TargetCalories float64           `gorm:"column:target_calories"`
	Entries        []MealEntryRecord `gorm:"foreignKey:DailyNutritionID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at"`
}

func (DailyNutritionRecord) TableName() string { return "daily_nutrition" }

type MealEntryRecord struct {
	ID               string    `gorm:"column:id;type:uuid;primaryKey"`
	DailyNutritionID string    `gorm:"column:daily_nutrition_id;type:uuid;index;not null"`
	UserID           string    `gorm:"column:user_id;type:uuid;index;not null"`
	Name             string    `gorm:"column:name;not null"`
	Calories         float64   `gorm:"column:calories"`
	Protein          float64   `gorm:"column:protein"`
	Carbs            float64   `gorm:"column:carbs"`
	Fat              float64   `gorm:"column:fat"`
	MealType         string    `gorm:"column:meal_type"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (MealEntryRecord) TableName() string { return "meal_entries" }

func NutritionPlanToRecord(userID string, p NutritionPlan) NutritionPlanRecord {
	return NutritionPlanRecord{
		ID:             p.ID,
		UserID:         userID,
		Name:           p.Name,
		TargetCalories: p.TargetCalories,
		TargetProtein:  p.TargetProtein,
		TargetCarbs:    p.TargetCarbs,
		TargetFat:      p.TargetFat,
		Meals:          mealsJSON(p.Meals),
	}
}

func NutritionPlanFromRecord(r NutritionPlanRecord) NutritionPlan {
	p := NutritionPlan{
		ID:             r.ID,
		Name:           r.Name,
		TargetCalories: r.TargetCalories,
		TargetProtein:  r.TargetProtein,
		TargetCarbs:    r.TargetCarbs,
		TargetFat:      r.TargetFat,
		Meals:          []PlanMeal{},
	}
	if len(r.Meals) > 0 {
		// a malformed column reads as a plan without meals
		_ = json.Unmarshal(r.Meals, &p.Meals)
	}
	return p
}

func mealsJSON(meals []PlanMeal) datatypes.JSON {
	if meals == nil {
		meals = []PlanMeal{}
	}
	b, _ := json.Marshal(meals)
	return datatypes.JSON(b)
}

func (pp NutritionPlanPatch) Apply(p NutritionPlan) NutritionPlan {
	p = p.Clone()
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.TargetCalories != nil {
		p.TargetCalories = *pp.TargetCalories
	}
	if pp.TargetProtein != nil {
		p.TargetProtein = *pp.TargetProtein
	}
	if pp.TargetCarbs != nil {
		p.TargetCarbs = *pp.TargetCarbs
	}
	if pp.TargetFat != nil {
		p.TargetFat = *pp.TargetFat
	}
	if pp.Meals != nil {
		p.Meals = cloneMeals(*pp.Meals)
	}
	return p
}

func (pp NutritionPlanPatch) Columns() map[string]any {
	cols := map[string]any{}
	if pp.Name != nil {
		cols["name"] = *pp.Name
	}
	if pp.TargetCalories != nil {
		cols["target_calories"] = *pp.TargetCalories
	}
	if pp.TargetProtein != nil {
		cols["target_protein"] = *pp.TargetProtein
	}
	if pp.TargetCarbs != nil {
		cols["target_carbs"] = *pp.TargetCarbs
	}
	if pp.TargetFat != nil {
		cols["target_fat"] = *pp.TargetFat
	}
	if pp.Meals != nil {
		cols["meals"] = mealsJSON(*pp.Meals)
	}
	return cols
}

func MealEntryToRecord(userID, dailyID string, e MealEntry) MealEntryRecord {
	return MealEntryRecord{
		ID:               e.ID,
		DailyNutritionID: dailyID,
		UserID:           userID,
		Name:             e.Name,
		Calories:         e.Calories,
		Protein:          e.Protein,
		Carbs:            e.Carbs,
		Fat:              e.Fat,
		MealType:         e.MealType,
	}
}

func MealEntryFromRecord(r MealEntryRecord) MealEntry {
	return MealEntry{
		ID:       r.ID,
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		MealType: r.MealType,
	}
}

func DailyNutritionFromRecord(r DailyNutritionRecord) DailyNutrition {
	d := DailyNutrition{
		ID:             r.ID,
		Date:           r.Date,
		TargetCalories: r.TargetCalories,
		Entries:        make([]MealEntry, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		d.Entries = append(d.Entries, MealEntryFromRecord(e))
	}
	return d
}

func DailyNutritionToRecord(userID string, d DailyNutrition) DailyNutritionRecord {
	rec := DailyNutritionRecord{
		ID:             d.ID,
		UserID:         userID,
		Date:           d.Date,
		TargetCalories: d.TargetCalories,
	}
	for _, e := range d.Entries {
		rec.Entries = append(rec.Entries, MealEntryToRecord(userID, d.ID, e))
	}
	return rec
}

// NutritionTotals is what the calorie tracker shows for a day.
type NutritionTotals struct {
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	Remaining float64 `json:"remaining"`
	Progress  float64 `json:"progress"` // percent of target, capped at 100
}

func (d DailyNutrition) Totals() NutritionTotals {
	var t NutritionTotals
	for _, e := range d.Entries {
		t.Calories += e.Calories
		t.Protein += e.Protein
		t.Carbs += e.Carbs
		t.Fat += e.Fat
	}
	t.Remaining = d.TargetCalories - t.Calories
	if d.TargetCalories > 0 {
		t.Progress = min(t.Calories/d.TargetCalories*100, 100)
	}
	return t
}

func (d DailyNutrition) Clone() DailyNutrition {
	entries := make([]MealEntry, len(d.Entries))
	copy(entries, d.Entries)
	d.Entries = entries
	return d
}

func (p NutritionPlan) Clone() NutritionPlan {
	p.Meals = cloneMeals(p.Meals)
	return p
}

func CloneNutritionPlans(in []NutritionPlan) []NutritionPlan {
	out := make([]NutritionPlan, 0, len(in))
	for _, p := range in {
		out = append(out, p.Clone())
	}
	return out
}

func cloneMeals(in []PlanMeal) []PlanMeal {
	out := make([]PlanMeal, 0, len(in))
	for _, m := range in {
		items := make([]string, len(m.Items))
		copy(items, m.Items)
		out = append(out, PlanMeal{Name: m.Name, Items: items})
	}
	return out
}
