package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProfileMapping(t *testing.T) {
	p := Profile{
		ID:                 "u1",
		Name:               "Ana",
		Email:              "ana@example.com",
		Age:                31,
		Weight:             68.5,
		TargetWeight:       64,
		Height:             170,
		Objective:          "Lose Weight",
		Level:              3,
		XP:                 120,
		XPToNextLevel:      1000,
		WorkoutDaysPerWeek: 4,
		WorkoutDuration:    45,
	}

	rec := ProfileToRecord("u1", p)
	assert.Equal(t, "u1", rec.ID)
	assert.Equal(t, 64.0, rec.TargetWeight)
	assert.Equal(t, 1000, rec.XPToNextLevel)
	assert.Equal(t, p, ProfileFromRecord(rec))
}

func TestProfilePatchColumnsUseSnakeCase(t *testing.T) {
	patch := ProfilePatch{
		TargetWeight:  ptr(60.0),
		XPToNextLevel: ptr(1500),
		Name:          ptr("Bo"),
	}

	cols := patch.Columns()
	assert.Equal(t, map[string]any{
		"target_weight":    60.0,
		"xp_to_next_level": 1500,
		"name":             "Bo",
	}, cols)

	applied := patch.Apply(DefaultProfile())
	assert.Equal(t, 60.0, applied.TargetWeight)
	assert.Equal(t, 1500, applied.XPToNextLevel)
	assert.Equal(t, "Bo", applied.Name)
	assert.Equal(t, DefaultProfile().Age, applied.Age)
}

func TestExercisePlanMappingKeepsOrder(t *testing.T) {
	plan := ExercisePlan{
		ID:        "p1",
		Name:      "Push Day",
		DayOfWeek: "Tuesday",
		Exercises: []Exercise{
			{ID: "e1", Name: "Bench Press", Sets: 4, Reps: 10, Weight: 85, BodyPart: BodyPartChest},
			{ID: "e2", Name: "Overhead Press", Sets: 3, Reps: 12, Weight: 55, BodyPart: BodyPartShoulders, Completed: true},
		},
	}

	rec := ExercisePlanToRecord("u1", plan)
	require.Len(t, rec.Exercises, 2)
	assert.Equal(t, "p1", rec.Exercises[1].PlanID)
	assert.Equal(t, "u1", rec.Exercises[1].UserID)
	assert.Equal(t, 1, rec.Exercises[1].Position)
	assert.Equal(t, BodyPartShoulders, rec.Exercises[1].BodyPart)

	assert.Equal(t, plan, ExercisePlanFromRecord(rec))
}

func TestExercisePlanPatchDoesNotAliasInput(t *testing.T) {
	exercises := []Exercise{{ID: "e1", Name: "Squats", BodyPart: BodyPartLegs}}
	plan := ExercisePlan{ID: "p1", Name: "Leg Day", DayOfWeek: "Friday"}

	updated := ExercisePlanPatch{Exercises: &exercises}.Apply(plan)
	exercises[0].Name = "changed"

	assert.Equal(t, "Squats", updated.Exercises[0].Name)
	assert.Empty(t, ExercisePlanPatch{Exercises: &exercises}.Columns())
}

func TestTrainingLogSnapshotMapping(t *testing.T) {
	log := TrainingLog{
		ID:       "l1",
		Date:     "2026-02-12",
		PlanName: "Push Day",
		Duration: 62,
		Exercises: []Exercise{
			{ID: "x1", Name: "Bench Press", Sets: 4, Reps: 10, Weight: 80, BodyPart: BodyPartChest, Completed: true},
		},
	}

	rec := TrainingLogToRecord("u1", log)
	assert.Equal(t, "Push Day", rec.PlanName)
	require.Len(t, rec.Exercises, 1)
	assert.Equal(t, "l1", rec.Exercises[0].LogID)
	assert.Equal(t, log, TrainingLogFromRecord(rec))
}

func TestNutritionPlanMealsRoundTripThroughJSONColumn(t *testing.T) {
	plan := DefaultNutritionPlans()[0]

	rec := NutritionPlanToRecord("u1", plan)
	assert.JSONEq(t, `[
		{"name":"Breakfast","items":["Oats with banana","Protein shake"]},
		{"name":"Lunch","items":["Chicken breast","Brown rice","Broccoli"]},
		{"name":"Dinner","items":["Salmon","Sweet potato","Asparagus"]}
	]`, string(rec.Meals))
	assert.Equal(t, plan, NutritionPlanFromRecord(rec))

	cols := NutritionPlanPatch{TargetFat: ptr(60.0)}.Columns()
	assert.Equal(t, map[string]any{"target_fat": 60.0}, cols)
}

func TestDailyNutritionMappingAndTotals(t *testing.T) {
	day := DailyNutrition{
		ID:             "d1",
		Date:           "2026-02-13",
		TargetCalories: 2000,
		Entries: []MealEntry{
			{ID: "a", Name: "Oatmeal", Calories: 350, Protein: 12, Carbs: 55, Fat: 8, MealType: MealBreakfast},
			{ID: "b", Name: "Apple", Calories: 95, Carbs: 25, MealType: MealSnack},
		},
	}

	rec := DailyNutritionToRecord("u1", day)
	require.Len(t, rec.Entries, 2)
	assert.Equal(t, "d1", rec.Entries[0].DailyNutritionID)
	assert.Equal(t, MealSnack, rec.Entries[1].MealType)
	assert.Equal(t, day, DailyNutritionFromRecord(rec))

	totals := day.Totals()
	assert.Equal(t, 445.0, totals.Calories)
	assert.Equal(t, 80.0, totals.Carbs)
	assert.Equal(t, 1555.0, totals.Remaining)
	assert.InDelta(t, 22.25, totals.Progress, 0.001)
}

func TestTotalsProgressIsCapped(t *testing.T) {
	day := DailyNutrition{TargetCalories: 100, Entries: []MealEntry{{Calories: 250}}}
	totals := day.Totals()
	assert.Equal(t, 100.0, totals.Progress)
	assert.Equal(t, -150.0, totals.Remaining)

	assert.Zero(t, DailyNutrition{}.Totals().Progress)
}

func TestRecipeMapping(t *testing.T) {
	r := Recipe{
		ID:            "r1",
		Name:          "Chicken Rice Bowl",
		Description:   "Quick bowl",
		Servings:      2,
		PrepTime:      "10 min",
		CookTime:      "20 min",
		Calories:      540,
		Protein:       42,
		Carbs:         60,
		Fat:           12,
		Ingredients:   []Ingredient{{Item: "chicken", Amount: "300 g"}, {Item: "rice", Amount: "1 cup"}},
		Instructions:  []string{"Cook rice", "Grill chicken"},
		EstimatedCost: "$9",
	}

	rec := RecipeToRecord("u1", r)
	assert.JSONEq(t, `[{"item":"chicken","amount":"300 g"},{"item":"rice","amount":"1 cup"}]`, string(rec.Ingredients))
	assert.Equal(t, r, RecipeFromRecord(rec))
}

func TestDefaultsAreFreshCopies(t *testing.T) {
	missions := DefaultMissions()
	require.Len(t, missions, 5)
	missions[0].Completed = true
	assert.False(t, DefaultMissions()[0].Completed)

	logs := DefaultTrainingLogs()
	require.Len(t, logs, 3)
	logs[0].Exercises[0].Name = "changed"
	assert.Equal(t, "Bench Press", DefaultTrainingLogs()[0].Exercises[0].Name)

	assert.Equal(t, 2200.0, DefaultTargetCalories())
	day := DefaultDailyNutrition("2026-03-01")
	assert.Equal(t, "2026-03-01", day.Date)
	assert.Empty(t, day.Entries)
	assert.NotNil(t, day.Entries)
}

func TestProfileProgress(t *testing.T) {
	p := Profile{Level: 7, XP: 2340, XPToNextLevel: 3000, Weight: 82, TargetWeight: 75}
	prog := p.Progress()

	assert.Equal(t, 8, prog.NextLevel)
	assert.InDelta(t, 78.0, prog.LevelProgress, 0.001)
	assert.InDelta(t, 8.0/15.0*100, prog.WeightProgress, 0.001)
	assert.Equal(t, 7.0, prog.WeightRemaining)

	assert.Equal(t, 0.0, Profile{Weight: 95, TargetWeight: 75}.WeightGoalProgress())
	assert.Equal(t, 100.0, Profile{Weight: 70, TargetWeight: 75}.WeightGoalProgress())
	assert.Zero(t, Profile{}.LevelProgress())
}
