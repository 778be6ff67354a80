package models

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seed struct {
	Profile             Profile         `yaml:"profile"`
	DailyTargetCalories float64         `yaml:"dailyTargetCalories"`
	Missions            []Mission       `yaml:"missions"`
	TrainingLogs        []TrainingLog   `yaml:"trainingLogs"`
	NutritionPlans      []NutritionPlan `yaml:"nutritionPlans"`
}

var defaults = mustLoadSeed(defaultsYAML)

func mustLoadSeed(raw []byte) seed {
	var s seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		panic(fmt.Sprintf("models: invalid embedded defaults: %v", err))
	}
	return s
}

// The Default* accessors return fresh copies; callers may mutate them.

func DefaultProfile() Profile { return defaults.Profile }

func DefaultMissions() []Mission { return CloneMissions(defaults.Missions) }

func DefaultTrainingLogs() []TrainingLog { return CloneLogs(defaults.TrainingLogs) }

func DefaultNutritionPlans() []NutritionPlan { return CloneNutritionPlans(defaults.NutritionPlans) }

func DefaultTargetCalories() float64 { return defaults.DailyTargetCalories }

// DefaultDailyNutrition is an empty log for date with the default calorie target.
func DefaultDailyNutrition(date string) DailyNutrition {
	return DailyNutrition{
		Date:           date,
		TargetCalories: defaults.DailyTargetCalories,
		Entries:        []MealEntry{},
	}
}
