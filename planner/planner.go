// Package planner derives starter exercise plans from a profile and answers "what is
// today's workout". Everything here is pure and deterministic.
package planner

import (
	"strings"
	"time"

	"fitquest/models"
)

// Weighted exercises in the muscle plans start at their base weight and grow by
// WeightPerLevel kg for every profile level.
const WeightPerLevel = 5.0

// Generate returns the starter plans for p.Objective. An objective naming both goals gets
// the weight-loss plans first; one naming neither gets none.
func Generate(p models.Profile) []models.ExercisePlan {
	plans := []models.ExercisePlan{}

	if strings.Contains(p.Objective, models.ObjectiveLoseWeight) {
		plans = append(plans,
			models.ExercisePlan{
				ID:        "cw1",
				Name:      "Cardio & Core",
				DayOfWeek: time.Monday.String(),
				Exercises: []models.Exercise{
					{ID: "e1", Name: "Running", Sets: 1, Reps: 30, BodyPart: models.BodyPartLegs},
					{ID: "e2", Name: "Plank", Sets: 3, Reps: 1, BodyPart: models.BodyPartCore},
				},
			},
			models.ExercisePlan{
				ID:        "cw2",
				Name:      "HIIT & Abs",
				DayOfWeek: time.Wednesday.String(),
				Exercises: []models.Exercise{
					{ID: "e3", Name: "Jumping Jacks", Sets: 3, Reps: 50, BodyPart: models.BodyPartFullBody},
					{ID: "e4", Name: "Crunches", Sets: 3, Reps: 20, BodyPart: models.BodyPartCore},
				},
			},
		)
	}

	if strings.Contains(p.Objective, models.ObjectiveBuildMuscle) {
		extra := float64(p.Level) * WeightPerLevel
		plans = append(plans,
			models.ExercisePlan{
				ID:        "mm1",
				Name:      "Push Day",
				DayOfWeek: time.Tuesday.String(),
				Exercises: []models.Exercise{
					{ID: "e5", Name: "Bench Press", Sets: 4, Reps: 10, Weight: 50 + extra, BodyPart: models.BodyPartChest},
					{ID: "e6", Name: "Overhead Press", Sets: 3, Reps: 12, Weight: 20 + extra, BodyPart: models.BodyPartShoulders},
				},
			},
			models.ExercisePlan{
				ID:        "mm2",
				Name:      "Pull Day",
				DayOfWeek: time.Thursday.String(),
				Exercises: []models.Exercise{
					{ID: "e7", Name: "Deadlift", Sets: 4, Reps: 8, Weight: 60 + extra, BodyPart: models.BodyPartBack},
					{ID: "e8", Name: "Pull-ups", Sets: 3, Reps: 10, BodyPart: models.BodyPartBack},
				},
			},
		)
	}

	return plans
}

// TodaysPlan returns the first plan scheduled on now's weekday.
func TodaysPlan(plans []models.ExercisePlan, now time.Time) (models.ExercisePlan, bool) {
	day := now.Weekday().String()
	for _, p := range plans {
		if p.DayOfWeek == day {
			return p.Clone(), true
		}
	}
	return models.ExercisePlan{}, false
}

// BodyPartsForToday lists the distinct body parts of today's plan in first-seen order.
func BodyPartsForToday(plans []models.ExercisePlan, now time.Time) []string {
	parts := []string{}
	plan, ok := TodaysPlan(plans, now)
	if !ok {
		return parts
	}
	seen := make(map[string]bool, len(plan.Exercises))
	for _, e := range plan.Exercises {
		if !seen[e.BodyPart] {
			seen[e.BodyPart] = true
			parts = append(parts, e.BodyPart)
		}
	}
	return parts
}
