package models

// WeightGoalStart is the reference starting weight of the weight goal card, in kg.
const WeightGoalStart = 90.0

type ProfileProgress struct {
	Level           int      `json:"level"`
	NextLevel       int      `json:"nextLevel"`
	XP              int      `json:"xp"`
	XPToNextLevel   int      `json:"xpToNextLevel"`
	LevelProgress   float64  `json:"levelProgress"`
	WeightProgress  float64  `json:"weightProgress"`
	WeightRemaining float64  `json:"weightRemaining"`
	BMI             *float64 `json:"bmi,omitempty"`
	BMICategory     string   `json:"bmiCategory,omitempty"`
}

// LevelProgress is xp as a percentage of xpToNextLevel.
func (p Profile) LevelProgress() float64 {
	if p.XPToNextLevel <= 0 {
		return 0
	}
	return float64(p.XP) / float64(p.XPToNextLevel) * 100
}

// WeightGoalProgress is the share of the way from WeightGoalStart to the target weight,
// clamped to 0..100.
func (p Profile) WeightGoalProgress() float64 {
	total := WeightGoalStart - p.TargetWeight
	if total == 0 {
		return 0
	}
	lost := WeightGoalStart - p.Weight
	return max(min(lost/total*100, 100), 0)
}

func (p Profile) Progress() ProfileProgress {
	return ProfileProgress{
		Level:           p.Level,
		NextLevel:       p.Level + 1,
		XP:              p.XP,
		XPToNextLevel:   p.XPToNextLevel,
		LevelProgress:   p.LevelProgress(),
		WeightProgress:  p.WeightGoalProgress(),
		WeightRemaining: p.Weight - p.TargetWeight,
	}
}
