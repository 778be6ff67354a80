package models

import "time"

// Profile is the in-memory (camelCase) view of a user's profile.
type Profile struct {
	ID                 string  `json:"id,omitempty" yaml:"id"`
	Name               string  `json:"name" yaml:"name"`
	Email              string  `json:"email,omitempty" yaml:"email"`
	Age                int     `json:"age" yaml:"age"`
	Weight             float64 `json:"weight" yaml:"weight"`
	TargetWeight       float64 `json:"targetWeight" yaml:"targetWeight"`
	Height             float64 `json:"height" yaml:"height"`
	Objective          string  `json:"objective" yaml:"objective"`
	ProfilePicture     string  `json:"profilePicture" yaml:"profilePicture"`
	Level              int     `json:"level" yaml:"level"`
	XP                 int     `json:"xp" yaml:"xp"`
	XPToNextLevel      int     `json:"xpToNextLevel" yaml:"xpToNextLevel"`
	WorkoutDaysPerWeek int     `json:"workoutDaysPerWeek" yaml:"workoutDaysPerWeek"`
	WorkoutDuration    int     `json:"workoutDuration" yaml:"workoutDuration"` // minutes
}

// ProfileRecord is a row of the profiles table. The id is the hosted-auth user id.
type ProfileRecord struct {
	ID                 string    `gorm:"column:id;type:uuid;primaryKey"`
	Name               string    `gorm:"column:name"`
	Email              string    `gorm:"column:email;index"`
	Age                int       `gorm:"column:age"`
	Weight             float64   `gorm:"column:weight"`
	TargetWeight       float64   `gorm:"column:target_weight"`
	Height             float64   `gorm:"column:height"`
	Objective          string    `gorm:"column:objective"`
	ProfilePicture     string    `gorm:"column:profile_picture"`
	Level              int       `gorm:"column:level"`
	XP                 int       `gorm:"column:xp"`
	XPToNextLevel      int       `gorm:"column:xp_to_next_level"`
	WorkoutDaysPerWeek int       `gorm:"column:workout_days_per_week"`
	WorkoutDuration    int       `gorm:"column:workout_duration"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (ProfileRecord) TableName() string { return "profiles" }

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Name               *string  `json:"name" binding:"omitempty,min=1"`
	Age                *int     `json:"age" binding:"omitempty,gte=0,lte=130"`
	Weight             *float64 `json:"weight" binding:"omitempty,gt=0"`
	TargetWeight       *float64 `json:"targetWeight" binding:"omitempty,gt=0"`
	Height             *float64 `json:"height" binding:"omitempty,gt=0"`
	Objective          *string  `json:"objective"`
	ProfilePicture     *string  `json:"profilePicture"`
	Level              *int     `json:"level" binding:"omitempty,gte=1"`
	XP                 *int     `json:"xp" binding:"omitempty,gte=0"`
	XPToNextLevel      *int     `json:"xpToNextLevel" binding:"omitempty,gte=0"`
	WorkoutDaysPerWeek *int     `json:"workoutDaysPerWeek" binding:"omitempty,gte=0,lte=7"`
	WorkoutDuration    *int     `json:"workoutDuration" binding:"omitempty,gte=0"`
}

// NewProfileRecord is the row written at sign-up.
func NewProfileRecord(userID, email, name string) ProfileRecord {
	return ProfileRecord{
		ID:            userID,
		Email:         email,
		Name:          name,
		Age:           25,
		Weight:        70,
		TargetWeight:  70,
		Objective:     ObjectiveBuildMuscle,
		Level:         1,
		XP:            0,
		XPToNextLevel: 1000,
	}
}

func ProfileToRecord(userID string, p Profile) ProfileRecord {
	return ProfileRecord{
		ID:                 userID,
		Name:               p.Name,
		Email:              p.Email,
		Age:                p.Age,
		Weight:             p.Weight,
		TargetWeight:       p.TargetWeight,
		Height:             p.Height,
		Objective:          p.Objective,
		ProfilePicture:     p.ProfilePicture,
		Level:              p.Level,
		XP:                 p.XP,
		XPToNextLevel:      p.XPToNextLevel,
		WorkoutDaysPerWeek: p.WorkoutDaysPerWeek,
		WorkoutDuration:    p.WorkoutDuration,
	}
}

func ProfileFromRecord(r ProfileRecord) Profile {
	return Profile{
		ID:                 r.ID,
		Name:               r.Name,
		Email:              r.Email,
		Age:                r.Age,
		Weight:             r.Weight,
		TargetWeight:       r.TargetWeight,
		Height:             r.Height,
		Objective:          r.Objective,
		ProfilePicture:     r.ProfilePicture,
		Level:              r.Level,
		XP:                 r.XP,
		XPToNextLevel:      r.XPToNextLevel,
		WorkoutDaysPerWeek: r.WorkoutDaysPerWeek,
		WorkoutDuration:    r.WorkoutDuration,
	}
}

// Apply returns p with every non-nil patch field applied.
func (pp ProfilePatch) Apply(p Profile) Profile {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Age != nil {
		p.Age = *pp.Age
	}
	if pp.Weight != nil {
		p.Weight = *pp.Weight
	}
	if pp.TargetWeight != nil {
		p.TargetWeight = *pp.TargetWeight
	}
	if pp.Height != nil {
		p.Height = *pp.Height
	}
	if pp.Objective != nil {
		p.Objective = *pp.Objective
	}
	if pp.ProfilePicture != nil {
		p.ProfilePicture = *pp.ProfilePicture
	}
	if pp.Level != nil {
		p.Level = *pp.Level
	}
	if pp.XP != nil {
		p.XP = *pp.XP
	}
	if pp.XPToNextLevel != nil {
		p.XPToNextLevel = *pp.XPToNextLevel
	}
	if pp.WorkoutDaysPerWeek != nil {
		p.WorkoutDaysPerWeek = *pp.WorkoutDaysPerWeek
	}
	if pp.WorkoutDuration != nil {
		p.WorkoutDuration = *pp.WorkoutDuration
	}
	return p
}

// Columns is the snake_case update map for the profiles table.
func (pp ProfilePatch) Columns() map[string]any {
	cols := map[string]any{}
	if pp.Name != nil {
		cols["name"] = *pp.Name
	}
	if pp.Age != nil {
		cols["age"] = *pp.Age
	}
	if pp.Weight != nil {
		cols["weight"] = *pp.Weight
	}
	if pp.TargetWeight != nil {
		cols["target_weight"] = *pp.TargetWeight
	}
	if pp.Height != nil {
		cols["height"] = *pp.Height
	}
	if pp.Objective != nil {
		cols["objective"] = *pp.Objective
	}
	if pp.ProfilePicture != nil {
		cols["profile_picture"] = *pp.ProfilePicture
	}
	if pp.Level != nil {
		cols["level"] = *pp.Level
	}
	if pp.XP != nil {
		cols["xp"] = *pp.XP
	}
	if pp.XPToNextLevel != nil {
		cols["xp_to_next_level"] = *pp.XPToNextLevel
	}
	if pp.WorkoutDaysPerWeek != nil {
		cols["workout_days_per_week"] = *pp.WorkoutDaysPerWeek
	}
	if pp.WorkoutDuration != nil {
		cols["workout_duration"] = *pp.WorkoutDuration
	}
	return cols
}
