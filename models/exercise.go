package models

import "time"

const (
	ObjectiveLoseWeight  = "Lose Weight"
	ObjectiveBuildMuscle = "Build Muscle"
)

// Body parts accepted at the API boundary. Persisted as free text.
const (
	BodyPartChest     = "chest"
	BodyPartBack      = "back"
	BodyPartShoulders = "shoulders"
	BodyPartArms      = "arms"
	BodyPartLegs      = "legs"
	BodyPartCore      = "core"
	BodyPartFullBody  = "fullBody"
)

type Exercise struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name" binding:"required"`
	Sets      int     `json:"sets" yaml:"sets" binding:"gte=0"`
	Reps      int     `json:"reps" yaml:"reps" binding:"gte=0"`
	Weight    float64 `json:"weight" yaml:"weight" binding:"gte=0"`
	BodyPart  string  `json:"bodyPart" yaml:"bodyPart" binding:"required,oneof=chest back shoulders arms legs core fullBody"`
	Completed bool    `json:"completed" yaml:"completed"`
}

type ExercisePlan struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name" binding:"required"`
	DayOfWeek string     `json:"dayOfWeek" yaml:"dayOfWeek" binding:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Exercises []Exercise `json:"exercises" yaml:"exercises" binding:"dive"`
}

type ExercisePlanPatch struct {
	Name      *string     `json:"name" binding:"omitempty,min=1"`
	DayOfWeek *string     `json:"dayOfWeek" binding:"omitempty,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Exercises *[]Exercise `json:"exercises" binding:"omitempty,dive"`
}

type ExercisePatch struct {
	Name      *string  `json:"name" binding:"omitempty,min=1"`
	Sets      *int     `json:"sets" binding:"omitempty,gte=0"`
	Reps      *int     `json:"reps" binding:"omitempty,gte=0"`
	Weight    *float64 `json:"weight" binding:"omitempty,gte=0"`
	BodyPart  *string  `json:"bodyPart" binding:"omitempty,oneof=chest back shoulders arms legs core fullBody"`
	Completed *bool    `json:"completed"`
}

type ExercisePlanRecord struct {
	ID        string           `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string           `gorm:"column:user_id;type:uuid;index;not null"`
	Name      string           `gorm:"column:name;not null"`
	DayOfWeek string           `gorm:"column:day_of_week"`
	Exercises []ExerciseRecord `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

func (ExercisePlanRecord) TableName() string { return "exercise_plans" }

type ExerciseRecord struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	PlanID    string    `gorm:"column:plan_id;type:uuid;index;not null"`
	UserID    string    `gorm:"column:user_id;type:uuid;index;not null"`
	Name      string    `gorm:"column:name;not null"`
	Sets      int       `gorm:"column:sets"`
	Reps      int       `gorm:"column:reps"`
	Weight    float64   `gorm:"column:weight"`
	BodyPart  string    `gorm:"column:body_part"`
	Completed bool      `gorm:"column:completed"`
	Position  int       `gorm:"column:position"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ExerciseRecord) TableName() string { return "exercises" }

func ExerciseToRecord(userID, planID string, position int, e Exercise) ExerciseRecord {
	return ExerciseRecord{
		ID:        e.ID,
		PlanID:    planID,
		UserID:    userID,
		Name:      e.Name,
		Sets:      e.Sets,
		Reps:      e.Reps,
		Weight:    e.Weight,
		BodyPart:  e.BodyPart,
		Completed: e.Completed,
		Position:  position,
	}
}

func ExerciseFromRecord(r ExerciseRecord) Exercise {
	return Exercise{
		ID:        r.ID,
		Name:      r.Name,
		Sets:      r.Sets,
		Reps:      r.Reps,
		Weight:    r.Weight,
		BodyPart:  r.BodyPart,
		Completed: r.Completed,
	}
}

func ExercisePlanToRecord(userID string, p ExercisePlan) ExercisePlanRecord {
	rec := ExercisePlanRecord{
		ID:        p.ID,
		UserID:    userID,
		Name:      p.Name,
		DayOfWeek: p.DayOfWeek,
	}
	for i, e := range p.Exercises {
		rec.Exercises = append(rec.Exercises, ExerciseToRecord(userID, p.ID, i, e))
	}
	return rec
}

// ExercisePlanFromRecord expects r.Exercises to be ordered by position.
func ExercisePlanFromRecord(r ExercisePlanRecord) ExercisePlan {
	p := ExercisePlan{
		ID:        r.ID,
		Name:      r.Name,
		DayOfWeek: r.DayOfWeek,
		Exercises: make([]Exercise, 0, len(r.Exercises)),
	}
	for _, e := range r.Exercises {
		p.Exercises = append(p.Exercises, ExerciseFromRecord(e))
	}
	return p
}

func (pp ExercisePlanPatch) Apply(p ExercisePlan) ExercisePlan {
	p = p.Clone()
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.DayOfWeek != nil {
		p.DayOfWeek = *pp.DayOfWeek
	}
	if pp.Exercises != nil {
		p.Exercises = CloneExercises(*pp.Exercises)
	}
	return p
}

// Columns covers the plan row only; exercises are rewritten separately.
func (pp ExercisePlanPatch) Columns() map[string]any {
	cols := map[string]any{}
	if pp.Name != nil {
		cols["name"] = *pp.Name
	}
	if pp.DayOfWeek != nil {
		cols["day_of_week"] = *pp.DayOfWeek
	}
	return cols
}

func (ep ExercisePatch) Apply(e Exercise) Exercise {
	if ep.Name != nil {
		e.Name = *ep.Name
	}
	if ep.Sets != nil {
		e.Sets = *ep.Sets
	}
	if ep.Reps != nil {
		e.Reps = *ep.Reps
	}
	if ep.Weight != nil {
		e.Weight = *ep.Weight
	}
	if ep.BodyPart != nil {
		e.BodyPart = *ep.BodyPart
	}
	if ep.Completed != nil {
		e.Completed = *ep.Completed
	}
	return e
}

func (ep ExercisePatch) Columns() map[string]any {
	cols := map[string]any{}
	if ep.Name != nil {
		cols["name"] = *ep.Name
	}
	if ep.Sets != nil {
		cols["sets"] = *ep.Sets
	}
	if ep.Reps != nil {
		cols["reps"] = *ep.Reps
	}
	if ep.Weight != nil {
		cols["weight"] = *ep.Weight
	}
	if ep.BodyPart != nil {
		cols["body_part"] = *ep.BodyPart
	}
	if ep.Completed != nil {
		cols["completed"] = *ep.Completed
	}
	return cols
}

func (p ExercisePlan) Clone() ExercisePlan {
	p.Exercises = CloneExercises(p.Exercises)
	return p
}

func CloneExercises(in []Exercise) []Exercise {
	out := make([]Exercise, len(in))
	copy(out, in)
	return out
}

func ClonePlans(in []ExercisePlan) []ExercisePlan {
	out := make([]ExercisePlan, 0, len(in))
	for _, p := range in {
		out = append(out, p.Clone())
	}
	return out
}
