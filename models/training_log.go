package models

import "time"

// TrainingLog is a finished session. Its exercises are a snapshot and never follow later
// edits to the plan they came from.
type TrainingLog struct {
	ID        string     `json:"id" yaml:"id"`
	Date      string     `json:"date" yaml:"date" binding:"required,datetime=2006-01-02"`
	PlanName  string     `json:"planName" yaml:"planName" binding:"required"`
	Duration  int        `json:"duration" yaml:"duration" binding:"gte=0"` // minutes
	Exercises []Exercise `json:"exercises" yaml:"exercises" binding:"dive"`
}

type TrainingLogRecord struct {
	ID        string                      `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string                      `gorm:"column:user_id;type:uuid;index;not null"`
	Date      string                      `gorm:"column:date;size:10;index;not null"`
	PlanName  string                      `gorm:"column:plan_name"`
	Duration  int                         `gorm:"column:duration"`
	Exercises []TrainingLogExerciseRecord `gorm:"foreignKey:LogID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time                   `gorm:"column:created_at"`
	UpdatedAt time.Time                   `gorm:"column:updated_at"`
}

func (TrainingLogRecord) TableName() string { return "training_logs" }

type TrainingLogExerciseRecord struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	LogID     string    `gorm:"column:log_id;type:uuid;index;not null"`
	Name      string    `gorm:"column:name"`
	Sets      int       `gorm:"column:sets"`
	Reps      int       `gorm:"column:reps"`
	Weight    float64   `gorm:"column:weight"`
	BodyPart  string    `gorm:"column:body_part"`
	Completed bool      `gorm:"column:completed"`
	Position  int       `gorm:"column:position"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (TrainingLogExerciseRecord) TableName() string { return "training_log_exercises" }

func TrainingLogToRecord(userID string, l TrainingLog) TrainingLogRecord {
	rec := TrainingLogRecord{
		ID:       l.ID,
		UserID:   userID,
		Date:     l.Date,
		PlanName: l.PlanName,
		Duration: l.Duration,
	}
	for i, e := range l.Exercises {
		rec.Exercises = append(rec.Exercises, TrainingLogExerciseRecord{
			ID:        e.ID,
			LogID:     l.ID,
			Name:      e.Name,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Weight:    e.Weight,
			BodyPart:  e.BodyPart,
			Completed: e.Completed,
			Position:  i,
		})
	}
	return rec
}

func TrainingLogFromRecord(r TrainingLogRecord) TrainingLog {
	l := TrainingLog{
		ID:        r.ID,
		Date:      r.Date,
		PlanName:  r.PlanName,
		Duration:  r.Duration,
		Exercises: make([]Exercise, 0, len(r.Exercises)),
	}
	for _, e := range r.Exercises {
		l.Exercises = append(l.Exercises, Exercise{
			ID:        e.ID,
			Name:      e.Name,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Weight:    e.Weight,
			BodyPart:  e.BodyPart,
			Completed: e.Completed,
		})
	}
	return l
}

func (l TrainingLog) Clone() TrainingLog {
	l.Exercises = CloneExercises(l.Exercises)
	return l
}

func CloneLogs(in []TrainingLog) []TrainingLog {
	out := make([]TrainingLog, 0, len(in))
	for _, l := range in {
		out = append(out, l.Clone())
	}
	return out
}
