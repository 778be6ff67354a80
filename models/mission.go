package models

const (
	MissionExercise = "exercise"
	MissionFood     = "food"
	MissionGeneral  = "general"
)

// Mission is seeded per identity and toggled locally. Missions are never persisted.
type Mission struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	XPReward    int    `json:"xpReward" yaml:"xpReward"`
	Completed   bool   `json:"completed" yaml:"completed"`
	Type        string `json:"type" yaml:"type"`
}

func CloneMissions(in []Mission) []Mission {
	out := make([]Mission, len(in))
	copy(out, in)
	return out
}
