package store

import (
	"context"
	"fmt"

	"fitquest/models"
)

// Missions are seeded per identity and never persisted.
func (s *Store) Missions(ctx context.Context, id Identity) ([]models.Mission, error) {
	return read(ctx, s, s.missions, FamilyMissions, id, key(id, FamilyMissions, ""),
		func(context.Context) ([]models.Mission, bool, error) { return nil, false, nil },
		models.DefaultMissions,
	)
}

func (s *Store) ToggleMission(ctx context.Context, id Identity, missionID string) (models.Mission, error) {
	base, err := s.Missions(ctx, id)
	if err != nil {
		return models.Mission{}, err
	}
	var out models.Mission
	_, err = run(ctx, s, id, mutation[[]models.Mission]{
		family:   FamilyMissions,
		action:   "toggle",
		cache:    s.missions,
		key:      key(id, FamilyMissions, ""),
		base:     base,
		entityID: missionID,
		apply: func(ms []models.Mission) ([]models.Mission, error) {
			i := indexOf(ms, missionID, func(m models.Mission) string { return m.ID })
			if i < 0 {
				return nil, fmt.Errorf("mission %s: %w", missionID, ErrNotFound)
			}
			ms[i].Completed = !ms[i].Completed
			out = ms[i]
			return ms, nil
		},
	})
	return out, err
}
