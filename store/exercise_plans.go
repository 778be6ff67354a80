package store

import (
	"context"
	"fmt"

	"fitquest/models"
	"fitquest/planner"
)

func planID(p models.ExercisePlan) string { return p.ID }
func exerciseID(e models.Exercise) string { return e.ID }

// ExercisePlans returns the identity's plans. A user without saved plans gets the plans
// generated from their profile, which are stored on first read so they can be edited.
func (s *Store) ExercisePlans(ctx context.Context, id Identity) ([]models.ExercisePlan, error) {
	generate := func() []models.ExercisePlan {
		p, err := s.Profile(ctx, id)
		if err != nil {
			p = models.DefaultProfile()
		}
		return planner.Generate(p)
	}
	return read(ctx, s, s.plans, FamilyExercisePlans, id, key(id, FamilyExercisePlans, ""),
		func(ctx context.Context) ([]models.ExercisePlan, bool, error) {
			plans, err := s.repo.GetExercisePlans(ctx, id.UserID)
			if err != nil || len(plans) > 0 {
				return nonEmpty(plans, err)
			}
			return s.seedPlans(ctx, id, generate())
		},
		generate,
	)
}

// seedPlans stores generated plans for a user who has none, all in one transaction. If
// storing fails the plans are still served, unsaved.
func (s *Store) seedPlans(ctx context.Context, id Identity, plans []models.ExercisePlan) ([]models.ExercisePlan, bool, error) {
	if len(plans) == 0 {
		return nil, false, nil
	}
	stored, err := s.repo.CreateExercisePlans(ctx, id.UserID, plans)
	if err != nil {
		s.logger.WarnContext(ctx, "could not store generated plans", "identity", id.Key(), "error", err)
		return plans, true, nil
	}
	return stored, true, nil
}

// TodaysPlan is the plan scheduled for the current weekday.
func (s *Store) TodaysPlan(ctx context.Context, id Identity) (models.ExercisePlan, bool, error) {
	plans, err := s.ExercisePlans(ctx, id)
	if err != nil {
		return models.ExercisePlan{}, false, err
	}
	p, ok := planner.TodaysPlan(plans, s.now())
	return p, ok, nil
}

func (s *Store) BodyPartsForToday(ctx context.Context, id Identity) ([]string, error) {
	plans, err := s.ExercisePlans(ctx, id)
	if err != nil {
		return nil, err
	}
	return planner.BodyPartsForToday(plans, s.now()), nil
}

// plansMutation fills the parts every plan mutation shares.
func (s *Store) plansMutation(ctx context.Context, id Identity, action, entityID string) (mutation[[]models.ExercisePlan], error) {
	base, err := s.ExercisePlans(ctx, id)
	if err != nil {
		return mutation[[]models.ExercisePlan]{}, err
	}
	return mutation[[]models.ExercisePlan]{
		family:   FamilyExercisePlans,
		action:   action,
		cache:    s.plans,
		key:      key(id, FamilyExercisePlans, ""),
		base:     base,
		entityID: entityID,
	}, nil
}

func findPlan(plans []models.ExercisePlan, id string) (int, error) {
	i := indexOf(plans, id, planID)
	if i < 0 {
		return -1, fmt.Errorf("exercise plan %s: %w", id, ErrNotFound)
	}
	return i, nil
}

func findExercise(plans []models.ExercisePlan, pID, exID string) (int, int, error) {
	i, err := findPlan(plans, pID)
	if err != nil {
		return -1, -1, err
	}
	j := indexOf(plans[i].Exercises, exID, exerciseID)
	if j < 0 {
		return -1, -1, fmt.Errorf("exercise %s: %w", exID, ErrNotFound)
	}
	return i, j, nil
}

// AddPlan appends plan under a temporary id, which is swapped for the stored id once the
// create call returns.
func (s *Store) AddPlan(ctx context.Context, id Identity, plan models.ExercisePlan) (models.ExercisePlan, error) {
	plan = plan.Clone()
	plan.ID = TempID()
	for i := range plan.Exercises {
		plan.Exercises[i].ID = TempID()
	}
	out := plan

	m, err := s.plansMutation(ctx, id, "create", plan.ID)
	if err != nil {
		return models.ExercisePlan{}, err
	}
	m.apply = func(plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
		return append(plans, plan.Clone()), nil
	}
	m.persist = func(ctx context.Context) (func([]models.ExercisePlan) []models.ExercisePlan, error) {
		created, err := s.repo.CreateExercisePlan(ctx, id.UserID, plan)
		if err != nil {
			return nil, err
		}
		out = created
		return func(plans []models.ExercisePlan) []models.ExercisePlan {
			if i := indexOf(plans, plan.ID, planID); i >= 0 {
				plans[i] = created.Clone()
			}
			return plans
		}, nil
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.ExercisePlan{}, err
	}
	return out, nil
}

func (s *Store) UpdatePlan(ctx context.Context, id Identity, pID string, patch models.ExercisePlanPatch) (models.ExercisePlan, error) {
	m, err := s.plansMutation(ctx, id, "update", pID)
	if err != nil {
		return models.ExercisePlan{}, err
	}
	if patch.Exercises != nil {
		exercises := models.CloneExercises(*patch.Exercises)
		for i := range exercises {
			if exercises[i].ID == "" {
				exercises[i].ID = TempID()
			}
		}
		patch.Exercises = &exercises
	}
	var out models.ExercisePlan
	m.apply = func(plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
		i, err := findPlan(plans, pID)
		if err != nil {
			return nil, err
		}
		plans[i] = patch.Apply(plans[i])
		out = plans[i].Clone()
		return plans, nil
	}
	if persisted(pID) {
		m.persist = func(ctx context.Context) (func([]models.ExercisePlan) []models.ExercisePlan, error) {
			stored, err := s.repo.UpdateExercisePlan(ctx, id.UserID, pID, patch)
			if err != nil {
				return nil, err
			}
			out = stored
			return replacePlan(stored), nil
		}
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.ExercisePlan{}, err
	}
	return out, nil
}

func replacePlan(stored models.ExercisePlan) func([]models.ExercisePlan) []models.ExercisePlan {
	return func(plans []models.ExercisePlan) []models.ExercisePlan {
		if i := indexOf(plans, stored.ID, planID); i >= 0 {
			plans[i] = stored.Clone()
		}
		return plans
	}
}

// DeletePlan removes the plan and its exercises.
func (s *Store) DeletePlan(ctx context.Context, id Identity, pID string) error {
	m, err := s.plansMutation(ctx, id, "delete", pID)
	if err != nil {
		return err
	}
	m.apply = func(plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
		i, err := findPlan(plans, pID)
		if err != nil {
			return nil, err
		}
		return append(plans[:i], plans[i+1:]...), nil
	}
	if persisted(pID) {
		m.persist = func(ctx context.Context) (func([]models.ExercisePlan) []models.ExercisePlan, error) {
			return nil, s.repo.DeleteExercisePlan(ctx, id.UserID, pID)
		}
	}
	_, err = run(ctx, s, id, m)
	return err
}

// AddExercise appends ex to the plan under a temporary id.
func (s *Store) AddExercise(ctx context.Context, id Identity, pID string, ex models.Exercise) (models.Exercise, error) {
	ex.ID = TempID()
	ex.Completed = false
	out := ex

	m, err := s.plansMutation(ctx, id, "add_exercise", pID)
	if err != nil {
		return models.Exercise{}, err
	}
	m.apply = func(plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
		i, err := findPlan(plans, pID)
		if err != nil {
			return nil, err
		}
		plans[i].Exercises = append(plans[i].Exercises, ex)
		return plans, nil
	}
	if persisted(pID) {
		m.persist = func(ctx context.Context) (func([]models.ExercisePlan) []models.ExercisePlan, error) {
			created, err := s.repo.AddExercise(ctx, id.UserID, pID, ex)
			if err != nil {
				return nil, err
			}
			out = created
			return func(plans []models.ExercisePlan) []models.ExercisePlan {
				if i, j, err := findExercise(plans, pID, ex.ID); err == nil {
					plans[i].Exercises[j] = created
				}
				return plans
			}, nil
		}
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.Exercise{}, err
	}
	return out, nil
}

func (s *Store) UpdateExercise(ctx context.Context, id Identity, pID, exID string, patch models.ExercisePatch) (models.Exercise, error) {
	m, err := s.plansMutation(ctx, id, "update_exercise", exID)
	if err != nil {
		return models.Exercise{}, err
	}
	var out models.Exercise
	m.apply = func(plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
		i, j, err := findExercise(plans, pID, exID)
		if err != nil {
			return nil, err
		}
		plans[i].Exercises[j] = patch.Apply(plans[i].Exercises[j])
		out = plans[i].Exercises[j]
		return plans, nil
	}
	if persisted(exID) {
		m.persist = func(ctx context.Context) (func([]models.ExercisePlan) []models.ExercisePlan, error) {
			stored, err := s.repo.UpdateExercise(ctx, id.UserID, exID, patch)
			if err != nil {
				return nil, err
			}
			out = stored
			return setExercise(pID, stored), nil
		}
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.Exercise{}, err
	}
	return out, nil
}

func setExercise(pID string, stored models.Exercise) func([]models.ExercisePlan) []models.ExercisePlan {
	return func(plans []models.ExercisePlan) []models.ExercisePlan {
		if i, j, err := findExercise(plans, pID, stored.ID); err == nil {
			plans[i].Exercises[j] = stored
		}
		return plans
	}
}

func (s *Store) DeleteExercise(ctx context.Context, id Identity, pID, exID string) error {
	m, err := s.plansMutation(ctx, id, "delete_exercise", exID)
	if err != nil {
		return err
	}
	m.apply = func(plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
		i, j, err := findExercise(plans, pID, exID)
		if err != nil {
			return nil, err
		}
		plans[i].Exercises = append(plans[i].Exercises[:j], plans[i].Exercises[j+1:]...)
		return plans, nil
	}
	if persisted(exID) {
		m.persist = func(ctx context.Context) (func([]models.ExercisePlan) []models.ExercisePlan, error) {
			return nil, s.repo.DeleteExercise(ctx, id.UserID, exID)
		}
	}
	_, err = run(ctx, s, id, m)
	return err
}

// ToggleExercise flips the completed flag of one exercise.
func (s *Store) ToggleExercise(ctx context.Context, id Identity, pID, exID string) (models.Exercise, error) {
	m, err := s.plansMutation(ctx, id, "toggle_exercise", exID)
	if err != nil {
		return models.Exercise{}, err
	}
	var out models.Exercise
	m.apply = func(plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
		i, j, err := findExercise(plans, pID, exID)
		if err != nil {
			return nil, err
		}
		plans[i].Exercises[j].Completed = !plans[i].Exercises[j].Completed
		out = plans[i].Exercises[j]
		return plans, nil
	}
	if persisted(exID) {
		m.persist = func(ctx context.Context) (func([]models.ExercisePlan) []models.ExercisePlan, error) {
			stored, err := s.repo.ToggleExercise(ctx, id.UserID, exID)
			if err != nil {
				return nil, err
			}
			out = stored
			return setExercise(pID, stored), nil
		}
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.Exercise{}, err
	}
	return out, nil
}
