package store

import (
	"context"
	"fmt"

	"fitquest/models"
)

func entryID(e models.MealEntry) string { return e.ID }

// DailyNutrition returns the food log of date. A day with nothing logged is an empty log
// with the default calorie target.
func (s *Store) DailyNutrition(ctx context.Context, id Identity, date string) (models.DailyNutrition, error) {
	return read(ctx, s, s.daily, FamilyDailyNutrition, id, key(id, FamilyDailyNutrition, date),
		func(ctx context.Context) (models.DailyNutrition, bool, error) {
			return found(s.repo.GetDailyNutrition(ctx, id.UserID, date))
		},
		func() models.DailyNutrition { return models.DefaultDailyNutrition(date) },
	)
}

// NutritionTotals returns the day together with its summed calories and macros.
func (s *Store) NutritionTotals(ctx context.Context, id Identity, date string) (models.DailyNutrition, models.NutritionTotals, error) {
	day, err := s.DailyNutrition(ctx, id, date)
	if err != nil {
		return models.DailyNutrition{}, models.NutritionTotals{}, err
	}
	return day, day.Totals(), nil
}

func (s *Store) dailyMutation(ctx context.Context, id Identity, date, action, entityID string) (mutation[models.DailyNutrition], error) {
	base, err := s.DailyNutrition(ctx, id, date)
	if err != nil {
		return mutation[models.DailyNutrition]{}, err
	}
	return mutation[models.DailyNutrition]{
		family:   FamilyDailyNutrition,
		action:   action,
		cache:    s.daily,
		key:      key(id, FamilyDailyNutrition, date),
		base:     base,
		entityID: entityID,
	}, nil
}

// AddEntry logs entry on date under a temporary id. The day row is created on first use
// with the target the caller currently sees.
func (s *Store) AddEntry(ctx context.Context, id Identity, date string, entry models.MealEntry) (models.MealEntry, error) {
	entry.ID = TempID()
	out := entry

	m, err := s.dailyMutation(ctx, id, date, "add_entry", entry.ID)
	if err != nil {
		return models.MealEntry{}, err
	}
	var target float64
	m.apply = func(d models.DailyNutrition) (models.DailyNutrition, error) {
		d.Entries = append(d.Entries, entry)
		target = d.TargetCalories
		return d, nil
	}
	m.persist = func(ctx context.Context) (func(models.DailyNutrition) models.DailyNutrition, error) {
		day, err := s.repo.EnsureDailyNutrition(ctx, id.UserID, date, target)
		if err != nil {
			return nil, err
		}
		created, err := s.repo.AddMealEntry(ctx, id.UserID, date, entry)
		if err != nil {
			return nil, err
		}
		out = created
		return func(d models.DailyNutrition) models.DailyNutrition {
			d.ID = day.ID
			if i := indexOf(d.Entries, entry.ID, entryID); i >= 0 {
				d.Entries[i] = created
			}
			return d
		}, nil
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.MealEntry{}, err
	}
	return out, nil
}

func (s *Store) RemoveEntry(ctx context.Context, id Identity, date, eID string) error {
	m, err := s.dailyMutation(ctx, id, date, "remove_entry", eID)
	if err != nil {
		return err
	}
	m.apply = func(d models.DailyNutrition) (models.DailyNutrition, error) {
		i := indexOf(d.Entries, eID, entryID)
		if i < 0 {
			return d, fmt.Errorf("meal entry %s: %w", eID, ErrNotFound)
		}
		d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
		return d, nil
	}
	if persisted(eID) {
		m.persist = func(ctx context.Context) (func(models.DailyNutrition) models.DailyNutrition, error) {
			return nil, s.repo.DeleteMealEntry(ctx, id.UserID, eID)
		}
	}
	_, err = run(ctx, s, id, m)
	return err
}

func (s *Store) SetTargetCalories(ctx context.Context, id Identity, date string, target float64) (models.DailyNutrition, error) {
	m, err := s.dailyMutation(ctx, id, date, "set_target", "")
	if err != nil {
		return models.DailyNutrition{}, err
	}
	m.apply = func(d models.DailyNutrition) (models.DailyNutrition, error) {
		d.TargetCalories = target
		return d, nil
	}
	m.persist = func(ctx context.Context) (func(models.DailyNutrition) models.DailyNutrition, error) {
		stored, err := s.repo.UpdateDailyTarget(ctx, id.UserID, date, target)
		if err != nil {
			return nil, err
		}
		return func(d models.DailyNutrition) models.DailyNutrition {
			d.ID = stored.ID
			d.TargetCalories = stored.TargetCalories
			return d
		}, nil
	}
	return run(ctx, s, id, m)
}
