package store

import (
	"context"
	"fmt"

	"fitquest/models"
)

func nutritionPlanID(p models.NutritionPlan) string { return p.ID }

func (s *Store) NutritionPlans(ctx context.Context, id Identity) ([]models.NutritionPlan, error) {
	return read(ctx, s, s.nutritionPlans, FamilyNutritionPlans, id, key(id, FamilyNutritionPlans, ""),
		func(ctx context.Context) ([]models.NutritionPlan, bool, error) {
			return nonEmpty(s.repo.GetNutritionPlans(ctx, id.UserID))
		},
		models.DefaultNutritionPlans,
	)
}

func (s *Store) nutritionPlansMutation(ctx context.Context, id Identity, action, entityID string) (mutation[[]models.NutritionPlan], error) {
	base, err := s.NutritionPlans(ctx, id)
	if err != nil {
		return mutation[[]models.NutritionPlan]{}, err
	}
	return mutation[[]models.NutritionPlan]{
		family:   FamilyNutritionPlans,
		action:   action,
		cache:    s.nutritionPlans,
		key:      key(id, FamilyNutritionPlans, ""),
		base:     base,
		entityID: entityID,
	}, nil
}

func findNutritionPlan(plans []models.NutritionPlan, id string) (int, error) {
	i := indexOf(plans, id, nutritionPlanID)
	if i < 0 {
		return -1, fmt.Errorf("nutrition plan %s: %w", id, ErrNotFound)
	}
	return i, nil
}

func (s *Store) AddNutritionPlan(ctx context.Context, id Identity, plan models.NutritionPlan) (models.NutritionPlan, error) {
	plan = plan.Clone()
	plan.ID = TempID()
	out := plan

	m, err := s.nutritionPlansMutation(ctx, id, "create", plan.ID)
	if err != nil {
		return models.NutritionPlan{}, err
	}
	m.apply = func(plans []models.NutritionPlan) ([]models.NutritionPlan, error) {
		return append(plans, plan.Clone()), nil
	}
	m.persist = func(ctx context.Context) (func([]models.NutritionPlan) []models.NutritionPlan, error) {
		created, err := s.repo.CreateNutritionPlan(ctx, id.UserID, plan)
		if err != nil {
			return nil, err
		}
		out = created
		return func(plans []models.NutritionPlan) []models.NutritionPlan {
			if i := indexOf(plans, plan.ID, nutritionPlanID); i >= 0 {
				plans[i] = created.Clone()
			}
			return plans
		}, nil
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.NutritionPlan{}, err
	}
	return out, nil
}

func (s *Store) UpdateNutritionPlan(ctx context.Context, id Identity, pID string, patch models.NutritionPlanPatch) (models.NutritionPlan, error) {
	m, err := s.nutritionPlansMutation(ctx, id, "update", pID)
	if err != nil {
		return models.NutritionPlan{}, err
	}
	var out models.NutritionPlan
	m.apply = func(plans []models.NutritionPlan) ([]models.NutritionPlan, error) {
		i, err := findNutritionPlan(plans, pID)
		if err != nil {
			return nil, err
		}
		plans[i] = patch.Apply(plans[i])
		out = plans[i].Clone()
		return plans, nil
	}
	if persisted(pID) {
		m.persist = func(ctx context.Context) (func([]models.NutritionPlan) []models.NutritionPlan, error) {
			stored, err := s.repo.UpdateNutritionPlan(ctx, id.UserID, pID, patch)
			if err != nil {
				return nil, err
			}
			out = stored
			return func(plans []models.NutritionPlan) []models.NutritionPlan {
				if i := indexOf(plans, pID, nutritionPlanID); i >= 0 {
					plans[i] = stored.Clone()
				}
				return plans
			}, nil
		}
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.NutritionPlan{}, err
	}
	return out, nil
}

func (s *Store) DeleteNutritionPlan(ctx context.Context, id Identity, pID string) error {
	m, err := s.nutritionPlansMutation(ctx, id, "delete", pID)
	if err != nil {
		return err
	}
	m.apply = func(plans []models.NutritionPlan) ([]models.NutritionPlan, error) {
		i, err := findNutritionPlan(plans, pID)
		if err != nil {
			return nil, err
		}
		return append(plans[:i], plans[i+1:]...), nil
	}
	if persisted(pID) {
		m.persist = func(ctx context.Context) (func([]models.NutritionPlan) []models.NutritionPlan, error) {
			return nil, s.repo.DeleteNutritionPlan(ctx, id.UserID, pID)
		}
	}
	_, err = run(ctx, s, id, m)
	return err
}
