package store

import (
	"context"
	"fmt"

	"fitquest/models"
)

func recipeID(r models.Recipe) string { return r.ID }

// Recipes lists saved recipes, newest first.
func (s *Store) Recipes(ctx context.Context, id Identity) ([]models.Recipe, error) {
	return read(ctx, s, s.recipes, FamilyRecipes, id, key(id, FamilyRecipes, ""),
		func(ctx context.Context) ([]models.Recipe, bool, error) {
			return nonEmpty(s.repo.GetRecipes(ctx, id.UserID))
		},
		func() []models.Recipe { return []models.Recipe{} },
	)
}

func (s *Store) SaveRecipe(ctx context.Context, id Identity, recipe models.Recipe) (models.Recipe, error) {
	base, err := s.Recipes(ctx, id)
	if err != nil {
		return models.Recipe{}, err
	}
	recipe = recipe.Clone()
	recipe.ID = TempID()
	out := recipe

	_, err = run(ctx, s, id, mutation[[]models.Recipe]{
		family:   FamilyRecipes,
		action:   "create",
		cache:    s.recipes,
		key:      key(id, FamilyRecipes, ""),
		base:     base,
		entityID: recipe.ID,
		apply: func(rs []models.Recipe) ([]models.Recipe, error) {
			return append([]models.Recipe{recipe.Clone()}, rs...), nil
		},
		persist: func(ctx context.Context) (func([]models.Recipe) []models.Recipe, error) {
			created, err := s.repo.SaveRecipe(ctx, id.UserID, recipe)
			if err != nil {
				return nil, err
			}
			out = created
			return func(rs []models.Recipe) []models.Recipe {
				if i := indexOf(rs, recipe.ID, recipeID); i >= 0 {
					rs[i] = created.Clone()
				}
				return rs
			}, nil
		},
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return out, nil
}

func (s *Store) DeleteRecipe(ctx context.Context, id Identity, rID string) error {
	base, err := s.Recipes(ctx, id)
	if err != nil {
		return err
	}
	m := mutation[[]models.Recipe]{
		family:   FamilyRecipes,
		action:   "delete",
		cache:    s.recipes,
		key:      key(id, FamilyRecipes, ""),
		base:     base,
		entityID: rID,
		apply: func(rs []models.Recipe) ([]models.Recipe, error) {
			i := indexOf(rs, rID, recipeID)
			if i < 0 {
				return nil, fmt.Errorf("recipe %s: %w", rID, ErrNotFound)
			}
			return append(rs[:i], rs[i+1:]...), nil
		},
	}
	if persisted(rID) {
		m.persist = func(ctx context.Context) (func([]models.Recipe) []models.Recipe, error) {
			return nil, s.repo.DeleteRecipe(ctx, id.UserID, rID)
		}
	}
	_, err = run(ctx, s, id, m)
	return err
}
