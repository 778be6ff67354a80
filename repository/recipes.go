package repository

import (
	"context"

	"fitquest/models"
)

// GetRecipes lists saved recipes, newest first.
func (c *Client) GetRecipes(ctx context.Context, userID string) ([]models.Recipe, error) {
	var recs []models.RecipeRecord
	if err := c.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, c.fail(ctx, collRecipes, "get", userID, err)
	}
	out := make([]models.Recipe, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.RecipeFromRecord(r))
	}
	return out, nil
}

func (c *Client) SaveRecipe(ctx context.Context, userID string, recipe models.Recipe) (models.Recipe, error) {
	rec := models.RecipeToRecord(userID, recipe)
	rec.ID = persistedID(recipe.ID)
	if err := c.conn(ctx).Create(&rec).Error; err != nil {
		return models.Recipe{}, c.fail(ctx, collRecipes, "create", userID, err)
	}
	return models.RecipeFromRecord(rec), nil
}

func (c *Client) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	res := c.conn(ctx).Where("id = ? AND user_id = ?", recipeID, userID).Delete(&models.RecipeRecord{})
	if res.Error != nil {
		return c.fail(ctx, collRecipes, "delete", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
