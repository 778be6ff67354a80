package repository

import (
	"context"

	"fitquest/models"

	"gorm.io/gorm"
)

func (c *Client) GetExercisePlans(ctx context.Context, userID string) ([]models.ExercisePlan, error) {
	var recs []models.ExercisePlanRecord
	err := c.conn(ctx).
		Preload("Exercises", byPosition).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, c.fail(ctx, collExercisePlans, "get", userID, err)
	}
	plans := make([]models.ExercisePlan, 0, len(recs))
	for _, r := range recs {
		plans = append(plans, models.ExercisePlanFromRecord(r))
	}
	return plans, nil
}

func (c *Client) GetExercisePlan(ctx context.Context, userID, planID string) (models.ExercisePlan, error) {
	rec, err := c.loadPlan(c.conn(ctx), userID, planID)
	if err != nil {
		return models.ExercisePlan{}, c.fail(ctx, collExercisePlans, "get", userID, err)
	}
	return models.ExercisePlanFromRecord(rec), nil
}

func (c *Client) loadPlan(db *gorm.DB, userID, planID string) (models.ExercisePlanRecord, error) {
	var rec models.ExercisePlanRecord
	err := db.
		Preload("Exercises", byPosition).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&rec).Error
	return rec, err
}

func planRecord(userID string, plan models.ExercisePlan) models.ExercisePlanRecord {
	rec := models.ExercisePlanToRecord(userID, plan)
	rec.ID = persistedID(plan.ID)
	for i := range rec.Exercises {
		rec.Exercises[i].ID = persistedID(rec.Exercises[i].ID)
		rec.Exercises[i].PlanID = rec.ID
	}
	return rec
}

// CreateExercisePlan inserts the plan together with its exercises.
func (c *Client) CreateExercisePlan(ctx context.Context, userID string, plan models.ExercisePlan) (models.ExercisePlan, error) {
	rec := planRecord(userID, plan)
	if err := c.conn(ctx).Create(&rec).Error; err != nil {
		return models.ExercisePlan{}, c.fail(ctx, collExercisePlans, "create", userID, err)
	}
	return models.ExercisePlanFromRecord(rec), nil
}

// CreateExercisePlans inserts all plans or none of them.
func (c *Client) CreateExercisePlans(ctx context.Context, userID string, plans []models.ExercisePlan) ([]models.ExercisePlan, error) {
	out := make([]models.ExercisePlan, 0, len(plans))
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range plans {
			rec := planRecord(userID, p)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			out = append(out, models.ExercisePlanFromRecord(rec))
		}
		return nil
	})
	if err != nil {
		return nil, c.fail(ctx, collExercisePlans, "create", userID, err)
	}
	return out, nil
}

// UpdateExercisePlan applies the row columns of patch. When patch carries exercises the plan's
// exercise rows are replaced in the same transaction.
func (c *Client) UpdateExercisePlan(ctx context.Context, userID, planID string, patch models.ExercisePlanPatch) (models.ExercisePlan, error) {
	var out models.ExercisePlanRecord
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.ExercisePlanRecord
		if err := tx.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error; err != nil {
			return err
		}
		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&plan).Updates(cols).Error; err != nil {
				return err
			}
		}
		if patch.Exercises != nil {
			if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.ExerciseRecord{}).Error; err != nil {
				return err
			}
			for i, e := range *patch.Exercises {
				row := models.ExerciseToRecord(userID, plan.ID, i, e)
				row.ID = persistedID(e.ID)
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		var err error
		out, err = c.loadPlan(tx, userID, planID)
		return err
	})
	if err != nil {
		return models.ExercisePlan{}, c.fail(ctx, collExercisePlans, "update", userID, err)
	}
	return models.ExercisePlanFromRecord(out), nil
}

// DeleteExercisePlan removes the plan; its exercises go with it through the foreign key.
func (c *Client) DeleteExercisePlan(ctx context.Context, userID, planID string) error {
	res := c.conn(ctx).Where("id = ? AND user_id = ?", planID, userID).Delete(&models.ExercisePlanRecord{})
	if res.Error != nil {
		return c.fail(ctx, collExercisePlans, "delete", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddExercise appends ex at the end of the plan.
func (c *Client) AddExercise(ctx context.Context, userID, planID string, ex models.Exercise) (models.Exercise, error) {
	var row models.ExerciseRecord
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.ExercisePlanRecord
		if err := tx.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.ExerciseRecord{}).Where("plan_id = ?", plan.ID).Count(&count).Error; err != nil {
			return err
		}
		row = models.ExerciseToRecord(userID, plan.ID, int(count), ex)
		row.ID = persistedID(ex.ID)
		return tx.Create(&row).Error
	})
	if err != nil {
		return models.Exercise{}, c.fail(ctx, collExercises, "create", userID, err)
	}
	return models.ExerciseFromRecord(row), nil
}

func (c *Client) UpdateExercise(ctx context.Context, userID, exerciseID string, patch models.ExercisePatch) (models.Exercise, error) {
	if cols := patch.Columns(); len(cols) > 0 {
		res := c.conn(ctx).Model(&models.ExerciseRecord{}).
			Where("id = ? AND user_id = ?", exerciseID, userID).
			Updates(cols)
		if res.Error != nil {
			return models.Exercise{}, c.fail(ctx, collExercises, "update", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.Exercise{}, ErrNotFound
		}
	}
	return c.getExercise(ctx, userID, exerciseID, "update")
}

func (c *Client) getExercise(ctx context.Context, userID, exerciseID, op string) (models.Exercise, error) {
	var row models.ExerciseRecord
	if err := c.conn(ctx).Where("id = ? AND user_id = ?", exerciseID, userID).First(&row).Error; err != nil {
		return models.Exercise{}, c.fail(ctx, collExercises, op, userID, err)
	}
	return models.ExerciseFromRecord(row), nil
}

func (c *Client) DeleteExercise(ctx context.Context, userID, exerciseID string) error {
	res := c.conn(ctx).Where("id = ? AND user_id = ?", exerciseID, userID).Delete(&models.ExerciseRecord{})
	if res.Error != nil {
		return c.fail(ctx, collExercises, "delete", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleExercise reads completed, inverts it and writes it back. Two sessions toggling the
// same exercise at once may both write the same value; the last write wins.
func (c *Client) ToggleExercise(ctx context.Context, userID, exerciseID string) (models.Exercise, error) {
	ex, err := c.getExercise(ctx, userID, exerciseID, "toggle")
	if err != nil {
		return models.Exercise{}, err
	}
	ex.Completed = !ex.Completed
	res := c.conn(ctx).Model(&models.ExerciseRecord{}).
		Where("id = ? AND user_id = ?", exerciseID, userID).
		Update("completed", ex.Completed)
	if res.Error != nil {
		return models.Exercise{}, c.fail(ctx, collExercises, "toggle", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Exercise{}, ErrNotFound
	}
	return ex, nil
}
