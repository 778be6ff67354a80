package repository

import (
	"context"

	"fitquest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (c *Client) GetNutritionPlans(ctx context.Context, userID string) ([]models.NutritionPlan, error) {
	var recs []models.NutritionPlanRecord
	if err := c.conn(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, c.fail(ctx, collNutritionPlans, "get", userID, err)
	}
	plans := make([]models.NutritionPlan, 0, len(recs))
	for _, r := range recs {
		plans = append(plans, models.NutritionPlanFromRecord(r))
	}
	return plans, nil
}

func (c *Client) CreateNutritionPlan(ctx context.Context, userID string, plan models.NutritionPlan) (models.NutritionPlan, error) {
	rec := models.NutritionPlanToRecord(userID, plan)
	rec.ID = persistedID(plan.ID)
	if err := c.conn(ctx).Create(&rec).Error; err != nil {
		return models.NutritionPlan{}, c.fail(ctx, collNutritionPlans, "create", userID, err)
	}
	return models.NutritionPlanFromRecord(rec), nil
}

func (c *Client) UpdateNutritionPlan(ctx context.Context, userID, planID string, patch models.NutritionPlanPatch) (models.NutritionPlan, error) {
	if cols := patch.Columns(); len(cols) > 0 {
		res := c.conn(ctx).Model(&models.NutritionPlanRecord{}).
			Where("id = ? AND user_id = ?", planID, userID).
			Updates(cols)
		if res.Error != nil {
			return models.NutritionPlan{}, c.fail(ctx, collNutritionPlans, "update", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NutritionPlan{}, ErrNotFound
		}
	}
	var rec models.NutritionPlanRecord
	if err := c.conn(ctx).Where("id = ? AND user_id = ?", planID, userID).First(&rec).Error; err != nil {
		return models.NutritionPlan{}, c.fail(ctx, collNutritionPlans, "update", userID, err)
	}
	return models.NutritionPlanFromRecord(rec), nil
}

func (c *Client) DeleteNutritionPlan(ctx context.Context, userID, planID string) error {
	res := c.conn(ctx).Where("id = ? AND user_id = ?", planID, userID).Delete(&models.NutritionPlanRecord{})
	if res.Error != nil {
		return c.fail(ctx, collNutritionPlans, "delete", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDailyNutrition returns the log of date (YYYY-MM-DD), or ErrNotFound when nothing was
// logged that day.
func (c *Client) GetDailyNutrition(ctx context.Context, userID, date string) (models.DailyNutrition, error) {
	rec, err := loadDaily(c.conn(ctx), userID, date)
	if err != nil {
		return models.DailyNutrition{}, c.fail(ctx, collDailyNutrition, "get", userID, err)
	}
	return models.DailyNutritionFromRecord(rec), nil
}

func loadDaily(db *gorm.DB, userID, date string) (models.DailyNutritionRecord, error) {
	var rec models.DailyNutritionRecord
	err := db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	return rec, err
}

// ensureDaily finds the (user, date) row or creates it with target. Struct conditions are
// copied into the created row, string conditions are not.
func ensureDaily(db *gorm.DB, userID, date string, target float64) (models.DailyNutritionRecord, error) {
	var rec models.DailyNutritionRecord
	err := db.
		Where(models.DailyNutritionRecord{UserID: userID, Date: date}).
		Attrs(models.DailyNutritionRecord{ID: uuid.NewString(), UserID: userID, Date: date, TargetCalories: target}).
		FirstOrCreate(&rec).Error
	return rec, err
}

// EnsureDailyNutrition returns the day's log, creating an empty one with target when missing.
func (c *Client) EnsureDailyNutrition(ctx context.Context, userID, date string, target float64) (models.DailyNutrition, error) {
	var out models.DailyNutritionRecord
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureDaily(tx, userID, date, target); err != nil {
			return err
		}
		var err error
		out, err = loadDaily(tx, userID, date)
		return err
	})
	if err != nil {
		return models.DailyNutrition{}, c.fail(ctx, collDailyNutrition, "create", userID, err)
	}
	return models.DailyNutritionFromRecord(out), nil
}

// UpdateDailyTarget sets the calorie target of date, creating the day when needed.
func (c *Client) UpdateDailyTarget(ctx context.Context, userID, date string, target float64) (models.DailyNutrition, error) {
	var out models.DailyNutritionRecord
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		day, err := ensureDaily(tx, userID, date, target)
		if err != nil {
			return err
		}
		if err := tx.Model(&day).Update("target_calories", target).Error; err != nil {
			return err
		}
		out, err = loadDaily(tx, userID, date)
		return err
	})
	if err != nil {
		return models.DailyNutrition{}, c.fail(ctx, collDailyNutrition, "update", userID, err)
	}
	return models.DailyNutritionFromRecord(out), nil
}

// AddMealEntry logs entry on date. The day is created on first use with the default target.
func (c *Client) AddMealEntry(ctx context.Context, userID, date string, entry models.MealEntry) (models.MealEntry, error) {
	var row models.MealEntryRecord
	err := c.conn(ctx).Transaction(func(tx *gorm.DB) error {
		day, err := ensureDaily(tx, userID, date, models.DefaultTargetCalories())
		if err != nil {
			return err
		}
		row = models.MealEntryToRecord(userID, day.ID, entry)
		row.ID = persistedID(entry.ID)
		return tx.Create(&row).Error
	})
	if err != nil {
		return models.MealEntry{}, c.fail(ctx, collMealEntries, "create", userID, err)
	}
	return models.MealEntryFromRecord(row), nil
}

func (c *Client) DeleteMealEntry(ctx context.Context, userID, entryID string) error {
	res := c.conn(ctx).Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.MealEntryRecord{})
	if res.Error != nil {
		return c.fail(ctx, collMealEntries, "delete", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
