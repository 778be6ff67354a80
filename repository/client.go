// Package repository is the persistence client: typed CRUD over the fitquest tables.
//
// Callers pass camelCase domain values from the models package; rows are translated to and
// from their snake_case records through the models mapping functions. Every backend failure is
// logged and counted before it is returned. Missing rows are reported as ErrNotFound.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fitquest/models"
	"fitquest/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Collection names, used as log and metric labels.
const (
	collProfiles       = "profiles"
	collExercisePlans  = "exercise_plans"
	collExercises      = "exercises"
	collTrainingLogs   = "training_logs"
	collNutritionPlans = "nutrition_plans"
	collDailyNutrition = "daily_nutrition"
	collMealEntries    = "meal_entries"
	collRecipes        = "recipes"
)

type Client struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{db: db, logger: logger.With("component", "repository")}
}

// Migrate creates or updates the schema. Child tables carry ON DELETE CASCADE foreign keys
// to their parents.
func (c *Client) Migrate(ctx context.Context) error {
	err := c.db.WithContext(ctx).AutoMigrate(
		&models.ProfileRecord{},
		&models.ExercisePlanRecord{},
		&models.ExerciseRecord{},
		&models.TrainingLogRecord{},
		&models.TrainingLogExerciseRecord{},
		&models.NutritionPlanRecord{},
		&models.DailyNutritionRecord{},
		&models.MealEntryRecord{},
		&models.RecipeRecord{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) conn(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx)
}

// fail normalizes err, then logs and counts it. Not-found is expected traffic and is only
// translated.
func (c *Client) fail(ctx context.Context, collection, op, userID string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	observability.PersistenceErrors.WithLabelValues(collection, op).Inc()
	c.logger.ErrorContext(ctx, "persistence call failed",
		"collection", collection,
		"operation", op,
		"user_id", userID,
		"error", err,
	)
	return fmt.Errorf("%s %s: %w", op, collection, err)
}

// persistedID keeps ids that are already uuids and replaces anything else (temporary ids,
// seed ids like "tl1") with a fresh one.
func persistedID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.NewString()
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
