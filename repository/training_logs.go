package repository

import (
	"context"

	"fitquest/models"

	"github.com/google/uuid"
)

// GetTrainingLogs returns the user's logs, newest date first.
func (c *Client) GetTrainingLogs(ctx context.Context, userID string) ([]models.TrainingLog, error) {
	var recs []models.TrainingLogRecord
	err := c.conn(ctx).
		Preload("Exercises", byPosition).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, c.fail(ctx, collTrainingLogs, "get", userID, err)
	}
	logs := make([]models.TrainingLog, 0, len(recs))
	for _, r := range recs {
		logs = append(logs, models.TrainingLogFromRecord(r))
	}
	return logs, nil
}

// CreateTrainingLog stores log with its own copy of the exercises. Snapshot rows always get
// fresh ids so the same plan can be logged any number of times.
func (c *Client) CreateTrainingLog(ctx context.Context, userID string, log models.TrainingLog) (models.TrainingLog, error) {
	rec := models.TrainingLogToRecord(userID, log)
	rec.ID = persistedID(log.ID)
	for i := range rec.Exercises {
		rec.Exercises[i].ID = uuid.NewString()
		rec.Exercises[i].LogID = rec.ID
	}
	if err := c.conn(ctx).Create(&rec).Error; err != nil {
		return models.TrainingLog{}, c.fail(ctx, collTrainingLogs, "create", userID, err)
	}
	return models.TrainingLogFromRecord(rec), nil
}

func (c *Client) DeleteTrainingLog(ctx context.Context, userID, logID string) error {
	res := c.conn(ctx).Where("id = ? AND user_id = ?", logID, userID).Delete(&models.TrainingLogRecord{})
	if res.Error != nil {
		return c.fail(ctx, collTrainingLogs, "delete", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
