package repository

import (
	"context"

	"fitquest/models"
)

func (c *Client) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var rec models.ProfileRecord
	if err := c.conn(ctx).Where("id = ?", userID).First(&rec).Error; err != nil {
		return models.Profile{}, c.fail(ctx, collProfiles, "get", userID, err)
	}
	return models.ProfileFromRecord(rec), nil
}

// CreateProfile writes the sign-up row with the starting stats.
func (c *Client) CreateProfile(ctx context.Context, userID, email, name string) (models.Profile, error) {
	rec := models.NewProfileRecord(userID, email, name)
	if err := c.conn(ctx).Create(&rec).Error; err != nil {
		return models.Profile{}, c.fail(ctx, collProfiles, "create", userID, err)
	}
	return models.ProfileFromRecord(rec), nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (models.Profile, error) {
	cols := patch.Columns()
	if len(cols) > 0 {
		res := c.conn(ctx).Model(&models.ProfileRecord{}).Where("id = ?", userID).Updates(cols)
		if res.Error != nil {
			return models.Profile{}, c.fail(ctx, collProfiles, "update", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.Profile{}, ErrNotFound
		}
	}
	return c.GetProfile(ctx, userID)
}
