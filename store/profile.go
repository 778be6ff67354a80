package store

import (
	"context"

	"fitquest/models"
	"fitquest/utils"
)

func (s *Store) Profile(ctx context.Context, id Identity) (models.Profile, error) {
	return read(ctx, s, s.profiles, FamilyProfile, id, key(id, FamilyProfile, ""),
		func(ctx context.Context) (models.Profile, bool, error) {
			return found(s.repo.GetProfile(ctx, id.UserID))
		},
		models.DefaultProfile,
	)
}

func (s *Store) UpdateProfile(ctx context.Context, id Identity, patch models.ProfilePatch) (models.Profile, error) {
	base, err := s.Profile(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	out, err := run(ctx, s, id, mutation[models.Profile]{
		family: FamilyProfile,
		action: "update",
		cache:  s.profiles,
		key:    key(id, FamilyProfile, ""),
		base:   base,
		apply: func(p models.Profile) (models.Profile, error) {
			return patch.Apply(p), nil
		},
		persist: func(ctx context.Context) (func(models.Profile) models.Profile, error) {
			stored, err := s.repo.UpdateProfile(ctx, id.UserID, patch)
			if err != nil {
				return nil, err
			}
			return func(models.Profile) models.Profile { return stored }, nil
		},
	})
	if err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

// ProfileProgress is the level and weight-goal view of the profile. BMI is left out when
// height or weight is not plausible.
func (s *Store) ProfileProgress(ctx context.Context, id Identity) (models.ProfileProgress, error) {
	p, err := s.Profile(ctx, id)
	if err != nil {
		return models.ProfileProgress{}, err
	}
	progress := p.Progress()
	if bmi, err := utils.BMI(p.Height, p.Weight); err == nil {
		progress.BMI = &bmi
		progress.BMICategory = utils.BMICategory(bmi)
	}
	return progress, nil
}
