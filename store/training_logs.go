package store

import (
	"context"
	"fmt"

	"fitquest/models"
)

func logID(l models.TrainingLog) string { return l.ID }

func (s *Store) TrainingLogs(ctx context.Context, id Identity) ([]models.TrainingLog, error) {
	return read(ctx, s, s.logs, FamilyTrainingLogs, id, key(id, FamilyTrainingLogs, ""),
		func(ctx context.Context) ([]models.TrainingLog, bool, error) {
			return nonEmpty(s.repo.GetTrainingLogs(ctx, id.UserID))
		},
		models.DefaultTrainingLogs,
	)
}

// AddLog records a finished session at the top of the list. Its exercises are copied, so
// later plan edits do not reach it.
func (s *Store) AddLog(ctx context.Context, id Identity, log models.TrainingLog) (models.TrainingLog, error) {
	base, err := s.TrainingLogs(ctx, id)
	if err != nil {
		return models.TrainingLog{}, err
	}
	log = log.Clone()
	log.ID = TempID()
	for i := range log.Exercises {
		log.Exercises[i].ID = TempID()
	}
	out := log

	m := mutation[[]models.TrainingLog]{
		family:   FamilyTrainingLogs,
		action:   "create",
		cache:    s.logs,
		key:      key(id, FamilyTrainingLogs, ""),
		base:     base,
		entityID: log.ID,
		apply: func(logs []models.TrainingLog) ([]models.TrainingLog, error) {
			return append([]models.TrainingLog{log.Clone()}, logs...), nil
		},
		persist: func(ctx context.Context) (func([]models.TrainingLog) []models.TrainingLog, error) {
			created, err := s.repo.CreateTrainingLog(ctx, id.UserID, log)
			if err != nil {
				return nil, err
			}
			out = created
			return func(logs []models.TrainingLog) []models.TrainingLog {
				if i := indexOf(logs, log.ID, logID); i >= 0 {
					logs[i] = created.Clone()
				}
				return logs
			}, nil
		},
	}
	if _, err := run(ctx, s, id, m); err != nil {
		return models.TrainingLog{}, err
	}
	return out, nil
}

func (s *Store) DeleteLog(ctx context.Context, id Identity, lID string) error {
	base, err := s.TrainingLogs(ctx, id)
	if err != nil {
		return err
	}
	m := mutation[[]models.TrainingLog]{
		family:   FamilyTrainingLogs,
		action:   "delete",
		cache:    s.logs,
		key:      key(id, FamilyTrainingLogs, ""),
		base:     base,
		entityID: lID,
		apply: func(logs []models.TrainingLog) ([]models.TrainingLog, error) {
			i := indexOf(logs, lID, logID)
			if i < 0 {
				return nil, fmt.Errorf("training log %s: %w", lID, ErrNotFound)
			}
			return append(logs[:i], logs[i+1:]...), nil
		},
	}
	if persisted(lID) {
		m.persist = func(ctx context.Context) (func([]models.TrainingLog) []models.TrainingLog, error) {
			return nil, s.repo.DeleteTrainingLog(ctx, id.UserID, lID)
		}
	}
	_, err = run(ctx, s, id, m)
	return err
}
