// Package store is the per-identity data layer the HTTP handlers talk to.
//
// Each entity family has an accessor that reads through a cache.Cache and falls back to the
// family default, and a set of optimistic mutations: the post-mutation value is written to
// the cache and announced to the identity's other sessions before the persistence call is
// made. What happens when that call fails is decided by the Policy.
//
// Anonymous identities never reach the repository; their state lives in the cache only.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fitquest/cache"
	"fitquest/models"
	"fitquest/observability"
	"fitquest/repository"
)

var (
	// ErrNotFound is returned when a mutation names an id the identity does not have.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps backend failures returned under PolicySurface.
	ErrPersistence = errors.New("persistence failed")
)

// Policy decides what a backend failure does.
type Policy string

const (
	// PolicyDegrade logs failures: reads fall back to defaults and optimistic writes stay.
	PolicyDegrade Policy = "degrade"
	// PolicySurface returns failures: reads error out and writes are rolled back.
	PolicySurface Policy = "surface"
)

// Entity families, used in cache keys, change events and metric labels.
const (
	FamilyProfile        = "profile"
	FamilyMissions       = "missions"
	FamilyExercisePlans  = "exercisePlans"
	FamilyTrainingLogs   = "trainingLogs"
	FamilyNutritionPlans = "nutritionPlans"
	FamilyDailyNutrition = "dailyNutrition"
	FamilyRecipes        = "recipes"
)

// Change is announced for every mutation so the identity's other sessions revalidate.
type Change struct {
	Family   string `json:"family"`
	Action   string `json:"action"`
	EntityID string `json:"entityId,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Stage    string `json:"stage"` // optimistic, persisted, rolled_back
}

type Publisher interface {
	Publish(identity string, change Change)
}

// Repository is the persistence client as the store uses it.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (models.Profile, error)

	GetExercisePlans(ctx context.Context, userID string) ([]models.ExercisePlan, error)
	CreateExercisePlan(ctx context.Context, userID string, plan models.ExercisePlan) (models.ExercisePlan, error)
	CreateExercisePlans(ctx context.Context, userID string, plans []models.ExercisePlan) ([]models.ExercisePlan, error)
	UpdateExercisePlan(ctx context.Context, userID, planID string, patch models.ExercisePlanPatch) (models.ExercisePlan, error)
	DeleteExercisePlan(ctx context.Context, userID, planID string) error
	AddExercise(ctx context.Context, userID, planID string, ex models.Exercise) (models.Exercise, error)
	UpdateExercise(ctx context.Context, userID, exerciseID string, patch models.ExercisePatch) (models.Exercise, error)
	DeleteExercise(ctx context.Context, userID, exerciseID string) error
	ToggleExercise(ctx context.Context, userID, exerciseID string) (models.Exercise, error)

	GetTrainingLogs(ctx context.Context, userID string) ([]models.TrainingLog, error)
	CreateTrainingLog(ctx context.Context, userID string, log models.TrainingLog) (models.TrainingLog, error)
	DeleteTrainingLog(ctx context.Context, userID, logID string) error

	GetNutritionPlans(ctx context.Context, userID string) ([]models.NutritionPlan, error)
	CreateNutritionPlan(ctx context.Context, userID string, plan models.NutritionPlan) (models.NutritionPlan, error)
	UpdateNutritionPlan(ctx context.Context, userID, planID string, patch models.NutritionPlanPatch) (models.NutritionPlan, error)
	DeleteNutritionPlan(ctx context.Context, userID, planID string) error

	GetDailyNutrition(ctx context.Context, userID, date string) (models.DailyNutrition, error)
	EnsureDailyNutrition(ctx context.Context, userID, date string, target float64) (models.DailyNutrition, error)
	UpdateDailyTarget(ctx context.Context, userID, date string, target float64) (models.DailyNutrition, error)
	AddMealEntry(ctx context.Context, userID, date string, entry models.MealEntry) (models.MealEntry, error)
	DeleteMealEntry(ctx context.Context, userID, entryID string) error

	GetRecipes(ctx context.Context, userID string) ([]models.Recipe, error)
	SaveRecipe(ctx context.Context, userID string, recipe models.Recipe) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID string) error
}

type Options struct {
	Policy    Policy
	Publisher Publisher
	Logger    *slog.Logger
	// Now is the clock used for "today"; defaults to time.Now.
	Now func() time.Time
	// CacheTTL and CacheMaxEntries bound each family's cache; zero keeps the cache defaults.
	CacheTTL        time.Duration
	CacheMaxEntries int
}

type Store struct {
	repo      Repository
	policy    Policy
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time

	profiles       *cache.Cache[models.Profile]
	missions       *cache.Cache[[]models.Mission]
	plans          *cache.Cache[[]models.ExercisePlan]
	logs           *cache.Cache[[]models.TrainingLog]
	nutritionPlans *cache.Cache[[]models.NutritionPlan]
	daily          *cache.Cache[models.DailyNutrition]
	recipes        *cache.Cache[[]models.Recipe]
}

func New(repo Repository, opts Options) *Store {
	if opts.Policy == "" {
		opts.Policy = PolicyDegrade
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	var limits []cache.Option
	if opts.CacheTTL > 0 {
		limits = append(limits, cache.WithTTL(opts.CacheTTL))
	}
	if opts.CacheMaxEntries > 0 {
		limits = append(limits, cache.WithMaxEntries(opts.CacheMaxEntries))
	}
	return &Store{
		repo:      repo,
		policy:    opts.Policy,
		publisher: opts.Publisher,
		logger:    opts.Logger.With("component", "store"),
		now:       opts.Now,

		profiles:       cache.New[models.Profile](nil, limits...),
		missions:       cache.New(models.CloneMissions, limits...),
		plans:          cache.New(models.ClonePlans, limits...),
		logs:           cache.New(models.CloneLogs, limits...),
		nutritionPlans: cache.New(models.CloneNutritionPlans, limits...),
		daily:          cache.New(models.DailyNutrition.Clone, limits...),
		recipes:        cache.New(models.CloneRecipes, limits...),
	}
}

func (s *Store) Policy() Policy { return s.policy }

// Today is the current date in YYYY-MM-DD form.
func (s *Store) Today() string { return s.now().Format(time.DateOnly) }

// Forget drops everything cached for id, so the next reads reload from the repository.
func (s *Store) Forget(id Identity) {
	k := id.Key()
	s.profiles.InvalidateIdentity(k)
	s.missions.InvalidateIdentity(k)
	s.plans.InvalidateIdentity(k)
	s.logs.InvalidateIdentity(k)
	s.nutritionPlans.InvalidateIdentity(k)
	s.daily.InvalidateIdentity(k)
	s.recipes.InvalidateIdentity(k)
}

func key(id Identity, family, scope string) cache.Key {
	return cache.Key{Identity: id.Key(), Family: family, Scope: scope}
}

// found turns a repository read into a cache load result.
func found[V any](v V, err error) (V, bool, error) {
	if errors.Is(err, repository.ErrNotFound) {
		var zero V
		return zero, false, nil
	}
	if err != nil {
		var zero V
		return zero, false, err
	}
	return v, true, nil
}

// nonEmpty treats an empty collection as "nothing stored".
func nonEmpty[V any](v []V, err error) ([]V, bool, error) {
	if err != nil {
		return nil, false, err
	}
	return v, len(v) > 0, nil
}

// read is the accessor path shared by every family.
func read[V any](ctx context.Context, s *Store, c *cache.Cache[V], family string, id Identity, k cache.Key,
	load cache.Loader[V], fallback func() V) (V, error) {
	if id.Anonymous() {
		load = func(context.Context) (V, bool, error) {
			var zero V
			return zero, false, nil
		}
	}
	v, src, err := c.GetOrLoad(ctx, k, load, fallback)
	if err != nil {
		observability.CacheLookups.WithLabelValues(family, "error").Inc()
		if s.policy == PolicySurface {
			var zero V
			return zero, fmt.Errorf("%w: load %s: %w", ErrPersistence, family, err)
		}
		s.logger.WarnContext(ctx, "load failed, serving defaults",
			"family", family, "identity", id.Key(), "error", err)
		return cache.Resolve(v, false, err, fallback), nil
	}
	observability.CacheLookups.WithLabelValues(family, string(src)).Inc()
	return v, nil
}

// mutation describes one optimistic change of a cache entry.
type mutation[V any] struct {
	family string
	action string
	cache  *cache.Cache[V]
	key    cache.Key
	// base is the accessor's view, used when the entry is not cached (a degraded read or an
	// expired entry).
	base V
	// apply computes the optimistic value.
	apply func(V) (V, error)
	// persist writes the change; the returned function reconciles the cached value with what
	// was stored. nil means the change is local.
	persist  func(ctx context.Context) (func(V) V, error)
	entityID string
}

// run applies m to the cache, announces it, then persists it.
func run[V any](ctx context.Context, s *Store, id Identity, m mutation[V]) (V, error) {
	existed := false
	prev, next, err := m.cache.Update(m.key, func(cur V, ok bool) (V, error) {
		existed = ok
		if !ok {
			cur = m.base
		}
		return m.apply(cur)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	change := Change{Family: m.family, Action: m.action, EntityID: m.entityID, Scope: m.key.Scope, Stage: "optimistic"}
	s.publish(id, change)

	if id.Anonymous() || m.persist == nil {
		observability.StoreMutations.WithLabelValues(m.family, "local").Inc()
		return next, nil
	}

	reconcile, err := m.persist(ctx)
	if err == nil {
		if !existed {
			// next was built on defaults served for a failed load; reload the stored rows
			m.cache.Invalidate(m.key)
			if reconcile != nil {
				next = reconcile(next)
			}
		} else if reconcile != nil {
			_, next, _ = m.cache.Update(m.key, func(cur V, ok bool) (V, error) {
				if !ok {
					cur = next
				}
				return reconcile(cur), nil
			})
		}
		observability.StoreMutations.WithLabelValues(m.family, "persisted").Inc()
		change.Stage = "persisted"
		s.publish(id, change)
		return next, nil
	}

	if s.policy == PolicySurface {
		if existed {
			m.cache.Set(m.key, prev)
		} else {
			m.cache.Invalidate(m.key)
		}
		observability.StoreMutations.WithLabelValues(m.family, "rolled_back").Inc()
		change.Stage = "rolled_back"
		s.publish(id, change)
		s.logger.ErrorContext(ctx, "write failed, rolled back",
			"family", m.family, "action", m.action, "identity", id.Key(), "error", err)
		if errors.Is(err, repository.ErrNotFound) {
			var zero V
			return zero, fmt.Errorf("%s %s: %w", m.action, m.family, ErrNotFound)
		}
		var zero V
		return zero, fmt.Errorf("%w: %s %s: %w", ErrPersistence, m.action, m.family, err)
	}

	observability.StoreMutations.WithLabelValues(m.family, "kept").Inc()
	s.logger.WarnContext(ctx, "write failed, keeping optimistic value",
		"family", m.family, "action", m.action, "identity", id.Key(), "error", err)
	return next, nil
}

func (s *Store) publish(id Identity, c Change) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(id.Key(), c)
}

// indexOf returns the position of the element whose id matches, or -1.
func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}
