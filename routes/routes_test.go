package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitquest/middlewares"
	"fitquest/models"
	"fitquest/repository"
	"fitquest/services"
	"fitquest/store"
	"fitquest/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const jwtSecret = "super-secret-jwt-token"

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type cannedGenerator struct {
	reply string
	err   error
}

func (g cannedGenerator) Generate(context.Context, string, bool) (string, error) {
	return g.reply, g.err
}

const bowlJSON = "```json\n" + `{
	"name": "Chicken Fried Rice",
	"description": "Budget friendly fried rice with chicken.",
	"servings": 2,
	"prepTime": "10 min",
	"cookTime": "15 min",
	"calories": 520,
	"protein": 38,
	"carbs": 58,
	"fat": 14,
	"ingredients": [{"item": "chicken thigh", "amount": "250 g"}, {"item": "cooked rice", "amount": "2 cups"}],
	"instructions": ["Dice the chicken.", "Fry it.", "Add the rice."],
	"estimatedCost": "$8"
}` + "\n```"

type testServer struct {
	router *gin.Engine
	repo   *repository.Client
}

func newTestServer(t *testing.T, gen services.Generator, policy store.Policy) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := repository.New(db, quiet)
	require.NoError(t, repo.Migrate(context.Background()))

	hub := services.NewRealtimeHub()
	s := store.New(repo, store.Options{Policy: policy, Publisher: services.NewChangeBus(hub), Logger: quiet})
	router := SetupRouter(Deps{
		Store:          s,
		Assistant:      services.NewAssistant(gen, time.Second, quiet),
		Auth:           services.NewAuthService("http://127.0.0.1:1", "anon", repo, quiet),
		Hub:            hub,
		MaxUploadBytes: 1024,
		DB:             repo,
		JWTSecret:      jwtSecret,
		Logger:         quiet,
	})
	return &testServer{router: router, repo: repo}
}

func (ts *testServer) newUserToken(t *testing.T) string {
	t.Helper()
	id := uuid.NewString()
	_, err := ts.repo.CreateProfile(context.Background(), id, "lee@example.com", "Lee")
	require.NoError(t, err)
	token, err := utils.SignAccessToken(jwtSecret, id, time.Hour)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestRecipeEndpoint(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{reply: bowlJSON}, store.PolicyDegrade)

	w := ts.do(http.MethodPost, "/api/recipe", gin.H{"ingredients": "chicken, rice", "budget": "$15"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Recipe models.Recipe `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Recipe.Ingredients)
	assert.Positive(t, resp.Recipe.Calories)
	assert.Equal(t, "Chicken Fried Rice", resp.Recipe.Name)
}

func TestAIFailuresAreGeneric(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{err: errors.New("upstream 429")}, store.PolicyDegrade)

	w := ts.do(http.MethodPost, "/api/chat", gin.H{"messages": []gin.H{{"role": "user", "content": "hi"}}}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to get response from AI"}`, w.Body.String())

	w = ts.do(http.MethodPost, "/api/recipe", gin.H{"ingredients": "chicken", "budget": "$5"}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate recipe"}`, w.Body.String())

	bad := newTestServer(t, cannedGenerator{reply: "I can't do that."}, store.PolicyDegrade)
	w = bad.do(http.MethodPost, "/api/recipe", gin.H{"ingredients": "chicken", "budget": "$5"}, nil)
	assert.JSONEq(t, `{"error":"Failed to generate recipe"}`, w.Body.String())
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{reply: "Eat more vegetables."}, store.PolicyDegrade)

	w := ts.do(http.MethodPost, "/api/chat", gin.H{"messages": []gin.H{{"role": "user", "content": "Tips?"}}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Eat more vegetables."}`, w.Body.String())

	w = ts.do(http.MethodPost, "/api/chat", gin.H{"messages": []gin.H{}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Eat more vegetables."}`, w.Body.String())

	w = ts.do(http.MethodPost, "/api/chat", gin.H{}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDailyNutritionAppleScenario(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{}, store.PolicySurface)
	token := ts.newUserToken(t)
	const path = "/api/daily-nutrition?date=2026-02-13"

	type daily struct {
		Nutrition models.DailyNutrition  `json:"nutrition"`
		Totals    models.NutritionTotals `json:"totals"`
	}
	var before daily
	w := ts.do(http.MethodGet, path, nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &before))

	w = ts.do(http.MethodPost, "/api/daily-nutrition/entries?date=2026-02-13",
		gin.H{"name": "Apple", "calories": 95, "protein": 0.5, "carbs": 25, "fat": 0.3, "mealType": "snack"}, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var apple models.MealEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apple))
	assert.False(t, store.IsTemp(apple.ID))

	var after daily
	w = ts.do(http.MethodGet, path, nil, bearer(token))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, before.Totals.Calories+95, after.Totals.Calories)
	assert.Contains(t, after.Nutrition.Entries, apple)

	w = ts.do(http.MethodPost, "/api/daily-nutrition/entries?date=2026-02-13", gin.H{"name": "Apple", "calories": 95, "mealType": "brunch"}, bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/daily-nutrition?date=13-02-2026", nil, bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnonymousSessionFlow(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{}, store.PolicySurface)

	w := ts.do(http.MethodGet, "/api/missions", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := w.Header().Get(middlewares.SessionHeader)
	require.NotEmpty(t, session)
	var missions []models.Mission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &missions))
	require.Len(t, missions, 5)

	headers := map[string]string{middlewares.SessionHeader: session}
	w = ts.do(http.MethodPost, "/api/missions/m1/toggle", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/api/missions", nil, headers)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &missions))
	assert.True(t, missions[0].Completed)

	w = ts.do(http.MethodPost, "/api/missions/m1/toggle", nil, nil)
	var fresh models.Mission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fresh))
	assert.True(t, fresh.Completed, "a new session starts from the defaults")

	w = ts.do(http.MethodPost, "/api/missions/nope/toggle", nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPost, "/auth/logout", nil, headers)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExercisePlanEndpoints(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{}, store.PolicySurface)
	token := ts.newUserToken(t)

	w := ts.do(http.MethodGet, "/api/exercise-plans", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	var plans []models.ExercisePlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
	require.Len(t, plans, 2)
	plan, ex := plans[0], plans[0].Exercises[0]

	toggle := "/api/exercise-plans/" + plan.ID + "/exercises/" + ex.ID + "/toggle"
	w = ts.do(http.MethodPost, toggle, nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(http.MethodPost, toggle, nil, bearer(token))
	var toggled models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.Equal(t, ex.Completed, toggled.Completed)

	w = ts.do(http.MethodPost, "/api/exercise-plans", gin.H{"name": "Leg Day", "dayOfWeek": "Friday",
		"exercises": []gin.H{{"name": "Squats", "sets": 4, "reps": 10, "weight": 100, "bodyPart": "legs"}}}, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, "/api/exercise-plans", gin.H{"name": "Leg Day", "dayOfWeek": "Someday"}, bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodDelete, "/api/exercise-plans/"+uuid.NewString(), nil, bearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/exercise-plans/today", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	var today struct {
		BodyParts []string `json:"bodyParts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &today))
	assert.NotNil(t, today.BodyParts)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{}, store.PolicyDegrade)

	w := ts.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","policy":"degrade"}`, w.Body.String())

	w = ts.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fitquest_http_requests_total")
}

func TestProfilePictureUpload(t *testing.T) {
	ts := newTestServer(t, cannedGenerator{}, store.PolicyDegrade)
	const small = "data:image/png;base64,iVBORw0KGgo="

	w := ts.do(http.MethodPut, "/api/profile/picture", gin.H{"image": small}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := ts.newUserToken(t)
	huge := "data:image/png;base64," + strings.Repeat("A", 4096)
	w = ts.do(http.MethodPut, "/api/profile/picture", gin.H{"image": huge}, bearer(token))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// no bucket configured in tests
	w = ts.do(http.MethodPut, "/api/profile/picture", gin.H{"image": small}, bearer(token))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
