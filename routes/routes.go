package routes

import (
	"context"
	"log/slog"
	"net/http"

	"fitquest/controllers"
	"fitquest/middlewares"
	"fitquest/services"
	"fitquest/store"
	"fitquest/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "fitquest"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store          *store.Store
	Assistant      *services.Assistant
	Auth           *services.AuthService
	Hub            *services.RealtimeHub
	Uploader       *utils.Uploader
	MaxUploadBytes int64
	DB             Pinger
	JWTSecret      string
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.IdentityMiddleware(d.JWTSecret))
	r.Use(middlewares.RequestLogger(d.Logger))

	r.GET("/health", func(c *gin.Context) {
		if d.DB != nil {
			if err := d.DB.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "policy": d.Store.Policy()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Hosted auth proxy
	authCtl := controllers.NewAuthController(d.Auth, d.Store)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authCtl.SignUp)
		auth.POST("/login", authCtl.Login)
		auth.POST("/logout", middlewares.RequireUser(), authCtl.Logout)
		auth.GET("/user", middlewares.RequireUser(), authCtl.User)
	}

	rt := controllers.NewRealtimeController(d.Hub, d.AllowedOrigins)
	r.GET("/ws", rt.ChangesWS)

	api := r.Group("/api")

	ai := controllers.NewAIController(d.Assistant)
	api.POST("/chat", ai.Chat)
	api.POST("/recipe", ai.Recipe)

	profile := controllers.NewProfileController(d.Store, d.Uploader)
	api.GET("/profile", profile.GetProfile)
	api.PUT("/profile", profile.UpdateProfile)
	api.PUT("/profile/picture", middlewares.RequireUser(), middlewares.LimitBody(d.MaxUploadBytes), profile.UploadPicture)
	api.GET("/profile/progress", profile.GetProgress)

	missions := controllers.NewMissionController(d.Store)
	api.GET("/missions", missions.List)
	api.POST("/missions/:id/toggle", missions.Toggle)

	plans := controllers.NewExercisePlanController(d.Store)
	pg := api.Group("/exercise-plans")
	{
		pg.GET("", plans.List)
		pg.POST("", plans.Create)
		pg.GET("/today", plans.Today)
		pg.PUT("/:id", plans.Update)
		pg.DELETE("/:id", plans.Delete)
		pg.POST("/:id/exercises", plans.AddExercise)
		pg.PUT("/:id/exercises/:exerciseId", plans.UpdateExercise)
		pg.DELETE("/:id/exercises/:exerciseId", plans.DeleteExercise)
		pg.POST("/:id/exercises/:exerciseId/toggle", plans.ToggleExercise)
	}

	logs := controllers.NewTrainingLogController(d.Store)
	api.GET("/training-logs", logs.List)
	api.POST("/training-logs", logs.Create)
	api.DELETE("/training-logs/:id", logs.Delete)

	nutrition := controllers.NewNutritionController(d.Store)
	api.GET("/nutrition-plans", nutrition.ListPlans)
	api.POST("/nutrition-plans", nutrition.CreatePlan)
	api.PUT("/nutrition-plans/:id", nutrition.UpdatePlan)
	api.DELETE("/nutrition-plans/:id", nutrition.DeletePlan)

	dg := api.Group("/daily-nutrition")
	{
		dg.GET("", nutrition.GetDaily)
		dg.POST("/entries", nutrition.AddEntry)
		dg.DELETE("/entries/:id", nutrition.RemoveEntry)
		dg.PUT("/target", nutrition.SetTarget)
	}

	recipes := controllers.NewRecipeController(d.Store)
	api.GET("/recipes", recipes.List)
	api.POST("/recipes", recipes.Save)
	api.DELETE("/recipes/:id", recipes.Delete)

	return r
}
