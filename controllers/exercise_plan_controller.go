package controllers

import (
	"net/http"

	"fitquest/middlewares"
	"fitquest/models"
	"fitquest/store"

	"github.com/gin-gonic/gin"
)

type ExercisePlanController struct {
	Store *store.Store
}

func NewExercisePlanController(s *store.Store) *ExercisePlanController {
	return &ExercisePlanController{Store: s}
}

func (pc *ExercisePlanController) List(c *gin.Context) {
	plans, err := pc.Store.ExercisePlans(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// Today returns today's plan (null on a rest day) and the body parts it trains.
func (pc *ExercisePlanController) Today(c *gin.Context) {
	ctx, id := c.Request.Context(), middlewares.IdentityFrom(c)
	plan, ok, err := pc.Store.TodaysPlan(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	parts, err := pc.Store.BodyPartsForToday(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	var today *models.ExercisePlan
	if ok {
		today = &plan
	}
	c.JSON(http.StatusOK, gin.H{"plan": today, "bodyParts": parts})
}

func (pc *ExercisePlanController) Create(c *gin.Context) {
	var plan models.ExercisePlan
	if !bindJSON(c, &plan) {
		return
	}
	created, err := pc.Store.AddPlan(c.Request.Context(), middlewares.IdentityFrom(c), plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (pc *ExercisePlanController) Update(c *gin.Context) {
	var patch models.ExercisePlanPatch
	if !bindJSON(c, &patch) {
		return
	}
	plan, err := pc.Store.UpdatePlan(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (pc *ExercisePlanController) Delete(c *gin.Context) {
	if err := pc.Store.DeletePlan(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (pc *ExercisePlanController) AddExercise(c *gin.Context) {
	var ex models.Exercise
	if !bindJSON(c, &ex) {
		return
	}
	created, err := pc.Store.AddExercise(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id"), ex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (pc *ExercisePlanController) UpdateExercise(c *gin.Context) {
	var patch models.ExercisePatch
	if !bindJSON(c, &patch) {
		return
	}
	ex, err := pc.Store.UpdateExercise(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id"), c.Param("exerciseId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (pc *ExercisePlanController) DeleteExercise(c *gin.Context) {
	err := pc.Store.DeleteExercise(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id"), c.Param("exerciseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (pc *ExercisePlanController) ToggleExercise(c *gin.Context) {
	ex, err := pc.Store.ToggleExercise(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id"), c.Param("exerciseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}
