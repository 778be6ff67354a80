package controllers

import (
	"net/http"

	"fitquest/middlewares"
	"fitquest/models"
	"fitquest/store"

	"github.com/gin-gonic/gin"
)

type NutritionController struct {
	Store *store.Store
}

func NewNutritionController(s *store.Store) *NutritionController {
	return &NutritionController{Store: s}
}

func (nc *NutritionController) ListPlans(c *gin.Context) {
	plans, err := nc.Store.NutritionPlans(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (nc *NutritionController) CreatePlan(c *gin.Context) {
	var plan models.NutritionPlan
	if !bindJSON(c, &plan) {
		return
	}
	created, err := nc.Store.AddNutritionPlan(c.Request.Context(), middlewares.IdentityFrom(c), plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (nc *NutritionController) UpdatePlan(c *gin.Context) {
	var patch models.NutritionPlanPatch
	if !bindJSON(c, &patch) {
		return
	}
	plan, err := nc.Store.UpdateNutritionPlan(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (nc *NutritionController) DeletePlan(c *gin.Context) {
	if err := nc.Store.DeleteNutritionPlan(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDaily returns the food log of ?date= with its totals.
func (nc *NutritionController) GetDaily(c *gin.Context) {
	date, ok := dateParam(c, nc.Store)
	if !ok {
		return
	}
	day, totals, err := nc.Store.NutritionTotals(c.Request.Context(), middlewares.IdentityFrom(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nutrition": day, "totals": totals})
}

func (nc *NutritionController) AddEntry(c *gin.Context) {
	date, ok := dateParam(c, nc.Store)
	if !ok {
		return
	}
	var entry models.MealEntry
	if !bindJSON(c, &entry) {
		return
	}
	created, err := nc.Store.AddEntry(c.Request.Context(), middlewares.IdentityFrom(c), date, entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (nc *NutritionController) RemoveEntry(c *gin.Context) {
	date, ok := dateParam(c, nc.Store)
	if !ok {
		return
	}
	if err := nc.Store.RemoveEntry(c.Request.Context(), middlewares.IdentityFrom(c), date, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type TargetRequest struct {
	TargetCalories float64 `json:"targetCalories" binding:"gt=0"`
}

func (nc *NutritionController) SetTarget(c *gin.Context) {
	date, ok := dateParam(c, nc.Store)
	if !ok {
		return
	}
	var req TargetRequest
	if !bindJSON(c, &req) {
		return
	}
	day, err := nc.Store.SetTargetCalories(c.Request.Context(), middlewares.IdentityFrom(c), date, req.TargetCalories)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nutrition": day, "totals": day.Totals()})
}
