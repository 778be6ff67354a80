package controllers

import (
	"net/http"

	"fitquest/middlewares"
	"fitquest/models"
	"fitquest/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RecipeController struct {
	Store    *store.Store
	validate *validator.Validate
}

func NewRecipeController(s *store.Store) *RecipeController {
	return &RecipeController{Store: s, validate: validator.New()}
}

func (rc *RecipeController) List(c *gin.Context) {
	recipes, err := rc.Store.Recipes(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// Save stores a generated recipe in the caller's collection.
func (rc *RecipeController) Save(c *gin.Context) {
	var recipe models.Recipe
	if !bindJSON(c, &recipe) {
		return
	}
	if err := rc.validate.Struct(recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	saved, err := rc.Store.SaveRecipe(c.Request.Context(), middlewares.IdentityFrom(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (rc *RecipeController) Delete(c *gin.Context) {
	if err := rc.Store.DeleteRecipe(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
