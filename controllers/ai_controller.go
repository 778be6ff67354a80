package controllers

import (
	"net/http"

	"fitquest/services"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	Assistant *services.Assistant
}

func NewAIController(a *services.Assistant) *AIController {
	return &AIController{Assistant: a}
}

type ChatRequest struct {
	Messages []services.ChatMessage `json:"messages" binding:"required,dive"`
}

// Chat answers with the whole failure hidden behind one message; details are in the logs.
func (ac *AIController) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.ChatFailedMessage})
		return
	}
	text, err := ac.Assistant.Chat(c.Request.Context(), req.Messages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.ChatFailedMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": text})
}

func (ac *AIController) Recipe(c *gin.Context) {
	var req services.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.RecipeFailedMessage})
		return
	}
	recipe, err := ac.Assistant.GenerateRecipe(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.RecipeFailedMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}
