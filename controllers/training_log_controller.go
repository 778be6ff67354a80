package controllers

import (
	"net/http"

	"fitquest/middlewares"
	"fitquest/models"
	"fitquest/store"

	"github.com/gin-gonic/gin"
)

type TrainingLogController struct {
	Store *store.Store
}

func NewTrainingLogController(s *store.Store) *TrainingLogController {
	return &TrainingLogController{Store: s}
}

func (lc *TrainingLogController) List(c *gin.Context) {
	logs, err := lc.Store.TrainingLogs(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (lc *TrainingLogController) Create(c *gin.Context) {
	var log models.TrainingLog
	if !bindJSON(c, &log) {
		return
	}
	created, err := lc.Store.AddLog(c.Request.Context(), middlewares.IdentityFrom(c), log)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (lc *TrainingLogController) Delete(c *gin.Context) {
	if err := lc.Store.DeleteLog(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
