package controllers

import (
	"net/http"

	"fitquest/middlewares"
	"fitquest/store"

	"github.com/gin-gonic/gin"
)

type MissionController struct {
	Store *store.Store
}

func NewMissionController(s *store.Store) *MissionController {
	return &MissionController{Store: s}
}

func (mc *MissionController) List(c *gin.Context) {
	missions, err := mc.Store.Missions(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}

func (mc *MissionController) Toggle(c *gin.Context) {
	mission, err := mc.Store.ToggleMission(c.Request.Context(), middlewares.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mission)
}
