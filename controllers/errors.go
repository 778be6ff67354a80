package controllers

import (
	"errors"
	"net/http"
	"time"

	"fitquest/store"

	"github.com/gin-gonic/gin"
)

// respondError maps store errors to status codes. Anything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrPersistence):
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage is unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to today.
func dateParam(c *gin.Context, s *store.Store) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return s.Today(), true
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return "", false
	}
	return date, true
}
