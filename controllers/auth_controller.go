package controllers

import (
	"errors"
	"net/http"

	"fitquest/middlewares"
	"fitquest/services"
	"fitquest/store"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth  *services.AuthService
	Store *store.Store
}

func NewAuthController(auth *services.AuthService, s *store.Store) *AuthController {
	return &AuthController{Auth: auth, Store: s}
}

func (ac *AuthController) SignUp(c *gin.Context) {
	var req services.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	user, session, err := ac.Auth.SignUp(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "session": session})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := ac.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Logout ends the hosted session and drops the user's cached state.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Auth.Logout(c.Request.Context(), middlewares.AccessToken(c)); err != nil {
		respondAuthError(c, err)
		return
	}
	ac.Store.Forget(middlewares.IdentityFrom(c))
	c.Status(http.StatusNoContent)
}

func (ac *AuthController) User(c *gin.Context) {
	user, err := ac.Auth.User(c.Request.Context(), middlewares.AccessToken(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func respondAuthError(c *gin.Context, err error) {
	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		c.JSON(authErr.Status, gin.H{"error": authErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "auth service unavailable"})
}
