package controllers

import (
	"errors"
	"net/http"

	"fitquest/middlewares"
	"fitquest/models"
	"fitquest/store"
	"fitquest/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Store    *store.Store
	Uploader *utils.Uploader
}

func NewProfileController(s *store.Store, u *utils.Uploader) *ProfileController {
	return &ProfileController{Store: s, Uploader: u}
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	profile, err := pc.Store.Profile(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var patch models.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}
	profile, err := pc.Store.UpdateProfile(c.Request.Context(), middlewares.IdentityFrom(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (pc *ProfileController) GetProgress(c *gin.Context) {
	progress, err := pc.Store.ProfileProgress(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

type PictureRequest struct {
	Image string `json:"image" binding:"required"`
}

// UploadPicture stores a data-URL image and points the profile at it. Signed-in users only.
func (pc *ProfileController) UploadPicture(c *gin.Context) {
	var req PictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := middlewares.IdentityFrom(c)

	url, err := pc.Uploader.UploadDataURL(c.Request.Context(), req.Image, id.UserID)
	switch {
	case errors.Is(err, utils.ErrInvalidDataURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, utils.ErrUploadsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upload failed"})
		return
	}

	profile, err := pc.Store.UpdateProfile(c.Request.Context(), id, models.ProfilePatch{ProfilePicture: &url})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
