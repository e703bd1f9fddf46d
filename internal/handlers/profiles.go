package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"reflow_oven/internal/profile"

	"github.com/gin-gonic/gin"
)

const (
	errListProfiles  = "failed to load profiles"
	errSaveProfiles  = "failed to save profiles"
	errBadIndexParam = "profile index must be an integer"
)

// profileIndex parses the :index path parameter and writes a 400 on failure.
func profileIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadIndexParam})
		return 0, false
	}
	return idx, true
}

// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  service.ProfileList
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/profiles [get]
// @Security     BearerAuth
func (h *Handler) listProfiles(c *gin.Context) {
	list, err := h.services.Profiles.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListProfiles, "profiles_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Get profile
// @Description  Returns the profile with its total duration and piecewise-linear checkpoints.
// @Tags         profiles
// @Produce      json
// @Param        index  path  int  true  "Profile index"
// @Success      200  {object}  service.ProfileDetail
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/profiles/{index} [get]
// @Security     BearerAuth
func (h *Handler) getProfile(c *gin.Context) {
	idx, ok := profileIndex(c)
	if !ok {
		return
	}
	d, err := h.services.Profiles.Get(c.Request.Context(), idx)
	if err != nil {
		h.respondServiceError(c, errListProfiles, "profiles_get_failed", err, "index", idx)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Add profile
// @Description  Appends a copy of the Sn63_Pb37 profile named "Profile N".
// @Tags         profiles
// @Produce      json
// @Success      201  {object}  map[string]int  "index"
// @Failure      409  {object}  map[string]string  "store full"
// @Router       /api/v1/profiles [post]
// @Security     BearerAuth
func (h *Handler) addProfile(c *gin.Context) {
	idx, err := h.services.Profiles.Add(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, errSaveProfiles, "profiles_add_failed", err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/profiles/%d", idx))
	c.JSON(http.StatusCreated, gin.H{"index": idx})
}

// @Summary      Update profile
// @Description  Temperatures are in tenths of a degree Celsius.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        index  path  int              true  "Profile index"
// @Param        body   body  profile.Profile  true  "Profile"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/profiles/{index} [put]
// @Security     BearerAuth
func (h *Handler) updateProfile(c *gin.Context) {
	idx, ok := profileIndex(c)
	if !ok {
		return
	}
	var p profile.Profile
	if !h.bindJSONOrBadRequest(c, &p) {
		return
	}
	if err := h.services.Profiles.Update(c.Request.Context(), idx, p); err != nil {
		h.respondServiceError(c, errSaveProfiles, "profiles_update_failed", err, "index", idx)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary      Delete profile
// @Tags         profiles
// @Produce      json
// @Param        index  path  int  true  "Profile index"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "last profile"
// @Router       /api/v1/profiles/{index} [delete]
// @Security     BearerAuth
func (h *Handler) deleteProfile(c *gin.Context) {
	idx, ok := profileIndex(c)
	if !ok {
		return
	}
	if err := h.services.Profiles.Delete(c.Request.Context(), idx); err != nil {
		h.respondServiceError(c, errSaveProfiles, "profiles_delete_failed", err, "index", idx)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary      Activate profile
// @Description  Selects the profile the next reflow run uses.
// @Tags         profiles
// @Produce      json
// @Param        index  path  int  true  "Profile index"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/profiles/{index}/activate [post]
// @Security     BearerAuth
func (h *Handler) activateProfile(c *gin.Context) {
	idx, ok := profileIndex(c)
	if !ok {
		return
	}
	if err := h.services.Profiles.Activate(c.Request.Context(), idx); err != nil {
		h.respondServiceError(c, errSaveProfiles, "profiles_activate_failed", err, "index", idx)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "activated", "active": idx})
}
