package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medshift/middleware"
	"medshift/models"
	"medshift/utils"
)

// RegisterPushTokenHandler stores the caller's FCM token so lifecycle events
// can reach their device.
func (hb *HandlerBundle) RegisterPushTokenHandler(c *gin.Context) {
	var input struct {
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	actorID, role := middleware.Actor(c)
	target := models.PushTarget{ID: actorID, Role: role, FCMToken: input.FCMToken}
	if err := hb.PushTargetRepo.Upsert(c.Request.Context(), target); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "push token registered"})
}
