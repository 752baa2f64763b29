package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medshift/middleware"
	"medshift/models"
	"medshift/utils"
)

// PublishSlotHandler creates an availability slot for the authenticated doctor.
func (hb *HandlerBundle) PublishSlotHandler(c *gin.Context) {
	var slot models.AvailabilitySlot
	if err := c.ShouldBindJSON(&slot); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	actorID, _ := middleware.Actor(c)
	slot.DoctorID = actorID

	if err := hb.PublicationSvc.PublishSlot(c.Request.Context(), &slot); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

// DeleteSlotHandler withdraws an AVAILABLE slot.
func (hb *HandlerBundle) DeleteSlotHandler(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	if err := hb.PublicationSvc.DeleteSlot(c.Request.Context(), c.Param("id"), actorID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}
