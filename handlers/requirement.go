package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medshift/middleware"
	"medshift/models"
	"medshift/utils"
)

// PublishRequirementHandler creates a shift requirement for the
// authenticated hospital and kicks off the match scan.
func (hb *HandlerBundle) PublishRequirementHandler(c *gin.Context) {
	var req models.ShiftRequirement
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	actorID, _ := middleware.Actor(c)
	req.HospitalID = actorID

	if err := hb.PublicationSvc.PublishRequirement(c.Request.Context(), &req); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requirement": req})
}

// UpdateRequirementHandler applies edits to an OPEN requirement owned by the
// authenticated hospital.
func (hb *HandlerBundle) UpdateRequirementHandler(c *gin.Context) {
	var req models.ShiftRequirement
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.ID = c.Param("id")
	actorID, _ := middleware.Actor(c)

	if err := hb.PublicationSvc.UpdateRequirement(c.Request.Context(), &req, actorID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requirement": req})
}

// DeleteRequirementHandler retracts a requirement still in review.
func (hb *HandlerBundle) DeleteRequirementHandler(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	if err := hb.PublicationSvc.DeleteRequirement(c.Request.Context(), c.Param("id"), actorID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "requirement deleted"})
}

// CancelRequirementHandler is the audited cancellation path for requirements
// that have advanced past review.
func (hb *HandlerBundle) CancelRequirementHandler(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	if err := hb.LifecycleSvc.CancelRequirement(c.Request.Context(), c.Param("id"), actorID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "requirement cancelled"})
}
