package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medshift/utils"
)

// RespondToProposalHandler records the doctor's accept or reject on an
// awaiting proposal.
func (hb *HandlerBundle) RespondToProposalHandler(c *gin.Context) {
	var input struct {
		Accept bool   `json:"accept"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := hb.LifecycleSvc.RespondToProposal(c.Request.Context(), c.Param("id"), input.Accept, input.Reason); err != nil {
		utils.RespondError(c, err)
		return
	}
	if input.Accept {
		c.JSON(http.StatusOK, gin.H{"message": "proposal accepted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "proposal rejected"})
}

// CountersignProposalHandler issues the contract for an accepted proposal.
func (hb *HandlerBundle) CountersignProposalHandler(c *gin.Context) {
	contractID, err := hb.LifecycleSvc.CountersignProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contractId": contractID})
}
