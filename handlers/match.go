package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medshift/models"
	"medshift/utils"
)

// ListMatchesHandler returns the review queue for a requirement, best score
// first. Listings are cached briefly; every state transition invalidates by
// expiry rather than explicit purge.
func (hb *HandlerBundle) ListMatchesHandler(c *gin.Context) {
	requirementID := c.Param("id")
	ctx := c.Request.Context()

	cacheKey := utils.ReviewCachePrefix + requirementID
	if cached, err := hb.CacheClient.Get(ctx, cacheKey).Result(); err == nil {
		var matches []models.PotentialMatch
		if json.Unmarshal([]byte(cached), &matches) == nil {
			c.JSON(http.StatusOK, gin.H{"matches": matches, "cached": true})
			return
		}
	}

	matches, err := hb.MatchRepo.ListByRequirement(ctx, requirementID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if data, err := json.Marshal(matches); err == nil {
		_ = hb.CacheClient.Set(ctx, cacheKey, data, utils.ReviewCacheTTL).Err()
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// PromoteMatchHandler turns a pending match into a proposal. An optional
// response deadline bounds how long the doctor may take to answer.
func (hb *HandlerBundle) PromoteMatchHandler(c *gin.Context) {
	var input struct {
		ResponseDeadline *time.Time `json:"responseDeadline"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	proposalID, err := hb.LifecycleSvc.PromoteMatch(c.Request.Context(), c.Param("id"), input.ResponseDeadline)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"proposalId": proposalID})
}

// RejectMatchHandler discards a pending match from the review queue.
func (hb *HandlerBundle) RejectMatchHandler(c *gin.Context) {
	if err := hb.LifecycleSvc.RejectMatch(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "match rejected"})
}
