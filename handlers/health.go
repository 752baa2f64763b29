package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medshift/utils"
)

// HealthHandler reports the latest dependency probe snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status})
}
