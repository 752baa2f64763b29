package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"medshift/middleware"
	"medshift/models"
	"medshift/utils"
)

// CheckInHandler records the doctor's arrival on site. The request is
// multipart: a photo plus lat/lng form fields. The photo goes to the
// evidence store first; only then does the state transaction run.
func (hb *HandlerBundle) CheckInHandler(c *gin.Context) {
	hb.handleCheckEvent(c, true)
}

// CheckOutHandler records the doctor's departure and completes the shift.
func (hb *HandlerBundle) CheckOutHandler(c *gin.Context) {
	hb.handleCheckEvent(c, false)
}

func (hb *HandlerBundle) handleCheckEvent(c *gin.Context, checkIn bool) {
	actorID, _ := middleware.Actor(c)
	contractID := c.Param("id")

	loc, ok := parseLocation(c)
	if !ok {
		return
	}

	evidenceRef, ok := hb.uploadEvidence(c)
	if !ok {
		return
	}

	now := time.Now()
	var record *models.TimeRecord
	var err error
	if checkIn {
		record, err = hb.RecorderSvc.CheckIn(c.Request.Context(), contractID, actorID, now, loc, evidenceRef)
	} else {
		record, err = hb.RecorderSvc.CheckOut(c.Request.Context(), contractID, actorID, now, loc, evidenceRef)
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeRecord": record})
}

func parseLocation(c *gin.Context) (models.GeoPoint, bool) {
	lat, errLat := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.PostForm("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "lat and lng form fields are required")
		return models.GeoPoint{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "coordinates out of range")
		return models.GeoPoint{}, false
	}
	// GeoJSON order: [longitude, latitude].
	return models.GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}, true
}

func (hb *HandlerBundle) uploadEvidence(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "photo file is required")
		return "", false
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save file", err.Error())
		return "", false
	}
	defer os.Remove(tempFilePath)

	ref, err := hb.StorageSvc.UploadFile(c.Request.Context(), tempFilePath, utils.EvidenceFolder)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store evidence photo", err.Error())
		return "", false
	}
	return ref, true
}
