package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medshift/handlers"
	"medshift/middleware"
)

// RegisterHospitalRoutes registers the demand-side endpoints: publishing and
// retracting requirements, reviewing matches, and driving proposals to
// contract.
func RegisterHospitalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(middleware.RoleHospital))
	{
		api.POST("/requirements", hb.PublishRequirementHandler)
		api.PUT("/requirements/:id", hb.UpdateRequirementHandler)
		api.DELETE("/requirements/:id", hb.DeleteRequirementHandler)
		api.POST("/requirements/:id/cancel", hb.CancelRequirementHandler)
		api.GET("/requirements/:id/matches", hb.ListMatchesHandler)

		api.POST("/matches/:id/promote", hb.PromoteMatchHandler)
		api.POST("/matches/:id/reject", hb.RejectMatchHandler)

		api.POST("/proposals/:id/countersign", hb.CountersignProposalHandler)
	}
}

// RegisterDoctorRoutes registers the supply-side endpoints: publishing and
// withdrawing availability, answering proposals, and on-site time tracking.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(middleware.RoleDoctor))
	{
		api.POST("/slots", hb.PublishSlotHandler)
		api.DELETE("/slots/:id", hb.DeleteSlotHandler)

		api.POST("/proposals/:id/respond", hb.RespondToProposalHandler)

		api.POST("/contracts/:id/check-in", hb.CheckInHandler)
		api.POST("/contracts/:id/check-out", hb.CheckOutHandler)
	}
}

// RegisterSharedRoutes registers endpoints open to both roles.
func RegisterSharedRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("/push-tokens", hb.RegisterPushTokenHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHospitalRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterSharedRoutes(r, hb)
	RegisterHealthRoute(r)
}
