package api

import (
	"net/http"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP routes onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	planService service.PlanService,
	workoutService service.WorkoutService,
	progressService service.ProgressService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService)
	planHandler := NewPlanHandler(planService)
	workoutHandler := NewWorkoutHandler(workoutService)
	progressHandler := NewProgressHandler(progressService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// Mesocycles are readable by both roles; the service checks that the
		// caller owns the plan from either side.
		protected.GET("/mesocycles/:mesocycleId", planHandler.GetMesocycle)

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// Client roster
			trainerGroup.POST("/clients", trainerHandler.AddClientByEmail)
			trainerGroup.GET("/clients", trainerHandler.GetManagedClients)

			// Plan templates
			trainerGroup.POST("/templates", trainerHandler.CreateTemplate)
			trainerGroup.GET("/templates", trainerHandler.GetTemplates)
			trainerGroup.PUT("/templates/:templateId", trainerHandler.UpdateTemplate)
			trainerGroup.DELETE("/templates/:templateId", trainerHandler.ArchiveTemplate)

			// Mesocycle lifecycle and per-client plan edits
			trainerGroup.POST("/mesocycles", planHandler.AssignPlan)
			trainerGroup.POST("/mesocycles/:mesocycleId/fork", planHandler.ForkPlan)
			trainerGroup.PATCH("/mesocycles/:mesocycleId/days/:dayId/exercises/:exerciseId", planHandler.UpdateClientExercise)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			// Workout logging
			clientGroup.POST("/workouts", workoutHandler.LogWorkout)
			clientGroup.PUT("/workouts/:logId", workoutHandler.UpdateWorkout)
			clientGroup.DELETE("/workouts/:logId", workoutHandler.DeleteWorkout)
			clientGroup.GET("/microcycles/:microcycleId/workouts", workoutHandler.GetWeekLogs)

			// Progress analytics
			clientGroup.GET("/progress/compare", progressHandler.CompareProgress)
			clientGroup.GET("/progress/history", progressHandler.ProgressHistory)
		}
	}
}
