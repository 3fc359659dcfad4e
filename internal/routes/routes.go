package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskpulse/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	assignmentHandler *handlers.AssignmentHandler,
	reminderHandler *handlers.ReminderHandler,
	deliveryHandler *handlers.DeliveryHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// TASK ASSIGNMENT RESPONSES
	// accept/reject are reachable by GET too: the confirmation token in
	// the email link is the credential, there is no session
	tasks := r.Group("/tasks")
	{
		tasks.POST("/:id/assign", assignmentHandler.Assign)
		tasks.GET("/:id/accept", assignmentHandler.Accept)
		tasks.POST("/:id/accept", assignmentHandler.Accept)
		tasks.GET("/:id/reject", assignmentHandler.Reject)
		tasks.POST("/:id/reject", assignmentHandler.Reject)
	}

	// REMINDERS
	reminders := r.Group("/reminders")
	{
		reminders.POST("/", reminderHandler.Schedule)
		reminders.GET("/", reminderHandler.List)
		reminders.DELETE("/:id", reminderHandler.Cancel)
	}

	// DELIVERY AUDIT (read-only)
	deliveries := r.Group("/deliveries")
	{
		deliveries.GET("/", deliveryHandler.List)
		deliveries.GET("/report.pdf", deliveryHandler.ExportPDF)
	}

	return r
}
