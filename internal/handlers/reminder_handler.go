package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskpulse/internal/models"
	"taskpulse/internal/services"
)

type ReminderHandler struct {
	service services.ReminderService
}

func NewReminderHandler(service services.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// Schedule godoc
// @Summary  Schedule an explicit reminder for a task
// @Tags     reminders
// @Accept   json
// @Produce  json
// @Param    body  body  object{task_id=int,user_id=int,remind_at=string,channel=string,message=string}  true  "reminder"
// @Success  201 {object} models.Reminder
// @Router   /reminders [post]
func (h *ReminderHandler) Schedule(c *gin.Context) {
	var req struct {
		TaskID   int64          `json:"task_id" binding:"required"`
		UserID   int64          `json:"user_id" binding:"required"`
		RemindAt string         `json:"remind_at" binding:"required"` // RFC3339
		Channel  models.Channel `json:"channel" binding:"required"`
		Message  string         `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[reminder][schedule][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at, err := time.Parse(time.RFC3339, req.RemindAt)
	if err != nil {
		log.Printf("[reminder][schedule][err] invalid remind_at=%q: %v", req.RemindAt, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid remind_at (RFC3339)"})
		return
	}

	rem, err := h.service.Schedule(c.Request.Context(), req.TaskID, req.UserID, at, req.Channel, req.Message)
	if err != nil {
		log.Printf("[reminder][schedule][err] task=%d user=%d: %v", req.TaskID, req.UserID, err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rem)
}

// Cancel godoc
// @Summary  Cancel a scheduled reminder (soft delete)
// @Tags     reminders
// @Param    id  path  int  true  "reminder id"
// @Success  204
// @Router   /reminders/{id} [delete]
func (h *ReminderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		log.Printf("[reminder][cancel][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List godoc
// @Summary  List reminders for a task
// @Tags     reminders
// @Produce  json
// @Param    task_id  query  int  true  "task id"
// @Success  200 {array} models.Reminder
// @Router   /reminders [get]
func (h *ReminderHandler) List(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Query("task_id"), 10, 64)
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_id query parameter required"})
		return
	}

	reminders, err := h.service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		log.Printf("[reminder][list][err] task=%d: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reminders"})
		return
	}
	c.JSON(http.StatusOK, reminders)
}
