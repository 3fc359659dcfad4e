package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskpulse/internal/services"
)

type AssignmentHandler struct {
	service services.AssignmentService
}

func NewAssignmentHandler(service services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Assign godoc
// @Summary  Assign a task to a user and send the confirmation request
// @Tags     assignments
// @Accept   json
// @Produce  json
// @Param    id    path  int  true  "task id"
// @Param    body  body  object{user_id=int}  true  "assignee"
// @Success  201 {object} models.Assignment
// @Router   /tasks/{id}/assign [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[assign][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.service.Assign(c.Request.Context(), taskID, req.UserID)
	if err != nil {
		log.Printf("[assign][err] task=%d user=%d: %v", taskID, req.UserID, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[assign][ok] task=%d user=%d assignment=%d", taskID, req.UserID, a.ID)
	c.JSON(http.StatusCreated, a)
}

// Accept godoc
// @Summary  Accept a task assignment via confirmation token
// @Tags     assignments
// @Produce  json
// @Param    id     path   int     true  "task id"
// @Param    token  query  string  true  "confirmation token"
// @Success  200 {object} object{task=models.Task,status=string}
// @Router   /tasks/{id}/accept [post]
func (h *AssignmentHandler) Accept(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	token := h.token(c)

	task, err := h.service.Accept(c.Request.Context(), taskID, token)
	if err != nil {
		log.Printf("[accept][err] task=%d: %v", taskID, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[accept][ok] task=%d status=%s", taskID, task.Status)
	c.JSON(http.StatusOK, gin.H{"task": task, "status": task.Status})
}

// Reject godoc
// @Summary  Reject a task assignment via confirmation token
// @Tags     assignments
// @Produce  json
// @Param    id      path   int     true   "task id"
// @Param    token   query  string  true   "confirmation token"
// @Param    reason  query  string  true   "rejection reason"
// @Success  200 {object} object{task=models.Task,status=string}
// @Router   /tasks/{id}/reject [post]
func (h *AssignmentHandler) Reject(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	// email links carry token/reason in the query; API clients in the body
	token, reason := c.Query("token"), c.Query("reason")
	if token == "" || reason == "" {
		var body struct {
			Token  string `json:"token"`
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			if token == "" {
				token = body.Token
			}
			if reason == "" {
				reason = body.Reason
			}
		}
	}

	task, err := h.service.Reject(c.Request.Context(), taskID, token, reason)
	if err != nil {
		log.Printf("[reject][err] task=%d: %v", taskID, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[reject][ok] task=%d status=%s", taskID, task.Status)
	c.JSON(http.StatusOK, gin.H{"task": task, "status": task.Status})
}

// token reads the confirmation token from the query string (email links)
// or, failing that, from a JSON body (API clients).
func (h *AssignmentHandler) token(c *gin.Context) string {
	if t := c.Query("token"); t != "" {
		return t
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return ""
	}
	return body.Token
}
