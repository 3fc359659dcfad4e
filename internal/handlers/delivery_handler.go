package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskpulse/internal/models"
	"taskpulse/internal/services"
)

type DeliveryHandler struct {
	service services.ReportService
}

func NewDeliveryHandler(service services.ReportService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// List godoc
// @Summary  Query the notification delivery audit trail
// @Tags     deliveries
// @Produce  json
// @Param    status     query  string  false  "sent or failed"
// @Param    channel    query  string  false  "email, sms or whatsapp"
// @Param    task_id    query  int     false  "task id"
// @Param    page       query  int     false  "page, starting at 1"
// @Param    page_size  query  int     false  "page size, default 50"
// @Success  200 {object} object{items=[]models.DeliveryLogEntry,total=int}
// @Router   /deliveries [get]
func (h *DeliveryHandler) List(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	items, total, err := h.service.Deliveries(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[deliveries][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deliveries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// ExportPDF godoc
// @Summary  Export the delivery audit trail as a PDF report
// @Tags     deliveries
// @Produce  application/pdf
// @Param    status   query  string  false  "sent or failed"
// @Param    channel  query  string  false  "email, sms or whatsapp"
// @Success  200
// @Router   /deliveries/report.pdf [get]
func (h *DeliveryHandler) ExportPDF(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	path, err := h.service.ExportPDF(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[deliveries][pdf][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *DeliveryHandler) filter(c *gin.Context) (models.DeliveryFilter, bool) {
	var filter models.DeliveryFilter

	if v, ok := c.GetQuery("status"); ok {
		st := models.DeliveryStatus(v)
		if st != models.DeliverySent && st != models.DeliveryFailed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be sent or failed"})
			return filter, false
		}
		filter.Status = &st
	}
	if v, ok := c.GetQuery("channel"); ok {
		ch := models.Channel(v)
		if !models.IsValidChannel(ch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channel must be one of email, sms, whatsapp"})
			return filter, false
		}
		filter.Channel = &ch
	}
	if v, ok := c.GetQuery("task_id"); ok {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.TaskID = &id
		} else {
			log.Printf("[deliveries][warn] bad task_id=%q: %v", v, err)
		}
	}
	if v, ok := c.GetQuery("page"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Page = n
		}
	}
	if v, ok := c.GetQuery("page_size"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			filter.PageSize = n
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	return filter, true
}
