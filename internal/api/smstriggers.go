package api

import (
	"encoding/json"
	"net/http"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SmsTriggerHandler struct {
	db *gorm.DB
}

func NewSmsTriggerHandler(db *gorm.DB) *SmsTriggerHandler {
	return &SmsTriggerHandler{db: db}
}

func (h *SmsTriggerHandler) List(c *gin.Context) {
	query := h.db.Order("priority DESC, created_at DESC")
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		query = query.Where("campaign_id = ?", campaignID)
	}

	var rules []models.SmsTrigger
	if err := query.Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rules == nil {
		rules = []models.SmsTrigger{}
	}
	c.JSON(http.StatusOK, rules)
}

type triggerRequest struct {
	CampaignID      uint            `json:"campaign_id" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Priority        int             `json:"priority"`
	Conditions      json.RawMessage `json:"conditions" binding:"required"`
	MessageTemplate string          `json:"message_template" binding:"required"`
}

func (h *SmsTriggerHandler) Create(c *gin.Context) {
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var campaign models.Campaign
	if err := h.db.First(&campaign, req.CampaignID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaign not found"})
		return
	}

	rule := models.SmsTrigger{
		CampaignID:      req.CampaignID,
		Name:            req.Name,
		Priority:        req.Priority,
		Conditions:      string(req.Conditions),
		MessageTemplate: req.MessageTemplate,
		Enabled:         true,
	}
	if err := h.db.Create(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *SmsTriggerHandler) Update(c *gin.Context) {
	var rule models.SmsTrigger
	if err := h.db.First(&rule, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trigger not found"})
		return
	}

	var req struct {
		Name            string          `json:"name"`
		Priority        *int            `json:"priority"`
		Conditions      json.RawMessage `json:"conditions"`
		MessageTemplate string          `json:"message_template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if len(req.Conditions) > 0 {
		updates["conditions"] = string(req.Conditions)
	}
	if req.MessageTemplate != "" {
		updates["message_template"] = req.MessageTemplate
	}
	if err := h.db.Model(&rule).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *SmsTriggerHandler) Toggle(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.db.Model(&models.SmsTrigger{}).Where("id = ?", c.Param("id")).Update("enabled", req.Enabled)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "trigger not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "trigger toggled"})
}

func (h *SmsTriggerHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.SmsTrigger{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "trigger not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "trigger deleted"})
}

// Logs returns recent SMS send attempts, optionally per campaign.
func (h *SmsTriggerHandler) Logs(c *gin.Context) {
	limit, offset := paginate(c)

	query := h.db.Order("created_at DESC")
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		query = query.Where("campaign_id = ?", campaignID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var logs []models.SmsLog
	if err := query.Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []models.SmsLog{}
	}
	c.JSON(http.StatusOK, logs)
}
