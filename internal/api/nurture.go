package api

import (
	"net/http"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NurtureHandler struct {
	db *gorm.DB
}

func NewNurtureHandler(db *gorm.DB) *NurtureHandler {
	return &NurtureHandler{db: db}
}

func (h *NurtureHandler) List(c *gin.Context) {
	var campaigns []models.NurtureCampaign
	if err := h.db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Order("created_at DESC").Find(&campaigns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if campaigns == nil {
		campaigns = []models.NurtureCampaign{}
	}
	c.JSON(http.StatusOK, campaigns)
}

type nurtureStepRequest struct {
	Position   int    `json:"position"`
	OffsetDays int    `json:"offset_days"`
	Body       string `json:"body" binding:"required"`
}

type nurtureRequest struct {
	Name    string               `json:"name" binding:"required"`
	Enabled *bool                `json:"enabled"`
	Steps   []nurtureStepRequest `json:"steps" binding:"required,min=1"`
}

func (h *NurtureHandler) Create(c *gin.Context) {
	var req nurtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign := models.NurtureCampaign{Name: req.Name, Enabled: true}
	if req.Enabled != nil {
		campaign.Enabled = *req.Enabled
	}
	for i, step := range req.Steps {
		position := step.Position
		if position == 0 {
			position = i + 1
		}
		campaign.Steps = append(campaign.Steps, models.NurtureStep{
			Position:   position,
			OffsetDays: step.OffsetDays,
			Body:       step.Body,
		})
	}

	if err := h.db.Create(&campaign).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (h *NurtureHandler) Toggle(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.db.Model(&models.NurtureCampaign{}).
		Where("id = ?", c.Param("id")).Update("enabled", req.Enabled)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "nurture campaign not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "nurture campaign toggled"})
}

func (h *NurtureHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.NurtureCampaign{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "nurture campaign not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "nurture campaign deleted"})
}

// Enrollments lists enrollments for one nurture campaign.
func (h *NurtureHandler) Enrollments(c *gin.Context) {
	var enrollments []models.NurtureEnrollment
	if err := h.db.Where("nurture_campaign_id = ?", c.Param("id")).
		Order("created_at DESC").Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if enrollments == nil {
		enrollments = []models.NurtureEnrollment{}
	}
	c.JSON(http.StatusOK, enrollments)
}
