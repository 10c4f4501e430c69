package api

import (
	"net/http"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/config"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewCampaignHandler(db *gorm.DB, cfg *config.Config) *CampaignHandler {
	return &CampaignHandler{db: db, cfg: cfg}
}

func (h *CampaignHandler) List(c *gin.Context) {
	limit, offset := paginate(c)

	query := h.db.Preload("Organization").Order("created_at DESC")
	if orgID := c.Query("organization_id"); orgID != "" {
		query = query.Where("organization_id = ?", orgID)
	}

	var campaigns []models.Campaign
	if err := query.Limit(limit).Offset(offset).Find(&campaigns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	var campaign models.Campaign
	if err := h.db.Preload("Organization").First(&campaign, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}
	c.JSON(http.StatusOK, campaign)
}

type campaignRequest struct {
	OrganizationID uint   `json:"organization_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	PhoneRegion    string `json:"phone_region"`
	TwilioFrom     string `json:"twilio_from"`
	Active         *bool  `json:"active"`
}

func (h *CampaignHandler) Create(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var org models.Organization
	if err := h.db.First(&org, req.OrganizationID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization not found"})
		return
	}

	region := req.PhoneRegion
	if region == "" {
		region = h.cfg.DefaultPhoneRegion
	}
	campaign := models.Campaign{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		WebhookUUID:    uuid.NewString(),
		PhoneRegion:    region,
		TwilioFrom:     req.TwilioFrom,
		Active:         true,
	}
	if req.Active != nil {
		campaign.Active = *req.Active
	}
	if err := h.db.Create(&campaign).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignHandler) Update(c *gin.Context) {
	var campaign models.Campaign
	if err := h.db.First(&campaign, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}

	var req struct {
		Name        string `json:"name"`
		PhoneRegion string `json:"phone_region"`
		TwilioFrom  string `json:"twilio_from"`
		Active      *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.PhoneRegion != "" {
		updates["phone_region"] = req.PhoneRegion
	}
	if req.TwilioFrom != "" {
		updates["twilio_from"] = req.TwilioFrom
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if err := h.db.Model(&campaign).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// RotateWebhook replaces the campaign's webhook UUID. The old endpoint stops
// resolving immediately.
func (h *CampaignHandler) RotateWebhook(c *gin.Context) {
	var campaign models.Campaign
	if err := h.db.First(&campaign, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}

	newUUID := uuid.NewString()
	if err := h.db.Model(&campaign).Update("webhook_uuid", newUUID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhook_uuid": newUUID})
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.Campaign{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "campaign deleted"})
}
