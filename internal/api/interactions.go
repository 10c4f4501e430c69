package api

import (
	"net/http"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InteractionHandler struct {
	db *gorm.DB
}

func NewInteractionHandler(db *gorm.DB) *InteractionHandler {
	return &InteractionHandler{db: db}
}

func (h *InteractionHandler) List(c *gin.Context) {
	limit, offset := paginate(c)

	query := h.db.Preload("Contact").Order("created_at DESC")
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		query = query.Where("campaign_id = ?", campaignID)
	}
	if sourceType := c.Query("source_type"); sourceType != "" {
		query = query.Where("source_type = ?", sourceType)
	}
	if callStatus := c.Query("call_status"); callStatus != "" {
		query = query.Where("call_status = ?", callStatus)
	}

	var interactions []models.Interaction
	if err := query.Limit(limit).Offset(offset).Find(&interactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if interactions == nil {
		interactions = []models.Interaction{}
	}
	c.JSON(http.StatusOK, interactions)
}

func (h *InteractionHandler) Get(c *gin.Context) {
	var interaction models.Interaction
	if err := h.db.Preload("Contact").First(&interaction, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "interaction not found"})
		return
	}
	c.JSON(http.StatusOK, interaction)
}

func (h *InteractionHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.Interaction{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "interaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "interaction deleted"})
}
