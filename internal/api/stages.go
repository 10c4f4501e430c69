package api

import (
	"net/http"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StageHandler struct {
	db *gorm.DB
}

func NewStageHandler(db *gorm.DB) *StageHandler {
	return &StageHandler{db: db}
}

func (h *StageHandler) List(c *gin.Context) {
	var stages []models.LeadStage
	if err := h.db.Order("position ASC").Find(&stages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stages == nil {
		stages = []models.LeadStage{}
	}
	c.JSON(http.StatusOK, stages)
}

type stageRequest struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
	IsWon    bool   `json:"is_won"`
	IsLost   bool   `json:"is_lost"`
}

func (h *StageHandler) Create(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.IsWon && req.IsLost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a stage cannot be both won and lost"})
		return
	}

	stage := models.LeadStage{
		Name:     req.Name,
		Position: req.Position,
		IsWon:    req.IsWon,
		IsLost:   req.IsLost,
	}
	if err := h.db.Create(&stage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, stage)
}

func (h *StageHandler) Update(c *gin.Context) {
	var stage models.LeadStage
	if err := h.db.First(&stage, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stage not found"})
		return
	}

	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.IsWon && req.IsLost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a stage cannot be both won and lost"})
		return
	}

	err := h.db.Model(&stage).Updates(map[string]interface{}{
		"name":     req.Name,
		"position": req.Position,
		"is_won":   req.IsWon,
		"is_lost":  req.IsLost,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stage)
}

func (h *StageHandler) Delete(c *gin.Context) {
	var count int64
	h.db.Model(&models.Lead{}).Where("stage_id = ?", c.Param("id")).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "stage still has leads"})
		return
	}

	result := h.db.Delete(&models.LeadStage{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "stage not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stage deleted"})
}
