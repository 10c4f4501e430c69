package api

import (
	"net/http"
	"time"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/auth"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommissionHandler struct {
	db *gorm.DB
}

func NewCommissionHandler(db *gorm.DB) *CommissionHandler {
	return &CommissionHandler{db: db}
}

// List returns commissions; sales reps only see their own.
func (h *CommissionHandler) List(c *gin.Context) {
	limit, offset := paginate(c)

	query := h.db.Order("created_at DESC")
	if user := auth.CurrentUser(c); user != nil && auth.Role(c) != auth.RoleAdmin {
		query = query.Where("user_id = ?", user.ID)
	} else if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var list []models.Commission
	if err := query.Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []models.Commission{}
	}
	c.JSON(http.StatusOK, list)
}

// Approve moves a pending commission to approved.
func (h *CommissionHandler) Approve(c *gin.Context) {
	h.transition(c, models.CommissionPending, models.CommissionApproved, "approved_at")
}

// MarkPaid moves an approved commission to paid.
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	h.transition(c, models.CommissionApproved, models.CommissionPaid, "paid_at")
}

func (h *CommissionHandler) transition(c *gin.Context, from, to, stampColumn string) {
	var commission models.Commission
	if err := h.db.First(&commission, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "commission not found"})
		return
	}
	if commission.Status != from {
		c.JSON(http.StatusConflict, gin.H{"error": "commission is " + commission.Status + ", expected " + from})
		return
	}

	now := time.Now()
	err := h.db.Model(&commission).Updates(map[string]interface{}{
		"status":    to,
		stampColumn: &now,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, commission)
}
