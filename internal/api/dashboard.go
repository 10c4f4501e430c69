package api

import (
	"net/http"
	"time"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats returns the admin dashboard headline numbers.
func (h *DashboardHandler) Stats(c *gin.Context) {
	var stats struct {
		Organizations      int64   `json:"organizations"`
		ActiveCampaigns    int64   `json:"active_campaigns"`
		Contacts           int64   `json:"contacts"`
		Interactions       int64   `json:"interactions"`
		InteractionsToday  int64   `json:"interactions_today"`
		SmsSent            int64   `json:"sms_sent"`
		SmsFailed          int64   `json:"sms_failed"`
		OpenLeads          int64   `json:"open_leads"`
		PendingCommissions float64 `json:"pending_commissions"`
	}

	h.db.Model(&models.Organization{}).Count(&stats.Organizations)
	h.db.Model(&models.Campaign{}).Where("active = ?", true).Count(&stats.ActiveCampaigns)
	h.db.Model(&models.Contact{}).Count(&stats.Contacts)
	h.db.Model(&models.Interaction{}).Count(&stats.Interactions)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	h.db.Model(&models.Interaction{}).Where("created_at >= ?", dayStart).Count(&stats.InteractionsToday)

	h.db.Model(&models.SmsLog{}).Where("status = ?", "sent").Count(&stats.SmsSent)
	h.db.Model(&models.SmsLog{}).Where("status = ?", "failed").Count(&stats.SmsFailed)

	h.db.Model(&models.Lead{}).
		Joins("JOIN lead_stages ON lead_stages.id = leads.stage_id").
		Where("lead_stages.is_won = ? AND lead_stages.is_lost = ?", false, false).
		Count(&stats.OpenLeads)

	var pending *float64
	h.db.Model(&models.Commission{}).Where("status = ?", models.CommissionPending).
		Select("SUM(amount)").Scan(&pending)
	if pending != nil {
		stats.PendingCommissions = *pending
	}

	c.JSON(http.StatusOK, stats)
}

// InteractionVolume returns per-day interaction counts for the last N days.
func (h *DashboardHandler) InteractionVolume(c *gin.Context) {
	days := 14
	since := time.Now().AddDate(0, 0, -days)

	type bucket struct {
		Day   string `json:"day"`
		Count int64  `json:"count"`
	}
	var buckets []bucket
	err := h.db.Model(&models.Interaction{}).
		Select("DATE(created_at) as day, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&buckets).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if buckets == nil {
		buckets = []bucket{}
	}
	c.JSON(http.StatusOK, buckets)
}
