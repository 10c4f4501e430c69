package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/auth"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/commissions"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/nurture"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LeadHandler struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewLeadHandler(db *gorm.DB, hub *ws.Hub) *LeadHandler {
	return &LeadHandler{db: db, hub: hub}
}

// scoped returns the lead query for the caller: sales reps see their own
// leads, admins see everything.
func (h *LeadHandler) scoped(c *gin.Context) *gorm.DB {
	query := h.db.Model(&models.Lead{})
	if user := auth.CurrentUser(c); user != nil && auth.Role(c) != auth.RoleAdmin {
		query = query.Where("owner_id = ?", user.ID)
	}
	return query
}

func (h *LeadHandler) List(c *gin.Context) {
	limit, offset := paginate(c)

	query := h.scoped(c).Preload("Stage").Preload("Organization").Order("updated_at DESC")
	if stageID := c.Query("stage_id"); stageID != "" {
		query = query.Where("stage_id = ?", stageID)
	}

	var leads []models.Lead
	if err := query.Limit(limit).Offset(offset).Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) Get(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).Preload("Stage").Preload("Organization").
		First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

type leadRequest struct {
	OrganizationID *uint   `json:"organization_id"`
	Name           string  `json:"name" binding:"required"`
	Company        string  `json:"company"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Value          float64 `json:"value"`
	Notes          string  `json:"notes"`
}

func (h *LeadHandler) Create(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "a sales user key is required to create leads"})
		return
	}

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// New leads land in the first pipeline stage.
	var stage models.LeadStage
	if err := h.db.Order("position ASC").First(&stage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no lead stages configured"})
		return
	}

	lead := models.Lead{
		OrganizationID: req.OrganizationID,
		OwnerID:        user.ID,
		StageID:        stage.ID,
		Name:           req.Name,
		Company:        req.Company,
		Phone:          req.Phone,
		Email:          req.Email,
		Value:          req.Value,
		Notes:          req.Notes,
	}
	if err := h.db.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.db.Create(&models.LeadActivity{
		LeadID: lead.ID,
		UserID: user.ID,
		Type:   "note",
		Detail: "lead created",
	})
	if h.hub != nil {
		h.hub.NotifyLead(lead)
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) Update(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":    req.Name,
		"company": req.Company,
		"phone":   req.Phone,
		"email":   req.Email,
		"value":   req.Value,
		"notes":   req.Notes,
	}
	if req.OrganizationID != nil {
		updates["organization_id"] = *req.OrganizationID
	}
	if err := h.db.Model(&lead).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// ChangeStage moves the lead through the pipeline. Entering a won stage
// creates the commission; leaving one voids a still-pending commission.
func (h *LeadHandler) ChangeStage(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	var req struct {
		StageID uint `json:"stage_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var oldStage, newStage models.LeadStage
	if err := h.db.First(&oldStage, lead.StageID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.db.First(&newStage, req.StageID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stage not found"})
		return
	}
	if oldStage.ID == newStage.ID {
		c.JSON(http.StatusOK, lead)
		return
	}

	if err := h.db.Model(&lead).Update("stage_id", newStage.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	lead.StageID = newStage.ID

	if err := commissions.OnStageChange(h.db, &lead, &oldStage, &newStage); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var userID uint
	if user := auth.CurrentUser(c); user != nil {
		userID = user.ID
	}
	h.db.Create(&models.LeadActivity{
		LeadID: lead.ID,
		UserID: userID,
		Type:   "stage_change",
		Detail: fmt.Sprintf("%s -> %s", oldStage.Name, newStage.Name),
	})
	if h.hub != nil {
		h.hub.NotifyLead(lead)
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	if err := h.db.Delete(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "lead deleted"})
}

func (h *LeadHandler) ListActivities(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	var activities []models.LeadActivity
	if err := h.db.Where("lead_id = ?", lead.ID).Order("created_at DESC").
		Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if activities == nil {
		activities = []models.LeadActivity{}
	}
	c.JSON(http.StatusOK, activities)
}

func (h *LeadHandler) AddActivity(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	var req struct {
		Type   string `json:"type" binding:"required"`
		Detail string `json:"detail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var userID uint
	if user := auth.CurrentUser(c); user != nil {
		userID = user.ID
	}
	activity := models.LeadActivity{
		LeadID: lead.ID,
		UserID: userID,
		Type:   req.Type,
		Detail: req.Detail,
	}
	if err := h.db.Create(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// Enroll puts the lead into a nurture campaign.
func (h *LeadHandler) Enroll(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	var req struct {
		NurtureCampaignID uint `json:"nurture_campaign_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enrollment, err := nurture.Enroll(h.db, req.NurtureCampaignID, lead.ID)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, enrollment)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "nurture campaign not found"})
	case errors.Is(err, nurture.ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, nurture.ErrCampaignDisabled), errors.Is(err, nurture.ErrNoSteps):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *LeadHandler) Unenroll(c *gin.Context) {
	var lead models.Lead
	if err := h.scoped(c).First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	var enrollment models.NurtureEnrollment
	if err := h.db.Where("lead_id = ? AND status = ?", lead.ID, "active").
		First(&enrollment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active enrollment"})
		return
	}
	if err := nurture.Cancel(h.db, enrollment.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "enrollment cancelled"})
}
