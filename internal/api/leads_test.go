package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/auth"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/config"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/database"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testAdminKey = "test-admin-key"
	testSalesKey = "test-sales-key"
)

func setupLeadAPITest(t *testing.T) (*gorm.DB, *gin.Engine, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenTest()
	require.NoError(t, err)

	rep := models.User{
		Name: "Sam Rep", Email: "sam@example.com", Role: "sales",
		APIKey: testSalesKey, CommissionRate: 0.1, Active: true,
	}
	require.NoError(t, db.Create(&rep).Error)

	stages := []models.LeadStage{
		{Name: "Qualified", Position: 1},
		{Name: "Proposal", Position: 2},
		{Name: "Won", Position: 3, IsWon: true},
	}
	for i := range stages {
		require.NoError(t, db.Create(&stages[i]).Error)
	}

	mw := auth.NewMiddleware(&config.Config{AdminAPIKey: testAdminKey}, db)
	handler := NewLeadHandler(db, nil)

	router := gin.New()
	sales := router.Group("/api/sales", mw.RequireSales())
	{
		sales.GET("/leads", handler.List)
		sales.POST("/leads", handler.Create)
		sales.GET("/leads/:id", handler.Get)
		sales.POST("/leads/:id/stage", handler.ChangeStage)
		sales.GET("/leads/:id/activities", handler.ListActivities)
		sales.POST("/leads/:id/enroll", handler.Enroll)
		sales.POST("/leads/:id/unenroll", handler.Unenroll)
	}
	return db, router, &rep
}

func doJSON(router *gin.Engine, method, path, key, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestLeadRoutesRequireAPIKey(t *testing.T) {
	_, router, _ := setupLeadAPITest(t)

	assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodGet, "/api/sales/leads", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodGet, "/api/sales/leads", "wrong-key", "").Code)
}

func TestCreateLeadLandsInFirstStage(t *testing.T) {
	db, router, rep := setupLeadAPITest(t)

	w := doJSON(router, http.MethodPost, "/api/sales/leads", testSalesKey,
		`{"name":"Big Dental Group","company":"BDG","value":25000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var lead models.Lead
	require.NoError(t, db.Preload("Stage").First(&lead).Error)
	assert.Equal(t, rep.ID, lead.OwnerID)
	assert.Equal(t, "Qualified", lead.Stage.Name)

	var activity models.LeadActivity
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&activity).Error)
	assert.Equal(t, "lead created", activity.Detail)
}

func TestCreateLeadRejectsAdminKey(t *testing.T) {
	// The admin key carries no user identity, so there is no owner to assign.
	_, router, _ := setupLeadAPITest(t)

	w := doJSON(router, http.MethodPost, "/api/sales/leads", testAdminKey, `{"name":"Nobody's Lead"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSalesRepsOnlySeeOwnLeads(t *testing.T) {
	db, router, _ := setupLeadAPITest(t)

	other := models.User{
		Name: "Riley Rep", Email: "riley@example.com", Role: "sales",
		APIKey: "other-sales-key", Active: true,
	}
	require.NoError(t, db.Create(&other).Error)
	var stage models.LeadStage
	require.NoError(t, db.Order("position ASC").First(&stage).Error)
	theirLead := models.Lead{OwnerID: other.ID, StageID: stage.ID, Name: "Their Deal"}
	require.NoError(t, db.Create(&theirLead).Error)

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/api/sales/leads", testSalesKey, `{"name":"My Deal"}`).Code)

	w := doJSON(router, http.MethodGet, "/api/sales/leads", testSalesKey, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "My Deal", listed[0].Name)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/sales/leads/%d", theirLead.ID), testSalesKey, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The admin key sees everything.
	w = doJSON(router, http.MethodGet, "/api/sales/leads", testAdminKey, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestChangeStageToWonCreatesCommission(t *testing.T) {
	db, router, rep := setupLeadAPITest(t)

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/api/sales/leads", testSalesKey,
			`{"name":"Big Deal","value":10000}`).Code)
	var lead models.Lead
	require.NoError(t, db.First(&lead).Error)
	var won models.LeadStage
	require.NoError(t, db.Where("is_won = ?", true).First(&won).Error)

	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/sales/leads/%d/stage", lead.ID),
		testSalesKey, fmt.Sprintf(`{"stage_id":%d}`, won.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var commission models.Commission
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&commission).Error)
	assert.Equal(t, 1000.0, commission.Amount)
	assert.Equal(t, rep.ID, commission.UserID)
	assert.Equal(t, models.CommissionPending, commission.Status)

	var activity models.LeadActivity
	require.NoError(t, db.Where("lead_id = ? AND type = ?", lead.ID, "stage_change").
		First(&activity).Error)
	assert.Equal(t, "Qualified -> Won", activity.Detail)
}

func TestEnrollStatusMapping(t *testing.T) {
	db, router, _ := setupLeadAPITest(t)

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/api/sales/leads", testSalesKey,
			`{"name":"Deal","phone":"+12025550123"}`).Code)
	var lead models.Lead
	require.NoError(t, db.First(&lead).Error)
	enrollPath := fmt.Sprintf("/api/sales/leads/%d/enroll", lead.ID)

	w := doJSON(router, http.MethodPost, enrollPath, testSalesKey, `{"nurture_campaign_id":9999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	disabled := models.NurtureCampaign{
		Name: "Paused drip", Enabled: false,
		Steps: []models.NurtureStep{{Position: 1, Body: "step"}},
	}
	require.NoError(t, db.Create(&disabled).Error)
	w = doJSON(router, http.MethodPost, enrollPath, testSalesKey,
		fmt.Sprintf(`{"nurture_campaign_id":%d}`, disabled.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	empty := models.NurtureCampaign{Name: "Empty drip", Enabled: true}
	require.NoError(t, db.Create(&empty).Error)
	w = doJSON(router, http.MethodPost, enrollPath, testSalesKey,
		fmt.Sprintf(`{"nurture_campaign_id":%d}`, empty.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollUnenrollEnrollCycle(t *testing.T) {
	db, router, _ := setupLeadAPITest(t)

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/api/sales/leads", testSalesKey,
			`{"name":"Deal","phone":"+12025550123"}`).Code)
	var lead models.Lead
	require.NoError(t, db.First(&lead).Error)

	drip := models.NurtureCampaign{
		Name: "Cold lead drip", Enabled: true,
		Steps: []models.NurtureStep{{Position: 1, OffsetDays: 1, Body: "step"}},
	}
	require.NoError(t, db.Create(&drip).Error)

	enrollPath := fmt.Sprintf("/api/sales/leads/%d/enroll", lead.ID)
	enrollBody := fmt.Sprintf(`{"nurture_campaign_id":%d}`, drip.ID)

	assert.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, enrollPath, testSalesKey, enrollBody).Code)
	assert.Equal(t, http.StatusConflict, doJSON(router, http.MethodPost, enrollPath, testSalesKey, enrollBody).Code)

	unenrollPath := fmt.Sprintf("/api/sales/leads/%d/unenroll", lead.ID)
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, unenrollPath, testSalesKey, "").Code)

	// Unenrolling frees the lead up for another round.
	assert.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, enrollPath, testSalesKey, enrollBody).Code)

	var active int64
	db.Model(&models.NurtureEnrollment{}).
		Where("lead_id = ? AND status = ?", lead.ID, "active").Count(&active)
	assert.EqualValues(t, 1, active)
}

func TestChangeStageRejectsUnknownStage(t *testing.T) {
	db, router, _ := setupLeadAPITest(t)

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/api/sales/leads", testSalesKey, `{"name":"Deal"}`).Code)
	var lead models.Lead
	require.NoError(t, db.First(&lead).Error)

	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/sales/leads/%d/stage", lead.ID),
		testSalesKey, `{"stage_id":9999}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
