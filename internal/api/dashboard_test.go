package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/database"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCountsTodayFromLocalMidnight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.OpenTest()
	require.NoError(t, err)

	org := models.Organization{Name: "Acme Dental"}
	require.NoError(t, db.Create(&org).Error)
	campaign := models.Campaign{
		OrganizationID: org.ID,
		Name:           "Acme Inbound",
		WebhookUUID:    "44444444-4444-4444-4444-444444444444",
		Active:         true,
	}
	require.NoError(t, db.Create(&campaign).Error)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	require.NoError(t, db.Create(&models.Interaction{
		CampaignID:  campaign.ID,
		SourceType:  "call",
		PayloadHash: "hash-yesterday",
		CreatedAt:   dayStart.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Interaction{
		CampaignID:  campaign.ID,
		SourceType:  "call",
		PayloadHash: "hash-today",
		CreatedAt:   dayStart.Add(time.Minute),
	}).Error)

	router := gin.New()
	router.GET("/stats", NewDashboardHandler(db).Stats)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Interactions      int64 `json:"interactions"`
		InteractionsToday int64 `json:"interactions_today"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.Interactions)
	assert.EqualValues(t, 1, stats.InteractionsToday)
}
