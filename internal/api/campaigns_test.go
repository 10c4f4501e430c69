package api

import (
	"fmt"
	"net/http"
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

func setupCampaignAPITest(t *testing.T) (*gorm.DB, *gin.Engine, *models.Organization) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenTest()
	require.NoError(t, err)

	org := models.Organization{Name: "Acme Dental"}
	require.NoError(t, db.Create(&org).Error)

	cfg := &config.Config{AdminAPIKey: testAdminKey, DefaultPhoneRegion: "GB"}
	mw := auth.NewMiddleware(cfg, db)
	handler := NewCampaignHandler(db, cfg)

	router := gin.New()
	admin := router.Group("/api/admin", mw.RequireAdmin())
	{
		admin.POST("/campaigns", handler.Create)
		admin.POST("/campaigns/:id/rotate-webhook", handler.RotateWebhook)
	}
	return db, router, &org
}

func TestCreateCampaignAppliesDefaultRegion(t *testing.T) {
	db, router, org := setupCampaignAPITest(t)

	w := doJSON(router, http.MethodPost, "/api/admin/campaigns", testAdminKey,
		fmt.Sprintf(`{"organization_id":%d,"name":"Acme Inbound"}`, org.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var campaign models.Campaign
	require.NoError(t, db.First(&campaign).Error)
	assert.Equal(t, "GB", campaign.PhoneRegion)
	assert.NotEmpty(t, campaign.WebhookUUID)
}

func TestCreateCampaignKeepsExplicitRegion(t *testing.T) {
	db, router, org := setupCampaignAPITest(t)

	w := doJSON(router, http.MethodPost, "/api/admin/campaigns", testAdminKey,
		fmt.Sprintf(`{"organization_id":%d,"name":"Acme Inbound","phone_region":"US"}`, org.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var campaign models.Campaign
	require.NoError(t, db.First(&campaign).Error)
	assert.Equal(t, "US", campaign.PhoneRegion)
}

func TestRotateWebhookReplacesUUID(t *testing.T) {
	db, router, org := setupCampaignAPITest(t)

	w := doJSON(router, http.MethodPost, "/api/admin/campaigns", testAdminKey,
		fmt.Sprintf(`{"organization_id":%d,"name":"Acme Inbound"}`, org.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var campaign models.Campaign
	require.NoError(t, db.First(&campaign).Error)
	oldUUID := campaign.WebhookUUID

	w = doJSON(router, http.MethodPost,
		fmt.Sprintf("/api/admin/campaigns/%d/rotate-webhook", campaign.ID), testAdminKey, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&campaign, campaign.ID).Error)
	assert.NotEqual(t, oldUUID, campaign.WebhookUUID)
	assert.NotEmpty(t, campaign.WebhookUUID)
}
