package commissions

import (
	"testing"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/database"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestComputeRoundsToCents(t *testing.T) {
	lead := &models.Lead{ID: 1, Value: 1234.56}
	owner := &models.User{ID: 2, CommissionRate: 0.15}

	c := Compute(lead, owner)

	assert.Equal(t, 185.18, c.Amount) // 185.184 rounds down
	assert.Equal(t, 0.15, c.Rate)
	assert.Equal(t, models.CommissionPending, c.Status)
	assert.Equal(t, uint(1), c.LeadID)
	assert.Equal(t, uint(2), c.UserID)
}

func TestComputeZeroRate(t *testing.T) {
	c := Compute(&models.Lead{Value: 5000}, &models.User{CommissionRate: 0})
	assert.Equal(t, 0.0, c.Amount)
}

func setupStageTest(t *testing.T) (*gorm.DB, *models.Lead, *models.LeadStage, *models.LeadStage) {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)

	owner := models.User{Name: "Sam Rep", Email: "sam@example.com", Role: "sales", CommissionRate: 0.1}
	require.NoError(t, db.Create(&owner).Error)

	open := models.LeadStage{Name: "Qualified", Position: 1}
	won := models.LeadStage{Name: "Won", Position: 5, IsWon: true}
	require.NoError(t, db.Create(&open).Error)
	require.NoError(t, db.Create(&won).Error)

	lead := models.Lead{OwnerID: owner.ID, StageID: open.ID, Name: "Big Deal", Value: 10000}
	require.NoError(t, db.Create(&lead).Error)
	return db, &lead, &open, &won
}

func TestOnStageChangeCreatesCommissionOnWin(t *testing.T) {
	db, lead, open, won := setupStageTest(t)

	require.NoError(t, OnStageChange(db, lead, open, won))

	var c models.Commission
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&c).Error)
	assert.Equal(t, 1000.0, c.Amount)
	assert.Equal(t, 0.1, c.Rate)
	assert.Equal(t, models.CommissionPending, c.Status)
}

func TestOnStageChangeDoesNotDuplicate(t *testing.T) {
	db, lead, open, won := setupStageTest(t)

	require.NoError(t, OnStageChange(db, lead, open, won))
	require.NoError(t, OnStageChange(db, lead, open, won))

	var count int64
	db.Model(&models.Commission{}).Where("lead_id = ?", lead.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestOnStageChangeVoidsPendingOnUnwin(t *testing.T) {
	db, lead, open, won := setupStageTest(t)
	require.NoError(t, OnStageChange(db, lead, open, won))

	require.NoError(t, OnStageChange(db, lead, won, open))

	var c models.Commission
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&c).Error)
	assert.Equal(t, models.CommissionVoid, c.Status)
}

func TestOnStageChangeLeavesApprovedAlone(t *testing.T) {
	db, lead, open, won := setupStageTest(t)
	require.NoError(t, OnStageChange(db, lead, open, won))
	require.NoError(t, db.Model(&models.Commission{}).
		Where("lead_id = ?", lead.ID).
		Update("status", models.CommissionApproved).Error)

	require.NoError(t, OnStageChange(db, lead, won, open))

	var c models.Commission
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&c).Error)
	assert.Equal(t, models.CommissionApproved, c.Status)
}

func TestOnStageChangeRewinAfterVoid(t *testing.T) {
	db, lead, open, won := setupStageTest(t)
	require.NoError(t, OnStageChange(db, lead, open, won))
	require.NoError(t, OnStageChange(db, lead, won, open))

	// The voided record no longer counts, so winning again pays out.
	require.NoError(t, OnStageChange(db, lead, open, won))

	var count int64
	db.Model(&models.Commission{}).
		Where("lead_id = ? AND status = ?", lead.ID, models.CommissionPending).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestOnStageChangeIgnoresNonWonMoves(t *testing.T) {
	db, lead, open, _ := setupStageTest(t)
	other := models.LeadStage{Name: "Proposal", Position: 2}
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, OnStageChange(db, lead, open, &other))

	var count int64
	db.Model(&models.Commission{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
