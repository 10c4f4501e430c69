package commissions

import (
	"fmt"
	"math"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"gorm.io/gorm"
)

// Compute builds the payout record for a won lead: lead value times the
// owner's rate at win time, rounded to cents. The rate is snapshotted so a
// later rate change never alters an existing payout.
func Compute(lead *models.Lead, owner *models.User) models.Commission {
	amount := math.Round(lead.Value*owner.CommissionRate*100) / 100
	return models.Commission{
		LeadID: lead.ID,
		UserID: owner.ID,
		Amount: amount,
		Rate:   owner.CommissionRate,
		Status: models.CommissionPending,
	}
}

// OnStageChange keeps commissions consistent with the lead's stage. Moving
// into a won stage creates a pending commission unless one already exists.
// Moving out of won voids a still-pending commission; approved or paid
// commissions are left alone for manual review.
func OnStageChange(db *gorm.DB, lead *models.Lead, oldStage, newStage *models.LeadStage) error {
	wasWon := oldStage != nil && oldStage.IsWon
	isWon := newStage != nil && newStage.IsWon

	switch {
	case isWon && !wasWon:
		var count int64
		db.Model(&models.Commission{}).
			Where("lead_id = ? AND status <> ?", lead.ID, models.CommissionVoid).
			Count(&count)
		if count > 0 {
			return nil
		}
		var owner models.User
		if err := db.First(&owner, lead.OwnerID).Error; err != nil {
			return fmt.Errorf("load lead owner: %w", err)
		}
		commission := Compute(lead, &owner)
		if err := db.Create(&commission).Error; err != nil {
			return fmt.Errorf("create commission: %w", err)
		}

	case wasWon && !isWon:
		err := db.Model(&models.Commission{}).
			Where("lead_id = ? AND status = ?", lead.ID, models.CommissionPending).
			Update("status", models.CommissionVoid).Error
		if err != nil {
			return fmt.Errorf("void commission: %w", err)
		}
	}

	return nil
}
