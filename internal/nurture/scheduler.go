package nurture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/metrics"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/sms"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyEnrolled  = errors.New("lead already has an active nurture enrollment")
	ErrCampaignDisabled = errors.New("nurture campaign is disabled")
	ErrNoSteps          = errors.New("nurture campaign has no steps")
)

// Enroll puts a lead into a nurture campaign. The first step is scheduled at
// its offset from now. A lead can have at most one active enrollment at a
// time; cancelled and completed enrollments stay behind as history and do not
// block re-enrolling.
func Enroll(db *gorm.DB, campaignID, leadID uint) (*models.NurtureEnrollment, error) {
	var campaign models.NurtureCampaign
	if err := db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&campaign, campaignID).Error; err != nil {
		return nil, fmt.Errorf("load nurture campaign: %w", err)
	}
	if !campaign.Enabled {
		return nil, ErrCampaignDisabled
	}
	if len(campaign.Steps) == 0 {
		return nil, ErrNoSteps
	}

	enrollment := models.NurtureEnrollment{
		NurtureCampaignID: campaignID,
		LeadID:            leadID,
		NextPosition:      campaign.Steps[0].Position,
		NextSendAt:        time.Now().AddDate(0, 0, campaign.Steps[0].OffsetDays),
		Status:            "active",
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.NurtureEnrollment{}).
			Where("lead_id = ? AND status = ?", leadID, "active").
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyEnrolled
		}
		return tx.Create(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Cancel stops an active enrollment.
func Cancel(db *gorm.DB, enrollmentID uint) error {
	return db.Model(&models.NurtureEnrollment{}).
		Where("id = ? AND status = ?", enrollmentID, "active").
		Update("status", "cancelled").Error
}

// Scheduler delivers due nurture steps in the background.
type Scheduler struct {
	db       *gorm.DB
	sender   sms.Sender
	log      *zap.Logger
	Interval time.Duration
}

func NewScheduler(db *gorm.DB, sender sms.Sender, log *zap.Logger) *Scheduler {
	return &Scheduler{db: db, sender: sender, log: log, Interval: time.Minute}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ProcessDue(ctx)
		}
	}
}

// ProcessDue sends every step whose send time has passed and advances or
// completes the enrollment. One failing enrollment never blocks the rest.
func (s *Scheduler) ProcessDue(ctx context.Context) {
	var due []models.NurtureEnrollment
	err := s.db.Preload("NurtureCampaign.Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Lead").
		Where("status = ? AND next_send_at <= ?", "active", time.Now()).
		Find(&due).Error
	if err != nil {
		s.log.Error("load due enrollments", zap.Error(err))
		return
	}

	for i := range due {
		if err := s.processOne(ctx, &due[i]); err != nil {
			s.log.Error("process enrollment", zap.Error(err), zap.Uint("enrollment_id", due[i].ID))
		}
	}
}

func (s *Scheduler) processOne(ctx context.Context, enrollment *models.NurtureEnrollment) error {
	if enrollment.NurtureCampaign == nil || enrollment.Lead == nil {
		return fmt.Errorf("enrollment %d missing campaign or lead", enrollment.ID)
	}
	steps := enrollment.NurtureCampaign.Steps

	var current *models.NurtureStep
	var next *models.NurtureStep
	for i := range steps {
		if steps[i].Position == enrollment.NextPosition {
			current = &steps[i]
			if i+1 < len(steps) {
				next = &steps[i+1]
			}
			break
		}
	}
	if current == nil {
		return s.db.Model(enrollment).Update("status", "completed").Error
	}

	if enrollment.Lead.Phone == "" {
		return s.db.Model(enrollment).Update("status", "cancelled").Error
	}

	if err := s.sender.Send(ctx, enrollment.Lead.Phone, current.Body); err != nil {
		metrics.SmsSent.WithLabelValues(s.sender.Provider(), "failed").Inc()
		return fmt.Errorf("send nurture step: %w", err)
	}
	metrics.SmsSent.WithLabelValues(s.sender.Provider(), "sent").Inc()
	metrics.NurtureStepsSent.Inc()

	s.db.Create(&models.SmsLog{
		Recipient: enrollment.Lead.Phone,
		Body:      current.Body,
		Provider:  s.sender.Provider(),
		Status:    "sent",
	})
	s.db.Create(&models.LeadActivity{
		LeadID: enrollment.LeadID,
		Type:   "sms",
		Detail: fmt.Sprintf("nurture step %d sent", current.Position),
	})

	if next == nil {
		return s.db.Model(enrollment).Update("status", "completed").Error
	}
	return s.db.Model(enrollment).Updates(map[string]interface{}{
		"next_position": next.Position,
		"next_send_at":  time.Now().AddDate(0, 0, next.OffsetDays),
	}).Error
}
