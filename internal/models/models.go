package models

import (
	"time"
)

// Organization represents a client organization the platform runs campaigns for
type Organization struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone string    `gorm:"type:varchar(50)" json:"contact_phone"`
	Notes        string    `gorm:"type:text" json:"notes"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// Campaign represents a configured webhook endpoint plus calling/SMS rules
// for one client organization
type Campaign struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"index;not null" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	WebhookUUID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"webhook_uuid"`
	Active         bool      `gorm:"default:true" json:"active"`
	PhoneRegion    string    `gorm:"type:varchar(2)" json:"phone_region"` // default region for number parsing
	TwilioFrom     string    `gorm:"type:varchar(50)" json:"twilio_from"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Organization *Organization `gorm:"constraint:OnDelete:CASCADE" json:"organization,omitempty"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// Contact represents one person reachable by a campaign, keyed by E.164 number
type Contact struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CampaignID uint      `gorm:"not null;uniqueIndex:idx_campaign_phone" json:"campaign_id"`
	Phone      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_campaign_phone" json:"phone"`
	FirstName  string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100)" json:"last_name"`
	Email      string    `gorm:"type:varchar(255)" json:"email"`
	Company    string    `gorm:"type:varchar(255)" json:"company"`
	Notes      string    `gorm:"type:text" json:"notes"`
	Tags       string    `gorm:"type:text" json:"tags"` // JSON array string
	Source     string    `gorm:"type:varchar(20);default:'manual'" json:"source"` // manual, import, webhook
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Campaign *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Interaction represents one recorded call/SMS/web-form/chatbot event
// ingested via webhook. PayloadHash makes ingestion idempotent.
type Interaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CampaignID  uint      `gorm:"index;not null" json:"campaign_id"`
	ContactID   *uint     `gorm:"index" json:"contact_id"`
	SourceType  string    `gorm:"type:varchar(20);not null" json:"source_type"` // call, sms, web_form, chatbot
	CallStatus  string    `gorm:"type:varchar(30)" json:"call_status"`
	DurationSec int       `json:"duration_sec"`
	FromNumber  string    `gorm:"type:varchar(20)" json:"from_number"`
	ToNumber    string    `gorm:"type:varchar(20)" json:"to_number"`
	Transcript  string    `gorm:"type:text" json:"transcript"`
	AIExtracted string    `gorm:"type:text" json:"ai_extracted"` // JSON blob from the conversational AI
	PayloadHash string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"payload_hash"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Campaign *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Contact  *Contact  `gorm:"constraint:OnDelete:SET NULL" json:"contact,omitempty"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// SmsTrigger represents a keyword/priority rule that fires an SMS when an
// interaction matches
type SmsTrigger struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CampaignID      uint      `gorm:"index;not null" json:"campaign_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Enabled         bool      `gorm:"default:true" json:"enabled"`
	Priority        int       `gorm:"default:0" json:"priority"`
	Conditions      string    `gorm:"type:text" json:"conditions"` // JSON conditions
	MessageTemplate string    `gorm:"type:text" json:"message_template"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Campaign *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (SmsTrigger) TableName() string {
	return "sms_triggers"
}

// SmsLog represents one SMS send attempt
type SmsLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CampaignID    uint      `gorm:"index" json:"campaign_id"`
	TriggerID     *uint     `json:"trigger_id"`
	InteractionID *uint     `json:"interaction_id"`
	Recipient     string    `gorm:"type:varchar(20)" json:"recipient"`
	Body          string    `gorm:"type:text" json:"body"`
	Provider      string    `gorm:"type:varchar(20)" json:"provider"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"error_message"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Trigger     *SmsTrigger  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Interaction *Interaction `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (SmsLog) TableName() string {
	return "sms_logs"
}

// User represents a portal user: an admin or a sales rep
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role           string    `gorm:"type:varchar(20);default:'sales'" json:"role"` // admin, sales
	APIKey         string    `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	CommissionRate float64   `gorm:"default:0" json:"commission_rate"`             // fraction, e.g. 0.1
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// LeadStage represents one ordered step of the sales pipeline
type LeadStage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Position int    `gorm:"default:0" json:"position"`
	IsWon    bool   `gorm:"default:false" json:"is_won"`
	IsLost   bool   `gorm:"default:false" json:"is_lost"`
}

func (LeadStage) TableName() string {
	return "lead_stages"
}

// Lead represents a sales-pipeline prospect tracked by a sales user
type Lead struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID *uint     `gorm:"index" json:"organization_id"`
	OwnerID        uint      `gorm:"index;not null" json:"owner_id"`
	StageID        uint      `gorm:"index;not null" json:"stage_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Company        string    `gorm:"type:varchar(255)" json:"company"`
	Phone          string    `gorm:"type:varchar(20)" json:"phone"`
	Email          string    `gorm:"type:varchar(255)" json:"email"`
	Value          float64   `gorm:"default:0" json:"value"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Organization *Organization `gorm:"constraint:OnDelete:SET NULL" json:"organization,omitempty"`
	Owner        *User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Stage        *LeadStage    `gorm:"foreignKey:StageID" json:"stage,omitempty"`
}

func (Lead) TableName() string {
	return "leads"
}

// LeadActivity represents one event on a lead's timeline
type LeadActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LeadID    uint      `gorm:"index;not null" json:"lead_id"`
	UserID    uint      `json:"user_id"`
	Type      string    `gorm:"type:varchar(30);not null" json:"type"` // note, stage_change, call, sms
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Lead *Lead `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (LeadActivity) TableName() string {
	return "lead_activities"
}

// Commission statuses
const (
	CommissionPending  = "pending"
	CommissionApproved = "approved"
	CommissionPaid     = "paid"
	CommissionVoid     = "void"
)

// Commission represents a computed payout tied to a won lead
type Commission struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	LeadID     uint       `gorm:"index;not null" json:"lead_id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Amount     float64    `gorm:"not null" json:"amount"`
	Rate       float64    `gorm:"not null" json:"rate"` // rate snapshot at win time
	Status     string     `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, approved, paid, void
	ApprovedAt *time.Time `json:"approved_at"`
	PaidAt     *time.Time `json:"paid_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Lead *Lead `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Commission) TableName() string {
	return "commissions"
}

// ResourceCategory groups sales enablement resources
type ResourceCategory struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Position int    `gorm:"default:0" json:"position"`
}

func (ResourceCategory) TableName() string {
	return "resource_categories"
}

// Resource represents a sales enablement link or document
type Resource struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	URL         string    `gorm:"type:text" json:"url"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Category *ResourceCategory `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
}

func (Resource) TableName() string {
	return "resources"
}

// NurtureCampaign represents a drip sequence leads can be enrolled in
type NurtureCampaign struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Steps []NurtureStep `gorm:"foreignKey:NurtureCampaignID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

func (NurtureCampaign) TableName() string {
	return "nurture_campaigns"
}

// NurtureStep represents one message of a drip sequence
type NurtureStep struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	NurtureCampaignID uint   `gorm:"index;not null" json:"nurture_campaign_id"`
	Position          int    `gorm:"default:0" json:"position"`
	OffsetDays        int    `gorm:"default:0" json:"offset_days"` // days after the previous step
	Body              string `gorm:"type:text" json:"body"`
}

func (NurtureStep) TableName() string {
	return "nurture_steps"
}

// NurtureEnrollment represents a lead enrolled in a drip sequence. Cancelled
// and completed enrollments are kept as history; only one may be active per
// lead, enforced by Enroll.
type NurtureEnrollment struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	NurtureCampaignID uint      `gorm:"index;not null" json:"nurture_campaign_id"`
	LeadID            uint      `gorm:"index;not null" json:"lead_id"`
	NextPosition      int       `gorm:"default:1" json:"next_position"`
	NextSendAt        time.Time `json:"next_send_at"`
	Status            string    `gorm:"type:varchar(20);default:'active'" json:"status"` // active, completed, cancelled
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	NurtureCampaign *NurtureCampaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Lead            *Lead            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (NurtureEnrollment) TableName() string {
	return "nurture_enrollments"
}
