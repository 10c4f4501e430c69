package triggers

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/metrics"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/sms"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Engine struct {
	db     *gorm.DB
	sender sms.Sender
	log    *zap.Logger
}

func NewEngine(db *gorm.DB, sender sms.Sender, log *zap.Logger) *Engine {
	return &Engine{db: db, sender: sender, log: log}
}

// Condition represents one trigger condition
type Condition struct {
	Type     string `json:"type"`     // keyword, call_status, source_type, min_duration
	Operator string `json:"operator"` // equals, contains, starts_with, regex
	Value    string `json:"value"`
}

// ProcessInteraction runs a recorded interaction through the campaign's SMS
// triggers. Enabled triggers are evaluated by descending priority, newest
// first on ties; the first match fires and evaluation stops.
func (e *Engine) ProcessInteraction(ctx context.Context, interaction *models.Interaction, campaign *models.Campaign, contact *models.Contact) {
	var rules []models.SmsTrigger
	err := e.db.Where("campaign_id = ? AND enabled = ?", campaign.ID, true).
		Order("priority DESC, created_at DESC").
		Find(&rules).Error
	if err != nil {
		e.log.Error("fetch sms triggers", zap.Error(err), zap.Uint("campaign_id", campaign.ID))
		return
	}

	recipient := interaction.FromNumber
	if contact != nil && contact.Phone != "" {
		recipient = contact.Phone
	}

	for i := range rules {
		rule := &rules[i]
		if !e.evaluateConditions(rule.Conditions, interaction) {
			continue
		}

		e.log.Info("sms trigger matched",
			zap.String("trigger", rule.Name),
			zap.Uint("interaction_id", interaction.ID))

		if recipient == "" {
			e.logSend(rule, interaction, campaign, "", "", "failed", "no recipient number")
			return
		}

		body := renderTemplate(rule.MessageTemplate, campaign, contact)
		if err := e.sender.Send(ctx, recipient, body); err != nil {
			e.log.Error("trigger sms send failed", zap.Error(err), zap.String("trigger", rule.Name))
			e.logSend(rule, interaction, campaign, recipient, body, "failed", err.Error())
			metrics.SmsSent.WithLabelValues(e.sender.Provider(), "failed").Inc()
		} else {
			e.logSend(rule, interaction, campaign, recipient, body, "sent", "")
			metrics.SmsSent.WithLabelValues(e.sender.Provider(), "sent").Inc()
		}
		return
	}
}

// evaluateConditions checks all conditions (AND logic).
func (e *Engine) evaluateConditions(conditionsJSON string, interaction *models.Interaction) bool {
	var conditions []Condition
	if err := json.Unmarshal([]byte(conditionsJSON), &conditions); err != nil {
		e.log.Warn("unparseable trigger conditions", zap.Error(err))
		return false
	}
	if len(conditions) == 0 {
		return false
	}

	for _, cond := range conditions {
		if !e.evaluateSingleCondition(cond, interaction) {
			return false
		}
	}
	return true
}

func (e *Engine) evaluateSingleCondition(cond Condition, interaction *models.Interaction) bool {
	switch cond.Type {
	case "keyword":
		return matchText(interaction.Transcript, cond.Operator, cond.Value)
	case "call_status":
		return strings.EqualFold(interaction.CallStatus, cond.Value)
	case "source_type":
		return strings.EqualFold(interaction.SourceType, cond.Value)
	case "min_duration":
		secs, err := strconv.Atoi(cond.Value)
		if err != nil {
			return false
		}
		return interaction.DurationSec >= secs
	default:
		e.log.Warn("unknown condition type", zap.String("type", cond.Type))
		return false
	}
}

func matchText(text, operator, value string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	value = strings.ToLower(value)

	switch operator {
	case "equals":
		return text == value
	case "contains":
		return strings.Contains(text, value)
	case "starts_with":
		return strings.HasPrefix(text, value)
	case "regex":
		matched, err := regexp.MatchString(value, text)
		if err != nil {
			return false
		}
		return matched
	default:
		return false
	}
}

func renderTemplate(tmpl string, campaign *models.Campaign, contact *models.Contact) string {
	name := "there"
	if contact != nil && contact.FirstName != "" {
		name = contact.FirstName
	}
	out := strings.ReplaceAll(tmpl, "{{contact_name}}", name)
	out = strings.ReplaceAll(out, "{{campaign_name}}", campaign.Name)
	return out
}

func (e *Engine) logSend(rule *models.SmsTrigger, interaction *models.Interaction, campaign *models.Campaign, recipient, body, status, errMsg string) {
	entry := models.SmsLog{
		CampaignID:    campaign.ID,
		TriggerID:     &rule.ID,
		InteractionID: &interaction.ID,
		Recipient:     recipient,
		Body:          body,
		Provider:      e.sender.Provider(),
		Status:        status,
		ErrorMessage:  errMsg,
	}
	if err := e.db.Create(&entry).Error; err != nil {
		e.log.Error("write sms log", zap.Error(err))
	}
}
