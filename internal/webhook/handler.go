package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/idempotency"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/importer"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/metrics"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/triggers"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/ws"
	wire "github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// limiterPool keeps one token bucket per campaign webhook UUID.
type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

func (p *limiterPool) allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	l, ok := p.m[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(p.rps), p.burst)
		p.m[key] = l
	}
	return l.Allow()
}

type Handler struct {
	db       *gorm.DB
	engine   *triggers.Engine
	checker  *idempotency.Checker
	hub      *ws.Hub
	log      *zap.Logger
	limiters *limiterPool
}

func NewHandler(db *gorm.DB, engine *triggers.Engine, checker *idempotency.Checker, hub *ws.Hub, log *zap.Logger, rps float64, burst int) *Handler {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &Handler{
		db:       db,
		engine:   engine,
		checker:  checker,
		hub:      hub,
		log:      log,
		limiters: &limiterPool{rps: rps, burst: burst},
	}
}

// HandleEvent ingests one webhook payload. Ingestion is idempotent: the
// SHA-256 of the raw body is stored on the interaction under a unique index,
// so replays of the same payload record nothing and return 200.
func (h *Handler) HandleEvent(c *gin.Context) {
	start := time.Now()
	uuid := c.Param("uuid")

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		metrics.WebhookRejected.WithLabelValues("empty_body").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return
	}

	var campaign models.Campaign
	if err := h.db.Where("webhook_uuid = ? AND active = ?", uuid, true).First(&campaign).Error; err != nil {
		metrics.WebhookRejected.WithLabelValues("unknown_campaign").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown webhook"})
		return
	}

	if !h.limiters.allow(uuid) {
		metrics.WebhookRejected.WithLabelValues("rate_limited").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	var payload wire.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.WebhookRejected.WithLabelValues("bad_json").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !payload.Validate() {
		metrics.WebhookRejected.WithLabelValues("bad_source_type").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}

	hash := idempotency.HashPayload(body)
	if !h.checker.MarkIfNew(c.Request.Context(), hash) {
		metrics.WebhookDuplicates.WithLabelValues(campaign.Name).Inc()
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	// Backstop behind the cache: the unique index on payload_hash.
	var count int64
	h.db.Model(&models.Interaction{}).Where("payload_hash = ?", hash).Count(&count)
	if count > 0 {
		metrics.WebhookDuplicates.WithLabelValues(campaign.Name).Inc()
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	contact := h.upsertContact(&campaign, &payload)

	interaction := models.Interaction{
		CampaignID:  campaign.ID,
		SourceType:  payload.SourceType,
		CallStatus:  payload.CallStatus,
		DurationSec: payload.DurationSec,
		FromNumber:  payload.From,
		ToNumber:    payload.To,
		Transcript:  payload.Transcript,
		AIExtracted: string(payload.AIExtracted),
		PayloadHash: hash,
	}
	if contact != nil {
		interaction.ContactID = &contact.ID
		interaction.FromNumber = contact.Phone
	}

	if err := h.db.Create(&interaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.WebhookDuplicates.WithLabelValues(campaign.Name).Inc()
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}
		h.checker.Forget(c.Request.Context(), hash)
		h.log.Error("record interaction", zap.Error(err), zap.Uint("campaign_id", campaign.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record interaction"})
		return
	}

	metrics.WebhookReceived.WithLabelValues(campaign.Name, payload.SourceType).Inc()
	metrics.WebhookDuration.Observe(time.Since(start).Seconds())

	if h.hub != nil {
		h.hub.NotifyInteraction(interaction)
	}
	if h.engine != nil {
		// Detached from the request context so trigger SMS sends survive the
		// response being written.
		go h.engine.ProcessInteraction(context.Background(), &interaction, &campaign, contact)
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded", "interaction_id": interaction.ID})
}

// upsertContact finds or creates the campaign contact for the caller number.
// A payload without a parseable number yields no contact; the interaction is
// still recorded.
func (h *Handler) upsertContact(campaign *models.Campaign, payload *wire.WebhookPayload) *models.Contact {
	phone, err := importer.NormalizePhone(payload.From, campaign.PhoneRegion)
	if err != nil {
		return nil
	}

	var contact models.Contact
	err = h.db.Where("campaign_id = ? AND phone = ?", campaign.ID, phone).First(&contact).Error
	if err == nil {
		if contact.FirstName == "" && payload.CallerName != "" {
			first, last := splitName(payload.CallerName)
			h.db.Model(&contact).Updates(map[string]interface{}{"first_name": first, "last_name": last})
			contact.FirstName, contact.LastName = first, last
		}
		return &contact
	}

	first, last := splitName(payload.CallerName)
	contact = models.Contact{
		CampaignID: campaign.ID,
		Phone:      phone,
		FirstName:  first,
		LastName:   last,
		Tags:       "[]",
		Source:     "webhook",
	}
	if err := h.db.Create(&contact).Error; err != nil {
		h.log.Warn("auto-save contact", zap.Error(err))
		return nil
	}
	return &contact
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
