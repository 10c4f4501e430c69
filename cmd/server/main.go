package main

import (
	"context"
	"log"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/api"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/auth"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/config"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/database"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/idempotency"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/importer"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/logger"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/nurture"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/sms"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/triggers"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/webhook"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = idempotency.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			zlog.Warn("redis unreachable, idempotency falls back to the database", zap.Error(err))
			redisClient = nil
		}
	}
	checker := idempotency.NewChecker(redisClient)

	sender, err := sms.NewSender(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to configure SMS sender: %v", err)
	}

	hub := ws.NewHub(zlog)
	go hub.Run()

	engine := triggers.NewEngine(db, sender, zlog)
	webhookHandler := webhook.NewHandler(db, engine, checker, hub, zlog, cfg.WebhookRPS, cfg.WebhookBurst)

	scheduler := nurture.NewScheduler(db, sender, zlog)
	go scheduler.Run(context.Background())

	imp := importer.New(db, zlog)
	mw := auth.NewMiddleware(cfg, db)

	orgHandler := api.NewOrganizationHandler(db)
	campaignHandler := api.NewCampaignHandler(db, cfg)
	contactHandler := api.NewContactHandler(db, imp)
	interactionHandler := api.NewInteractionHandler(db)
	triggerHandler := api.NewSmsTriggerHandler(db)
	userHandler := api.NewUserHandler(db)
	stageHandler := api.NewStageHandler(db)
	resourceHandler := api.NewResourceHandler(db)
	nurtureHandler := api.NewNurtureHandler(db)
	commissionHandler := api.NewCommissionHandler(db)
	leadHandler := api.NewLeadHandler(db, hub)
	dashboardHandler := api.NewDashboardHandler(db)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-API-Key")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", func(c *gin.Context) {
		hub.ServeWs(c.Writer, c.Request)
	})

	// Webhook ingestion (authenticated by the campaign UUID itself)
	r.POST("/api/webhook/:uuid", webhookHandler.HandleEvent)

	// Admin portal
	admin := r.Group("/api/admin", mw.RequireAdmin())
	{
		admin.GET("/organizations", orgHandler.List)
		admin.POST("/organizations", orgHandler.Create)
		admin.GET("/organizations/:id", orgHandler.Get)
		admin.PUT("/organizations/:id", orgHandler.Update)
		admin.DELETE("/organizations/:id", orgHandler.Delete)

		admin.GET("/campaigns", campaignHandler.List)
		admin.POST("/campaigns", campaignHandler.Create)
		admin.GET("/campaigns/:id", campaignHandler.Get)
		admin.PUT("/campaigns/:id", campaignHandler.Update)
		admin.DELETE("/campaigns/:id", campaignHandler.Delete)
		admin.POST("/campaigns/:id/rotate-webhook", campaignHandler.RotateWebhook)

		admin.GET("/campaigns/:id/contacts", contactHandler.List)
		admin.POST("/campaigns/:id/contacts", contactHandler.Create)
		admin.POST("/campaigns/:id/contacts/import", contactHandler.Import)
		admin.GET("/campaigns/:id/contacts/export", contactHandler.Export)
		admin.PUT("/contacts/:contactId", contactHandler.Update)
		admin.DELETE("/contacts/:contactId", contactHandler.Delete)

		admin.GET("/interactions", interactionHandler.List)
		admin.GET("/interactions/:id", interactionHandler.Get)
		admin.DELETE("/interactions/:id", interactionHandler.Delete)

		admin.GET("/sms-triggers", triggerHandler.List)
		admin.POST("/sms-triggers", triggerHandler.Create)
		admin.PUT("/sms-triggers/:id", triggerHandler.Update)
		admin.POST("/sms-triggers/:id/toggle", triggerHandler.Toggle)
		admin.DELETE("/sms-triggers/:id", triggerHandler.Delete)
		admin.GET("/sms-logs", triggerHandler.Logs)

		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.PUT("/users/:id", userHandler.Update)
		admin.POST("/users/:id/rotate-key", userHandler.RotateKey)
		admin.DELETE("/users/:id", userHandler.Delete)

		admin.GET("/lead-stages", stageHandler.List)
		admin.POST("/lead-stages", stageHandler.Create)
		admin.PUT("/lead-stages/:id", stageHandler.Update)
		admin.DELETE("/lead-stages/:id", stageHandler.Delete)

		admin.GET("/resource-categories", resourceHandler.ListCategories)
		admin.POST("/resource-categories", resourceHandler.CreateCategory)
		admin.DELETE("/resource-categories/:id", resourceHandler.DeleteCategory)
		admin.GET("/resources", resourceHandler.List)
		admin.POST("/resources", resourceHandler.Create)
		admin.PUT("/resources/:id", resourceHandler.Update)
		admin.DELETE("/resources/:id", resourceHandler.Delete)

		admin.GET("/nurture-campaigns", nurtureHandler.List)
		admin.POST("/nurture-campaigns", nurtureHandler.Create)
		admin.POST("/nurture-campaigns/:id/toggle", nurtureHandler.Toggle)
		admin.DELETE("/nurture-campaigns/:id", nurtureHandler.Delete)
		admin.GET("/nurture-campaigns/:id/enrollments", nurtureHandler.Enrollments)

		admin.GET("/commissions", commissionHandler.List)
		admin.POST("/commissions/:id/approve", commissionHandler.Approve)
		admin.POST("/commissions/:id/mark-paid", commissionHandler.MarkPaid)

		admin.GET("/dashboard/stats", dashboardHandler.Stats)
		admin.GET("/dashboard/interaction-volume", dashboardHandler.InteractionVolume)
	}

	// Sales CRM portal
	sales := r.Group("/api/sales", mw.RequireSales())
	{
		sales.GET("/leads", leadHandler.List)
		sales.POST("/leads", leadHandler.Create)
		sales.GET("/leads/:id", leadHandler.Get)
		sales.PUT("/leads/:id", leadHandler.Update)
		sales.DELETE("/leads/:id", leadHandler.Delete)
		sales.POST("/leads/:id/stage", leadHandler.ChangeStage)
		sales.GET("/leads/:id/activities", leadHandler.ListActivities)
		sales.POST("/leads/:id/activities", leadHandler.AddActivity)
		sales.POST("/leads/:id/enroll", leadHandler.Enroll)
		sales.POST("/leads/:id/unenroll", leadHandler.Unenroll)

		sales.GET("/lead-stages", stageHandler.List)
		sales.GET("/commissions", commissionHandler.List)
		sales.GET("/resources", resourceHandler.List)
		sales.GET("/resource-categories", resourceHandler.ListCategories)
		sales.GET("/nurture-campaigns", nurtureHandler.List)
	}

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
