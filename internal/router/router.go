package router

import (
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/handlers"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/middleware"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/excel"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options carries the services the HTTP surface is built on
type Options struct {
	CampaignService    *services.CampaignService
	ActivationService  *services.ActivationService
	PauseResumeService *services.PauseResumeService
	InstanceService    *services.InstanceService
	ExcelService       *excel.Service
	SSEHub             *services.SSEHub
	TokenValidator     middleware.TokenValidator
	AllowedOrigins     []string
}

// SetupRouter configures the Gin router with the dispatch routes
func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(opts.TokenValidator)

	campaignHandler := handlers.NewCampaignHandler(opts.CampaignService, opts.ActivationService, opts.PauseResumeService)
	eventsHandler := handlers.NewEventsHandler(opts.CampaignService, opts.SSEHub)
	instanceHandler := handlers.NewInstanceHandler(opts.InstanceService)
	excelHandler := handlers.NewExcelHandler(opts.ExcelService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Debug("Swagger UI endpoint registered at /swagger/index.html")

	api := r.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		protected := api.Group("")
		protected.Use(bearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			protected.GET("/events", eventsHandler.StreamOrganizationEvents)
			protected.GET("/instances", instanceHandler.GetInstances)

			campaigns := protected.Group("/campaigns")
			{
				campaigns.POST("", campaignHandler.CreateCampaign)
				campaigns.GET("", campaignHandler.GetCampaigns)
				campaigns.GET("/:id", campaignHandler.GetCampaign)
				campaigns.GET("/:id/status", campaignHandler.GetCampaignStatus)
				campaigns.PUT("/:id/delays", campaignHandler.UpdateDelays)
				campaigns.POST("/:id/activate", campaignHandler.ActivateCampaign)
				campaigns.POST("/:id/pause", campaignHandler.PauseCampaign)
				campaigns.POST("/:id/resume", campaignHandler.ResumeCampaign)
				campaigns.GET("/:id/audit-batches", campaignHandler.GetAuditBatches)
				campaigns.GET("/:id/export", excelHandler.ExportCampaignReport)
				campaigns.POST("/:id/audience/preview", campaignHandler.PreviewAudience)
				campaigns.GET("/:id/events", eventsHandler.StreamCampaignEvents)
			}
		}
	}

	return r
}
