package router

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/notify-admin-api/internal/handler"
	"github.com/noah-isme/notify-admin-api/internal/middleware"
	"github.com/noah-isme/notify-admin-api/internal/models"
	"github.com/noah-isme/notify-admin-api/internal/service"
	"github.com/noah-isme/notify-admin-api/pkg/config"
	"github.com/noah-isme/notify-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/notify-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/notify-admin-api/pkg/middleware/requestid"
)

const announcementResource = "announcement"

// AuditRecorder stores operation log entries.
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Auth          gin.HandlerFunc
	Metrics       *service.MetricsService
	Announcements *handler.AnnouncementHandler
	Observability *handler.MetricsHandler
	Audit         AuditRecorder
}

// New builds the gin engine with global middleware and every route.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET("/metrics", deps.Observability.Prometheus)
	}

	r.GET("/health", deps.Observability.Health)
	r.GET("/ready", deps.Observability.Ready)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(deps.Auth)
	RegisterAnnouncementRoutes(api, deps.Announcements, deps.Audit)

	return r
}

// RegisterAnnouncementRoutes mounts the announcement endpoints on rg. Callers
// must have attached authentication to rg.
func RegisterAnnouncementRoutes(rg *gin.RouterGroup, h *handler.AnnouncementHandler, audit AuditRecorder) {
	op := func(action, message string) gin.HandlerFunc {
		return middleware.OperationLog(audit, action, announcementResource, message)
	}

	notices := rg.Group("/notify/announcement")
	notices.GET("/page",
		middleware.RequirePermission(middleware.PermissionAnnouncementRead),
		h.Page)
	notices.POST("",
		middleware.RequirePermission(middleware.PermissionAnnouncementAdd),
		op(models.AuditActionCreate, "create announcement"),
		h.Save)
	notices.PUT("",
		middleware.RequirePermission(middleware.PermissionAnnouncementEdit),
		op(models.AuditActionUpdate, "update announcement"),
		h.Update)
	notices.DELETE("/:id",
		middleware.RequirePermission(middleware.PermissionAnnouncementDel),
		op(models.AuditActionDelete, "delete announcement"),
		h.Remove)
	notices.PATCH("/publish/:id",
		middleware.RequirePermission(middleware.PermissionAnnouncementEdit),
		op(models.AuditActionUpdate, "publish announcement"),
		h.Publish)
	notices.PATCH("/close/:id",
		middleware.RequirePermission(middleware.PermissionAnnouncementEdit),
		op(models.AuditActionUpdate, "close announcement"),
		h.Close)
}
