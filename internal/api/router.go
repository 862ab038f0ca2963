package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"maintenance-tracker-backend/config"
	"maintenance-tracker-backend/internal/auth"
	"maintenance-tracker-backend/internal/maintenance"
	"maintenance-tracker-backend/internal/mw"
	"maintenance-tracker-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, db *gorm.DB, st *store.MachineStore, svc *maintenance.Service, authSvc *auth.Service, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(db, st, svc, authSvc, webpushOptions, cfg.Media)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(mw.Authenticate(authSvc))
		{
			authed.GET("/machines", handler.ListMachines)
			authed.POST("/machines", handler.CreateMachine)
			authed.GET("/machines/upcoming", caching, handler.UpcomingDue)
			authed.GET("/machines/:id", handler.GetMachine)
			authed.PATCH("/machines/:id", handler.UpdateMachine)
			authed.DELETE("/machines/:id", handler.DeleteMachine)
			authed.POST("/machines/:id/complete", handler.CompleteMaintenance)
			authed.GET("/machines/:id/history", handler.GetHistory)

			authed.POST("/media", handler.UploadMedia)

			authed.GET("/subscriptions", handler.GetSubscriptions)
			authed.PUT("/subscriptions", handler.PutSubscription)
			authed.DELETE("/subscriptions", handler.DeleteSubscription)
		}
	}

	return r
}
