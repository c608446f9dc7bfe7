// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"entrantly/internal/entrants"
	"entrantly/internal/events"
	"entrantly/internal/lottery"
	"entrantly/internal/notifications"
	"entrantly/internal/organizers"
	"entrantly/internal/shared/config"
	"entrantly/internal/shared/database"
	"entrantly/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config          *config.Config
	db              *database.DB
	deliveryChannel notifications.DeliveryChannel

	// Retained for the background job wiring in main
	entrantRepo entrants.Repository
	coordinator *lottery.Coordinator
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, deliveryChannel notifications.DeliveryChannel) *Router {
	return &Router{
		config:          cfg,
		db:              db,
		deliveryChannel: deliveryChannel,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		cacheService := cache.NewService(r.db.GetRedis())

		// Events
		eventRepo := events.NewRepository(r.db.PostgreSQL)
		eventService := events.NewService(eventRepo)
		eventService.SetCacheService(cacheService)
		eventController := events.NewController(eventService)
		events.SetupEventRoutes(api, eventController)

		// Organizers gate event actions, events carry the ban cascade.
		// Both sides are injected after construction to break the cycle.
		organizerRepo := organizers.NewRepository(r.db.PostgreSQL)
		organizerService := organizers.NewService(organizerRepo, eventService)
		eventService.SetOrganizerGate(organizerService)
		organizerController := organizers.NewController(organizerService)
		organizers.SetupOrganizerRoutes(api, organizerController)

		// Entrants
		entrantRepo := entrants.NewRepository(r.db.PostgreSQL, r.db.GetRedis(), &entrants.LockConfig{
			TTL:           r.config.Redis.EventLockTTL,
			RetryInterval: 50 * time.Millisecond,
			MaxWait:       3 * time.Second,
		})
		entrantService := entrants.NewService(entrantRepo, eventService)
		entrantController := entrants.NewController(entrantService)
		entrants.SetupEntrantRoutes(api, entrantController)

		// Lottery
		lotteryService := lottery.NewService(entrantRepo, eventService, &lottery.ServiceConfig{
			InvitationWindow: r.config.Lottery.InvitationWindow,
			Seed:             r.config.Lottery.Seed,
		})
		coordinator := lottery.NewCoordinator(lotteryService, eventService)
		entrantService.SetReplacementTrigger(coordinator)
		lotteryController := lottery.NewController(lotteryService)
		lottery.SetupLotteryRoutes(api, lotteryController)

		// Notifications
		notificationRepo := notifications.NewRepository(r.db.PostgreSQL)
		notificationService := notifications.NewService(notificationRepo, entrantRepo, eventService, r.deliveryChannel)
		notificationController := notifications.NewController(notificationService)
		notifications.SetupNotificationRoutes(api, notificationController)

		r.entrantRepo = entrantRepo
		r.coordinator = coordinator
	}
}

// NewExpirySweeper builds the background invitation-expiry job using the
// dependencies wired by SetupRoutes.
func (r *Router) NewExpirySweeper() *lottery.JobProcessor {
	return lottery.NewJobProcessor(r.entrantRepo, r.coordinator, r.config.Lottery.ExpirySweepInterval)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "entrantly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "entrantly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
