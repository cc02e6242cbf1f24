// internal/services/container.go
// Service container provides dependency injection for all business logic services.
// This pattern makes testing easier and keeps services loosely coupled.

package services

import (
	"log"

	"tourney-engine/internal/config"
	"tourney-engine/internal/database"
	"tourney-engine/internal/drawrand"
	"tourney-engine/internal/eventbus"
	"tourney-engine/internal/repositories"
)

// Container holds all service instances and provides them to handlers.
type Container struct {
	Auth          *AuthService
	Standings     *StandingsService
	Scheduler     *SchedulerService
	GroupDraw     *GroupDrawService
	Bracket       *BracketService
	Result        *ResultService
	Qualification *QualificationService
	Lifecycle     *LifecycleService
	Notification  *NotificationService
	Cache         *CacheService
	Analytics     *AnalyticsService
	Bus           *eventbus.Bus
}

// NewContainer creates a new service container with all dependencies wired.
func NewContainer(db *database.Connections, cfg *config.Config, logger *log.Logger) *Container {
	repos := repositories.NewContainer(db)
	rand := drawrand.New(cfg.Engine.DrawSeed)
	bus := eventbus.New()

	cache := NewCacheService(db.Redis, logger)
	notification := NewNotificationService(logger)
	analytics := NewAnalyticsService(db.MongoDB, logger)

	auth := NewAuthService(cfg.Auth, logger)
	standings := NewStandingsService(repos, cache, logger)
	scheduler := NewSchedulerService(repos, analytics, notification, logger)
	groupDraw := NewGroupDrawService(repos, rand, analytics, notification, logger)
	bracket := NewBracketService(repos, standings, rand, analytics, notification, logger)
	result := NewResultService(repos, standings, bracket, cache, notification, bus, logger)
	qualification := NewQualificationService(repos, standings, cache, analytics, logger)
	lifecycle := NewLifecycleService(repos, logger)

	return &Container{
		Auth:          auth,
		Standings:     standings,
		Scheduler:     scheduler,
		GroupDraw:     groupDraw,
		Bracket:       bracket,
		Result:        result,
		Qualification: qualification,
		Lifecycle:     lifecycle,
		Notification:  notification,
		Cache:         cache,
		Analytics:     analytics,
		Bus:           bus,
	}
}
