// internal/api/routes.go
// Central route registration for all API endpoints

package api

import (
	"tourney-engine/internal/middleware"
	"tourney-engine/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterLifecycleRoutes registers season/competition/team administration
// routes (spec §4.9).
func RegisterLifecycleRoutes(router *gin.RouterGroup, svcs *services.Container) {
	seasons := router.Group("/seasons")
	seasons.Use(middleware.RequireAuth(svcs.Auth))
	{
		seasons.POST("", middleware.RequireAdmin(), HandleCreateSeason(svcs.Lifecycle))
		seasons.POST("/:id/qualify-for-regional", middleware.RequireAdmin(), HandleQualifyForRegional(svcs.Qualification))
		seasons.POST("/:id/qualify-for-cl", middleware.RequireAdmin(), HandleQualifyForCL(svcs.Qualification))
	}

	competitions := router.Group("/competitions")
	{
		competitions.GET("/:id/status", HandleCompetitionStatus(svcs.Qualification))
		competitions.GET("/:id/top-teams", HandleTopTeams(svcs.Qualification))
		competitions.GET("/:id/bracket", HandleGetBracket(svcs.Bracket))

		competitions.Use(middleware.RequireAuth(svcs.Auth))
		competitions.POST("", middleware.RequireAdmin(), HandleCreateCompetition(svcs.Lifecycle))
		competitions.POST("/:id/teams", middleware.RequireAdmin(), HandleAddTeamsToCompetition(svcs.Lifecycle))

		competitions.POST("/:id/generate-fixtures", middleware.RequireAdmin(), HandleGenerateFixtures(svcs.Scheduler))
		competitions.POST("/:id/generate-county-fixtures", middleware.RequireAdmin(), HandleGenerateFixtures(svcs.Scheduler))
		competitions.POST("/:id/generate-regional-groups", middleware.RequireAdmin(), HandleGenerateGroups(svcs.GroupDraw))
		competitions.POST("/:id/generate-groups", middleware.RequireAdmin(), HandleGenerateGroups(svcs.GroupDraw))
		competitions.POST("/:id/advance-knockout", middleware.RequireAdmin(), HandleAdvanceKnockout(svcs.Bracket))
		competitions.POST("/:id/generate-knockout", middleware.RequireAdmin(), HandleGenerateKnockout(svcs.Bracket))
		competitions.POST("/:id/generate-cup-draw", middleware.RequireAdmin(), HandleGenerateCupDraw(svcs.Bracket))
		competitions.DELETE("/:id/bracket", middleware.RequireAdmin(), HandleDeleteBracket(svcs.Bracket))
	}

	teams := router.Group("/teams")
	teams.Use(middleware.RequireAuth(svcs.Auth))
	{
		teams.POST("", HandleCreateTeam(svcs.Lifecycle))
		teams.POST("/:id/approve", middleware.RequireAdmin(), HandleApproveTeam(svcs.Lifecycle))
		teams.DELETE("/:id", middleware.RequireAdmin(), HandleDeleteTeam(svcs.Lifecycle))
	}

	router.POST("/super-match", middleware.RequireAuth(svcs.Auth), middleware.RequireAdmin(), HandleCreateSuperMatch(svcs.Lifecycle))
}

// RegisterMatchRoutes registers result-submission routes (spec §4.6).
func RegisterMatchRoutes(router *gin.RouterGroup, svcs *services.Container) {
	matches := router.Group("/matches")
	matches.Use(middleware.RequireAuth(svcs.Auth))
	{
		matches.POST("/:id/submit-result", HandleSubmitResult(svcs.Result))
		matches.POST("/:id/confirm-result", middleware.RequireAdmin(), HandleConfirmResult(svcs.Result))
	}
}

// RegisterStandingsRoutes registers the standings read endpoint (spec
// §4.2).
func RegisterStandingsRoutes(router *gin.RouterGroup, svcs *services.Container) {
	router.GET("/standings", HandleGetStandings(svcs.Standings))
}

// RegisterEventRoutes registers the server-sent events stream (spec §4.8,
// §6).
func RegisterEventRoutes(router *gin.RouterGroup, svcs *services.Container) {
	router.GET("/events/stream", HandleEventStream(svcs.Bus))
}
