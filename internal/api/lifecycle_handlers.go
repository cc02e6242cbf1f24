// internal/api/lifecycle_handlers.go
// Season, competition and team administration (spec §4.9, C9).

package api

import (
	"net/http"
	"strconv"
	"time"

	"tourney-engine/internal/models"
	"tourney-engine/internal/services"

	"github.com/gin-gonic/gin"
)

func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be numeric"})
		return 0, false
	}
	return v, true
}

func queryInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " query parameter must be numeric"})
		return 0, false
	}
	return v, true
}

type createSeasonRequest struct {
	Name string `json:"name" binding:"required"`
	Year int    `json:"year" binding:"required"`
}

// HandleCreateSeason creates a new active season, deactivating priors.
func HandleCreateSeason(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSeasonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		season, err := svc.CreateSeason(c.Request.Context(), req.Name, req.Year)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, season)
	}
}

type createCompetitionRequest struct {
	Name     string                      `json:"name" binding:"required"`
	Type     models.CompetitionType      `json:"type" binding:"required"`
	Category models.CompetitionCategory  `json:"category" binding:"required"`
	SeasonID int64                       `json:"season_id" binding:"required"`
	RegionID *int64                      `json:"region_id"`
	CountyID *int64                      `json:"county_id"`
}

// HandleCreateCompetition creates a competition scoped by type/region/county.
func HandleCreateCompetition(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCompetitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		comp, err := svc.CreateCompetition(c.Request.Context(), req.Name, req.Type, req.Category, req.SeasonID, req.RegionID, req.CountyID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, comp)
	}
}

type addTeamsRequest struct {
	TeamIDs []int64 `json:"team_ids" binding:"required"`
}

// HandleAddTeamsToCompetition admits a batch of teams into a competition.
func HandleAddTeamsToCompetition(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		var req addTeamsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.AddTeamsToCompetition(c.Request.Context(), competitionID, req.TeamIDs); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type createTeamRequest struct {
	Name     string              `json:"name" binding:"required"`
	CountyID int64               `json:"county_id" binding:"required"`
	RegionID int64               `json:"region_id" binding:"required"`
	Category models.TeamCategory `json:"category" binding:"required"`
	LogoURL  *string             `json:"logo_url"`
}

// HandleCreateTeam registers a new team in PENDING status.
func HandleCreateTeam(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTeamRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		team, err := svc.CreateTeam(c.Request.Context(), req.Name, req.CountyID, req.RegionID, req.Category, req.LogoURL)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, team)
	}
}

// HandleApproveTeam transitions a team PENDING -> ACTIVE.
func HandleApproveTeam(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		if err := svc.ApproveTeam(c.Request.Context(), teamID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleDeleteTeam removes a team, rejecting if it has registered players.
func HandleDeleteTeam(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		if err := svc.DeleteTeam(c.Request.Context(), teamID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type createSuperMatchRequest struct {
	SeasonID        int64     `json:"season_id" binding:"required"`
	CLWinnerTeamID  int64     `json:"cl_winner_team_id" binding:"required"`
	CupWinnerTeamID int64     `json:"cup_winner_team_id" binding:"required"`
	MatchDate       time.Time `json:"match_date" binding:"required"`
}

// HandleCreateSuperMatch schedules the season's CL-winner-vs-cup-winner
// super match (supplemented feature, SPEC_FULL.md §4).
func HandleCreateSuperMatch(svc *services.LifecycleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSuperMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		match, err := svc.CreateSuperMatch(c.Request.Context(), req.SeasonID, req.CLWinnerTeamID, req.CupWinnerTeamID, req.MatchDate)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, match)
	}
}
