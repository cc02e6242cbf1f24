// internal/api/qualification_handlers.go
// Qualification pipeline endpoints (spec §4.7, C7, §6).

package api

import (
	"net/http"

	"tourney-engine/internal/services"

	"github.com/gin-gonic/gin"
)

type qualifyRequest struct {
	CompetitionID int64 `json:"competition_id" binding:"required"`
	TopN          int   `json:"top_n" binding:"required"`
}

// HandleQualifyForRegional promotes the top_n finishers of every county
// competition in a region into the target regional competition.
func HandleQualifyForRegional(svc *services.QualificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		var req qualifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := svc.QualifyForRegional(c.Request.Context(), seasonID, req.CompetitionID, req.TopN)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleQualifyForCL promotes the top_n finishers of every regional
// competition into the target national competition.
func HandleQualifyForCL(svc *services.QualificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		seasonID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		var req qualifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := svc.QualifyForChampionsLeague(c.Request.Context(), seasonID, req.CompetitionID, req.TopN)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleCompetitionStatus reports LEAGUE/GROUP match completion for a
// competition (spec §4.7's gating check on qualify-for-* calls).
func HandleCompetitionStatus(svc *services.QualificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		status, err := svc.GetCompetitionStatus(c.Request.Context(), competitionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// HandleTopTeams returns a competition's current top-N finishers, sorted over
// its whole standings set with no per-group split, without mutating anything.
func HandleTopTeams(svc *services.QualificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		seasonID, ok := queryInt64(c, "season_id")
		if !ok {
			return
		}
		count, ok := queryInt64(c, "count")
		if !ok {
			return
		}
		top, err := svc.GetTopTeams(c.Request.Context(), competitionID, seasonID, int(count))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"team_ids": top})
	}
}
