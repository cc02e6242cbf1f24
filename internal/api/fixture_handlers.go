// internal/api/fixture_handlers.go
// Fixture-generation endpoints: round-robin, CL group draw, CL knockout
// bracket, cup draw, and the group-stage-to-knockout advancement (spec
// §4.3-4.5, §6).

package api

import (
	"net/http"
	"time"

	"tourney-engine/internal/services"

	"github.com/gin-gonic/gin"
)

type generateFixturesRequest struct {
	StartDate    time.Time `json:"start_date" binding:"required"`
	IntervalDays int       `json:"interval_days" binding:"required"`
}

// HandleGenerateFixtures runs the circle-method double round-robin over a
// competition's teams (spec §4.3).
func HandleGenerateFixtures(svc *services.SchedulerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		var req generateFixturesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.GenerateRoundRobin(c.Request.Context(), competitionID, req.StartDate, req.IntervalDays); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	}
}

// HandleGenerateGroups draws the 7 regional groups of 3 for the national
// competition (spec §4.4).
func HandleGenerateGroups(svc *services.GroupDrawService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		var req generateFixturesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.GenerateCLGroups(c.Request.Context(), competitionID, req.StartDate, req.IntervalDays); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	}
}

type generateKnockoutRequest struct {
	TeamPairs    [4][2]int64 `json:"team_pairs" binding:"required"`
	StartDate    time.Time   `json:"start_date" binding:"required"`
	IntervalDays int         `json:"interval_days" binding:"required"`
}

// HandleGenerateKnockout lays out the CL final/semis/quarters bracket with
// the supplied quarter-final pairings (spec §4.5.1).
func HandleGenerateKnockout(svc *services.BracketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		var req generateKnockoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.GenerateCLKnockoutBracket(c.Request.Context(), competitionID, req.TeamPairs, req.StartDate, req.IntervalDays); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	}
}

// HandleGenerateCupDraw builds the single-elimination cup bracket, padding
// with byes to the next power of two (spec §4.5.2).
func HandleGenerateCupDraw(svc *services.BracketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		var req generateFixturesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.GenerateCupDraw(c.Request.Context(), competitionID, req.StartDate, req.IntervalDays); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	}
}

// HandleGetBracket returns every bracket-position match for a competition.
func HandleGetBracket(svc *services.BracketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		bracket, err := svc.GetBracket(c.Request.Context(), competitionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, bracket)
	}
}

// HandleDeleteBracket resets a competition's bracket, blocked if any match
// in it is already CONFIRMED (spec §6).
func HandleDeleteBracket(svc *services.BracketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		if err := svc.ResetBracket(c.Request.Context(), competitionID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type advanceKnockoutResponse struct {
	Qualified []int64     `json:"qualified_team_ids"`
	Pairs     [4][2]int64 `json:"quarter_final_pairs"`
}

// HandleAdvanceKnockout seeds the CL quarter-finals from group results
// (spec §4.5.4). This only computes the pairing; a subsequent
// generate-knockout call with those pairs writes the matches.
func HandleAdvanceKnockout(svc *services.BracketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		seasonID, ok := queryInt64(c, "season_id")
		if !ok {
			return
		}
		qualified, pairs, err := svc.AdvanceCLKnockout(c.Request.Context(), competitionID, seasonID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, advanceKnockoutResponse{Qualified: qualified, Pairs: pairs})
	}
}
