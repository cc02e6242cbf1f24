// internal/api/result_handlers.go
// Result State Machine endpoints: submit and confirm (spec §4.6, C6, §6).

package api

import (
	"net/http"

	"tourney-engine/internal/models"
	"tourney-engine/internal/services"

	"github.com/gin-gonic/gin"
)

// actorFromContext reconstructs the request's Actor from the claims
// middleware.RequireAuth placed on the gin context.
func actorFromContext(c *gin.Context) (*models.Actor, bool) {
	idVal, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	roleVal, _ := c.Get("user_role")
	actor := &models.Actor{ID: idVal.(int64), Role: models.UserRole(roleVal.(string))}
	if teamVal, exists := c.Get("team_id"); exists {
		if teamID, ok := teamVal.(int64); ok {
			actor.TeamID = &teamID
		}
	}
	return actor, true
}

type submitResultRequest struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

// HandleSubmitResult records a scoreline, moving a match SCHEDULED ->
// COMPLETED.
func HandleSubmitResult(svc *services.ResultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		var req submitResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.SubmitResult(c.Request.Context(), matchID, req.HomeScore, req.AwayScore, actor); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type confirmResultRequest struct {
	PenaltyWinnerID *int64 `json:"penalty_winner_id"`
}

// HandleConfirmResult finalizes a submitted result (COMPLETED -> CONFIRMED)
// and runs the full post-confirmation cascade.
func HandleConfirmResult(svc *services.ResultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		var req confirmResultRequest
		_ = c.ShouldBindJSON(&req)
		if err := svc.ConfirmResult(c.Request.Context(), matchID, actor, req.PenaltyWinnerID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
