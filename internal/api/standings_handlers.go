// internal/api/standings_handlers.go
// Standings read endpoint (spec §4.2, §6).

package api

import (
	"net/http"

	"tourney-engine/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleGetStandings returns a competition/season's standings, optionally
// scoped to a single group, sorted per spec §4.2 (points, then the FIFA/CAF
// restricted head-to-head comparison, then goal difference, then goals
// for).
func HandleGetStandings(standings *services.StandingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionID, ok := queryInt64(c, "competition_id")
		if !ok {
			return
		}
		seasonID, ok := queryInt64(c, "season_id")
		if !ok {
			return
		}
		groupName := c.Query("group_name")

		rows, err := standings.ListStandings(c.Request.Context(), competitionID, seasonID, groupName)
		if err != nil {
			respondErr(c, err)
			return
		}
		matches, err := standings.LoadConfirmedMatches(c.Request.Context(), competitionID, seasonID)
		if err != nil {
			respondErr(c, err)
			return
		}
		sorted := services.SortStandings(rows, matches)
		c.JSON(http.StatusOK, sorted)
	}
}
