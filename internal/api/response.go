// internal/api/response.go
// Shared error-to-status mapping for every handler (spec §6 status
// conventions: 400 validation, 401 unauthorized, 403 forbidden, 404 not
// found, 409 invariant conflict, 500 otherwise).

package api

import (
	"net/http"

	"tourney-engine/internal/apperr"

	"github.com/gin-gonic/gin"
)

func statusForKind(k apperr.Kind) int {
	switch k {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.ValidationFailure:
		return http.StatusBadRequest
	case apperr.InvariantConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondErr writes the appropriate status code and a JSON error body for
// any error returned by a service method.
func respondErr(c *gin.Context, err error) {
	status := statusForKind(apperr.KindOf(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
