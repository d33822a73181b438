// api/errors.go

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ascendhq/ascendcore/internal/repository"
)

// errorResponse shapes any error as the JSON body returned to callers.
// Spec §6 only guarantees a `detail` key on error responses.
func errorResponse(err error) gin.H {
	return gin.H{"detail": err.Error()}
}

// statusFor maps a repository.Kind to the HTTP status callers should see,
// per the status table in §7.
func statusFor(err error) int {
	kind, ok := repository.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case repository.KindInvalidInput:
		return http.StatusBadRequest
	case repository.KindNotFound:
		return http.StatusNotFound
	case repository.KindAlreadyCompleted, repository.KindAlreadyGenerating:
		return http.StatusConflict
	case repository.KindLLMUnavailable, repository.KindEvaluationUnavailable:
		return http.StatusServiceUnavailable
	case repository.KindParseFailure:
		return http.StatusBadGateway
	case repository.KindTimeout:
		return http.StatusGatewayTimeout
	case repository.KindRepositoryFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
