package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/client-service/internal/apperr"
	"github.com/eaglebank/client-service/internal/middleware"
)

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound, apperr.KindAccountNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateAccount:
		return http.StatusConflict
	case apperr.KindNegativeBalance, apperr.KindNonPositiveAmount, apperr.KindOverdraw, apperr.KindBalanceOverflow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondWithDomainError(c *gin.Context, err error, fallback string) {
	status := statusFor(apperr.KindOf(err))
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		middleware.RespondWithError(c, status, fallback)
		return
	}
	middleware.RespondWithError(c, status, err.Error())
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
// It writes the 400 response itself and reports whether the handler may go on.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}
