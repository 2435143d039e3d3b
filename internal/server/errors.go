// Package server provides the HTTP API for the content pipeline.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/content-pilot/internal/db"
	"github.com/jonathan/content-pilot/internal/generation"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidGoal *generation.InvalidGoalError
		profileReq  *generation.ProfileRequiredError
		subReq      *generation.SubscriptionRequiredError
		notFound    *generation.PostNotFoundError
		inProgress  *db.GenerationInProgressError
	)

	switch {
	case errors.As(err, &invalidGoal), errors.As(err, &profileReq):
		return http.StatusBadRequest
	case errors.As(err, &subReq):
		return http.StatusPaymentRequired
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &inProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
