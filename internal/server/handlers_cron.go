package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authorizeCron checks the shared-secret bearer token cron requests
// carry. Misconfigured (empty) secrets refuse everything.
func (s *Server) authorizeCron(r *http.Request) bool {
	if s.cronSecret == "" {
		return false
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cronSecret)) == 1
}

// handleCronPublish runs one publishing sweep over due posts.
func (s *Server) handleCronPublish(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCron(r) {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := s.publisher.Run(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]int{
		"processed": summary.Processed,
		"success":   summary.Published,
		"failed":    summary.Failed,
	})
}

// handleCronReminder runs one weekly goal-reminder sweep.
func (s *Server) handleCronReminder(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCron(r) {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := s.reminder.Run(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]int{
		"reminded": summary.Reminded,
		"failed":   summary.Failed,
	})
}
