package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/content-pilot/internal/db"
	"github.com/jonathan/content-pilot/internal/server/middleware"
)

type startGenerationRequest struct {
	Goal    string `json:"goal"`
	Context string `json:"context,omitempty"`
}

type startGenerationResponse struct {
	Success            bool        `json:"success"`
	GenerationID       uuid.UUID   `json:"generationId"`
	WeekNumber         int         `json:"weekNumber"`
	Goal               string      `json:"goal"`
	XPostsCount        int         `json:"xPostsCount"`
	LinkedInPostsCount int         `json:"linkedinPostsCount"`
	PostIDs            []uuid.UUID `json:"postIds"`
}

// handleStartGeneration triggers a weekly generation run for the
// authenticated account.
func (s *Server) handleStartGeneration(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.AccountID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req startGenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.generator.Start(r.Context(), accountID, req.Goal, req.Context)
	if err != nil {
		status := HTTPStatus(err)

		// A refused lease names the run already underway.
		var inProgress *db.GenerationInProgressError
		if errors.As(err, &inProgress) {
			s.jsonResponse(w, status, map[string]any{
				"error":        "generation_in_progress",
				"generationId": inProgress.GenerationID,
			})
			return
		}

		s.errorResponse(w, status, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, startGenerationResponse{
		Success:            true,
		GenerationID:       result.GenerationID,
		WeekNumber:         result.WeekNumber,
		Goal:               result.Goal,
		XPostsCount:        result.XPostsCount,
		LinkedInPostsCount: result.LinkedInPostsCount,
		PostIDs:            result.PostIDs,
	})
}

type generateSingleRequest struct {
	PostID uuid.UUID `json:"postId"`
}

// handleGenerateSingle fills one draft post owned by the caller.
func (s *Server) handleGenerateSingle(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.AccountID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req generateSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "postId is required")
		return
	}

	text, err := s.generator.GenerateSinglePost(r.Context(), accountID, req.PostID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"content": text,
	})
}

type setGoalRequest struct {
	Goal    string `json:"goal"`
	Context string `json:"context,omitempty"`
}

// handleSetGoal records the caller's focus for the upcoming week,
// answering the weekly reminder.
func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.AccountID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req setGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.generator.SetWeeklyGoal(r.Context(), accountID, req.Goal, req.Context); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}
