package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ribara/skillbridge/internal/ingestion"
	"github.com/ribara/skillbridge/internal/tutor"
	"github.com/ribara/skillbridge/internal/types"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type analyzeRequest struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description"`
	JobURL         string `json:"job_url" validate:"omitempty,url"`
}

type createSessionRequest struct {
	UserName       string `json:"user_name" validate:"required"`
	JobRole        string `json:"job_role"`
	JobProficiency string `json:"job_proficiency" validate:"omitempty,oneof=none beginner intermediate advanced expert"`
	SkillName      string `json:"skill_name" validate:"required"`
	TargetLevel    string `json:"target_level" validate:"omitempty,oneof=none beginner intermediate advanced expert"`
}

type sessionMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// handleAnalyze accepts either multipart form data (cv_file upload)
// or JSON (cv_text), plus a job description or a job posting URL, and
// returns the full analysis report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.errorResponse(w, fmt.Errorf("parse multipart form: %w", err))
			return
		}
		req.JobDescription = r.FormValue("job_description")
		req.JobURL = r.FormValue("job_url")

		file, header, err := r.FormFile("cv_file")
		if err == nil {
			defer file.Close()
			text, extractErr := ingestion.ExtractUploadText(s.cfg.UploadDir, header.Filename, file)
			if extractErr != nil {
				s.errorResponse(w, extractErr)
				return
			}
			req.CVText = text
		} else {
			req.CVText = r.FormValue("cv_text")
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, fmt.Errorf("decode request: %w", err))
			return
		}
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if strings.TrimSpace(req.CVText) == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "cv_file or cv_text is required"})
		return
	}
	if req.JobDescription == "" && req.JobURL == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "job_description or job_url is required"})
		return
	}

	jobText := req.JobDescription
	if jobText == "" {
		text, err := ingestion.IngestJobURL(r.Context(), req.JobURL, s.cfg.UseBrowser, s.log)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		jobText = text
	}

	report, err := s.analyzer.Analyze(r.Context(), req.CVText, jobText)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleCreateSession starts a tutoring session and returns the
// introduction reply.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, fmt.Errorf("decode request: %w", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, err)
		return
	}

	params := tutor.StartParams{
		UserName:   req.UserName,
		JobRole:    req.JobRole,
		FocusSkill: req.SkillName,
	}
	if req.JobProficiency != "" {
		level, err := types.ParseProficiency(req.JobProficiency)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		params.JobProficiency = level
	}
	if req.TargetLevel != "" {
		level, err := types.ParseProficiency(req.TargetLevel)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		params.TargetLevel = level
	} else {
		params.TargetLevel = types.LevelIntermediate
	}

	state, reply, err := s.tutor.StartSession(r.Context(), params)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"session_id": state.SessionID,
		"reply":      reply,
	})
}

// handleSessionMessage processes one student message.
func (s *Server) handleSessionMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req sessionMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, fmt.Errorf("decode request: %w", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, err)
		return
	}

	reply, state, err := s.tutor.HandleTurn(r.Context(), sessionID, req.Message)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reply":      reply,
		"turn_count": state.TurnCount,
	})
}

// handleSessionHistory returns the persisted session document.
func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	state, err := s.tutor.History(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}

// handleEndSession archives the session; the transcript stays loadable.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.tutor.EndSession(r.Context(), r.PathValue("id")); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ended"})
}
