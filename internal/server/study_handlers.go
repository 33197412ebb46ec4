package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/internal/quizstore"
	"github.com/AbhiramValmeekam/adam-project/internal/study"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

const (
	msgStudyOff        = "Study tools are not configured"
	msgInvalidHistory  = "Invalid chat history provided"
	msgEmptyHistory    = "Chat history is empty. Please have a conversation first."
	msgFeedbackMissing = "Test results and chat history are required"
	msgTestMissing     = "A test with questions is required"
	msgSummaryFailed   = "Failed to generate summary"
	msgTestFailed      = "Failed to generate retention test"
	msgFeedbackFailed  = "Failed to generate personalized feedback"
	msgGradeFailed     = "Failed to save test attempt"
	msgAttemptsFailed  = "Failed to load test attempts"
)

type historyRequest struct {
	ChatHistory *[]types.ChatEntry `json:"chatHistory"`
}

type feedbackRequest struct {
	TestResults json.RawMessage    `json:"testResults"`
	ChatHistory *[]types.ChatEntry `json:"chatHistory"`
}

type gradeRequest struct {
	SessionID string               `json:"sessionId"`
	Test      *study.RetentionTest `json:"test"`
	Answers   []study.Answer       `json:"answers"`
}

type gradeResponse struct {
	*study.Result
	AttemptID string `json:"attemptId,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.tutor == nil {
		writeError(w, http.StatusNotImplemented, msgStudyOff)
		return
	}
	var req historyRequest
	if err := decode(r, &req); err != nil || req.ChatHistory == nil {
		writeError(w, http.StatusBadRequest, msgInvalidHistory)
		return
	}
	summary, err := s.tutor.Summarize(r.Context(), *req.ChatHistory)
	if err != nil {
		observe.Logger(r.Context()).Error("summary failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgSummaryFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleGenerateTest(w http.ResponseWriter, r *http.Request) {
	if s.tutor == nil {
		writeError(w, http.StatusNotImplemented, msgStudyOff)
		return
	}
	var req historyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidHistory)
		return
	}
	if req.ChatHistory == nil || len(*req.ChatHistory) == 0 {
		writeError(w, http.StatusBadRequest, msgEmptyHistory)
		return
	}
	test, err := s.tutor.GenerateTest(r.Context(), *req.ChatHistory)
	if err != nil {
		if errors.Is(err, study.ErrEmptyHistory) {
			writeError(w, http.StatusBadRequest, msgEmptyHistory)
			return
		}
		observe.Logger(r.Context()).Error("retention test failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgTestFailed)
		return
	}
	writeJSON(w, http.StatusOK, test)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if s.tutor == nil {
		writeError(w, http.StatusNotImplemented, msgStudyOff)
		return
	}
	var req feedbackRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if isNullJSON(req.TestResults) || req.ChatHistory == nil {
		writeError(w, http.StatusBadRequest, msgFeedbackMissing)
		return
	}
	feedback, err := s.tutor.Feedback(r.Context(), req.TestResults, *req.ChatHistory)
	if err != nil {
		observe.Logger(r.Context()).Error("feedback failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgFeedbackFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Test == nil || len(req.Test.Questions) == 0 {
		writeError(w, http.StatusBadRequest, msgTestMissing)
		return
	}

	res := study.Grade(req.Test, req.Answers)
	out := gradeResponse{Result: res}
	if s.attempts != nil {
		attempt := quizstore.NewAttempt(strings.TrimSpace(req.SessionID), res)
		if err := s.attempts.Save(r.Context(), attempt); err != nil {
			observe.Logger(r.Context()).Error("saving attempt failed", "err", err)
			writeError(w, http.StatusInternalServerError, msgGradeFailed)
			return
		}
		out.AttemptID = attempt.ID.String()
	}
	observe.Logger(r.Context()).Info("retention test graded",
		"score", res.Score, "total", res.Total, "attempt_id", out.AttemptID)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	if s.attempts == nil {
		writeJSON(w, http.StatusOK, []quizstore.Attempt{})
		return
	}
	attempts, err := s.attempts.List(r.Context(), r.URL.Query().Get("sessionId"))
	if err != nil {
		observe.Logger(r.Context()).Error("listing attempts failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgAttemptsFailed)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func isNullJSON(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
