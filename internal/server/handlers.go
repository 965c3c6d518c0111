package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/eladbarak/snapcal/internal/database"
)

// maxImageBytes caps uploaded image size at 20MB, matching the Anthropic
// API's own request limit.
const maxImageBytes = 20 << 20

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	status := map[string]interface{}{
		"status": "healthy",
		"gcal":   "disconnected",
	}

	if s.gcalClient != nil && s.gcalClient.IsAuthenticated() {
		status["gcal"] = "connected"
	}

	respondJSON(w, http.StatusOK, status)
}

// Conversation flow

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read image")
		return
	}
	if len(imageData) == 0 {
		respondError(w, http.StatusBadRequest, "image file is empty")
		return
	}
	if len(imageData) > maxImageBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "image exceeds 20MB limit")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = ""
	}

	result, err := s.pipeline.StartFromImage(r.Context(), imageData, mimeType)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type messageRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ConversationID == "" || strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "conversation_id and message are required")
		return
	}

	result, err := s.pipeline.HandleReply(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrConversationNotFound):
			respondError(w, http.StatusNotFound, "conversation not found")
		case errors.Is(err, database.ErrConversationClosed):
			respondError(w, http.StatusConflict, "conversation already closed")
		default:
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Inspection API

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	conversations, err := s.db.ListConversations(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	conv, err := s.db.GetConversation(id)
	if err != nil {
		if errors.Is(err, database.ErrConversationNotFound) {
			respondError(w, http.StatusNotFound, "conversation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	decisions, err := s.db.ListDecisions(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conversation": conv,
		"decisions":    decisions,
	})
}

// Google Calendar API

func (s *Server) handleGCalStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"connected": false,
		"message":   "Not configured",
	}

	if s.gcalClient == nil {
		status["message"] = "Google Calendar client not initialized. Check credentials.json."
		respondJSON(w, http.StatusOK, status)
		return
	}

	if s.gcalClient.IsAuthenticated() {
		status["connected"] = true
		status["message"] = "Connected"
	} else {
		status["message"] = "Not authenticated"
		status["auth_url"] = s.gcalClient.GetAuthURL()
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleGCalExchangeCode(w http.ResponseWriter, r *http.Request) {
	if s.gcalClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar client not initialized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := s.gcalClient.ExchangeCode(r.Context(), req.Code); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
