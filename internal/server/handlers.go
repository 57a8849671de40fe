package server

import (
	"bytes"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/usmedlab/docsearch/internal/chat"
	"github.com/usmedlab/docsearch/internal/fileguard"
	"github.com/usmedlab/docsearch/internal/sqlexec"
	"github.com/usmedlab/docsearch/pkg/models"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// handleQuery synthesizes SQL from the natural-language request and runs it.
// Synthesis and execution failures are reported in-band with status 200 so
// the client can render them next to the attempted SQL.
func (s *Service) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query   string `json:"query"`
		ShowAll bool   `json:"show_all"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No query provided"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No query provided"})
		return
	}

	sq := s.synth.Synthesize(r.Context(), req.Query)
	if sq.IsError {
		s.metrics.oracleFailures.Add(r.Context(), 1,
			metric.WithAttributes(attribute.String("route", "/query")))
		writeJSON(w, http.StatusOK, map[string]any{
			"error":   sq.Text,
			"sql":     nil,
			"results": nil,
		})
		return
	}

	res := s.exec.Execute(r.Context(), sq.Text, sqlexec.Options{Unbounded: req.ShowAll})
	if !res.Success {
		writeJSON(w, http.StatusOK, map[string]any{
			"error":   res.Error,
			"sql":     res.SQL,
			"results": nil,
		})
		return
	}

	records, returned := sqlexec.Shape(res, req.ShowAll)
	writeJSON(w, http.StatusOK, map[string]any{
		"sql":            res.SQL,
		"results":        records,
		"total_count":    res.Count,
		"returned_count": returned,
		"columns":        res.Columns,
	})
}

// handleRunSQL replays caller-provided SQL. Only SELECT statements are
// admitted, and results are returned unbounded: the caller already saw a
// truncated preview and is asking for the full set.
func (s *Service) handleRunSQL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SQL string `json:"sql"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No SQL query provided"})
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No SQL query provided"})
		return
	}
	if err := sqlexec.ValidateReplay(req.SQL); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Only SELECT queries are allowed"})
		return
	}

	res := s.exec.Execute(r.Context(), req.SQL, sqlexec.Options{Replay: true, Unbounded: true})
	if !res.Success {
		writeJSON(w, http.StatusOK, map[string]any{
			"error":   res.Error,
			"sql":     req.SQL,
			"results": []any{},
		})
		return
	}

	records, returned := sqlexec.Shape(res, true)
	writeJSON(w, http.StatusOK, map[string]any{
		"sql":            res.SQL,
		"results":        records,
		"total_count":    res.Count,
		"returned_count": returned,
		"columns":        res.Columns,
	})
}

type chatRequest struct {
	Files          []models.AttachedDocument `json:"files"`
	Message        string                    `json:"message"`
	ConversationID string                    `json:"conversation_id"`
}

// handleSummaryChat runs one free-form Q&A round over the attached documents.
func (s *Service) handleSummaryChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing files or message"})
		return
	}
	if len(req.Files) == 0 || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing files or message"})
		return
	}

	conv, err := s.chats.LoadOrCreate(chat.ModeSummary, req.ConversationID, req.Files)
	if err != nil {
		s.chatError(w, req.ConversationID, err)
		return
	}

	reply, err := s.chats.SummaryRound(r.Context(), conv, req.Message)
	if err != nil {
		s.metrics.oracleFailures.Add(r.Context(), 1,
			metric.WithAttributes(attribute.String("route", "/summary-chat")))
		s.chatError(w, conv.ID, err)
		return
	}
	if err := s.chats.Persist(chat.ModeSummary, conv); err != nil {
		s.chatError(w, conv.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"conversation_id": conv.ID,
		"response":        reply,
		"messages":        conv.Messages,
	})
}

// handleAnalyseChat runs one structured analysis round. An empty message is
// allowed and substituted with a default request; an empty document list is
// not.
func (s *Service) handleAnalyseChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No files provided for analysis"})
		return
	}
	if len(req.Files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No files provided for analysis"})
		return
	}

	conv, err := s.chats.LoadOrCreate(chat.ModeAnalyse, req.ConversationID, req.Files)
	if err != nil {
		s.chatError(w, req.ConversationID, err)
		return
	}

	analysis, err := s.chats.AnalyseRound(r.Context(), conv, req.Message)
	if err != nil {
		s.metrics.oracleFailures.Add(r.Context(), 1,
			metric.WithAttributes(attribute.String("route", "/analyse-chat")))
		s.chatError(w, conv.ID, err)
		return
	}
	if err := s.chats.Persist(chat.ModeAnalyse, conv); err != nil {
		s.chatError(w, conv.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"conversation_id": conv.ID,
		"analysis":        analysis,
		"messages":        conv.Messages,
	})
}

func (s *Service) chatError(w http.ResponseWriter, conversationID string, err error) {
	log.Error().Err(err).Str("conversation", conversationID).Msg("Chat round failed")
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success":         false,
		"error":           err.Error(),
		"conversation_id": conversationID,
	})
}

// handleOpenFile serves a document from disk after the guard admits the path.
func (s *Service) handleOpenFile(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("path")

	resolved, outcome := s.guard.Resolve(requested)
	switch outcome {
	case fileguard.OutcomeBadRequest:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing file path"})
	case fileguard.OutcomeDenied:
		log.Warn().Str("path", requested).Msg("Denied file access outside base path")
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "Access denied for this path"})
	case fileguard.OutcomeNotFound:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "File not found"})
	case fileguard.OutcomeOK:
		http.ServeFile(w, r, resolved)
	}
}

// handleSaveChats replaces the stored transcript snapshot with the posted one.
func (s *Service) handleSaveChats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Chats json.RawMessage `json:"chats"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid payload; 'chats' must be a list."})
		return
	}

	trimmed := bytes.TrimSpace(req.Chats)
	var chats []json.RawMessage
	if len(trimmed) == 0 || trimmed[0] != '[' || json.Unmarshal(trimmed, &chats) != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid payload; 'chats' must be a list."})
		return
	}

	name, path, err := s.chats.SaveSnapshot(chats)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save chats snapshot")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"saved": true,
		"file":  name,
		"path":  path,
	})
}

// handleListChats returns the transcripts from the most recent snapshot.
func (s *Service) handleListChats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"chats": s.chats.LatestSnapshot()})
}

// handleHealth proves end-to-end database reachability with a live count.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.exec.CountRecords(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"database":      "connected",
		"total_records": count,
	})
}
