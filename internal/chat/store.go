// Package chat maintains per-conversation state for the two chat modes,
// backed by one JSON file per conversation in the store directory.
package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/usmedlab/docsearch/internal/oracle"
	"github.com/usmedlab/docsearch/pkg/models"
)

// Mode namespaces conversation storage. The two modes share the store
// directory but never collide: ids and filenames are mode-prefixed.
type Mode string

const (
	ModeSummary Mode = "summary"
	ModeAnalyse Mode = "analyse"
)

// idPrefix returns the prefix of generated conversation ids.
func (m Mode) idPrefix() string {
	if m == ModeAnalyse {
		return "analyse"
	}
	return "conv"
}

// Oracle sampling per mode.
const (
	summaryTemperature = 0.3
	summaryMaxTokens   = 2000
	analyseTemperature = 0.3
	analyseMaxTokens   = 3000
)

// Store loads, mutates, and persists conversations. Concurrent rounds on
// the same id are last-write-wins by design; the dominant usage pattern is
// one active user per conversation.
type Store struct {
	dir    string
	oracle oracle.Chatter
	now    func() time.Time
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, o oracle.Chatter) *Store {
	return &Store{dir: dir, oracle: o, now: time.Now}
}

// LoadOrCreate returns the stored conversation for id, or a fresh one when
// id is empty or unknown. The caller's current document selection replaces
// whatever was stored, while messages accumulate.
func (s *Store) LoadOrCreate(mode Mode, id string, files []models.AttachedDocument) (*models.Conversation, error) {
	if id == "" {
		id = s.newID(mode)
	}

	conv, err := s.load(mode, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = &models.Conversation{
			ID:        id,
			CreatedAt: s.timestamp(),
			Messages:  []models.Turn{},
		}
	}
	conv.Files = files
	return conv, nil
}

// SummaryRound runs one free-form Q&A round. The oracle reply is stored and
// returned verbatim. The turn pair is appended only after the oracle call
// succeeds, so a failed round leaves the conversation untouched.
func (s *Store) SummaryRound(ctx context.Context, conv *models.Conversation, userMessage string) (string, error) {
	docContext := "Here are the documents to analyze:\n\n" + documentContext(conv.Files, false)
	msgs := buildMessages(summarySystemPrompt, docContext, conv.Messages, userMessage)

	reply, err := s.oracle.Chat(ctx, msgs, oracle.Options{
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", err
	}

	s.appendRound(conv, userMessage, reply)
	return reply, nil
}

// AnalyseRound runs one structured analysis round. A malformed oracle reply
// degrades to the fallback structure; only oracle transport failures fail
// the round.
func (s *Store) AnalyseRound(ctx context.Context, conv *models.Conversation, userMessage string) (*models.Analysis, error) {
	request := strings.TrimSpace(userMessage)
	if request == "" {
		request = defaultAnalyseRequest
	}

	docContext := "Documents to analyze:\n\n" + documentContext(conv.Files, true)
	msgs := buildMessages(analyseSystemPrompt, docContext, conv.Messages, request)

	reply, err := s.oracle.Chat(ctx, msgs, oracle.Options{
		Temperature: analyseTemperature,
		MaxTokens:   analyseMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	analysis := ParseAnalysis(reply)

	// The assistant turn stores the canonical JSON so replayed history
	// feeds the oracle the same structure the client saw.
	encoded, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	s.appendRound(conv, request, string(encoded))
	return analysis, nil
}

// Persist serializes the full conversation, overwriting any prior revision
// of the same id (last-successful-round-wins).
func (s *Store) Persist(mode Mode, conv *models.Conversation) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return err
	}
	path := s.conversationPath(mode, conv.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	log.Debug().Str("mode", string(mode)).Str("id", conv.ID).Int("messages", len(conv.Messages)).Msg("Conversation persisted")
	return nil
}

func (s *Store) appendRound(conv *models.Conversation, userContent, assistantContent string) {
	ts := s.timestamp()
	conv.Messages = append(conv.Messages,
		models.Turn{Role: models.RoleUser, Content: userContent, Timestamp: ts},
		models.Turn{Role: models.RoleAssistant, Content: assistantContent, Timestamp: ts},
	)
	conv.UpdatedAt = ts
}

// load returns nil without error when the conversation does not exist yet.
func (s *Store) load(mode Mode, id string) (*models.Conversation, error) {
	data, err := os.ReadFile(s.conversationPath(mode, id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var conv models.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("conversation %s: %w", id, err)
	}
	return &conv, nil
}

func (s *Store) conversationPath(mode Mode, id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", mode, id))
}

// newID combines a UTC timestamp with a short random suffix, namespaced by
// mode so the two namespaces cannot collide even on equal suffixes.
func (s *Store) newID(mode Mode) string {
	ts := s.now().UTC().Format("20060102150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s", mode.idPrefix(), ts, suffix)
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
