// Package synthesizer translates free-text requests into SQL query text by
// delegating to the oracle with a fixed domain-knowledge instruction set.
// The produced text is not trusted: callers hand it to the safe executor.
package synthesizer

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/usmedlab/docsearch/internal/oracle"
)

// Sampling settings: low randomness so near-identical requests tend to
// produce structurally similar queries, bounded reply length.
const (
	temperature = 0.1
	maxTokens   = 800
)

// ErrorPrefix marks a failed synthesis. Callers must check IsError before
// using Text as a query.
const ErrorPrefix = "Error: "

// SynthesizedQuery is the outcome of one synthesis. Immutable; discarded
// after execution.
type SynthesizedQuery struct {
	Text    string
	IsError bool
}

// Synthesizer builds SQL from natural-language requests.
type Synthesizer struct {
	oracle oracle.Chatter
}

// New creates a Synthesizer backed by the given oracle.
func New(o oracle.Chatter) *Synthesizer {
	return &Synthesizer{oracle: o}
}

// Synthesize produces query text for the user's request. It never returns an
// error: oracle failures come back as {Text: "Error: <cause>", IsError: true}.
func (s *Synthesizer) Synthesize(ctx context.Context, userText string) SynthesizedQuery {
	reply, err := s.oracle.Chat(ctx, []oracle.Message{
		{Role: oracle.RoleSystem, Content: sqlSystemPrompt},
		{Role: oracle.RoleUser, Content: userText},
	}, oracle.Options{Temperature: temperature, MaxTokens: maxTokens})
	if err != nil {
		return SynthesizedQuery{Text: ErrorPrefix + err.Error(), IsError: true}
	}

	sql := stripFences(reply)
	log.Debug().Int("sqlLen", len(sql)).Msg("Synthesized query")
	return SynthesizedQuery{Text: sql}
}

// stripFences removes markdown code-fence markup the oracle may wrap its
// answer in despite the output contract.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
