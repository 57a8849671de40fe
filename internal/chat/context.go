package chat

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/usmedlab/docsearch/internal/oracle"
	"github.com/usmedlab/docsearch/pkg/models"
)

// documentContext builds one labeled block per attached document, in input
// order, blank-line separated. The analyse mode annotates each block with
// the document's category.
func documentContext(files []models.AttachedDocument, withCategory bool) string {
	parts := make([]string, 0, len(files))
	for i, f := range files {
		filename := f.Filename
		if filename == "" {
			filename = fmt.Sprintf("Document %d", i+1)
		}
		description := f.Description
		if description == "" {
			description = "No content available"
		}

		header := fmt.Sprintf("=== Document %d: %s ===", i+1, filename)
		if withCategory {
			category := f.Category
			if category == "" {
				category = "Unknown"
			}
			header = fmt.Sprintf("=== Document %d: %s (Category: %s) ===", i+1, filename, category)
		}
		parts = append(parts, header+"\n"+description)
	}
	return strings.Join(parts, "\n\n")
}

// buildMessages assembles the oracle context: system prompt, one
// prior-context message carrying every document, the full turn history in
// original order, then the new user message. Nothing is pruned or windowed,
// so context usage grows linearly with document count and history length;
// the token count is logged to keep that growth observable.
func buildMessages(systemPrompt, docContext string, history []models.Turn, userMessage string) []oracle.Message {
	msgs := make([]oracle.Message, 0, len(history)+3)
	msgs = append(msgs,
		oracle.Message{Role: oracle.RoleSystem, Content: systemPrompt},
		oracle.Message{Role: oracle.RoleUser, Content: docContext},
	)
	for _, t := range history {
		msgs = append(msgs, oracle.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, oracle.Message{Role: oracle.RoleUser, Content: userMessage})

	log.Debug().
		Int("historyTurns", len(history)).
		Int("contextTokens", oracle.TokenCount(docContext)).
		Msg("Oracle context assembled")

	return msgs
}
