package chat

import (
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/usmedlab/docsearch/pkg/models"
)

var (
	fenceOpenRe  = regexp.MustCompile("^```\\w*\n?")
	fenceCloseRe = regexp.MustCompile("\n?```$")
)

// ParseAnalysis strictly parses an oracle reply into the analysis structure,
// stripping surrounding code-fence markup first. Any parse failure degrades
// to a minimal structure carrying the raw reply as the narrative; the
// request must still succeed.
func ParseAnalysis(raw string) *models.Analysis {
	clean := strings.TrimSpace(raw)
	if strings.HasPrefix(clean, "```") {
		clean = fenceOpenRe.ReplaceAllString(clean, "")
		clean = fenceCloseRe.ReplaceAllString(clean, "")
	}

	var a models.Analysis
	if err := json.Unmarshal([]byte(clean), &a); err != nil {
		return models.FallbackAnalysis(raw)
	}
	a.Normalize()
	return &a
}
