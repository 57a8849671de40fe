// Package fileguard restricts on-disk file serving to a configured root.
package fileguard

import (
	"os"
	"path/filepath"
	"strings"
)

// Outcome classifies a resolution attempt. Containment is decided before
// any existence check so paths outside the root never leak whether they
// exist.
type Outcome int

const (
	// OutcomeBadRequest: malformed or missing input.
	OutcomeBadRequest Outcome = iota
	// OutcomeDenied: the path resolves outside the allowed root.
	OutcomeDenied
	// OutcomeNotFound: contained but not present on disk.
	OutcomeNotFound
	// OutcomeOK: contained and present; the returned path may be served.
	OutcomeOK
)

// Guard checks requested paths against an allowed root directory.
type Guard struct {
	root string
}

// New creates a Guard for the given root. The root is made absolute once at
// construction.
func New(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Guard{root: abs}, nil
}

// Root returns the absolute allowed root.
func (g *Guard) Root() string {
	return g.root
}

// Resolve computes the absolute form of the requested path and admits it
// only when it lies within or equals the root. Containment is a lexical
// relative-path check, not a string-prefix match: /data2/x is outside root
// /data even though the strings share a prefix.
func (g *Guard) Resolve(requested string) (string, Outcome) {
	if strings.TrimSpace(requested) == "" {
		return "", OutcomeBadRequest
	}

	abs, err := filepath.Abs(requested)
	if err != nil {
		return "", OutcomeBadRequest
	}

	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", OutcomeDenied
	}

	if _, err := os.Stat(abs); err != nil {
		return "", OutcomeNotFound
	}
	return abs, OutcomeOK
}
