package oracle

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// TokenCount returns the cl100k_base token count of text, or 0 when the
// tokenizer is unavailable. Used to account for context-window growth;
// context assembly is never blocked on it.
func TokenCount(text string) int {
	codecOnce.Do(func() {
		codec, _ = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if codec == nil {
		return 0
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return 0
	}
	return len(ids)
}
