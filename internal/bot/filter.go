package bot

import (
	"strings"
	"sync"

	"github.com/doom2286/Foxcom/pkg/utils"
)

// ContentFilter decides whether broadcast text may be relayed.
type ContentFilter interface {
	// Check reports true when the text must be blocked.
	Check(text string) bool
}

// MentionFilter blocks any text that could ping users, roles or channels.
// A bare '@' is enough to block, so escaped or zero-width tricks cannot
// rebuild a mention on the receiving side.
type MentionFilter struct{}

// Check implements ContentFilter.
func (MentionFilter) Check(text string) bool {
	t := strings.ToLower(text)

	switch {
	case strings.Contains(t, "@everyone"), strings.Contains(t, "@here"):
		return true
	case strings.Contains(t, "<@"), strings.Contains(t, "<#"):
		return true
	}

	return strings.Contains(t, "@")
}

// FilterFunc adapts a plain function to ContentFilter.
type FilterFunc func(text string) bool

// Check implements ContentFilter.
func (f FilterFunc) Check(text string) bool {
	return f(text)
}

// WordFilter blocks text containing any configured word. Matching is done on
// normalized words, so accents, fullwidth letters and case do not matter.
type WordFilter struct {
	mu         sync.Mutex
	normalizer *utils.TextNormalizer
	words      []string
}

// NewWordFilter returns a filter for the given words, or nil when the list
// has no usable entries.
func NewWordFilter(words []string) *WordFilter {
	f := &WordFilter{normalizer: utils.NewTextNormalizer()}

	for _, w := range words {
		if w = f.normalizer.Normalize(w); w != "" {
			f.words = append(f.words, w)
		}
	}

	if len(f.words) == 0 {
		return nil
	}

	return f
}

// Check implements ContentFilter.
func (f *WordFilter) Check(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, w := range f.words {
		if f.normalizer.ContainsWord(text, w) {
			return true
		}
	}

	return false
}
