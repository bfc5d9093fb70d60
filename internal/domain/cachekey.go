package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CacheableMaxChars is the caching threshold: texts at or above this length
// are never cached. Long texts would produce unbounded, collision-prone keys
// and are cheap enough to re-synthesize.
const CacheableMaxChars = 100

// Cacheable reports whether audio for the given text may be cached.
func Cacheable(text string) bool {
	return utf8.RuneCountInString(text) < CacheableMaxChars
}

// CacheKeyFor derives the content-addressed cache key for a synthesis
// request. The text is normalized (every non-alphanumeric rune becomes "_")
// and combined with the fixed voice and output format, so the same sentence
// always maps to the same stored clip.
func CacheKeyFor(text, voice, format string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, text)
	return fmt.Sprintf("tts/%s/%s.%s", voice, cleaned, format)
}
