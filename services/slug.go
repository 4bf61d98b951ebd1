package services

import (
	"crypto/rand"
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns     = regexp.MustCompile(`-{2,}`)
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Slugify normalizes a project name into its URL-safe form: lowercase,
// whitespace runs collapsed to single hyphens, non-word characters stripped,
// repeated hyphens collapsed and leading/trailing hyphens trimmed.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NewSlug derives a unique slug from a name by appending a short random
// base-36 suffix. Uniqueness is guaranteed by the store's constraint rather
// than a pre-check round trip; a collision surfaces at insert time.
func NewSlug(name string) (string, error) {
	suffix, err := randomBase36(6)
	if err != nil {
		return "", err
	}
	base := Slugify(name)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

func randomBase36(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(out), nil
}
