package utils

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptySlug is returned when a title sanitizes down to nothing, e.g. a
// title made entirely of punctuation. Callers surface it as a validation error.
var ErrEmptySlug = errors.New("title produces an empty slug")

// Transliteration table for the characters Turkish titles are expected to
// contain. The table is total for this set: anything outside it that is not
// already [a-z0-9\s-] gets stripped.
var slugTransliterations = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
	'â': 'a', 'Â': 'a',
	'î': 'i', 'Î': 'i',
	'û': 'u', 'Û': 'u',
}

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphenRuns = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe identifier from a free-text title. The result
// contains only [a-z0-9-], never starts or ends with a hyphen and never
// contains a run of hyphens. It may be empty; callers must treat that as a
// validation failure.
func Slugify(title string) string {
	s := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if t, ok := slugTransliterations[r]; ok {
			b.WriteRune(t)
			continue
		}
		b.WriteRune(r)
	}

	s = slugDisallowed.ReplaceAllString(b.String(), "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug derives a slug from title and suffixes it with -1, -2, ... until
// exists reports it free. Termination is guaranteed because the existing set
// is finite and the suffix strictly increases. The check-then-act loop is not
// atomic against concurrent creates; the store's unique index is the backstop.
func UniqueSlug(ctx context.Context, title string, exists func(ctx context.Context, slug string) (bool, error)) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", ErrEmptySlug
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug lookup: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
