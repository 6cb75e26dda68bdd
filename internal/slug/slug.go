// Package slug derives URL identifiers from display names and assigns them
// against a store whose unique index is the final authority.
package slug

import (
	"context"
	"errors"
	"strconv"
	"strings"

	gosimple "github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	// Placeholder is used when a name has no transliterable characters.
	Placeholder = "default"

	// baseMaxLength leaves room for a "-N" suffix inside a varchar(255) column.
	baseMaxLength = 240

	maxConflicts = 10
)

var ErrExhausted = errors.New("slug: too many conflicting inserts")

// Make lowercases, transliterates to ASCII and hyphenates name.
func Make(name string) string {
	s := gosimple.Make(name)
	if len(s) > baseMaxLength {
		s = strings.TrimRight(s[:baseMaxLength], "-")
	}
	if s == "" {
		return Placeholder
	}
	return s
}

// Candidate returns the n-th slug in the sequence base, base-1, base-2, …
func Candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// TakenFunc lists slugs already stored under base (base itself and base-N).
type TakenFunc func(ctx context.Context, base string) ([]string, error)

// InsertFunc persists the entity under candidate. It must return an error
// wrapping gorm.ErrDuplicatedKey when the unique index rejects the row.
type InsertFunc func(ctx context.Context, candidate string) error

// Assign picks the first candidate not reported by taken and inserts it,
// moving on to the next suffix whenever the insert loses a race on the
// unique index.
func Assign(ctx context.Context, name string, taken TakenFunc, insert InsertFunc) (string, error) {
	base := Make(name)

	used, err := taken(ctx, base)
	if err != nil {
		return "", err
	}
	seen := make(map[string]bool, len(used))
	for _, s := range used {
		seen[s] = true
	}

	conflicts := 0
	for n := 0; ; n++ {
		cand := Candidate(base, n)
		if seen[cand] {
			continue
		}
		err := insert(ctx, cand)
		if err == nil {
			return cand, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", err
		}
		conflicts++
		log.Debug().Str("slug", cand).Int("conflicts", conflicts).Msg("slug taken concurrently, retrying")
		if conflicts >= maxConflicts {
			return "", ErrExhausted
		}
		seen[cand] = true
	}
}

// Suffixed reports whether s is base or base-N, for filtering LIKE results.
func Suffixed(base, s string) bool {
	if s == base {
		return true
	}
	rest, ok := strings.CutPrefix(s, base+"-")
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}
