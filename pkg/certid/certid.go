// Package certid formats and parses certificate identifiers of the form
// UC-YYYY-MM-DD-HH-MM-SS-NNN. The timestamp is the issuance instant in UTC and
// NNN is a three digit suffix that disambiguates issuances in the same second.
package certid

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// Prefix is the literal prefix carried by every certificate ID.
	Prefix = "UC"

	// MaxSuffix is the exclusive upper bound for the numeric suffix.
	MaxSuffix = 1000
)

// ErrMalformed reports an identifier that does not match the wire format.
var ErrMalformed = errors.New("certid: malformed certificate id")

var pattern = regexp.MustCompile(`^UC-(\d{4})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{3})$`)

// Format renders the identifier for t (converted to UTC) and suffix.
// Suffixes outside [0, MaxSuffix) are reduced modulo MaxSuffix.
func Format(t time.Time, suffix int) string {
	t = t.UTC()
	suffix %= MaxSuffix
	if suffix < 0 {
		suffix += MaxSuffix
	}
	return fmt.Sprintf("%s-%04d-%02d-%02d-%02d-%02d-%02d-%03d",
		Prefix,
		t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		suffix,
	)
}

// Parse validates s and returns the embedded UTC timestamp and suffix.
// It rejects strings that match the pattern but name an impossible instant
// (e.g. month 13).
func Parse(s string) (time.Time, int, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, 0, ErrMalformed
	}

	parts := make([]int, 7)
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, 0, ErrMalformed
		}
		parts[i] = n
	}

	t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC)

	// time.Date normalises overflow, so a round trip catches 2025-02-30 and friends.
	if Format(t, parts[6]) != s {
		return time.Time{}, 0, ErrMalformed
	}

	return t, parts[6], nil
}

// Valid reports whether s is a well-formed certificate ID.
func Valid(s string) bool {
	_, _, err := Parse(s)
	return err == nil
}

// Claims reports whether s carries the certificate ID prefix, whether or not
// the rest of it parses.
func Claims(s string) bool {
	return strings.HasPrefix(s, Prefix+"-")
}

// Generator produces certificate IDs from a clock and a suffix source.
// The zero value is not usable; use NewGenerator.
type Generator struct {
	Clock  clockwork.Clock
	Suffix func() int
}

// NewGenerator returns a Generator drawing uniformly random suffixes.
func NewGenerator(clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{
		Clock:  clock,
		Suffix: func() int { return rand.IntN(MaxSuffix) },
	}
}

// Next returns a new identifier stamped with the generator's current time.
func (g *Generator) Next() string {
	return g.NextAt(g.Clock.Now())
}

// NextAt returns a new identifier stamped with t, so callers can keep the ID
// and the issue time in agreement.
func (g *Generator) NextAt(t time.Time) string {
	return Format(t, g.Suffix())
}
