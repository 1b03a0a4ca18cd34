// Package ticketid issues the human-readable identifiers printed on support tickets.
package ticketid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Prefix is prepended to every identifier.
const Prefix = "TKT"

const randomSpace = 36 * 36 * 36 * 36

var pattern = regexp.MustCompile(`^TKT-[0-9A-Z]+-[0-9A-Z]{4}$`)

// Generator defines contract for ticket id generators.
type Generator interface {
	Next() (string, error)
}

// TimeRandom joins a base36 millisecond timestamp with four random base36 characters.
type TimeRandom struct {
	now    func() time.Time
	random io.Reader
}

// Option customizes a TimeRandom generator.
type Option func(*TimeRandom)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *TimeRandom) { g.now = now }
}

// WithRandom overrides the entropy source.
func WithRandom(r io.Reader) Option {
	return func(g *TimeRandom) { g.random = r }
}

// New builds the default generator.
func New(opts ...Option) *TimeRandom {
	g := &TimeRandom{now: time.Now, random: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a fresh identifier such as TKT-LXYZ123-AB12.
func (g *TimeRandom) Next() (string, error) {
	var buf [8]byte
	if _, err := io.ReadFull(g.random, buf[:]); err != nil {
		return "", fmt.Errorf("ticket id entropy: %w", err)
	}
	n := binary.BigEndian.Uint64(buf[:]) % randomSpace
	suffix := strconv.FormatUint(n, 36)
	suffix = strings.Repeat("0", 4-len(suffix)) + suffix

	stamp := strconv.FormatInt(g.now().UnixMilli(), 36)
	return strings.ToUpper(Prefix + "-" + stamp + "-" + suffix), nil
}

// Valid reports whether s has the identifier shape.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
