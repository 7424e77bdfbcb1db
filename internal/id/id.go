// Package id generates wire message identifiers for the bridge.
//
// Identifiers are prefixed ULIDs (msg_01J...): a millisecond timestamp plus
// monotonic entropy, so ids issued within the same timer tick still differ
// and sort in issue order. Generation is safe for concurrent use.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MessagePrefix marks bridge request ids in logs and traces.
const MessagePrefix = "msg"

// Generator produces unique, monotonically ordered message ids.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

// NewGenerator creates a generator with monotonic, cryptographically seeded
// entropy.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// MessageID returns a fresh prefixed message id.
func (g *Generator) MessageID() string {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
	return fmt.Sprintf("%s_%s", MessagePrefix, u.String())
}

// IsValid checks whether s is a well-formed prefixed message id.
func IsValid(s string) bool {
	const prefixLen = len(MessagePrefix) + 1
	if len(s) != prefixLen+ulid.EncodedSize {
		return false
	}
	if s[:prefixLen] != MessagePrefix+"_" {
		return false
	}
	_, err := ulid.Parse(s[prefixLen:])
	return err == nil
}

// Timestamp extracts the issue time embedded in a message id.
func Timestamp(s string) (time.Time, error) {
	const prefixLen = len(MessagePrefix) + 1
	if !IsValid(s) {
		return time.Time{}, fmt.Errorf("invalid message id: %q", s)
	}
	u, err := ulid.Parse(s[prefixLen:])
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
