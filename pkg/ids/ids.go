// Package ids generates the string identifiers used for rows, cells, widgets
// and saved layouts.
package ids

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Generator returns a new unique identifier for the supplied prefix.
type Generator func(prefix string) string

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// New produces identifiers shaped as "<prefix>-<unix millis>-<7 base36 chars>".
// An empty prefix defaults to "id".
func New(prefix string) string {
	prefix = normalizePrefix(prefix)
	var suffix strings.Builder
	suffix.Grow(7)
	for i := 0; i < 7; i++ {
		suffix.WriteByte(base36[rand.IntN(len(base36))])
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix.String())
}

// Sequence returns a deterministic generator producing "<prefix>-1",
// "<prefix>-2", ... with a single counter shared across prefixes. Tests use it
// to get stable snapshots.
func Sequence() Generator {
	var (
		mu   sync.Mutex
		next int
	)
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return normalizePrefix(prefix) + "-" + strconv.Itoa(next)
	}
}

// OrDefault returns gen, or New when gen is nil.
func OrDefault(gen Generator) Generator {
	if gen == nil {
		return New
	}
	return gen
}

func normalizePrefix(prefix string) string {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return "id"
	}
	return trimmed
}
