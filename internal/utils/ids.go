package utils

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewID returns "<prefix>_<12 hex chars>" drawn from a random UUID.
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:12]
}

// IDGenerator produces prefixed identifiers. Services take one so tests can
// pin ids.
type IDGenerator func(prefix string) string

// SequentialIDs returns a deterministic generator: prefix_1, prefix_2, ...
// Counters are kept per prefix.
func SequentialIDs() IDGenerator {
	var mu sync.Mutex
	counters := map[string]int{}
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		counters[prefix]++
		return prefix + "_" + strconv.Itoa(counters[prefix])
	}
}
