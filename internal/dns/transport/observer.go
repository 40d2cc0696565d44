package transport

import (
	"fmt"

	"github.com/google/uuid"
)

// Listener receives a human-readable message for every per-server
// transport failure (connection refused, timeout, transaction-id
// mismatch). It mirrors the teacher's inline s.Logger.Warn call sites
// at each failed sendQuery, but as a pluggable hook rather than a
// concrete logger dependency, so a caller can route it to metrics, a
// log, both, or nowhere. A nil Listener is a no-op and costs nothing
// beyond the nil check on the hot path.
type Listener func(correlationID uuid.UUID, message string)

func (t *Config) notify(correlationID uuid.UUID, format string, args ...any) {
	if t.OnFailure == nil {
		return
	}
	t.OnFailure(correlationID, fmt.Sprintf(format, args...))
}
