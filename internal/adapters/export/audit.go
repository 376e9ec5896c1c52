package export

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// JSONAuditLogger writes audit entries as JSON lines and retains them for
// inspection.
type JSONAuditLogger struct {
	mu      sync.Mutex
	entries []AuditEntry
	enc     *json.Encoder
}

// NewJSONAuditLogger constructs a logger writing to w. A nil writer records
// entries in memory only.
func NewJSONAuditLogger(w io.Writer) *JSONAuditLogger {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &JSONAuditLogger{enc: enc}
}

// Record implements AuditLogger.
func (l *JSONAuditLogger) Record(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if l.enc != nil {
		_ = l.enc.Encode(entry)
	}
	l.mu.Unlock()
}

// Entries returns a copy of all recorded entries.
func (l *JSONAuditLogger) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
