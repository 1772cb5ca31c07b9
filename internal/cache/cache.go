// Package cache holds short-lived rendered listing payloads. Entries
// are opaque bytes: a write never partially invalidates a view, it
// either waits out the TTL or flushes everything.
package cache

import (
	"context"
	"strings"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration)
	InvalidateAll(ctx context.Context)
}

// Key builds a cache key from the view identifier and its normalized
// parameters, e.g. Key("index", "page", "1") -> "index|page=1".
// Viewer identity is passed as just another parameter by views that
// are viewer sensitive.
func Key(view string, params ...string) string {
	var b strings.Builder
	b.WriteString(view)

	for i := 0; i+1 < len(params); i += 2 {
		b.WriteByte('|')
		b.WriteString(params[i])
		b.WriteByte('=')
		b.WriteString(params[i+1])
	}

	return b.String()
}
