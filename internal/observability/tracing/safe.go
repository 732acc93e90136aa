package tracing

import (
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Attributes that may carry personal data never reach a span.
var blockedKeys = map[attribute.Key]struct{}{
	"name":            {},
	"email":           {},
	"http.url":        {},
	"http.target":     {},
	"http.user_agent": {},
	"db.statement":    {},
	"enduser.id":      {},
}

// SafeAttributes removes blocked keys.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, blocked := blockedKeys[attr.Key]; blocked {
			continue
		}
		out = append(out, attr)
	}
	return out
}

const maxErrorLength = 256

// SafeError returns err with its message truncated to a single bounded line.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if len(msg) > maxErrorLength {
		msg = msg[:maxErrorLength]
	}
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}
