package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeRequestID returns the caller's idempotency key in canonical form,
// or a fresh one when none was supplied.
func NormalizeRequestID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.NewString(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", Invalid("requestId", "request id must be a UUID")
	}
	return id.String(), nil
}
