// Package pagination encodes the opaque cursors handed out by paginated list endpoints.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeToken builds a URL-safe cursor pointing just past a transaction,
// identified by its operation date and creation time.
func EncodeToken(operationDate time.Time, createdAt time.Time) string {
	raw := operationDate.UTC().Format(timeFormat) + "|" + createdAt.UTC().Format(timeFormat)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken.
func DecodeToken(token string) (operationDate time.Time, createdAt time.Time, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed page token: %w", err)
	}
	date, created, ok := strings.Cut(string(raw), "|")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed page token: missing separator")
	}
	if operationDate, err = time.Parse(timeFormat, date); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed page token: operation date: %w", err)
	}
	if createdAt, err = time.Parse(timeFormat, created); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed page token: created at: %w", err)
	}
	return operationDate, createdAt, nil
}
