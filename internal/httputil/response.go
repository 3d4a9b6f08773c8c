package httputil

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// maxErrorBody caps how much of a failed response is kept for error messages.
const maxErrorBody = 64 * 1024

// WithQuery appends key=value to rawURL unless the query already sets key.
func WithQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	q := u.Query()
	if _, ok := q[key]; ok {
		return rawURL, nil
	}
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// EnsureScheme prefixes addr with http:// when it names no scheme and trims
// any trailing slash.
func EnsureScheme(addr string) string {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if addr == "" {
		return addr
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return addr
}

// ReadErrorBody drains at most 64 KiB of r for inclusion in an error message.
func ReadErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil && len(data) == 0 {
		return fmt.Sprintf("<unreadable body: %v>", err)
	}
	return string(data)
}
