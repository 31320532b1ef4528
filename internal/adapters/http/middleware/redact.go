package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders converts headers into a slog group value with one attribute
// per header, sorted by name. Headers listed in logging.SensitiveHeaders are
// replaced with "[REDACTED]"; multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) slog.Value {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		value := strings.Join(headers[name], ",")
		if logging.SensitiveHeaders[strings.ToLower(name)] {
			value = redacted
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return slog.GroupValue(attrs...)
}
