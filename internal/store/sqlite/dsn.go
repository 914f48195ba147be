package sqlite

import (
	"fmt"
	"net/url"
	"strings"
)

// parseDSN accepts a bare path, ":memory:", or a sqlite:// URL and returns
// the form the driver expects.
func parseDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("empty sqlite DSN")
	}
	if !strings.HasPrefix(dsn, "sqlite://") {
		return dsn, nil
	}

	rest := strings.TrimPrefix(dsn, "sqlite://")
	if rest == ":memory:" {
		return rest, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	if unescaped == "" {
		return "", fmt.Errorf("sqlite DSN has no path")
	}
	if hasQuery {
		return unescaped + "?" + query, nil
	}
	return unescaped, nil
}
