package httpmetrics

import "strings"

// NormalizePath collapses per-item paths so todo ids do not explode metric
// label cardinality.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	if strings.HasPrefix(path, "/api/todos/") && len(path) > len("/api/todos/") {
		return "/api/todos/:id"
	}

	return path
}
