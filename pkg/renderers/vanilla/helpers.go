package vanilla

import "strings"

func controlID(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	return "rf-" + trimmed
}

func errorID(key string) string {
	id := controlID(key)
	if id == "" {
		return ""
	}
	return id + "-error"
}
