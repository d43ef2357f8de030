package llm

import "strings"

// cleanReply solo quita el BOM y los espacios de los bordes; el texto del modelo se devuelve tal cual.
func cleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}
