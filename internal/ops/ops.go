// Package ops implements the history operations shared by the CLI and
// the MCP server. Each operation takes typed input and returns typed
// output so both surfaces serialize the same shapes.
package ops

import "strings"

// normalizeTags trims whitespace, drops empties, and removes
// duplicates while preserving first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}
