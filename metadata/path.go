package metadata

import "strings"

// Delimiter separates path segments in a metadata key.
const Delimiter = "-"

// nestedFamilies lists the only key families that resolve to a nested
// mapping. Everything else is a flat key.
var nestedFamilies = map[string]struct{}{
	"viewport": {},
}

// ResolvePath converts a metadata key, with the reserved prefix already
// stripped, into an option path. "viewport-width" resolves to
// [viewport width]; every other key resolves to a single segment with dashes
// normalised to underscores. An empty key resolves to an empty path.
func ResolvePath(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	head, leaf, found := strings.Cut(key, Delimiter)
	if found && leaf != "" {
		if _, nested := nestedFamilies[head]; nested {
			return []string{head, normalizeSegment(leaf)}
		}
	}
	return []string{normalizeSegment(key)}
}

func normalizeSegment(segment string) string {
	return strings.ReplaceAll(segment, Delimiter, "_")
}
