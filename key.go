package qbank

import (
	"strconv"
	"strings"
)

// maxKeySegment is the length above which a URL path segment is assumed
// to be an opaque session token rather than a question identifier.
const maxKeySegment = 50

// SourceAndKey derives the (source name, question key) identity of a
// capture from its declared site name and URL. The key heuristic takes
// the last URL path segment, falling back to the second-to-last when the
// last is empty or longer than 50 characters, and finally to the
// capture's in-process submission index. The segment is used as-is,
// encoded characters included: this is a best-effort stable identifier,
// not a guaranteed-unique one. Changing the heuristic would orphan keys
// already stored, so it is preserved exactly.
func SourceAndKey(siteName, rawURL string, fallbackIndex int) (sourceName, key string) {
	sourceName = siteName
	if sourceName == "" {
		sourceName = "unknown"
	}
	sourceName = strings.ReplaceAll(sourceName, " ", "_")

	return sourceName, questionKey(rawURL, fallbackIndex)
}

func questionKey(rawURL string, fallbackIndex int) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if trimmed == "" {
		return strconv.Itoa(fallbackIndex)
	}

	parts := strings.Split(trimmed, "/")
	key := parts[len(parts)-1]
	if key == "" || len(key) > maxKeySegment {
		if len(parts) > 1 {
			key = parts[len(parts)-2]
		} else {
			key = strconv.Itoa(fallbackIndex)
		}
	}
	return key
}
