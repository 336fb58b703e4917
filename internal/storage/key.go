package storage

import (
	"fmt"
	"regexp"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectKey derives the storage key for an uploaded file:
// documents/{knowledgeBaseId}_{unixMillis}_{sanitizedFilename}.
// The filename is sanitized so the key is always a safe storage path; the
// original filename is preserved in the metadata record, not here.
func ObjectKey(knowledgeBaseID, filename string, now time.Time) string {
	sanitized := unsafeKeyChars.ReplaceAllString(filename, "_")
	return fmt.Sprintf("documents/%s_%d_%s", knowledgeBaseID, now.UnixMilli(), sanitized)
}
