package storage

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	cases := []struct {
		name     string
		kbID     string
		filename string
		want     string
	}{
		{
			name:     "plain filename",
			kbID:     "kb-1",
			filename: "notes.txt",
			want:     "documents/kb-1_1700000000000_notes.txt",
		},
		{
			name:     "spaces and punctuation",
			kbID:     "kb-1",
			filename: "My Report (final).pdf",
			want:     "documents/kb-1_1700000000000_My_Report__final_.pdf",
		},
		{
			name:     "unicode",
			kbID:     "kb-2",
			filename: "résumé.docx",
			want:     "documents/kb-2_1700000000000_r_sum_.docx",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ObjectKey(tc.kbID, tc.filename, now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObjectKeySafeCharacters(t *testing.T) {
	key := ObjectKey("kb-1", `we!rd @ f|le"name?.html`, time.Now())

	safe := regexp.MustCompile(`^documents/[A-Za-z0-9._/-]+$`)
	assert.True(t, safe.MatchString(key), fmt.Sprintf("key %q contains unsafe characters", key))
}
