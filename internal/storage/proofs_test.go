package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestObjectPath(t *testing.T) {
	creatorID := uuid.New()
	campaignID := uuid.New()
	now := time.Unix(1700000000, 123456789)

	tests := []struct {
		fileName string
		wantExt  string
	}{
		{"screenshot.png", "png"},
		{"video.MP4", "MP4"},
		{"archive.tar.gz", "gz"},
		{"noextension", "bin"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			p := ObjectPath(creatorID, campaignID, tt.fileName, now)
			prefix := creatorID.String() + "/" + campaignID.String() + "/"
			if !strings.HasPrefix(p, prefix) {
				t.Errorf("path %q missing namespace prefix %q", p, prefix)
			}
			if !strings.HasSuffix(p, "."+tt.wantExt) {
				t.Errorf("path %q missing extension %q", p, tt.wantExt)
			}
		})
	}
}

func TestObjectPathUniquePerInstant(t *testing.T) {
	creatorID := uuid.New()
	campaignID := uuid.New()
	a := ObjectPath(creatorID, campaignID, "a.png", time.Unix(0, 1))
	b := ObjectPath(creatorID, campaignID, "a.png", time.Unix(0, 2))
	if a == b {
		t.Errorf("paths for different instants should differ: %q", a)
	}
}
