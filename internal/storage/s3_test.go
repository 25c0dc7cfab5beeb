package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3ObjectKey(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	s := &S3{
		folder: "/uploads",
		dated:  true,
		now:    func() time.Time { return now },
	}

	assert.Equal(t, "uploads/2026/08/my-photo.png", s.objectKey("my photo.png", ""))
	assert.Equal(t, "gallery/my-photo.png", s.objectKey("my photo.png", "gallery"))

	s.dated = false
	assert.Equal(t, "uploads/my-photo.png", s.objectKey("my photo.png", ""))
}

func TestS3LookupKeyFindsSavedObjects(t *testing.T) {
	s := &S3{now: time.Now}

	// A lookup under the same name and targetDir resolves to the key Save
	// stored under, sanitization included.
	assert.Equal(t, s.objectKey("my photo.png", "gallery"), s.lookupKey("my photo.png", "gallery"))
	assert.Equal(t, "gallery/my-photo.png", s.lookupKey("my photo.png", "gallery"))

	// Path-style names keep their directory part so delete-by-key works.
	assert.Equal(t, "uploads/photo.png", s.lookupKey("uploads/photo.png", ""))

	// Backslash separators normalize on every platform.
	assert.Equal(t, "uploads/photo.png", s.lookupKey(`uploads\photo.png`, ""))
	assert.Equal(t, "gallery/photo.png", s.lookupKey("photo.png", `\gallery`))
}

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Version   string
		Statement []struct {
			Effect   string
			Action   string
			Resource string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("images")), &policy))

	require.Len(t, policy.Statement, 1)
	assert.Equal(t, "Allow", policy.Statement[0].Effect)
	assert.Equal(t, "s3:GetObject", policy.Statement[0].Action)
	assert.Equal(t, "arn:aws:s3:::images/*", policy.Statement[0].Resource)
}
