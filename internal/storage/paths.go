package storage

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// unsafeChars matches everything that is not a word character, "@", ".",
// or "-". Runs of unsafe characters collapse to a single dash.
var unsafeChars = regexp.MustCompile(`[^\w@.-]+`)

// toSlash rewrites backslash separators to forward slashes on every
// platform. filepath.ToSlash only rewrites os.PathSeparator, so on Linux
// it would let backslashes through to the provider.
func toSlash(s string) string {
	return strings.ReplaceAll(s, `\`, "/")
}

// SanitizeFileName normalizes a user-supplied filename into a safe object
// name, preserving the extension. The mapping is deterministic; collision
// avoidance is the backend's job (useUniqueFileName).
func SanitizeFileName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = unsafeChars.ReplaceAllString(base, "-")
	ext = unsafeChars.ReplaceAllString(ext, "-")

	return base + ext
}

// resolveFolder picks the destination folder for a save:
// an explicit targetDir wins, then a dated subfolder of base when enabled,
// then base unchanged. Separators are normalized to forward slashes.
func resolveFolder(targetDir, base string, dated bool, now time.Time) string {
	if targetDir != "" {
		return toSlash(targetDir)
	}
	if dated {
		return path.Join(toSlash(base), datedSegment(now))
	}
	return toSlash(base)
}

// datedSegment buckets uploads by year/month. The granularity is a fixed
// contract: the same day always maps to the same segment.
func datedSegment(now time.Time) string {
	return fmt.Sprintf("%04d/%02d", now.Year(), int(now.Month()))
}

// resolveURL joins a relative object path onto the endpoint, stripping any
// leading separator from the path first.
func resolveURL(endpoint, rel string) string {
	rel = strings.TrimPrefix(toSlash(rel), "/")
	return strings.TrimRight(endpoint, "/") + "/" + rel
}

// cacheBust appends an updatedAt query parameter so clients refetch a file
// that was overwritten at the same name.
func cacheBust(rawURL string, now time.Time) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("updatedAt", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
