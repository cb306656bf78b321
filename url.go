package webextract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxFilenameLength bounds sanitized article names, in bytes.
const MaxFilenameLength = 200

// ResolveURL resolves ref against base.
// Absolute and fragment-only references are returned unchanged, as is every
// reference when base is empty.
func ResolveURL(base, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	r, err := url.Parse(ref)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q", ref)
	}
	if r.IsAbs() || base == "" || strings.HasPrefix(ref, "#") {
		return ref, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", Errorf(EINVALID, "invalid base URL %q", base)
	}
	return b.ResolveReference(r).String(), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFilename makes an article title usable as a file and directory
// name. Characters reserved on common filesystems become underscores and the
// result is truncated to MaxFilenameLength bytes on a rune boundary.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
		for !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
	}
	name = strings.TrimSpace(name)
	// Trailing dots are stripped by Windows and would split dir from file.
	name = strings.TrimRight(name, ".")
	return name
}
