package span

import (
	"strings"
)

// invalidFilenameChars are replaced with underscores when a bookmark
// name becomes a filename. The set covers the Windows-reserved
// characters plus both path separators.
const invalidFilenameChars = `<>:"/\|?*`

// maxFilenameLength caps the sanitized name before the extension is
// appended, staying well under common 255-byte filesystem limits.
const maxFilenameLength = 200

// Filename converts a bookmark name into the output filename for its
// document.
// Rules:
// - characters in <>:"/\|?* become underscores
// - leading and trailing spaces and dots are stripped
// - the result is truncated to 200 characters
// - ".pdf" is appended
// A name with nothing left after sanitizing becomes "untitled.pdf".
// Two names may sanitize to the same filename; the splitter lets the
// later document overwrite the earlier one.
func Filename(name string) string {
	var result strings.Builder

	for _, r := range name {
		if strings.ContainsRune(invalidFilenameChars, r) {
			result.WriteRune('_')
		} else {
			result.WriteRune(r)
		}
	}

	sanitized := strings.Trim(result.String(), " .")

	if runes := []rune(sanitized); len(runes) > maxFilenameLength {
		sanitized = string(runes[:maxFilenameLength])
	}

	if sanitized == "" {
		sanitized = "untitled"
	}

	return sanitized + ".pdf"
}
