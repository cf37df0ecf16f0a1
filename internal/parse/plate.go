package parse

import (
	"regexp"
	"strings"
)

var nonPlateChars = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizePlate uppercases a license plate, strips everything that is not a
// letter or digit, and inserts the conventional dash into seven-character
// plates ("ABC1234" -> "ABC-1234"). Other lengths pass through cleaned, so
// trailer plates and foreign formats are not rejected here.
func NormalizePlate(raw string) string {
	cleaned := nonPlateChars.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")
	if len(cleaned) == 7 {
		return cleaned[:3] + "-" + cleaned[3:]
	}
	return cleaned
}
