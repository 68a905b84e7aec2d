package convert

import (
	"regexp"
	"strings"
)

const zipFallback = "converted_images.zip"

var filenamePattern = regexp.MustCompile(`(?i)filename="?([^";]+)"?`)

// filenameFor picks the download name: the Content-Disposition filename when
// the header carries one, else a zip name when the payload is an archive,
// else converted.<format>.
func filenameFor(disposition, contentType, format string) string {
	if m := filenamePattern.FindStringSubmatch(disposition); m != nil {
		return m[1]
	}
	if strings.Contains(strings.ToLower(contentType), "zip") {
		return zipFallback
	}
	return "converted." + format
}
