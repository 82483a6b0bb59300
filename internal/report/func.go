package report

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 200

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Sanitize turns a suite name into a file name part: accents are folded, every run of other
// characters becomes "-", and the result is capped at 200 bytes.
// "Café checkout (uid:7)" becomes "Cafe-checkout-uid-7".
func Sanitize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	s := strings.Trim(nonAlnum.ReplaceAllString(folded, "-"), "-")
	if len(s) > maxNameLength {
		s = strings.TrimRight(s[:maxNameLength], "-")
	}

	return s
}

// mkdir checks if the provided path exists and creates it if it does not.
func mkdir(pth string) error {
	if _, err := os.Stat(pth); os.IsNotExist(err) {
		if err = os.MkdirAll(pth, os.ModePerm); err != nil {
			return fmt.Errorf("os.MkdirAll: %w", err)
		}
	}

	return nil
}
