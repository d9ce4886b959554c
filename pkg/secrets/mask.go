package secrets

import (
	"strings"
	"unicode/utf8"

	masker "github.com/goliatone/go-masker"
	log "github.com/sirupsen/logrus"
)

const maskType = "preserveEnds(2,2)"

// MaskValue hides all but the first and last two characters of value, for
// printing secret material in logs and terminals. Values of three characters
// or less are masked entirely.
func MaskValue(value string) string {
	masked, err := masker.Default.String(maskType, value)
	if err != nil {
		log.WithError(err).Debug("masking failed, hiding whole value")
		return strings.Repeat("*", utf8.RuneCountInString(value))
	}
	return masked
}
