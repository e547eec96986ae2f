package validators

import "regexp"

// MaxRefLength matches the width of the *_ref columns.
const MaxRefLength = 64

var refPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:@-]*$`)

// IsValidRef accepts opaque patient and provider identifiers issued by the
// identity service.
func IsValidRef(ref string) bool {
	return len(ref) > 0 && len(ref) <= MaxRefLength && refPattern.MatchString(ref)
}
