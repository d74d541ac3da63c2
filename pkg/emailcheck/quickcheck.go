package emailcheck

import (
	"fmt"
	"strings"
)

// QuickCheck is the cheap variant used for live-typing feedback: shape regex
// plus disposable-domain lookup, no scoring. It must never be used for the
// final accept decision; use Validate for that.
func QuickCheck(raw string) (bool, string) {
	addr := Normalize(raw)

	if addr == "" {
		return false, "address is empty"
	}
	if !addressShapeRegex.MatchString(addr) {
		return false, "address is not a valid email format"
	}

	at := strings.LastIndex(addr, "@")
	domain := addr[at+1:]
	if disposableDomains[domain] {
		return false, fmt.Sprintf("disposable email domain not allowed: %s", domain)
	}

	return true, ""
}
