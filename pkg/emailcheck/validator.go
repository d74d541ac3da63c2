package emailcheck

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minAddressLength = 5
	maxAddressLength = 320
	maxLocalLength   = 64
	maxDomainLength  = 253
	minTLDLength     = 2
	maxTLDLength     = 63

	// AcceptThreshold is the minimum score an address must reach to be
	// accepted when it has no hard errors.
	AcceptThreshold = 60
)

var (
	// Permissive RFC-5322-style shape check, applied after normalization.
	addressShapeRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

	// Letter-led, alphanumeric plus ._- in the middle, alphanumeric ending.
	identifierRegex = regexp.MustCompile(`^[a-z][a-z0-9._-]*[a-z0-9]$`)

	allNumericRegex  = regexp.MustCompile(`^[0-9]+$`)
	symbolRunRegex   = regexp.MustCompile(`\+\+|--|__`)
	domainCharsRegex = regexp.MustCompile(`^[a-z0-9.\-]+$`)
)

// Result is the outcome of validating a single candidate address.
type Result struct {
	Accepted   bool     `json:"accepted"`
	Normalized string   `json:"normalized"`
	Score      int      `json:"score"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// address carries the decomposed parts between pipeline phases.
type address struct {
	full   string
	local  string
	domain string
	tld    string
}

// finding is the partial result contributed by a single phase.
type finding struct {
	errors   []string
	warnings []string
	score    int
	halt     bool
}

type phase func(a *address) finding

// Normalize trims surrounding whitespace and lowercases an address.
// The verification service uses the same normalization, so address
// comparisons at token-consumption time are case-insensitive.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate runs the full validation pipeline over a candidate address.
// It is pure: no I/O, no clock, same input always yields the same Result.
func Validate(raw string) Result {
	a := &address{full: Normalize(raw)}
	res := Result{Normalized: a.full}

	phases := []phase{
		checkShape,
		decompose,
		checkLocalPart,
		checkDomain,
		checkReputation,
		scoreQuality,
	}

	for _, p := range phases {
		f := p(a)
		res.Errors = append(res.Errors, f.errors...)
		res.Warnings = append(res.Warnings, f.warnings...)
		res.Score += f.score
		if f.halt {
			break
		}
	}

	if res.Score < 0 {
		res.Score = 0
	}
	if res.Score > 100 {
		res.Score = 100
	}

	res.Accepted = len(res.Errors) == 0 && res.Score >= AcceptThreshold

	if canonical, ok := domainTypos[a.domain]; ok && a.local != "" {
		res.Suggestion = a.local + "@" + canonical
	}

	return res
}

// checkShape rejects addresses that cannot possibly be an email before any
// structural work happens. A failure here short-circuits the pipeline.
func checkShape(a *address) finding {
	if a.full == "" {
		return finding{errors: []string{"address is empty"}, halt: true}
	}
	if len(a.full) < minAddressLength || len(a.full) > maxAddressLength {
		return finding{
			errors: []string{fmt.Sprintf("address length must be between %d and %d characters", minAddressLength, maxAddressLength)},
			halt:   true,
		}
	}
	if !addressShapeRegex.MatchString(a.full) {
		return finding{errors: []string{"address is not a valid email format"}, halt: true}
	}
	return finding{score: 20}
}

// decompose splits the address into local part, domain and TLD
// (rightmost-dot split of the domain).
func decompose(a *address) finding {
	at := strings.LastIndex(a.full, "@")
	if at < 0 {
		return finding{errors: []string{"address is missing the @ separator"}, halt: true}
	}
	a.local = a.full[:at]
	a.domain = a.full[at+1:]

	dot := strings.LastIndex(a.domain, ".")
	if dot < 0 {
		return finding{errors: []string{"domain is missing a top-level domain"}, halt: true}
	}
	a.tld = a.domain[dot+1:]
	return finding{}
}

func checkLocalPart(a *address) finding {
	var f finding

	if a.local == "" {
		f.errors = append(f.errors, "local part is empty")
		return f
	}
	if len(a.local) > maxLocalLength {
		f.errors = append(f.errors, fmt.Sprintf("local part exceeds %d characters", maxLocalLength))
	}
	if strings.HasPrefix(a.local, ".") || strings.HasSuffix(a.local, ".") {
		f.errors = append(f.errors, "local part cannot start or end with a dot")
	}
	if strings.Contains(a.local, "..") {
		f.errors = append(f.errors, "local part cannot contain consecutive dots")
	}

	if allNumericRegex.MatchString(a.local) {
		f.warnings = append(f.warnings, "local part is all numeric")
		f.score -= 10
	}
	if symbolRunRegex.MatchString(a.local) {
		f.warnings = append(f.warnings, "local part contains repeated symbols")
		f.score -= 10
	}
	if identifierRegex.MatchString(a.local) {
		f.score += 10
	}

	return f
}

func checkDomain(a *address) finding {
	var f finding

	if a.domain == "" {
		f.errors = append(f.errors, "domain is empty")
		return f
	}
	if len(a.domain) > maxDomainLength {
		f.errors = append(f.errors, fmt.Sprintf("domain exceeds %d characters", maxDomainLength))
	}
	if !domainCharsRegex.MatchString(a.domain) {
		f.errors = append(f.errors, "domain contains invalid characters")
	}

	for _, label := range strings.Split(a.domain, ".") {
		if label == "" {
			f.errors = append(f.errors, "domain contains an empty label")
			break
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			f.errors = append(f.errors, "domain label cannot start or end with a hyphen")
			break
		}
	}

	if len(a.tld) < minTLDLength || len(a.tld) > maxTLDLength {
		f.errors = append(f.errors, fmt.Sprintf("top-level domain length must be between %d and %d characters", minTLDLength, maxTLDLength))
	} else if !knownTLDs[a.tld] {
		f.warnings = append(f.warnings, fmt.Sprintf("unrecognized top-level domain: %s", a.tld))
		f.score -= 5
	}

	if strings.Contains(a.domain, "--") {
		f.warnings = append(f.warnings, "domain contains consecutive hyphens")
		f.score -= 5
	}

	return f
}

// checkReputation applies the curated provider lists and suspicious-keyword
// checks. A disposable domain is rejected outright with no score salvage.
func checkReputation(a *address) finding {
	var f finding

	if disposableDomains[a.domain] {
		f.errors = append(f.errors, fmt.Sprintf("disposable email domain not allowed: %s", a.domain))
		f.halt = true
		return f
	}
	// The bonus is sized so that a warning-free identifier-shaped local on
	// a trusted provider clears the threshold even when the local falls
	// outside the quality length band.
	if trustedProviders[a.domain] {
		f.score += 25
	}

	if strings.Contains(a.local, "test") || strings.Contains(a.local, "fake") {
		f.warnings = append(f.warnings, "local part looks like a test address")
		f.score -= 15
	}
	for _, keyword := range roleAccountKeywords {
		if strings.Contains(a.local, keyword) {
			f.warnings = append(f.warnings, fmt.Sprintf("local part looks like a role account: %s", keyword))
			f.score -= 5
			break
		}
	}

	return f
}

// scoreQuality rewards address shapes typical of real personal mailboxes.
func scoreQuality(a *address) finding {
	var f finding

	if len(a.local) >= 3 && len(a.local) <= 20 {
		f.score += 10
	}

	hasLetter := strings.ContainsAny(a.local, "abcdefghijklmnopqrstuvwxyz")
	hasDigit := strings.ContainsAny(a.local, "0123456789")
	hasSpecial := strings.ContainsAny(a.local, "._%+-")
	if hasLetter && (hasDigit || hasSpecial) {
		f.score += 10
	}

	labels := strings.Count(a.domain, ".") + 1
	if labels >= 2 && labels <= 3 {
		f.score += 5
	}

	return f
}
