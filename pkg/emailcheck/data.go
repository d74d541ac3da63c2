package emailcheck

// Curated data tables. Loaded once at init, never mutated.

// disposableDomains are providers known to hand out throwaway inboxes.
// Membership is a hard rejection regardless of local-part quality.
var disposableDomains = map[string]bool{
	"10minutemail.com":   true,
	"dispostable.com":    true,
	"fakeinbox.com":      true,
	"getnada.com":        true,
	"guerrillamail.com":  true,
	"guerrillamail.net":  true,
	"maildrop.cc":        true,
	"mailinator.com":     true,
	"mintemail.com":      true,
	"sharklasers.com":    true,
	"spamgourmet.com":    true,
	"temp-mail.org":      true,
	"tempmail.com":       true,
	"throwawaymail.com":  true,
	"trashmail.com":      true,
	"yopmail.com":        true,
}

// trustedProviders are established mailbox providers that earn a score bonus.
var trustedProviders = map[string]bool{
	"aol.com":        true,
	"fastmail.com":   true,
	"gmail.com":      true,
	"gmx.com":        true,
	"googlemail.com": true,
	"hotmail.com":    true,
	"icloud.com":     true,
	"live.com":       true,
	"mail.com":       true,
	"me.com":         true,
	"msn.com":        true,
	"outlook.com":    true,
	"proton.me":      true,
	"protonmail.com": true,
	"yahoo.com":      true,
	"yandex.com":     true,
	"zoho.com":       true,
}

// knownTLDs is the accept-set of top-level domains. An address with a TLD
// outside this set is only soft-flagged, not rejected.
var knownTLDs = map[string]bool{
	"ai": true, "app": true, "ar": true, "at": true, "au": true,
	"be": true, "biz": true, "br": true, "ca": true, "ch": true,
	"cn": true, "co": true, "com": true, "cz": true, "de": true,
	"dev": true, "dk": true, "edu": true, "es": true, "eu": true,
	"fi": true, "fr": true, "gov": true, "gr": true, "ie": true,
	"in": true, "info": true, "io": true, "it": true, "jp": true,
	"kr": true, "me": true, "mil": true, "mx": true, "net": true,
	"nl": true, "no": true, "nz": true, "online": true, "org": true,
	"pl": true, "pt": true, "ru": true, "se": true, "site": true,
	"store": true, "tech": true, "uk": true, "us": true, "xyz": true,
	"za": true,
}

// domainTypos maps common provider misspellings to their canonical domain.
// A hit yields a Result.Suggestion of the form "local@canonical".
var domainTypos = map[string]string{
	"gamil.com":     "gmail.com",
	"gmai.com":      "gmail.com",
	"gmaill.com":    "gmail.com",
	"gmial.com":     "gmail.com",
	"gnail.com":     "gmail.com",
	"hotmai.com":    "hotmail.com",
	"hotmal.com":    "hotmail.com",
	"hotmial.com":   "hotmail.com",
	"icloud.co":     "icloud.com",
	"iclod.com":     "icloud.com",
	"outlok.com":    "outlook.com",
	"outloook.com":  "outlook.com",
	"protonmai.com": "protonmail.com",
	"yaho.com":      "yahoo.com",
	"yahooo.com":    "yahoo.com",
	"yhoo.com":      "yahoo.com",
}

// roleAccountKeywords flag shared or automated mailboxes.
var roleAccountKeywords = []string{"admin", "support", "info", "noreply", "sales", "marketing"}
