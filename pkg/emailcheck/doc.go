// Package emailcheck scores and accepts/rejects candidate email addresses
// before any verification token is issued.
//
// Validation runs as a pipeline of phases (shape, structure, local-part rules,
// domain rules, reputation, quality scoring). Hard failures collect into
// Result.Errors, soft findings into Result.Warnings with score penalties.
// An address is accepted only when it has no errors AND its score reaches
// the accept threshold, so a syntactically valid but throwaway-looking
// address can still be rejected.
//
// # Basic Usage
//
//	result := emailcheck.Validate("John.Doe@EXAMPLE.com ")
//	if !result.Accepted {
//		// result.Errors holds hard failures, result.Warnings soft ones
//	}
//	if result.Suggestion != "" {
//		// likely typo, e.g. "john.doe@gmail.com" for "john.doe@gamil.com"
//	}
//
// For live-typing feedback use QuickCheck, which only runs the shape regex
// and the disposable-domain lookup. QuickCheck is never the final gate.
//
// Validate is pure and deterministic: no DNS, no network, no clock.
package emailcheck
