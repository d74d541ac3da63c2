// Package verification orchestrates the email verification flow for
// simple-verify.
//
// The service ties together address validation (pkg/emailcheck), signed
// token issuance (pkg/verifytoken), single-use token bookkeeping
// (pkg/registry) and mail delivery (pkg/notification).
//
// # Overview
//
// The verification package provides:
//   - Verification request handling with address validation and scoring
//   - Signed, single-use, expiring verification tokens
//   - Token confirmation with coarse failure categories
//   - Resend with supersession of the previous token
//   - Verification status checking
//   - Per-subject rate limiting of verification emails
//
// # Basic Usage
//
//	import "github.com/tendant/simple-verify/pkg/verification"
//
//	codec, err := verifytoken.New(secret, issuer, audience)
//	if err != nil {
//		log.Fatal(err)
//	}
//	reg := registry.NewInMemTokenRegistry()
//	service := verification.NewService(
//		codec,
//		reg,
//		accountRepo,
//		mailer,
//		"https://app.example.com",
//		verification.WithSendTimeout(10*time.Second),
//	)
//
//	// Request a verification email
//	result := service.RequestVerification(ctx, subjectID, "new.user@gmail.com")
//	if !result.Sent {
//		// Address rejected or delivery failed; result.Reason says why.
//	}
//
//	// User clicks the emailed link, frontend posts the token back
//	confirm := service.Confirm(ctx, token)
//	if !confirm.OK {
//		// confirm.Category is "expired", "invalid" or "already-used".
//	}
//
// # Token Lifecycle
//
// Each (subject, address) pair moves Unverified -> TokenIssued -> Verified.
// Requesting again while a token is outstanding supersedes it: the old link
// stops working and the new one carries a fresh expiry. Tokens are consumed
// exactly once; a second confirmation of the same token reports
// "already-used" whether it was consumed, superseded, or lost to a process
// restart.
//
// # Failure Categories
//
// Confirm never explains why a token failed signature or claim checks.
// Forged, malformed and wrong-purpose tokens all report "invalid"; only
// expiry is distinguished, since the remedy (request a new email) differs.
package verification
