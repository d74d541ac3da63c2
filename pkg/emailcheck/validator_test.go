package emailcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "john.doe@example.com", Normalize(" John.Doe@EXAMPLE.com "))
	assert.Equal(t, "a@b.co", Normalize("A@B.CO"))
	assert.Equal(t, "", Normalize("   "))
}

func TestValidate_Shape(t *testing.T) {
	t.Run("EmptyAddress", func(t *testing.T) {
		res := Validate("")
		assert.False(t, res.Accepted)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "empty")
	})

	t.Run("NotAnEmail", func(t *testing.T) {
		res := Validate("not-an-email")
		assert.False(t, res.Accepted)
		assert.GreaterOrEqual(t, len(res.Errors), 1)
	})

	t.Run("TooShort", func(t *testing.T) {
		res := Validate("a@b")
		assert.False(t, res.Accepted)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "length")
	})

	t.Run("TooLong", func(t *testing.T) {
		res := Validate(strings.Repeat("a", 320) + "@example.com")
		assert.False(t, res.Accepted)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "length")
	})

	t.Run("NormalizedBeforeScoring", func(t *testing.T) {
		// Whitespace and case must not affect the outcome.
		assert.Equal(t, Validate("john.doe@example.com"), Validate(" John.Doe@EXAMPLE.com "))
	})
}

func TestValidate_LocalPartRules(t *testing.T) {
	t.Run("LeadingDot", func(t *testing.T) {
		res := Validate(".john@example.com")
		assert.False(t, res.Accepted)
		assert.Contains(t, res.Errors[0], "dot")
	})

	t.Run("ConsecutiveDots", func(t *testing.T) {
		res := Validate("john..doe@example.com")
		assert.False(t, res.Accepted)
		assert.NotEmpty(t, res.Errors)
	})

	t.Run("TooLongLocalPart", func(t *testing.T) {
		res := Validate(strings.Repeat("a", 65) + "@example.com")
		assert.False(t, res.Accepted)
		assert.NotEmpty(t, res.Errors)
	})

	t.Run("AllNumericIsWarningOnly", func(t *testing.T) {
		res := Validate("12345@gmail.com")
		assert.Empty(t, res.Errors)
		assert.NotEmpty(t, res.Warnings)
		// Low score keeps it below the accept threshold.
		assert.False(t, res.Accepted)
	})

	t.Run("RepeatedSymbolRun", func(t *testing.T) {
		res := Validate("a+++b@gmail.com")
		assert.Empty(t, res.Errors)
		assert.Contains(t, res.Warnings[0], "repeated symbols")
	})
}

func TestValidate_DomainRules(t *testing.T) {
	t.Run("HyphenAtLabelEdge", func(t *testing.T) {
		res := Validate("john@-example.com")
		assert.False(t, res.Accepted)
		assert.NotEmpty(t, res.Errors)
	})

	t.Run("UnknownTLDIsWarningOnly", func(t *testing.T) {
		res := Validate("john.doe@example.invalidtld")
		assert.Empty(t, res.Errors)
		found := false
		for _, w := range res.Warnings {
			if strings.Contains(w, "top-level domain") {
				found = true
			}
		}
		assert.True(t, found, "expected an unknown TLD warning, got %v", res.Warnings)
	})

	t.Run("ConsecutiveHyphensIsWarningOnly", func(t *testing.T) {
		res := Validate("john.doe@ex--ample.com")
		assert.Empty(t, res.Errors)
		assert.NotEmpty(t, res.Warnings)
	})
}

func TestValidate_Reputation(t *testing.T) {
	t.Run("DisposableDomainsAlwaysRejected", func(t *testing.T) {
		// Local-part quality cannot salvage a disposable domain.
		for _, addr := range []string{
			"admin@mailinator.com",
			"john.doe@mailinator.com",
			"real.person42@yopmail.com",
			"someone@10minutemail.com",
		} {
			res := Validate(addr)
			assert.False(t, res.Accepted, "expected %s to be rejected", addr)
			require.NotEmpty(t, res.Errors, addr)
			assert.Contains(t, res.Errors[0], "disposable")
		}
	})

	t.Run("TrustedProviderAccepted", func(t *testing.T) {
		for _, addr := range []string{
			"new.user@gmail.com",
			"jane_doe@outlook.com",
			"john.smith99@yahoo.com",
		} {
			res := Validate(addr)
			assert.True(t, res.Accepted, "expected %s to be accepted (score %d, errors %v)", addr, res.Score, res.Errors)
			assert.GreaterOrEqual(t, res.Score, AcceptThreshold)
		}
	})

	t.Run("TestAddressPenalized", func(t *testing.T) {
		res := Validate("my.test.account@gmail.com")
		assert.Contains(t, res.Warnings[0], "test address")
	})

	t.Run("RoleAccountWarned", func(t *testing.T) {
		res := Validate("support@yahoo.com")
		assert.NotEmpty(t, res.Warnings)
		// A single soft warning does not reject on a trusted provider.
		assert.True(t, res.Accepted)
	})
}

func TestValidate_Scoring(t *testing.T) {
	t.Run("FullQualityAddress", func(t *testing.T) {
		res := Validate("new.user@gmail.com")
		// shape 20 + identifier 10 + trusted 25 + length 10 + mixed 10 + labels 5
		assert.Equal(t, 80, res.Score)
		assert.True(t, res.Accepted)
	})

	t.Run("ShortTrustedLocalAccepted", func(t *testing.T) {
		// Two characters misses the quality length band but a clean local
		// on a trusted provider still clears the threshold.
		res := Validate("ab@gmail.com")
		require.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
		assert.Equal(t, 60, res.Score)
		assert.True(t, res.Accepted)
	})

	t.Run("LongTrustedLocalAccepted", func(t *testing.T) {
		res := Validate("abcdefghijklmnopqrstu@gmail.com")
		require.Empty(t, res.Errors)
		assert.True(t, res.Accepted, "score %d", res.Score)
	})

	t.Run("ShortUntrustedLocalRejected", func(t *testing.T) {
		res := Validate("ab@example.com")
		assert.Empty(t, res.Errors)
		assert.False(t, res.Accepted)
	})

	t.Run("UntrustedDomainFallsShort", func(t *testing.T) {
		res := Validate("john.doe@example.com")
		assert.Empty(t, res.Errors)
		assert.Less(t, res.Score, AcceptThreshold)
		assert.False(t, res.Accepted)
	})

	t.Run("ScoreClampedToZero", func(t *testing.T) {
		res := Validate("x---x@zzz.invalidtld")
		assert.GreaterOrEqual(t, res.Score, 0)
		assert.LessOrEqual(t, res.Score, 100)
	})
}

func TestValidate_TypoSuggestion(t *testing.T) {
	t.Run("CommonMisspelling", func(t *testing.T) {
		res := Validate("john.doe@gamil.com")
		assert.Equal(t, "john.doe@gmail.com", res.Suggestion)
	})

	t.Run("NoSuggestionForCanonicalDomain", func(t *testing.T) {
		res := Validate("john.doe@gmail.com")
		assert.Empty(t, res.Suggestion)
	})
}

func TestQuickCheck(t *testing.T) {
	t.Run("ValidAddress", func(t *testing.T) {
		ok, reason := QuickCheck("new.user@gmail.com")
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("BadShape", func(t *testing.T) {
		ok, reason := QuickCheck("not-an-email")
		assert.False(t, ok)
		assert.NotEmpty(t, reason)
	})

	t.Run("DisposableDomain", func(t *testing.T) {
		ok, reason := QuickCheck("someone@mailinator.com")
		assert.False(t, ok)
		assert.Contains(t, reason, "disposable")
	})

	t.Run("NoScoringApplied", func(t *testing.T) {
		// QuickCheck passes addresses the full pipeline would reject on score.
		ok, _ := QuickCheck("12345@example.com")
		assert.True(t, ok)
		assert.False(t, Validate("12345@example.com").Accepted)
	})
}
