package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tendant/simple-verify/pkg/verifytoken"
)

func main() {
	secret := flag.String("secret", "", "Secret key for signing the token")
	issuer := flag.String("issuer", "simple-verify", "Issuer of the token")
	audience := flag.String("audience", "simple-verify-app", "Audience of the token")
	subjectID := flag.Int64("subject", 1, "Subject id the token is issued for")
	email := flag.String("email", "", "Email address the token verifies")
	expiry := flag.Duration("expiry", verifytoken.DefaultTokenExpiry, "Token expiry duration (e.g., 30m, 1h, 24h)")
	open := flag.String("open", "", "Instead of issuing, verify and dump the given token")
	outputFormat := flag.String("format", "compact", "Output format: compact, full, or debug")
	flag.Parse()

	codec, err := verifytoken.New(*secret, *issuer, *audience, verifytoken.WithTokenExpiry(*expiry))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *open != "" {
		info, err := codec.Open(*open)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: token rejected: %v\n", err)
			os.Exit(1)
		}
		infoJSON, _ := json.MarshalIndent(info, "", "  ")
		fmt.Printf("%s\n", infoJSON)
		return
	}

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Error: -email is required when issuing a token")
		os.Exit(1)
	}

	tokenStr, expiresAt, err := codec.Issue(*subjectID, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to issue token: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "compact":
		fmt.Println(tokenStr)
	case "full":
		fmt.Printf("Token: %s\nExpires: %s\n", tokenStr, expiresAt.Format(time.RFC3339))
	case "debug":
		// Decode without re-verifying to display header and claims
		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to parse issued token: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("=== Token Information ===\n")
		fmt.Printf("Token: %s\n\n", tokenStr)
		fmt.Printf("=== Token Header ===\n")
		headerJSON, _ := json.MarshalIndent(token.Header, "", "  ")
		fmt.Printf("%s\n\n", headerJSON)
		fmt.Printf("=== Token Claims ===\n")
		claimsJSON, _ := json.MarshalIndent(token.Claims, "", "  ")
		fmt.Printf("%s\n\n", claimsJSON)
		fmt.Printf("Expires: %s\n", expiresAt.Format(time.RFC3339))
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}
