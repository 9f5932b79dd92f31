// Command admintoken mints a bearer token for the admin contact endpoints.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"portfolio-backend/pkg/auth"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.IssueAdminToken(secret, *subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fmt.Printf("Subject: %s\nExpires: %s\nToken: %s\n", *subject, time.Now().Add(*ttl).UTC().Format(time.RFC3339), token)
}
