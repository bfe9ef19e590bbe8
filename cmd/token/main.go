// Command token mints a bearer token for a search client using the
// server's AUTH_JWT_SECRET.
//
//	go run ./cmd/token -sub reader-app -ttl 720h
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/5w1tchy/books-search/internal/config"
	jwtutil "github.com/5w1tchy/books-search/internal/security/jwt"
	"github.com/joho/godotenv"
)

func main() {
	sub := flag.String("sub", "", "client name to put in the subject claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *sub == "" {
		log.Fatal("-sub is required")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	v, err := jwtutil.NewVerifier(jwtutil.Config{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}
	tok, jti, err := v.Sign(*sub, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	log.Printf("jti=%s expires=%s", jti, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(tok)
}
