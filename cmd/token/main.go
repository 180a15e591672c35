// Command token mints a bearer token for a dispatcher or operator.
//
//	go run ./cmd/token dispatcher dialler-1
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-call-verify/internal/config"
	"github.com/go-call-verify/internal/domain"
	jwtinfra "github.com/go-call-verify/internal/infrastructure/jwt"
	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <%s|%s> <subject>", os.Args[0], domain.RoleDispatcher, domain.RoleOperator)
	}
	role, subject := os.Args[1], os.Args[2]
	if role != domain.RoleDispatcher && role != domain.RoleOperator {
		log.Fatalf("unknown role %q", role)
	}
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()
	if cfg.JWTPrivateKeyPath == "" {
		log.Fatal("JWT_PRIVATE_KEY_PATH is required to mint tokens")
	}

	p, err := jwtinfra.NewProvider(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTExpiry)
	if err != nil {
		log.Fatal(err)
	}
	tok, err := p.Sign(subject, role)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok)
}
