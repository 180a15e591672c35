// Command seed loads caller accounts from a YAML file into the accounts table.
//
//	go run ./cmd/seed accounts.yaml
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-call-verify/internal/config"
	"github.com/go-call-verify/internal/domain"
	"github.com/go-call-verify/internal/infrastructure/awsinfra"
	"github.com/go-call-verify/internal/infrastructure/dynamo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type seedAccount struct {
	Reference    string `yaml:"reference"`
	AccountID    string `yaml:"account_id"`
	FullName     string `yaml:"full_name"`
	DateOfBirth  string `yaml:"date_of_birth"`
	Address      string `yaml:"address"`
	BalanceMinor int64  `yaml:"balance_minor"`
	Currency     string `yaml:"currency"`
	Creditor     string `yaml:"creditor"`
	Phone        string `yaml:"phone"`
}

type seedFile struct {
	Accounts []seedAccount `yaml:"accounts"`
}

func parseSeed(data []byte) ([]domain.CallerRecord, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	out := make([]domain.CallerRecord, 0, len(f.Accounts))
	for i, a := range f.Accounts {
		if a.Reference == "" || a.FullName == "" || a.DateOfBirth == "" {
			return nil, fmt.Errorf("account %d: reference, full_name and date_of_birth are required", i)
		}
		currency := a.Currency
		if currency == "" {
			currency = "EUR"
		}
		out = append(out, domain.CallerRecord{
			ReferenceNumber: domain.CanonicalReference(a.Reference),
			AccountID:       a.AccountID,
			FullName:        a.FullName,
			DateOfBirth:     a.DateOfBirth,
			Address:         a.Address,
			BalanceMinor:    a.BalanceMinor,
			Currency:        currency,
			CreditorName:    a.Creditor,
			PhoneNumber:     a.Phone,
		})
	}
	return out, nil
}

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <accounts.yaml>", os.Args[0])
	}
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}
	records, err := parseSeed(data)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	awsCfg, err := awsinfra.Load(ctx, cfg, "")
	if err != nil {
		log.Fatal(err)
	}
	client := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	if cfg.DynamoBootstrap {
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
	}
	repo := dynamo.NewAccountRepo(client, cfg.DynamoTables.Accounts)
	for i := range records {
		if err := repo.Put(ctx, &records[i]); err != nil {
			log.Fatalf("put %s: %v", records[i].ReferenceNumber, err)
		}
	}
	log.Printf("seeded %d accounts into %s", len(records), cfg.DynamoTables.Accounts)
}
